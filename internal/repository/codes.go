package repository

import (
    "errors"
    "fmt"
    "unicode"

    "github.com/go-sql-driver/mysql"
)

// Folio formats.  The sequence number is still derived from COUNT(*)+1 read
// inside the creating transaction, exactly like the legacy service, but the
// codigo columns carry a UNIQUE index and creation retries with a fresh
// count when two writers collide.  Codes therefore stay bit-compatible with
// the legacy scheme while the duplicate-folio race is closed.

// externalCode formats the folio for the n-th external ticket: INT-0001 for
// the first row in an empty table.
func externalCode(n int64) string {
    return fmt.Sprintf("INT-%04d", n)
}

// internalCode formats the folio for the n-th internal ticket of a company
// in a given year, e.g. 2024-TRAN-I-00001 for "Transportes".
func internalCode(year int, empresa string, n int64) string {
    return fmt.Sprintf("%d-%s-I-%05d", year, companyPrefix(empresa), n)
}

// extraReportCode formats the folio for the n-th extra report.  The legacy
// data never fixed a format for this sequence; RPE (reporte extra) keeps it
// visually distinct from both ticket sequences.
func extraReportCode(n int64) string {
    return fmt.Sprintf("RPE-%05d", n)
}

// companyPrefix derives the 4-letter uppercase prefix used in internal
// folios from a company name.  Only letters count; names shorter than four
// letters are padded with X so the folio shape stays fixed.
func companyPrefix(empresa string) string {
    letters := make([]rune, 0, 4)
    for _, r := range empresa {
        if unicode.IsLetter(r) {
            letters = append(letters, unicode.ToUpper(r))
            if len(letters) == 4 {
                break
            }
        }
    }
    for len(letters) < 4 {
        letters = append(letters, 'X')
    }
    return string(letters)
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), which is how a folio collision on the unique codigo index
// surfaces.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

// codeRetries bounds the insert-retry loop on folio collisions.
const codeRetries = 3
