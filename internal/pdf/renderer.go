// Package pdf renders tabular exports as downloadable PDF documents.
package pdf

import (
    "bytes"
    "fmt"
    "time"

    "github.com/jung-kurt/gofpdf"
)

// Render produces a landscape A4 document with a title line, a header row
// and one row per record.  Column widths are distributed evenly across the
// printable width.  Accented Spanish text is translated to the core-font
// codepage by gofpdf's unicode translator.
func Render(title string, headers []string, rows [][]string) ([]byte, error) {
    if len(headers) == 0 {
        return nil, fmt.Errorf("pdf: no columns to render")
    }

    doc := gofpdf.New("L", "mm", "A4", "")
    tr := doc.UnicodeTranslatorFromDescriptor("")
    doc.SetAutoPageBreak(true, 12)
    doc.AddPage()

    doc.SetFont("Helvetica", "B", 14)
    doc.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
    doc.SetFont("Helvetica", "", 8)
    doc.CellFormat(0, 5, tr(fmt.Sprintf("Generado: %s", time.Now().Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
    doc.Ln(3)

    pageW, _ := doc.GetPageSize()
    left, _, right, _ := doc.GetMargins()
    colW := (pageW - left - right) / float64(len(headers))

    // Header row
    doc.SetFont("Helvetica", "B", 9)
    doc.SetFillColor(230, 230, 230)
    for _, h := range headers {
        doc.CellFormat(colW, 7, tr(h), "1", 0, "C", true, 0, "")
    }
    doc.Ln(-1)

    doc.SetFont("Helvetica", "", 8)
    for _, row := range rows {
        for i := 0; i < len(headers); i++ {
            cell := ""
            if i < len(row) {
                cell = row[i]
            }
            doc.CellFormat(colW, 6, tr(clip(cell, 48)), "1", 0, "L", false, 0, "")
        }
        doc.Ln(-1)
    }

    var buf bytes.Buffer
    if err := doc.Output(&buf); err != nil {
        return nil, err
    }
    return buf.Bytes(), nil
}

// clip truncates long cell values so a single field cannot wreck the row
// layout.
func clip(s string, max int) string {
    r := []rune(s)
    if len(r) <= max {
        return s
    }
    return string(r[:max-1]) + "…"
}
