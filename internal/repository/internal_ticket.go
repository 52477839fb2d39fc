package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// ErrEmpresaNotFound is returned when the referenced company does not exist.
var ErrEmpresaNotFound = errors.New("empresa no encontrada")

// InternalTicketRepo persists staff-reported tickets.  These carry their own
// folio sequence keyed on year and company prefix.
type InternalTicketRepo struct{ DB *sql.DB }

func NewInternalTicketRepo(db *sql.DB) *InternalTicketRepo { return &InternalTicketRepo{DB: db} }

// CreateInternalParams carries the creation input.  SolicitanteID is the
// administrator who reported the fault; the handler substitutes the
// configured fallback identity when the request omits it.
type CreateInternalParams struct {
    SolicitanteID uint64
    EmpresaID     uint64
    NumAutobus    string
    FallaID       uint64
}

// CreateInternal inserts one internal ticket.  The company name is read
// inside the transaction (it feeds the folio prefix and doubles as the
// existence check) and the sequence number comes from COUNT(*)+1, with the
// same unique-index retry scheme as external tickets.
func (r *InternalTicketRepo) CreateInternal(ctx context.Context, p CreateInternalParams) (codigo string, err error) {
    for attempt := 0; attempt < codeRetries; attempt++ {
        codigo, err = r.createInternalOnce(ctx, p)
        if err == nil || !isDuplicateKey(err) {
            return codigo, err
        }
    }
    return "", ErrCodeConflict
}

func (r *InternalTicketRepo) createInternalOnce(ctx context.Context, p CreateInternalParams) (string, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return "", err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    var empresa string
    err = tx.QueryRowContext(ctx, "SELECT empresa FROM empresas WHERE id = ?", p.EmpresaID).Scan(&empresa)
    if errors.Is(err, sql.ErrNoRows) {
        err = ErrEmpresaNotFound
        return "", err
    }
    if err != nil {
        return "", err
    }

    var count int64
    if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets_internos").Scan(&count); err != nil {
        return "", err
    }
    codigo := internalCode(time.Now().Year(), empresa, count+1)

    if _, err = tx.ExecContext(ctx,
        `INSERT INTO tickets_internos (id_solicitante, id_empresa, num_autobus, id_falla_reportada, estado, fecha_creacion, codigo, tipo)
         VALUES (?, ?, ?, ?, 'ABIERTO', NOW(), ?, 'INTERNO')`,
        p.SolicitanteID, p.EmpresaID, p.NumAutobus, p.FallaID, codigo); err != nil {
        return "", err
    }

    if err = tx.Commit(); err != nil {
        return "", err
    }
    return codigo, nil
}

// UpdateStatus overwrites the internal ticket status; same free-form
// semantics as external tickets.
func (r *InternalTicketRepo) UpdateStatus(ctx context.Context, id uint64, estado string) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE tickets_internos SET estado = ? WHERE id = ?", estado, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            "SELECT EXISTS(SELECT 1 FROM tickets_internos WHERE id = ?)", id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrTicketNotFound
        }
    }
    return nil
}
