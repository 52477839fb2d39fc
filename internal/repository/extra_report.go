package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
)

// ExtraReportRepo persists supplementary findings attached to a ficha.
// Their folios form an independent sequence (RPE-%05d) with the same
// unique-index retry scheme as tickets.
type ExtraReportRepo struct{ DB *sql.DB }

func NewExtraReportRepo(db *sql.DB) *ExtraReportRepo { return &ExtraReportRepo{DB: db} }

// CreateExtraParams carries the creation input; FichaID existence is
// checked by the handler through FichaRepo.Exists.
type CreateExtraParams struct {
    FichaID     uint64
    EquipoID    *uint64
    ElementoID  *uint64
    AccesorioID *uint64
    DetalleID   *uint64
    SolucionID  *uint64
    Observacion *string
    Tipo        string
}

// Create inserts one extra report and returns its folio.
func (r *ExtraReportRepo) Create(ctx context.Context, p CreateExtraParams) (codigo string, err error) {
    for attempt := 0; attempt < codeRetries; attempt++ {
        codigo, err = r.createOnce(ctx, p)
        if err == nil || !isDuplicateKey(err) {
            return codigo, err
        }
    }
    return "", ErrCodeConflict
}

func (r *ExtraReportRepo) createOnce(ctx context.Context, p CreateExtraParams) (string, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return "", err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    var count int64
    if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM reportes_extra").Scan(&count); err != nil {
        return "", err
    }
    codigo := extraReportCode(count + 1)

    if _, err = tx.ExecContext(ctx,
        `INSERT INTO reportes_extra
           (codigo, id_ficha, id_equipo, id_cat_elementos, id_accesorios, id_detalle_revision, id_solucion, observacion, tipo)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        codigo, p.FichaID, p.EquipoID, p.ElementoID, p.AccesorioID, p.DetalleID,
        p.SolucionID, p.Observacion, p.Tipo); err != nil {
        return "", err
    }

    if err = tx.Commit(); err != nil {
        return "", err
    }
    return codigo, nil
}

// ListByFicha returns the extra reports of one ficha, newest first.
func (r *ExtraReportRepo) ListByFicha(ctx context.Context, fichaID uint64) ([]*model.ExtraReport, error) {
    const q = `SELECT id, codigo, id_ficha, id_equipo, id_cat_elementos, id_accesorios,
                      id_detalle_revision, id_solucion, observacion, tipo
               FROM reportes_extra WHERE id_ficha = ? ORDER BY id DESC`
    rows, err := r.DB.QueryContext(ctx, q, fichaID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.ExtraReport
    for rows.Next() {
        e := new(model.ExtraReport)
        if err := rows.Scan(&e.ID, &e.Codigo, &e.FichaID, &e.EquipoID, &e.ElementoID,
            &e.AccesorioID, &e.DetalleID, &e.SolucionID, &e.Observacion, &e.Tipo); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
