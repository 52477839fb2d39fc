package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
)

// ErrTecnicoNotFound is returned when a technician id resolves to no row.
var ErrTecnicoNotFound = errors.New("técnico no encontrado")

// TechnicianRepo covers the technician writes that fall outside the generic
// catalog registry (tecnicos is not a catalog table: it carries telegram ids
// and a specialty FK, and its listing lives in ReportRepo).
type TechnicianRepo struct{ DB *sql.DB }

func NewTechnicianRepo(db *sql.DB) *TechnicianRepo { return &TechnicianRepo{DB: db} }

// GetByID loads one technician; the ticket handlers use it to enrich the
// ticket-created event with the assignee's name and Telegram chat.
func (r *TechnicianRepo) GetByID(ctx context.Context, id uint64) (*model.Technician, error) {
    const q = `SELECT id, id_telegram, nombre, primer_apellido, id_especialidad, activo
               FROM tecnicos WHERE id = ?`
    var t model.Technician
    err := r.DB.QueryRowContext(ctx, q, id).Scan(
        &t.ID, &t.IDTelegram, &t.Nombre, &t.PrimerApellido, &t.EspecialidadID, &t.Activo)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrTecnicoNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// ToggleActive flips the technician's activo flag and returns the new
// value.  Toggling twice always restores the original state.  Flip and
// read-back share one transaction so the returned value is this toggle's
// result even under concurrent flips.
func (r *TechnicianRepo) ToggleActive(ctx context.Context, id uint64) (nuevo bool, err error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return false, err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    var res sql.Result
    res, err = tx.ExecContext(ctx,
        "UPDATE tecnicos SET activo = NOT activo WHERE id = ?", id)
    if err != nil {
        return false, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        err = ErrTecnicoNotFound
        return false, err
    }

    if err = tx.QueryRowContext(ctx,
        "SELECT activo FROM tecnicos WHERE id = ?", id).Scan(&nuevo); err != nil {
        return false, err
    }

    if err = tx.Commit(); err != nil {
        return false, err
    }
    return nuevo, nil
}
