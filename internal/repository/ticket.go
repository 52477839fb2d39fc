package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
)

// ErrTicketNotFound is returned when a ticket id resolves to no row.
var ErrTicketNotFound = errors.New("ticket no encontrado")

// ErrClienteNotFound is returned when the reporting client does not exist.
var ErrClienteNotFound = errors.New("cliente no encontrado")

// TicketRepo persists external (customer-reported) tickets.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// CreateExternalParams carries the creation input.  TecnicoID, when set,
// opens a ficha for that technician in the same transaction.
type CreateExternalParams struct {
    ClienteID    uint64
    NumAutobus   string
    FallaID      uint64
    TecnicoID    *uint64
    EvidenciaURL *string
}

// CreateExternal inserts one ticket row and, when a technician was supplied,
// exactly one associated ficha row as a single committed unit.  The folio is
// derived from COUNT(*)+1 inside the transaction; a duplicate-key collision
// on the unique codigo index rolls everything back and the whole unit is
// retried with a fresh count.  On any failure no partial rows remain.
func (r *TicketRepo) CreateExternal(ctx context.Context, p CreateExternalParams) (codigo string, err error) {
    for attempt := 0; attempt < codeRetries; attempt++ {
        codigo, err = r.createExternalOnce(ctx, p)
        if err == nil || !isDuplicateKey(err) {
            return codigo, err
        }
    }
    return "", ErrCodeConflict
}

func (r *TicketRepo) createExternalOnce(ctx context.Context, p CreateExternalParams) (string, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return "", err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    var exists bool
    if err = tx.QueryRowContext(ctx,
        "SELECT EXISTS(SELECT 1 FROM cliente WHERE id = ?)", p.ClienteID).Scan(&exists); err != nil {
        return "", err
    }
    if !exists {
        err = ErrClienteNotFound
        return "", err
    }

    var count int64
    if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets").Scan(&count); err != nil {
        return "", err
    }
    codigo := externalCode(count + 1)

    var res sql.Result
    res, err = tx.ExecContext(ctx,
        `INSERT INTO tickets (id_clientes, num_autobus, id_falla_reportada, estado, fecha_creacion, codigo, tipo, evidencia_url)
         VALUES (?, ?, ?, 'ABIERTO', NOW(), ?, 'INTERNO', ?)`,
        p.ClienteID, p.NumAutobus, p.FallaID, codigo, p.EvidenciaURL)
    if err != nil {
        return "", err
    }
    ticketID, err := res.LastInsertId()
    if err != nil {
        return "", err
    }

    if p.TecnicoID != nil {
        if _, err = tx.ExecContext(ctx,
            "INSERT INTO fichas_tecnicas (id_ticket, id_tecnico, fecha_inicio) VALUES (?, ?, NOW())",
            ticketID, *p.TecnicoID); err != nil {
            return "", err
        }
    }

    if err = tx.Commit(); err != nil {
        return "", err
    }
    return codigo, nil
}

// UpdateStatus overwrites the ticket's status unconditionally.  There is no
// transition validation on purpose: dispatch moves tickets back and forth
// and the frontend relies on free-form overwrite.  The caller is expected
// to have checked the value against model.ValidStatus.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id uint64, estado string) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE tickets SET estado = ? WHERE id = ?", estado, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Distinguish "row missing" from "same status written twice": MySQL
        // reports zero affected rows in both cases.
        var exists bool
        if err := r.DB.QueryRowContext(ctx,
            "SELECT EXISTS(SELECT 1 FROM tickets WHERE id = ?)", id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrTicketNotFound
        }
    }
    return nil
}

// GetByID loads one ticket.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
    const q = `SELECT id, codigo, id_clientes, num_autobus, id_falla_reportada, estado, fecha_creacion, tipo, evidencia_url
               FROM tickets WHERE id = ?`
    var t model.Ticket
    err := r.DB.QueryRowContext(ctx, q, id).Scan(
        &t.ID, &t.Codigo, &t.ClienteID, &t.NumAutobus, &t.FallaID,
        &t.Estado, &t.FechaCreacion, &t.Tipo, &t.EvidenciaURL)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrTicketNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}
