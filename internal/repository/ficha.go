package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
)

// ErrFichaNotFound is returned when a ficha id resolves to no row.
var ErrFichaNotFound = errors.New("ficha no encontrada")

// FichaRepo persists technical sheets.  A ficha references exactly one
// ticket, external or internal; the model.TicketRef union is mapped onto
// the pair of nullable FK columns here and nowhere else.
type FichaRepo struct{ DB *sql.DB }

func NewFichaRepo(db *sql.DB) *FichaRepo { return &FichaRepo{DB: db} }

// refColumns splits a TicketRef into the nullable column pair.
func refColumns(ref model.TicketRef) (externo, interno *uint64) {
    switch ref.Kind {
    case model.RefExternal:
        return &ref.ID, nil
    case model.RefInternal:
        return nil, &ref.ID
    }
    return nil, nil
}

// CreateFichaParams carries the creation input.  Ubicacion, when present,
// is a WKT point ("POINT(lng lat)") written through ST_GeomFromText.
type CreateFichaParams struct {
    Ticket       model.TicketRef
    TecnicoID    uint64
    EquipoID     *uint64
    ElementoID   *uint64
    AccesorioID  *uint64
    DetalleID    *uint64
    SolucionID   *uint64
    Observacion  *string
    EvidenciaURL *string
    Ubicacion    *string
}

// Create inserts a ficha with fecha_inicio set to now and fecha_cierre
// open.  The caller guarantees p.Ticket.Valid().
func (r *FichaRepo) Create(ctx context.Context, p CreateFichaParams) (uint64, error) {
    externo, interno := refColumns(p.Ticket)
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO fichas_tecnicas
           (id_ticket, id_ticket_interno, id_tecnico, id_equipo, id_cat_elementos, id_accesorios,
            id_detalle_revision, id_solucion, fecha_inicio, observacion, evidencia_url, ubicacion_atencion)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), ?, ?, ST_GeomFromText(?))`,
        externo, interno, p.TecnicoID, p.EquipoID, p.ElementoID, p.AccesorioID,
        p.DetalleID, p.SolucionID, p.Observacion, p.EvidenciaURL, p.Ubicacion)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Close stamps fecha_cierre exactly once, optionally recording the final
// solution and observation.  A second close attempt returns ErrFichaClosed
// and leaves the original timestamp untouched.
func (r *FichaRepo) Close(ctx context.Context, id uint64, solucionID *uint64, observacion *string) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE fichas_tecnicas
         SET fecha_cierre = NOW(),
             id_solucion = COALESCE(?, id_solucion),
             observacion = COALESCE(?, observacion)
         WHERE id = ? AND fecha_cierre IS NULL`,
        solucionID, observacion, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var cerrada bool
        err := r.DB.QueryRowContext(ctx,
            "SELECT fecha_cierre IS NOT NULL FROM fichas_tecnicas WHERE id = ?", id).Scan(&cerrada)
        if errors.Is(err, sql.ErrNoRows) {
            return ErrFichaNotFound
        }
        if err != nil {
            return err
        }
        if cerrada {
            return ErrFichaClosed
        }
    }
    return nil
}

// Exists reports whether a ficha row exists; the extra-report endpoint
// checks this before inserting.
func (r *FichaRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var ok bool
    err := r.DB.QueryRowContext(ctx,
        "SELECT EXISTS(SELECT 1 FROM fichas_tecnicas WHERE id = ?)", id).Scan(&ok)
    return ok, err
}
