package model

import "time"

// Ficha is one technician's diagnosis/repair record (technical sheet) tied
// to exactly one ticket, external or internal.  FechaCierre stays nil while
// the engagement is open and is written exactly once on closure.
//
// The diagnosis references (equipment, element, accessory, revision detail,
// solution) are all optional: a ficha is often opened with just the
// technician and filled in as the repair progresses.
type Ficha struct {
    ID              uint64     // fichas_tecnicas.id
    Ticket          TicketRef  // fichas_tecnicas.id_ticket XOR id_ticket_interno
    TecnicoID       uint64     // fichas_tecnicas.id_tecnico
    EquipoID        *uint64    // fichas_tecnicas.id_equipo (nullable)
    ElementoID      *uint64    // fichas_tecnicas.id_cat_elementos (nullable)
    AccesorioID     *uint64    // fichas_tecnicas.id_accesorios (nullable)
    DetalleID       *uint64    // fichas_tecnicas.id_detalle_revision (nullable)
    SolucionID      *uint64    // fichas_tecnicas.id_solucion (nullable)
    FechaInicio     time.Time  // fichas_tecnicas.fecha_inicio
    FechaCierre     *time.Time // fichas_tecnicas.fecha_cierre (nil while open)
    Observacion     *string    // fichas_tecnicas.observacion (nullable)
    EvidenciaURL    *string    // fichas_tecnicas.evidencia_url (nullable)
    UbicacionWKT    *string    // ST_AsText(fichas_tecnicas.ubicacion_atencion), e.g. "POINT(-99.1 19.4)"
}

// ExtraReport is a supplementary finding attached to a ficha.  It carries
// its own code sequence (RPE-%05d), independent from both ticket sequences.
type ExtraReport struct {
    ID          uint64  // reportes_extra.id
    Codigo      string  // reportes_extra.codigo
    FichaID     uint64  // reportes_extra.id_ficha
    EquipoID    *uint64 // reportes_extra.id_equipo (nullable)
    ElementoID  *uint64 // reportes_extra.id_cat_elementos (nullable)
    AccesorioID *uint64 // reportes_extra.id_accesorios (nullable)
    DetalleID   *uint64 // reportes_extra.id_detalle_revision (nullable)
    SolucionID  *uint64 // reportes_extra.id_solucion (nullable)
    Observacion *string // reportes_extra.observacion (nullable)
    Tipo        string  // reportes_extra.tipo
}
