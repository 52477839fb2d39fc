package model

import "time"

// Ticket is a customer-originated repair request for a bus.
// The codigo is assigned once at creation (INT-%04d sequence), is unique
// across the table and never changes afterwards.
//
// Fields:
//  ID           – primary key identifier.
//  Codigo       – human-readable folio, immutable once assigned.
//  ClienteID    – reporting client (cliente.id).
//  NumAutobus   – bus unit number as reported.
//  FallaID      – reported fault (falla_reportada.id).
//  Estado       – current status, see ValidStatus.
//  FechaCreacion – creation timestamp.
//  Tipo         – legacy dual-use discriminator kept for the old frontend.
//  EvidenciaURL – optional evidence image URL (nullable).
type Ticket struct {
    ID            uint64    // tickets.id
    Codigo        string    // tickets.codigo
    ClienteID     uint64    // tickets.id_clientes
    NumAutobus    string    // tickets.num_autobus
    FallaID       uint64    // tickets.id_falla_reportada
    Estado        string    // tickets.estado
    FechaCreacion time.Time // tickets.fecha_creacion
    Tipo          string    // tickets.tipo
    EvidenciaURL  *string   // tickets.evidencia_url (nullable)
}

// InternalTicket is a staff-originated repair request.  It carries its own
// code sequence ({year}-{PREF}-I-%05d) and references the requesting
// administrator and the company whose bus is affected.
type InternalTicket struct {
    ID            uint64    // tickets_internos.id
    Codigo        string    // tickets_internos.codigo
    SolicitanteID uint64    // tickets_internos.id_solicitante
    EmpresaID     uint64    // tickets_internos.id_empresa
    NumAutobus    string    // tickets_internos.num_autobus
    FallaID       uint64    // tickets_internos.id_falla_reportada
    Estado        string    // tickets_internos.estado
    FechaCreacion time.Time // tickets_internos.fecha_creacion
    Tipo          string    // tickets_internos.tipo
}

// TicketRefKind discriminates the two ticket families a ficha can belong to.
type TicketRefKind int

const (
    RefExternal TicketRefKind = iota + 1 // points at tickets.id
    RefInternal                          // points at tickets_internos.id
)

// TicketRef is a tagged reference to exactly one ticket, external or
// internal.  The persistence layer maps it onto the pair of nullable
// columns (id_ticket, id_ticket_interno); at the type level a ficha can
// never reference both or neither.
type TicketRef struct {
    Kind TicketRefKind
    ID   uint64
}

// ExternalRef builds a reference to an external ticket.
func ExternalRef(id uint64) TicketRef { return TicketRef{Kind: RefExternal, ID: id} }

// InternalRef builds a reference to an internal ticket.
func InternalRef(id uint64) TicketRef { return TicketRef{Kind: RefInternal, ID: id} }

// Valid reports whether the reference points at a concrete ticket.
func (r TicketRef) Valid() bool {
    return (r.Kind == RefExternal || r.Kind == RefInternal) && r.ID != 0
}
