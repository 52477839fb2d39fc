package model

// Ticket status values.  The store does not enforce the enum; the handlers
// reject anything outside this set before it reaches a query.  Transitions
// between members are deliberately unconstrained: any known status may
// overwrite any other, matching the behavior the dispatch frontend relies on.
const (
    StatusAbierto         = "ABIERTO"
    StatusEnAtencion      = "EN ATENCIÓN"
    StatusEsperaRefaccion = "ESPERA_REFACCION"
    StatusResuelto        = "RESUELTO"
)

// ValidStatus reports whether s is one of the four known ticket statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusAbierto, StatusEnAtencion, StatusEsperaRefaccion, StatusResuelto:
        return true
    }
    return false
}

// Administrator roles.  RolEmpAdmin is scoped to a single company and is the
// only role that requires id_empresa at registration time.
const (
    RolSuperAdmin = "SUPER_ADMIN"
    RolSupervisor = "SUPERVISOR"
    RolEmpAdmin   = "EMP_ADMIN"
)

// ValidRole reports whether r is a known administrator role.
func ValidRole(r string) bool {
    switch r {
    case RolSuperAdmin, RolSupervisor, RolEmpAdmin:
        return true
    }
    return false
}
