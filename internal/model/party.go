package model

import "time"

// Company is a client company whose buses are serviced.  Companies are
// soft-deleted via the activo flag; there is no hard deletion path.
type Company struct {
    ID      uint64 // empresas.id
    Empresa string // empresas.empresa
    Activo  bool   // empresas.activo
}

// Client is a person at a client company who reports faults, usually over
// the Telegram bot (hence IDTelegram).
type Client struct {
    ID             uint64  // cliente.id
    IDTelegram     *string // cliente.id_telegram (nullable)
    Nombre         string  // cliente.nombre
    PrimerApellido string  // cliente.primer_apellido
    EmpresaID      uint64  // cliente.id_empresa
    Activo         bool    // cliente.activo
}

// Technician is a repair technician with a specialty.
type Technician struct {
    ID             uint64  // tecnicos.id
    IDTelegram     *string // tecnicos.id_telegram (nullable)
    Nombre         string  // tecnicos.nombre
    PrimerApellido string  // tecnicos.primer_apellido
    EspecialidadID uint64  // tecnicos.id_especialidad
    Activo         bool    // tecnicos.activo
}

// Admin is a back-office user.  All three roles live in one table with a
// rol discriminant; Empresa is only set for EMP_ADMIN rows.  The password
// is stored as a bcrypt hash, never as plaintext.
type Admin struct {
    ID            uint64    // administradores.id
    Nombre        string    // administradores.nombre
    Apellidos     string    // administradores.apellidos
    Usuario       string    // administradores.usuario
    PasswordHash  string    // administradores.password_hash
    Rol           string    // administradores.rol
    Email         string    // administradores.email
    EmpresaID     *uint64   // administradores.id_empresa (EMP_ADMIN only)
    Activo        bool      // administradores.activo
    FechaCreacion time.Time // administradores.fecha_creacion
}
