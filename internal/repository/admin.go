package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
    "github.com/iliyamo/fleet-maintenance-desk/internal/utils"
)

// ErrUsuarioExists is returned when the username is already taken.
var ErrUsuarioExists = errors.New("el usuario ya existe")

// ErrAdminNotFound is returned when an administrator cannot be found.
var ErrAdminNotFound = errors.New("administrador no encontrado")

// AdminRepo persists back-office users.  All three roles share one table
// with a rol discriminant; the List projection reproduces the shape the
// frontend historically got from a UNION of three role tables, including
// the NULL company for system-level roles.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// CreateAdminParams carries the registration input.  Password arrives as
// plaintext and leaves this package only as a bcrypt hash.
type CreateAdminParams struct {
    Nombre    string
    Apellidos string
    Usuario   string
    Password  string
    Rol       string
    Email     string
    EmpresaID *uint64
}

// Create inserts an administrator, hashing the password with the given
// bcrypt cost.  Returns ErrUsuarioExists on a duplicate username.
func (r *AdminRepo) Create(ctx context.Context, p CreateAdminParams, cost int) (uint64, error) {
    usuario := strings.ToLower(strings.TrimSpace(p.Usuario))
    hash, err := utils.HashPassword(p.Password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO administradores (nombre, apellidos, usuario, password_hash, rol, email, id_empresa, activo, fecha_creacion)
         VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, NOW())`,
        p.Nombre, p.Apellidos, usuario, hash, p.Rol, p.Email, p.EmpresaID)
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrUsuarioExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByUsuario fetches an administrator by normalized username.
func (r *AdminRepo) GetByUsuario(ctx context.Context, usuario string) (*model.Admin, error) {
    usuario = strings.ToLower(strings.TrimSpace(usuario))
    return r.getOne(ctx, "usuario = ?", usuario)
}

// GetByID fetches an administrator by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
    return r.getOne(ctx, "id = ?", id)
}

func (r *AdminRepo) getOne(ctx context.Context, where string, arg any) (*model.Admin, error) {
    q := `SELECT id, nombre, apellidos, usuario, password_hash, rol, email, id_empresa, activo, fecha_creacion
          FROM administradores WHERE ` + where + ` LIMIT 1`
    var a model.Admin
    err := r.DB.QueryRowContext(ctx, q, arg).Scan(
        &a.ID, &a.Nombre, &a.Apellidos, &a.Usuario, &a.PasswordHash,
        &a.Rol, &a.Email, &a.EmpresaID, &a.Activo, &a.FechaCreacion)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrAdminNotFound
    }
    if err != nil {
        return nil, err
    }
    return &a, nil
}

// AdminListRow is the unified user-list projection.  Empresa is nil for
// SUPER_ADMIN and SUPERVISOR rows.
type AdminListRow struct {
    ID        uint64  `json:"id"`
    Nombre    string  `json:"nombre"`
    Apellidos string  `json:"apellidos"`
    Rol       string  `json:"rol"`
    Empresa   *string `json:"empresa"`
}

// List returns every administrator with the company name resolved for
// company-scoped admins.
func (r *AdminRepo) List(ctx context.Context) ([]AdminListRow, error) {
    const q = `
        SELECT a.id, a.nombre, a.apellidos, a.rol, e.empresa
        FROM administradores a
        LEFT JOIN empresas e ON a.id_empresa = e.id
        ORDER BY a.id ASC`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []AdminListRow{}
    for rows.Next() {
        var a AdminListRow
        if err := rows.Scan(&a.ID, &a.Nombre, &a.Apellidos, &a.Rol, &a.Empresa); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
