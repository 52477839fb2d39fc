package handler

import (
    "encoding/json"
    "net/http"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    cfg := config.Config{BcryptCost: bcrypt.MinCost}
    return NewAdminHandler(cfg, repository.NewAdminRepo(db)), mock
}

// EMP_ADMIN is company-scoped and must name its company; no other role may.
func TestRegistrarEmpAdminRequiresEmpresa(t *testing.T) {
    h, mock := newAdminHandler(t)

    body := `{"nombre":"Ana","apellidos":"Ríos","usuario":"arios","password":"s3creta","rol":"EMP_ADMIN"}`
    c, rec := jsonCtx(http.MethodPost, "/api/usuarios/registrar", body)
    require.NoError(t, h.Registrar(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.JSONEq(t, `{"status":"error","message":"id_empresa es obligatorio para EMP_ADMIN"}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrarRejectsUnknownRole(t *testing.T) {
    h, mock := newAdminHandler(t)

    body := `{"nombre":"Ana","usuario":"arios","password":"s3creta","rol":"GERENTE"}`
    c, rec := jsonCtx(http.MethodPost, "/api/usuarios/registrar", body)
    require.NoError(t, h.Registrar(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.JSONEq(t, `{"status":"error","message":"rol no válido"}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

// System-level roles never carry a company, even when the request sends one.
func TestRegistrarStripsEmpresaFromSystemRoles(t *testing.T) {
    h, mock := newAdminHandler(t)

    mock.ExpectExec(`INSERT INTO administradores`).
        WithArgs("Ana", "Ríos", "arios", sqlmock.AnyArg(), "SUPERVISOR", "ana@taller.mx", nil).
        WillReturnResult(sqlmock.NewResult(6, 1))

    body := `{"nombre":"Ana","apellidos":"Ríos","usuario":"ARios","password":"s3creta","rol":"supervisor","email":"ana@taller.mx","id_empresa":3}`
    c, rec := jsonCtx(http.MethodPost, "/api/usuarios/registrar", body)
    require.NoError(t, h.Registrar(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.JSONEq(t, `{"status":"success","id":6}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrarDuplicateUsuario(t *testing.T) {
    h, mock := newAdminHandler(t)

    mock.ExpectExec(`INSERT INTO administradores`).
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'arios' for key 'usuario'"})

    body := `{"nombre":"Ana","usuario":"arios","password":"s3creta","rol":"SUPER_ADMIN"}`
    c, rec := jsonCtx(http.MethodPost, "/api/usuarios/registrar", body)
    require.NoError(t, h.Registrar(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// The listing is the unified view across all roles: empresa is resolved for
// company-scoped rows and null for system-level ones.
func TestListarUnifiedShape(t *testing.T) {
    h, mock := newAdminHandler(t)

    mock.ExpectQuery(`SELECT a.id, a.nombre, a.apellidos, a.rol, e.empresa`).
        WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "apellidos", "rol", "empresa"}).
            AddRow(1, "Root", "Admin", "SUPER_ADMIN", nil).
            AddRow(2, "Ana", "Ríos", "EMP_ADMIN", "Transportes del Norte"))

    c, rec := jsonCtx(http.MethodGet, "/api/usuarios", "")
    require.NoError(t, h.Listar(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        Status string `json:"status"`
        Data   []struct {
            ID      uint64  `json:"id"`
            Rol     string  `json:"rol"`
            Empresa *string `json:"empresa"`
        } `json:"data"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "success", resp.Status)
    require.Len(t, resp.Data, 2)
    assert.Nil(t, resp.Data[0].Empresa)
    require.NotNil(t, resp.Data[1].Empresa)
    assert.Equal(t, "Transportes del Norte", *resp.Data[1].Empresa)
    assert.NoError(t, mock.ExpectationsWereMet())
}
