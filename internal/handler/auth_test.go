package handler

import (
    "encoding/json"
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
    "github.com/iliyamo/fleet-maintenance-desk/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    cfg := config.Config{
        JWTSecret:      "test-only-secret",
        AccessTTLMin:   15,
        RefreshTTLDays: 30,
        BcryptCost:     bcrypt.MinCost,
    }
    return NewAuthHandler(cfg, repository.NewAdminRepo(db), repository.NewTokenRepo(db)), mock
}

var adminCols = []string{"id", "nombre", "apellidos", "usuario", "password_hash", "rol", "email", "id_empresa", "activo", "fecha_creacion"}

func adminRow(hash string, activo bool) *sqlmock.Rows {
    return sqlmock.NewRows(adminCols).
        AddRow(7, "Ana", "Ríos", "arios", hash, "SUPERVISOR", "ana@taller.mx", nil, activo, time.Now())
}

func TestLoginIssuesTokenPair(t *testing.T) {
    h, mock := newAuthHandler(t)
    hash, err := utils.HashPassword("s3creta", bcrypt.MinCost)
    require.NoError(t, err)

    mock.ExpectQuery(`FROM administradores WHERE usuario = \? LIMIT 1`).
        WithArgs("arios").
        WillReturnRows(adminRow(hash, true))
    mock.ExpectExec(`INSERT INTO refresh_tokens`).
        WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(1, 1))

    c, rec := jsonCtx(http.MethodPost, "/api/auth/login", `{"usuario":"ARios","password":"s3creta"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp authResp
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, uint64(7), resp.Admin.ID)
    assert.Equal(t, "arios", resp.Admin.Usuario)
    assert.Equal(t, "SUPERVISOR", resp.Admin.Rol)
    assert.NotEmpty(t, resp.Access.Token)
    assert.Len(t, resp.Refresh.Token, 96) // raw token, never its hash
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
    h, mock := newAuthHandler(t)
    hash, err := utils.HashPassword("s3creta", bcrypt.MinCost)
    require.NoError(t, err)

    // No refresh insert may follow a failed credential check.
    mock.ExpectQuery(`FROM administradores WHERE usuario = \? LIMIT 1`).
        WithArgs("arios").
        WillReturnRows(adminRow(hash, true))

    c, rec := jsonCtx(http.MethodPost, "/api/auth/login", `{"usuario":"arios","password":"otra"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
    h, mock := newAuthHandler(t)
    hash, err := utils.HashPassword("s3creta", bcrypt.MinCost)
    require.NoError(t, err)

    mock.ExpectQuery(`FROM administradores WHERE usuario = \? LIMIT 1`).
        WithArgs("arios").
        WillReturnRows(adminRow(hash, false))

    c, rec := jsonCtx(http.MethodPost, "/api/auth/login", `{"usuario":"arios","password":"s3creta"}`)
    require.NoError(t, h.Login(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// Refresh rotates: the presented token is revoked and a new pair issued.
func TestRefreshRotatesToken(t *testing.T) {
    h, mock := newAuthHandler(t)
    raw := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
    hash, err := utils.HashPassword("s3creta", bcrypt.MinCost)
    require.NoError(t, err)

    mock.ExpectQuery(`SELECT admin_id FROM refresh_tokens`).
        WithArgs(utils.HashRefreshRaw(raw)).
        WillReturnRows(sqlmock.NewRows([]string{"admin_id"}).AddRow(7))
    mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = NOW\(\)`).
        WithArgs(utils.HashRefreshRaw(raw)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`FROM administradores WHERE id = \? LIMIT 1`).
        WithArgs(uint64(7)).
        WillReturnRows(adminRow(hash, true))
    mock.ExpectExec(`INSERT INTO refresh_tokens`).
        WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(2, 1))

    c, rec := jsonCtx(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"`+raw+`"}`)
    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp authResp
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.NotEmpty(t, resp.Access.Token)
    assert.NotEqual(t, raw, resp.Refresh.Token)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
    h, mock := newAuthHandler(t)

    mock.ExpectQuery(`SELECT admin_id FROM refresh_tokens`).
        WithArgs(sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows([]string{"admin_id"}))

    c, rec := jsonCtx(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"desconocido"}`)
    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
