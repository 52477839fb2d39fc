package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

func newTicketHandler(t *testing.T) (*TicketHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewTicketHandler(config.Config{FallbackAdmin: 1},
        repository.NewTicketRepo(db),
        repository.NewInternalTicketRepo(db),
        repository.NewTechnicianRepo(db)), mock
}

func jsonCtx(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    for i := 0; i+1 < len(params); i += 2 {
        c.SetParamNames(params[i])
        c.SetParamValues(params[i+1])
    }
    return c, rec
}

func TestCrearRequiresFields(t *testing.T) {
    h, mock := newTicketHandler(t)

    cases := []string{
        `{}`,
        `{"id_cliente":3,"num_autobus":"   ","id_falla":2}`,
        `{"id_cliente":3,"num_autobus":"AUT-1"}`,
        `{"num_autobus":"AUT-1","id_falla":2}`,
    }
    for _, body := range cases {
        c, rec := jsonCtx(http.MethodPost, "/api/tickets/crear", body)
        require.NoError(t, h.Crear(c))
        assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
    }
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActualizarEstadoRejectsUnknownStatus(t *testing.T) {
    h, mock := newTicketHandler(t)

    c, rec := jsonCtx(http.MethodPut, "/api/tickets/5/estado", `{"estado":"CERRADO"}`, "id", "5")
    require.NoError(t, h.ActualizarEstado(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.JSONEq(t, `{"status":"error","message":"estado no válido"}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActualizarEstadoAcceptsKnownStatus(t *testing.T) {
    h, mock := newTicketHandler(t)

    mock.ExpectExec(`UPDATE tickets SET estado = \? WHERE id = \?`).
        WithArgs("EN ATENCIÓN", uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    c, rec := jsonCtx(http.MethodPut, "/api/tickets/5/estado", `{"estado":"EN ATENCIÓN"}`, "id", "5")
    require.NoError(t, h.ActualizarEstado(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"status":"success","estado":"EN ATENCIÓN"}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActualizarEstadoNotFound(t *testing.T) {
    h, mock := newTicketHandler(t)

    mock.ExpectExec(`UPDATE tickets_internos SET estado = \? WHERE id = \?`).
        WithArgs("RESUELTO", uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tickets_internos WHERE id = \?\)`).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

    c, rec := jsonCtx(http.MethodPut, "/api/tickets-internos/99/estado", `{"estado":"RESUELTO"}`, "id", "99")
    require.NoError(t, h.ActualizarEstadoInterno(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
