package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

// ReportHandler exposes the read-only aggregation endpoints.  Response
// shapes are uneven on purpose: the *-detallados endpoints answer with bare
// arrays while the rest use the {"status": ...} envelope, exactly as the
// dashboard frontend consumes them.
type ReportHandler struct {
    Reports  *repository.ReportRepo
    Tecnicos *repository.TechnicianRepo
}

func NewReportHandler(r *repository.ReportRepo, t *repository.TechnicianRepo) *ReportHandler {
    return &ReportHandler{Reports: r, Tecnicos: t}
}

// Dashboard handles GET /api/dashboard-data.
func (h *ReportHandler) Dashboard(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    tickets, stats, err := h.Reports.Dashboard(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "success",
        "tickets": tickets,
        "stats":   stats,
    })
}

// TecnicosDetallados handles GET /api/tecnicos-detallados.
func (h *ReportHandler) TecnicosDetallados(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    tecnicos, err := h.Reports.TecnicosDetallados(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, tecnicos)
}

// ClientesDetallados handles GET /api/clientes-detallados.
func (h *ReportHandler) ClientesDetallados(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    clientes, err := h.Reports.ClientesDetallados(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, clientes)
}

// FichasCompletas handles GET /api/fichas-completas.
func (h *ReportHandler) FichasCompletas(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    fichas, err := h.Reports.FichasCompletas(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": fichas})
}

// ReporteGeneral handles GET /api/reporte-general-completo: five sequential
// queries assembled into one composite payload.
func (h *ReportHandler) ReporteGeneral(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    rep, err := h.Reports.ReporteGeneralCompleto(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": rep})
}

// ToggleTecnico handles PATCH /api/tecnicos/:id/estado.
func (h *ReportHandler) ToggleTecnico(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "id inválido")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    nuevo, err := h.Tecnicos.ToggleActive(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrTecnicoNotFound) {
            return errorJSON(c, http.StatusNotFound, err.Error())
        }
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "nuevo_estado": nuevo})
}
