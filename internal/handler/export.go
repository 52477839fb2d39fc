package handler

import (
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/pdf"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

// ExportHandler renders reporting rows as downloadable PDF documents.
type ExportHandler struct {
    Reports *repository.ReportRepo
}

func NewExportHandler(r *repository.ReportRepo) *ExportHandler {
    return &ExportHandler{Reports: r}
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

// TicketsPDF handles GET /api/exportar/tickets: the external-ticket table
// of the general report, one row per ticket.
func (h *ExportHandler) TicketsPDF(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    rep, err := h.Reports.ReporteGeneralCompleto(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }

    headers := []string{"Folio", "Fecha", "Empresa", "Autobús", "Falla", "Estado"}
    rows := make([][]string, 0, len(rep.Tickets)+len(rep.TicketsInternos))
    for _, t := range rep.Tickets {
        rows = append(rows, []string{t.Codigo, t.Fecha, deref(t.Empresa), t.NumAutobus, deref(t.Falla), t.Estado})
    }
    for _, t := range rep.TicketsInternos {
        rows = append(rows, []string{t.Codigo, t.Fecha, deref(t.Empresa), t.NumAutobus, deref(t.Falla), t.Estado})
    }

    doc, err := pdf.Render("Reporte de tickets", headers, rows)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "no se pudo generar el PDF")
    }

    filename := fmt.Sprintf("tickets-%s.pdf", time.Now().Format("2006-01-02"))
    c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
    return c.Blob(http.StatusOK, "application/pdf", doc)
}

// FichasPDF handles GET /api/exportar/fichas.
func (h *ExportHandler) FichasPDF(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    fichas, err := h.Reports.FichasCompletas(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }

    headers := []string{"Ticket", "Técnico", "Elemento", "Solución", "Inicio", "Cierre", "Observación"}
    rows := make([][]string, 0, len(fichas))
    for _, f := range fichas {
        rows = append(rows, []string{
            deref(f.TicketCod), deref(f.Tecnico), deref(f.Elemento), deref(f.Solucion),
            f.FechaInicio, deref(f.FechaCierre), deref(f.Observacion),
        })
    }

    doc, err := pdf.Render("Fichas técnicas", headers, rows)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "no se pudo generar el PDF")
    }

    filename := fmt.Sprintf("fichas-%s.pdf", time.Now().Format("2006-01-02"))
    c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
    return c.Blob(http.StatusOK, "application/pdf", doc)
}
