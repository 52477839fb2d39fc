// Package router registers the HTTP routes of the maintenance-desk API.
// The surface mirrors the legacy service: everything lives under /api and,
// apart from user management, requires no authentication so the existing
// dashboard and Telegram-bot clients keep working unchanged.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/handler"
)

// RegisterRoutes registers the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterReports wires the read-only aggregation endpoints.  cacheMW is
// the optional Redis response cache; pass-through when caching is off.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, cacheMW echo.MiddlewareFunc) {
    g := e.Group("/api", cacheMW)
    g.GET("/dashboard-data", h.Dashboard)
    g.GET("/tecnicos-detallados", h.TecnicosDetallados)
    g.GET("/clientes-detallados", h.ClientesDetallados)
    g.GET("/fichas-completas", h.FichasCompletas)
    g.GET("/reporte-general-completo", h.ReporteGeneral)

    // Technician toggle is a write and must never be cached.
    e.PATCH("/api/tecnicos/:id/estado", h.ToggleTecnico)
}
