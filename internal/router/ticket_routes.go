package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/handler"
)

// RegisterTickets wires the ticket, ficha and extra-report write endpoints.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, f *handler.FichaHandler) {
    g := e.Group("/api")

    g.POST("/tickets/crear", t.Crear)
    g.PUT("/tickets/:id/estado", t.ActualizarEstado)

    g.POST("/tickets-internos/crear", t.CrearInterno)
    g.PUT("/tickets-internos/:id/estado", t.ActualizarEstadoInterno)

    g.POST("/fichas/crear", f.Crear)
    g.PUT("/fichas/:id/cerrar", f.Cerrar)

    g.POST("/reportes-extra/crear", f.CrearExtra)
    g.GET("/reportes-extra", f.ListarExtras)
}

// RegisterCatalogs wires the generic catalog CRUD.  The :tabla parameter is
// validated against the repository's closed registry inside the handlers.
func RegisterCatalogs(e *echo.Echo, h *handler.CatalogHandler) {
    g := e.Group("/api/catalogos")
    g.GET("/:tabla", h.Listar)
    g.GET("/:tabla/todos", h.ListarTodos)
    g.POST("/:tabla", h.Crear)
    g.PUT("/:tabla/:id", h.Actualizar)
    g.PATCH("/:tabla/:id/estado", h.ToggleEstado)
}

// RegisterExports wires the PDF export and evidence upload endpoints.
// upload may be nil when no image-host credential is configured; the
// endpoint is then simply not registered.
func RegisterExports(e *echo.Echo, ex *handler.ExportHandler, upload *handler.UploadHandler) {
    e.GET("/api/exportar/tickets", ex.TicketsPDF)
    e.GET("/api/exportar/fichas", ex.FichasPDF)
    if upload != nil {
        e.POST("/api/upload/evidencia", upload.Evidencia)
    }
}
