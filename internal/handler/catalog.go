package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

// CatalogHandler exposes the generic CRUD over the allow-listed reference
// tables.  The :tabla path parameter never reaches a query as an
// identifier: it only selects a descriptor from the repository's closed
// registry, and an unknown value is rejected before any SQL is built.
type CatalogHandler struct {
    Catalogs *repository.CatalogRepo
}

func NewCatalogHandler(catalogs *repository.CatalogRepo) *CatalogHandler {
    return &CatalogHandler{Catalogs: catalogs}
}

type catalogCreateReq struct {
    Nombre  string  `json:"nombre"`
    IDPadre *uint64 `json:"id_padre"`
}

type catalogUpdateReq struct {
    Nombre string `json:"nombre"`
}

// Listar handles GET /api/catalogos/:tabla — the legacy select-box
// projection (id, nombre) ordered by id ascending.  Responds with a bare
// array, matching what the frontend has always consumed.
func (h *CatalogHandler) Listar(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Catalogs.List(ctx, c.Param("tabla"))
    if err != nil {
        return h.mapError(c, err)
    }
    return c.JSON(http.StatusOK, items)
}

// ListarTodos handles GET /api/catalogos/:tabla/todos — the admin
// projection including activo, newest first.
func (h *CatalogHandler) ListarTodos(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Catalogs.ListAll(ctx, c.Param("tabla"))
    if err != nil {
        return h.mapError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": items})
}

// Crear handles POST /api/catalogos/:tabla.
func (h *CatalogHandler) Crear(c echo.Context) error {
    var req catalogCreateReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    req.Nombre = strings.TrimSpace(req.Nombre)
    if req.Nombre == "" {
        return errorJSON(c, http.StatusBadRequest, "el campo nombre es obligatorio")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Catalogs.Create(ctx, c.Param("tabla"), req.Nombre, req.IDPadre)
    if err != nil {
        return h.mapError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"status": "success", "id": id})
}

// Actualizar handles PUT /api/catalogos/:tabla/:id — rewrites only the
// display column.
func (h *CatalogHandler) Actualizar(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "id inválido")
    }
    var req catalogUpdateReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    req.Nombre = strings.TrimSpace(req.Nombre)
    if req.Nombre == "" {
        return errorJSON(c, http.StatusBadRequest, "el campo nombre es obligatorio")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Catalogs.UpdateName(ctx, c.Param("tabla"), id, req.Nombre); err != nil {
        return h.mapError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

// ToggleEstado handles PATCH /api/catalogos/:tabla/:id/estado — flips the
// activo flag.  Catalogs are never hard-deleted.
func (h *CatalogHandler) ToggleEstado(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "id inválido")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    nuevo, err := h.Catalogs.ToggleActive(ctx, c.Param("tabla"), id)
    if err != nil {
        return h.mapError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "nuevo_estado": nuevo})
}

func (h *CatalogHandler) mapError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrInvalidCatalog):
        return errorJSON(c, http.StatusBadRequest, "tabla no válida")
    case errors.Is(err, sql.ErrNoRows):
        return errorJSON(c, http.StatusNotFound, "registro no encontrado")
    default:
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
}
