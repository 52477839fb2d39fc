package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

// FichaHandler covers technical-sheet writes and the extra reports hanging
// off them.
type FichaHandler struct {
    Fichas  *repository.FichaRepo
    Extras  *repository.ExtraReportRepo
}

func NewFichaHandler(f *repository.FichaRepo, e *repository.ExtraReportRepo) *FichaHandler {
    return &FichaHandler{Fichas: f, Extras: e}
}

type crearFichaReq struct {
    TicketID        *uint64 `json:"id_ticket"`
    TicketInternoID *uint64 `json:"id_ticket_interno"`
    TecnicoID       uint64  `json:"id_tecnico"`
    EquipoID        *uint64 `json:"id_equipo"`
    ElementoID      *uint64 `json:"id_cat_elementos"`
    AccesorioID     *uint64 `json:"id_accesorios"`
    DetalleID       *uint64 `json:"id_detalle_revision"`
    SolucionID      *uint64 `json:"id_solucion"`
    Observacion     *string `json:"observacion"`
    EvidenciaURL    *string `json:"evidencia_url"`
    Ubicacion       *string `json:"ubicacion_atencion"` // WKT, e.g. "POINT(-99.13 19.43)"
}

// ticketRef folds the legacy pair of id fields into the tagged union.  A
// request naming both families, or neither, is invalid.
func (r crearFichaReq) ticketRef() (model.TicketRef, bool) {
    hasExt := r.TicketID != nil && *r.TicketID != 0
    hasInt := r.TicketInternoID != nil && *r.TicketInternoID != 0
    switch {
    case hasExt && !hasInt:
        return model.ExternalRef(*r.TicketID), true
    case hasInt && !hasExt:
        return model.InternalRef(*r.TicketInternoID), true
    }
    return model.TicketRef{}, false
}

// Crear handles POST /api/fichas/crear.
func (h *FichaHandler) Crear(c echo.Context) error {
    var req crearFichaReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    ref, ok := req.ticketRef()
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "la ficha debe referir exactamente un ticket (externo o interno)")
    }
    if req.TecnicoID == 0 {
        return errorJSON(c, http.StatusBadRequest, "el campo id_tecnico es obligatorio")
    }
    if req.Ubicacion != nil && !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(*req.Ubicacion)), "POINT(") {
        return errorJSON(c, http.StatusBadRequest, "ubicacion_atencion debe ser un punto WKT")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Fichas.Create(ctx, repository.CreateFichaParams{
        Ticket:       ref,
        TecnicoID:    req.TecnicoID,
        EquipoID:     req.EquipoID,
        ElementoID:   req.ElementoID,
        AccesorioID:  req.AccesorioID,
        DetalleID:    req.DetalleID,
        SolucionID:   req.SolucionID,
        Observacion:  req.Observacion,
        EvidenciaURL: req.EvidenciaURL,
        Ubicacion:    req.Ubicacion,
    })
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusCreated, echo.Map{"status": "success", "id": id})
}

type cerrarFichaReq struct {
    SolucionID  *uint64 `json:"id_solucion"`
    Observacion *string `json:"observacion"`
}

// Cerrar handles PUT /api/fichas/:id/cerrar — stamps fecha_cierre exactly
// once.  Closing an already-closed ficha is a conflict, not an overwrite.
func (h *FichaHandler) Cerrar(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "id inválido")
    }
    var req cerrarFichaReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Fichas.Close(ctx, id, req.SolucionID, req.Observacion); err != nil {
        switch {
        case errors.Is(err, repository.ErrFichaNotFound):
            return errorJSON(c, http.StatusNotFound, err.Error())
        case errors.Is(err, repository.ErrFichaClosed):
            return errorJSON(c, http.StatusConflict, err.Error())
        default:
            return errorJSON(c, http.StatusInternalServerError, err.Error())
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Ficha cerrada"})
}

type crearExtraReq struct {
    FichaID     uint64  `json:"id_ficha"`
    EquipoID    *uint64 `json:"id_equipo"`
    ElementoID  *uint64 `json:"id_cat_elementos"`
    AccesorioID *uint64 `json:"id_accesorios"`
    DetalleID   *uint64 `json:"id_detalle_revision"`
    SolucionID  *uint64 `json:"id_solucion"`
    Observacion *string `json:"observacion"`
    Tipo        string  `json:"tipo"`
}

// CrearExtra handles POST /api/reportes-extra/crear.  The ficha must exist;
// the folio comes from the independent RPE sequence.
func (h *FichaHandler) CrearExtra(c echo.Context) error {
    var req crearExtraReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    if req.FichaID == 0 {
        return errorJSON(c, http.StatusBadRequest, "el campo id_ficha es obligatorio")
    }
    if strings.TrimSpace(req.Tipo) == "" {
        req.Tipo = "HALLAZGO"
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    exists, err := h.Fichas.Exists(ctx, req.FichaID)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    if !exists {
        return errorJSON(c, http.StatusNotFound, "ficha no encontrada")
    }

    codigo, err := h.Extras.Create(ctx, repository.CreateExtraParams{
        FichaID:     req.FichaID,
        EquipoID:    req.EquipoID,
        ElementoID:  req.ElementoID,
        AccesorioID: req.AccesorioID,
        DetalleID:   req.DetalleID,
        SolucionID:  req.SolucionID,
        Observacion: req.Observacion,
        Tipo:        req.Tipo,
    })
    if err != nil {
        if errors.Is(err, repository.ErrCodeConflict) {
            return errorJSON(c, http.StatusConflict, err.Error())
        }
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusCreated, echo.Map{"status": "success", "codigo": codigo})
}

// ListarExtras handles GET /api/reportes-extra?ficha=N.
func (h *FichaHandler) ListarExtras(c echo.Context) error {
    fichaID, err := strconvParse(c.QueryParam("ficha"))
    if err != nil {
        return errorJSON(c, http.StatusBadRequest, "parámetro ficha inválido")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    reports, err := h.Extras.ListByFicha(ctx, fichaID)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    out := make([]echo.Map, 0, len(reports))
    for _, r := range reports {
        out = append(out, echo.Map{
            "id":          r.ID,
            "codigo":      r.Codigo,
            "id_ficha":    r.FichaID,
            "observacion": r.Observacion,
            "tipo":        r.Tipo,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": out})
}
