package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
    "github.com/iliyamo/fleet-maintenance-desk/internal/queue"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
    queue_publisher "github.com/iliyamo/fleet-maintenance-desk/internal/service"
)

// TicketHandler bundles the write endpoints of both ticket families.
type TicketHandler struct {
    Cfg      config.Config
    Tickets  *repository.TicketRepo
    Internos *repository.InternalTicketRepo
    Tecnicos *repository.TechnicianRepo
}

func NewTicketHandler(cfg config.Config, t *repository.TicketRepo, i *repository.InternalTicketRepo, tec *repository.TechnicianRepo) *TicketHandler {
    return &TicketHandler{Cfg: cfg, Tickets: t, Internos: i, Tecnicos: tec}
}

type crearTicketReq struct {
    ClienteID    uint64  `json:"id_cliente"`
    NumAutobus   string  `json:"num_autobus"`
    FallaID      uint64  `json:"id_falla"`
    TecnicoID    *uint64 `json:"id_tecnico"`
    EvidenciaURL *string `json:"evidencia_url"`
}

// Crear handles POST /api/tickets/crear: one transaction inserts the
// ticket (estado forced to ABIERTO, folio INT-%04d) and, when a technician
// was supplied, its ficha.  On success the folio is returned and a
// ticket.created event is published best-effort.
func (h *TicketHandler) Crear(c echo.Context) error {
    var req crearTicketReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    req.NumAutobus = strings.TrimSpace(req.NumAutobus)
    if req.ClienteID == 0 || req.NumAutobus == "" || req.FallaID == 0 {
        return errorJSON(c, http.StatusBadRequest, "id_cliente, num_autobus e id_falla son obligatorios")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    codigo, err := h.Tickets.CreateExternal(ctx, repository.CreateExternalParams{
        ClienteID:    req.ClienteID,
        NumAutobus:   req.NumAutobus,
        FallaID:      req.FallaID,
        TecnicoID:    req.TecnicoID,
        EvidenciaURL: req.EvidenciaURL,
    })
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrClienteNotFound):
            return errorJSON(c, http.StatusNotFound, err.Error())
        case errors.Is(err, repository.ErrCodeConflict):
            return errorJSON(c, http.StatusConflict, err.Error())
        default:
            return errorJSON(c, http.StatusInternalServerError, err.Error())
        }
    }

    h.publishCreated(ctx, codigo, "EXTERNO", req.NumAutobus, req.TecnicoID)

    return c.JSON(http.StatusCreated, echo.Map{
        "status":  "success",
        "message": "Ticket creado",
        "codigo":  codigo,
    })
}

type crearTicketInternoReq struct {
    EmpresaID     uint64  `json:"id_empresa"`
    NumAutobus    string  `json:"num_autobus"`
    FallaID       uint64  `json:"id_falla"`
    SolicitanteID *uint64 `json:"id_solicitante"`
}

// CrearInterno handles POST /api/tickets-internos/crear.  The requester
// defaults to the configured fallback administrator when omitted.
func (h *TicketHandler) CrearInterno(c echo.Context) error {
    var req crearTicketInternoReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    req.NumAutobus = strings.TrimSpace(req.NumAutobus)
    if req.EmpresaID == 0 || req.NumAutobus == "" || req.FallaID == 0 {
        return errorJSON(c, http.StatusBadRequest, "id_empresa, num_autobus e id_falla son obligatorios")
    }
    solicitante := h.Cfg.FallbackAdmin
    if req.SolicitanteID != nil && *req.SolicitanteID != 0 {
        solicitante = *req.SolicitanteID
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    codigo, err := h.Internos.CreateInternal(ctx, repository.CreateInternalParams{
        SolicitanteID: solicitante,
        EmpresaID:     req.EmpresaID,
        NumAutobus:    req.NumAutobus,
        FallaID:       req.FallaID,
    })
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrEmpresaNotFound):
            return errorJSON(c, http.StatusNotFound, err.Error())
        case errors.Is(err, repository.ErrCodeConflict):
            return errorJSON(c, http.StatusConflict, err.Error())
        default:
            return errorJSON(c, http.StatusInternalServerError, err.Error())
        }
    }

    h.publishCreated(ctx, codigo, "INTERNO", req.NumAutobus, nil)

    return c.JSON(http.StatusCreated, echo.Map{
        "status":  "success",
        "message": "Ticket interno creado",
        "codigo":  codigo,
    })
}

type estadoReq struct {
    Estado string `json:"estado"`
}

// ActualizarEstado handles PUT /api/tickets/:id/estado.  The value must be
// a known status; transitions between known statuses are unrestricted.
func (h *TicketHandler) ActualizarEstado(c echo.Context) error {
    return h.updateEstado(c, h.Tickets.UpdateStatus)
}

// ActualizarEstadoInterno handles PUT /api/tickets-internos/:id/estado.
func (h *TicketHandler) ActualizarEstadoInterno(c echo.Context) error {
    return h.updateEstado(c, h.Internos.UpdateStatus)
}

func (h *TicketHandler) updateEstado(c echo.Context, update func(context.Context, uint64, string) error) error {
    id, ok := pathID(c, "id")
    if !ok {
        return errorJSON(c, http.StatusBadRequest, "id inválido")
    }
    var req estadoReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    if !model.ValidStatus(req.Estado) {
        return errorJSON(c, http.StatusBadRequest, "estado no válido")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := update(ctx, id, req.Estado); err != nil {
        if errors.Is(err, repository.ErrTicketNotFound) {
            return errorJSON(c, http.StatusNotFound, err.Error())
        }
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "estado": req.Estado})
}

// publishCreated fires the ticket.created event.  Failures are logged and
// swallowed: notification is a side channel, never part of the request's
// success criteria.
func (h *TicketHandler) publishCreated(ctx context.Context, codigo, tipo, numAutobus string, tecnicoID *uint64) {
    ev := queue.TicketCreatedEvent{
        Codigo:     codigo,
        Tipo:       tipo,
        NumAutobus: numAutobus,
        Estado:     model.StatusAbierto,
        CreatedAt:  time.Now().UTC().Format(time.RFC3339),
    }
    if tecnicoID != nil {
        if tec, err := h.Tecnicos.GetByID(ctx, *tecnicoID); err == nil {
            ev.TecnicoNombre = tec.Nombre + " " + tec.PrimerApellido
            if tec.IDTelegram != nil {
                if chat, err := strconv.ParseInt(*tec.IDTelegram, 10, 64); err == nil {
                    ev.TelegramChatID = chat
                }
            }
        }
    }
    if err := queue_publisher.PublishTicketCreated(ctx, ev); err != nil {
        log.Printf("ticket %s: event publish failed: %v", codigo, err)
    }
}
