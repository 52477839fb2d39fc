package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
)

// AdminHandler covers back-office user management (registration and the
// unified listing).
type AdminHandler struct {
    Cfg    config.Config
    Admins *repository.AdminRepo
}

func NewAdminHandler(cfg config.Config, a *repository.AdminRepo) *AdminHandler {
    return &AdminHandler{Cfg: cfg, Admins: a}
}

type registrarReq struct {
    Nombre    string  `json:"nombre"`
    Apellidos string  `json:"apellidos"`
    Usuario   string  `json:"usuario"`
    Password  string  `json:"password"`
    Rol       string  `json:"rol"`
    Email     string  `json:"email"`
    EmpresaID *uint64 `json:"id_empresa"`
}

// Registrar handles POST /api/usuarios/registrar.  EMP_ADMIN is the only
// company-scoped role and therefore the only one that requires id_empresa.
// The password is stored hashed; the plaintext never leaves this request.
func (h *AdminHandler) Registrar(c echo.Context) error {
    var req registrarReq
    if err := c.Bind(&req); err != nil {
        return errorJSON(c, http.StatusBadRequest, "cuerpo inválido")
    }
    req.Nombre = strings.TrimSpace(req.Nombre)
    req.Usuario = strings.TrimSpace(req.Usuario)
    req.Rol = strings.ToUpper(strings.TrimSpace(req.Rol))

    if req.Nombre == "" || req.Usuario == "" || req.Password == "" {
        return errorJSON(c, http.StatusBadRequest, "nombre, usuario y password son obligatorios")
    }
    if !model.ValidRole(req.Rol) {
        return errorJSON(c, http.StatusBadRequest, "rol no válido")
    }
    if req.Rol == model.RolEmpAdmin && (req.EmpresaID == nil || *req.EmpresaID == 0) {
        return errorJSON(c, http.StatusBadRequest, "id_empresa es obligatorio para EMP_ADMIN")
    }
    if req.Rol != model.RolEmpAdmin {
        req.EmpresaID = nil // system-level roles never carry a company
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Admins.Create(ctx, repository.CreateAdminParams{
        Nombre:    req.Nombre,
        Apellidos: req.Apellidos,
        Usuario:   req.Usuario,
        Password:  req.Password,
        Rol:       req.Rol,
        Email:     req.Email,
        EmpresaID: req.EmpresaID,
    }, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrUsuarioExists) {
            return errorJSON(c, http.StatusConflict, err.Error())
        }
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusCreated, echo.Map{"status": "success", "id": id})
}

// Listar handles GET /api/usuarios — the unified {id, nombre, apellidos,
// rol, empresa?} view across all roles.
func (h *AdminHandler) Listar(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    admins, err := h.Admins.List(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, err.Error())
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": admins})
}
