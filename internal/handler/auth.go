package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository"
    "github.com/iliyamo/fleet-maintenance-desk/internal/utils"
)

// AuthHandler implements back-office sessions: short-lived JWT access
// tokens plus rotated refresh tokens whose hashes live in the database.
type AuthHandler struct {
    Cfg    config.Config
    Admins *repository.AdminRepo
    Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, a *repository.AdminRepo, t *repository.TokenRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Admins: a, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
    Usuario  string `json:"usuario"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type adminPart struct {
    ID      uint64 `json:"id"`
    Usuario string `json:"usuario"`
    Rol     string `json:"rol"`
}
type authResp struct {
    Admin   adminPart `json:"admin"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

// Login verifies credentials and returns a fresh token pair.  Inactive
// accounts cannot log in.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Usuario = strings.ToLower(strings.TrimSpace(req.Usuario))
    if req.Usuario == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario/password required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Admins.GetByUsuario(ctx, req.Usuario)
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !a.Activo || !utils.VerifyPassword(a.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Rol, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Admin:   adminPart{ID: a.ID, Usuario: a.Usuario, Rol: a.Rol},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Refresh validates the presented refresh token by hash, revokes it and
// issues a new pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := reqCtx(c)
    defer cancel()

    adminID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    a, err := h.Admins.GetByID(ctx, adminID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load admin failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Rol, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Admin:   adminPart{ID: a.ID, Usuario: a.Usuario, Rol: a.Rol},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
    })
}

// Logout invalidates the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated administrator's identity from the database.
func (h *AuthHandler) Me(c echo.Context) error {
    idClaim := c.Get("admin_id")
    idF, ok := idClaim.(float64) // MapClaims numbers decode as float64
    if !ok || idF <= 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Admins.GetByID(ctx, uint64(idF))
    if err != nil {
        if errors.Is(err, repository.ErrAdminNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, adminPart{ID: a.ID, Usuario: a.Usuario, Rol: a.Rol})
}
