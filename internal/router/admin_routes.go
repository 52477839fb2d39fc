package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/handler"
    "github.com/iliyamo/fleet-maintenance-desk/internal/middleware"
    "github.com/iliyamo/fleet-maintenance-desk/internal/model"
)

// RegisterAuth wires the session endpoints.  Only /me requires a token;
// login, refresh and logout authenticate by credential or refresh token.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/api/auth")
    g.POST("/login", h.Login)
    g.POST("/refresh", h.Refresh)
    g.POST("/logout", h.Logout)
    g.GET("/me", h.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterUsers wires account administration behind JWT plus a role check.
// Only system-level roles can register or list accounts.
func RegisterUsers(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/api/usuarios",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RolSuperAdmin, model.RolSupervisor),
    )
    g.POST("/registrar", h.Registrar)
    g.GET("", h.Listar)
}
