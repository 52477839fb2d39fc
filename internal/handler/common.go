package handler

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call issued from a handler.  The legacy
// service had no timeouts at all; five seconds is generous for queries that
// are all single-digit-millisecond joins.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the incoming request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses a numeric path parameter.  Zero is never a valid id.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// strconvParse parses a required numeric query parameter.
func strconvParse(s string) (uint64, error) {
    return strconv.ParseUint(s, 10, 64)
}

// errorJSON is the legacy error envelope used across the /api surface.
func errorJSON(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"status": "error", "message": msg})
}
