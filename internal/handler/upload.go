package handler

import (
    "io"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-maintenance-desk/internal/storage"
)

// maxEvidenceBytes caps evidence uploads; workshop photos are phone shots,
// 10 MiB covers them.
const maxEvidenceBytes = 10 << 20

// UploadHandler proxies evidence images to the external image host and
// hands the resulting secure URL back to the caller, which then attaches
// it to a ticket or ficha.
type UploadHandler struct {
    Store storage.Uploader
}

func NewUploadHandler(store storage.Uploader) *UploadHandler {
    return &UploadHandler{Store: store}
}

// Evidencia handles POST /api/upload/evidencia (multipart: file, folder?).
func (h *UploadHandler) Evidencia(c echo.Context) error {
    fh, err := c.FormFile("file")
    if err != nil {
        return errorJSON(c, http.StatusBadRequest, "el archivo es obligatorio")
    }
    if fh.Size > maxEvidenceBytes {
        return errorJSON(c, http.StatusBadRequest, "el archivo excede el tamaño máximo")
    }
    folder := strings.TrimSpace(c.FormValue("folder"))
    if folder == "" {
        folder = "evidencias"
    }

    src, err := fh.Open()
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "no se pudo leer el archivo")
    }
    defer src.Close()

    data, err := io.ReadAll(io.LimitReader(src, maxEvidenceBytes))
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "no se pudo leer el archivo")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    url, err := h.Store.Upload(ctx, data, folder)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, storage.ErrUploadFailed.Error())
    }
    return c.JSON(http.StatusCreated, echo.Map{"status": "success", "url": url})
}
