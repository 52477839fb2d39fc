// Package storage abstracts the external image host that keeps repair
// evidence photos.  Handlers depend on the Uploader interface only; the
// Cloudinary implementation lives in cloudinary.go.
package storage

import (
    "context"
    "errors"
)

// ErrUploadFailed wraps any transport or service failure of the image
// host.  Handlers translate it into a 500 payload without leaking the
// provider error (it may contain the request signature).
var ErrUploadFailed = errors.New("error al subir la evidencia")

// Uploader stores a file and returns a publicly reachable secure URL.
type Uploader interface {
    Upload(ctx context.Context, data []byte, folder string) (string, error)
}
