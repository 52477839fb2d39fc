package storage

import (
    "bytes"
    "context"
    "log"

    "github.com/cloudinary/cloudinary-go/v2"
    "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader uploads evidence images to Cloudinary.  The account
// is selected by the single CLOUDINARY_URL credential resolved at startup.
type CloudinaryUploader struct {
    cld *cloudinary.Cloudinary
}

// NewCloudinary builds an uploader from a cloudinary:// URL.  An empty URL
// returns (nil, nil) so the caller can leave the upload endpoint
// unregistered instead of failing startup.
func NewCloudinary(url string) (*CloudinaryUploader, error) {
    if url == "" {
        return nil, nil
    }
    cld, err := cloudinary.NewFromURL(url)
    if err != nil {
        return nil, err
    }
    return &CloudinaryUploader{cld: cld}, nil
}

// Upload sends the file bytes to Cloudinary and returns the secure URL.
// Provider errors are logged server-side and collapsed into
// ErrUploadFailed for the caller.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
    res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{Folder: folder})
    if err != nil {
        log.Printf("cloudinary: upload failed: %v", err)
        return "", ErrUploadFailed
    }
    if res.SecureURL == "" {
        log.Printf("cloudinary: empty secure_url in response (error: %s)", res.Error.Message)
        return "", ErrUploadFailed
    }
    return res.SecureURL, nil
}
