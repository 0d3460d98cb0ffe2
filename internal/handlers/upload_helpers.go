package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/storage"
)

const (
	maxAvatarSize      = 5 << 20
	maxStudioImageSize = 20 << 20
	maxMediaSize       = 50 << 20

	thumbnailEdge = 480
)

var imageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var audioMIMEs = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/x-m4a": true,
}

// ObjectStore is the slice of the storage client the handlers need.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (storage.Object, error)
	UploadBatch(ctx context.Context, items []storage.BatchItem) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// readFormFile loads a multipart file into memory, enforcing the size limit
// and MIME allow-list before anything touches the bucket.
func readFormFile(fh *multipart.FileHeader, maxSize int64, allowed map[string]bool) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", httperr.ErrBusiness("file_too_large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxSize {
		return nil, "", httperr.ErrBusiness("file_too_large")
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !allowed[contentType] {
		return nil, "", httperr.ErrBusiness("unsupported_file_type")
	}

	return data, contentType, nil
}
