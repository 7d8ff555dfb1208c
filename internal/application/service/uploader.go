package service

import (
	"context"
	"io"
)

// Uploader stores images with an external media host.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
	// PublicIDFromURL recovers the host's identifier from a delivery URL.
	PublicIDFromURL(rawURL string) (string, bool)
}
