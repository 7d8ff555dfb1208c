package service

import "context"

// ImageReferences reports whether any stored content still points at a
// hosted image URL.
type ImageReferences interface {
	IsImageReferenced(ctx context.Context, url string) (bool, error)
}
