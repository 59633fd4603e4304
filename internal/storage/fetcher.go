package storage

import (
	"context"
)

// ImageFetcher loads and decodes an image from a backend-specific reference:
// a URL for HTTP, "container/blob" or a blob URL for Azure, a relative path
// for the local filesystem.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) (*DecodedImage, error)
	// Name identifies the backend in logs and events
	Name() string
}
