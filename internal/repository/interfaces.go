package repository

import (
	"context"

	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

// ImageRepository defines the interface for loading referenced images
type ImageRepository interface {
	// FetchImage validates ref and loads it through the configured backend
	FetchImage(ctx context.Context, ref string) (*storage.DecodedImage, error)

	// ValidateReference checks ref without fetching it
	ValidateReference(ref string) error

	// Backend names the storage backend
	Backend() string
}

// PaletteStore keeps extracted palettes so they can be fetched again by ID
type PaletteStore interface {
	Save(ctx context.Context, palette *models.PaletteResponse) error

	// Get returns ErrPaletteNotFound for unknown IDs
	Get(ctx context.Context, id string) (*models.PaletteResponse, error)

	// Recent lists up to limit summaries, newest first
	Recent(ctx context.Context, limit int) ([]models.PaletteSummary, error)

	Close() error
}
