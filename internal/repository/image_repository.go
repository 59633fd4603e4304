package repository

import (
	"context"

	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/pkg/validation"
)

// imageRepository implements ImageRepository over one storage backend
type imageRepository struct {
	fetcher   storage.ImageFetcher
	validator validation.ReferenceValidator
}

// NewImageRepository pairs a fetcher with the validator for its reference format
func NewImageRepository(fetcher storage.ImageFetcher, validator validation.ReferenceValidator) ImageRepository {
	return &imageRepository{
		fetcher:   fetcher,
		validator: validator,
	}
}

func (r *imageRepository) FetchImage(ctx context.Context, ref string) (*storage.DecodedImage, error) {
	if err := r.ValidateReference(ref); err != nil {
		return nil, err
	}
	return r.fetcher.FetchImage(ctx, ref)
}

func (r *imageRepository) ValidateReference(ref string) error {
	return r.validator.Validate(ref)
}

func (r *imageRepository) Backend() string {
	return r.fetcher.Name()
}
