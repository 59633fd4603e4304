package validation

import (
	"path"
	"strings"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".avif": true,
}

// IsImagePath reports whether p has a decodable image extension
func IsImagePath(p string) bool {
	return imageExtensions[strings.ToLower(path.Ext(p))]
}

// BlobValidator accepts "container/blob/name.png" references or full
// https blob URLs.
type BlobValidator struct {
	urls *URLValidator
}

func NewBlobValidator() *BlobValidator {
	return &BlobValidator{
		urls: NewURLValidatorWithOptions([]string{"https"}, []string{".blob.core.windows.net"}),
	}
}

func (v *BlobValidator) Validate(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return apperrors.NewValidationError("blob reference cannot be empty", nil)
	}
	if strings.Contains(ref, "://") {
		return v.urls.ValidateImageURL(ref)
	}

	container, blob, ok := strings.Cut(strings.TrimPrefix(ref, "/"), "/")
	if !ok || container == "" || blob == "" {
		return apperrors.NewValidationError("blob reference must be container/blob", nil)
	}
	return nil
}

// PathValidator accepts relative image paths that stay inside the image root.
type PathValidator struct{}

func NewPathValidator() *PathValidator {
	return &PathValidator{}
}

func (v *PathValidator) Validate(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return apperrors.NewValidationError("image path cannot be empty", nil)
	}
	if path.IsAbs(ref) || strings.HasPrefix(ref, "\\") {
		return apperrors.NewValidationError("image path must be relative", nil)
	}

	cleaned := path.Clean(strings.ReplaceAll(ref, "\\", "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return apperrors.NewValidationError("image path escapes the image root", nil)
	}
	if !IsImagePath(cleaned) {
		return apperrors.NewValidationError("unsupported image file extension", nil)
	}
	return nil
}
