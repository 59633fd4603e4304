package validation

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/palette"
)

// ClampColorCount limits a requested palette size to the supported range.
func ClampColorCount(n int) int {
	if n < palette.MinColorCount {
		return palette.MinColorCount
	}
	if n > palette.MaxColorCount {
		return palette.MaxColorCount
	}
	return n
}

// ParseColorCount reads the colorCount form value. Empty or non-numeric input
// yields def; numeric input is clamped.
func ParseColorCount(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ClampColorCount(def)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return ClampColorCount(def)
	}
	return ClampColorCount(n)
}

// ValidateUpload checks the declared content type and size of an uploaded file.
func ValidateUpload(contentType string, size, maxSize int64) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return apperrors.NewUnsupportedMediaError("Invalid image file", err).
			WithDetails(fmt.Sprintf("content type %q is not an image", contentType))
	}
	if size > maxSize {
		return apperrors.NewPayloadTooLargeError("File size must be less than "+humanize.IBytes(uint64(maxSize)), nil)
	}
	return nil
}
