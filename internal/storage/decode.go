package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
)

// DecodedImage is an image plus what was learned while decoding it
type DecodedImage struct {
	Image  image.Image
	Format string
	Bytes  int64
}

// ReadLimited reads r fully, failing once more than maxBytes arrive.
// maxBytes <= 0 disables the limit.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.NewPayloadTooLargeError(
			fmt.Sprintf("image exceeds the %s limit", humanize.IBytes(uint64(maxBytes))), nil)
	}
	return data, nil
}

// DecodeImage decodes JPEG, PNG, GIF, BMP, TIFF, WebP and AVIF data and
// applies EXIF orientation so palettes match what viewers display.
func DecodeImage(r io.Reader, maxBytes int64) (*DecodedImage, error) {
	data, err := ReadLimited(r, maxBytes)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewNetworkError("failed to read image data", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is DecodeImage for data already in memory
func DecodeBytes(data []byte) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("image data is empty", nil)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, apperrors.NewUnsupportedMediaError("unsupported image format", err)
		}
		return nil, apperrors.NewProcessingError("failed to decode image", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to decode image", err)
	}

	return &DecodedImage{
		Image:  img,
		Format: format,
		Bytes:  int64(len(data)),
	}, nil
}
