package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
)

// LocalImageFetcher reads images below a root directory
type LocalImageFetcher struct {
	root     string
	maxBytes int64
}

func NewLocalImageFetcher(root string, maxBytes int64) (*LocalImageFetcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve image root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("image root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image root %s is not a directory", abs)
	}
	return &LocalImageFetcher{root: abs, maxBytes: maxBytes}, nil
}

func (l *LocalImageFetcher) Name() string {
	return "local"
}

func (l *LocalImageFetcher) FetchImage(ctx context.Context, ref string) (*DecodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("image read cancelled", err)
	}

	path, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("image not found", err)
		}
		return nil, apperrors.NewInternalError("failed to open image", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to stat image", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewValidationError("image path is a directory", nil)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return nil, apperrors.NewPayloadTooLargeError("image file is too large", nil)
	}

	return DecodeImage(f, l.maxBytes)
}

// resolve joins ref onto the root and rejects anything that lands outside it
func (l *LocalImageFetcher) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperrors.NewValidationError("image path cannot be empty", nil)
	}

	path := filepath.Join(l.root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.NewValidationError("image path escapes the image root", err)
	}
	return path, nil
}
