package cli

import (
	"context"
	"os"

	"github.com/adrg/xdg"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/internal/service"
	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/internal/strategy"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

const (
	maxImageFileSize = 256 << 20

	historyFile = "palette-inspector/history.db"
)

// extractor runs local images through the shared analyzer
type extractor struct {
	analyzer analyzer.PaletteAnalyzer
	options  analyzer.AnalysisOptions
}

func newExtractor(workers, colorCount int, preview bool) *extractor {
	s := strategy.NewStandardStrategy()
	if preview {
		s = strategy.NewPreviewStrategy()
	}
	return &extractor{
		analyzer: analyzer.NewPaletteAnalyzer(workers),
		options:  s.Options(colorCount),
	}
}

func (e *extractor) extractFile(ctx context.Context, path string) (*models.PaletteResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError("cannot open image", err)
	}
	defer f.Close()

	decoded, err := storage.DecodeImage(f, maxImageFileSize)
	if err != nil {
		return nil, err
	}
	return e.extract(ctx, decoded, path)
}

func (e *extractor) extract(ctx context.Context, decoded *storage.DecodedImage, source string) (*models.PaletteResponse, error) {
	result, err := e.analyzer.Analyze(ctx, decoded.Image, e.options)
	if err != nil {
		return nil, err
	}
	return service.BuildResponse(result, source, decoded.Format), nil
}

func (e *extractor) Close() error {
	return e.analyzer.Close()
}

// openHistory opens the history database, defaulting to the XDG data dir
func openHistory(path string) (*repository.SQLiteStore, error) {
	if path == "" {
		p, err := xdg.DataFile(historyFile)
		if err != nil {
			return nil, err
		}
		path = p
	}
	return repository.OpenSQLiteStore(path)
}
