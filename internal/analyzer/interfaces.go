package analyzer

import (
	"context"
	"image"
)

// PaletteAnalyzer runs palette extraction on decoded images
type PaletteAnalyzer interface {
	Analyze(ctx context.Context, img image.Image, options AnalysisOptions) (AnalysisResult, error)

	// Stats reports worker pool activity
	Stats() PoolStats

	// Lifecycle management
	Close() error
}
