package strategy

import (
	"fmt"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	"github.com/anime-shed/palette-inspector-go/internal/config"
)

// AnalysisStrategy defines how a palette request maps to analysis options
type AnalysisStrategy interface {
	Options(colorCount int) analyzer.AnalysisOptions
	GetStrategyName() string
}

// StandardStrategy samples up to 200x200 pixels into 16-step bins
type StandardStrategy struct{}

// NewStandardStrategy creates a new standard strategy
func NewStandardStrategy() AnalysisStrategy {
	return StandardStrategy{}
}

// Options returns the default options for colorCount
func (StandardStrategy) Options(colorCount int) analyzer.AnalysisOptions {
	return analyzer.DefaultOptions().WithColorCount(colorCount)
}

// GetStrategyName returns the strategy name
func (StandardStrategy) GetStrategyName() string {
	return config.ModeStandard
}

// PreviewStrategy provides quick extraction with reduced accuracy
type PreviewStrategy struct{}

// NewPreviewStrategy creates a new preview strategy
func NewPreviewStrategy() AnalysisStrategy {
	return PreviewStrategy{}
}

// Options returns the preview options for colorCount
func (PreviewStrategy) Options(colorCount int) analyzer.AnalysisOptions {
	return analyzer.PreviewOptions().WithColorCount(colorCount)
}

// GetStrategyName returns the strategy name
func (PreviewStrategy) GetStrategyName() string {
	return config.ModePreview
}

// ForName returns the strategy for a configured mode. An empty name selects
// the standard strategy.
func ForName(name string) (AnalysisStrategy, error) {
	switch name {
	case "", config.ModeStandard:
		return NewStandardStrategy(), nil
	case config.ModePreview:
		return NewPreviewStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown extraction mode: %q", name)
	}
}
