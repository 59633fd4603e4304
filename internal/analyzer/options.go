package analyzer

import "github.com/anime-shed/palette-inspector-go/internal/palette"

// AnalysisOptions provides flexible configuration for palette extraction
type AnalysisOptions struct {
	// Palette shape
	ColorCount int

	// Sampling and clustering
	SampleSize         int
	QuantizationStep   int
	DuplicateThreshold float64

	// Performance options
	UseWorkerPool bool
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		ColorCount:         palette.DefaultColorCount,
		SampleSize:         palette.DefaultSampleSize,
		QuantizationStep:   palette.DefaultQuantizationStep,
		DuplicateThreshold: palette.DuplicateThreshold,
		UseWorkerPool:      true,
	}
}

// PreviewOptions trades accuracy for speed: a smaller sample and coarser bins.
func PreviewOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.SampleSize = 64
	opts.QuantizationStep = 32
	return opts
}

// WithColorCount sets the requested palette size, clamped to the supported range
func (opts AnalysisOptions) WithColorCount(n int) AnalysisOptions {
	switch {
	case n < palette.MinColorCount:
		n = palette.MinColorCount
	case n > palette.MaxColorCount:
		n = palette.MaxColorCount
	}
	opts.ColorCount = n
	return opts
}

// WithSampleSize sets the longest side of the downsampled image
func (opts AnalysisOptions) WithSampleSize(size int) AnalysisOptions {
	opts.SampleSize = size
	return opts
}

// WithQuantizationStep sets the histogram bin width per channel
func (opts AnalysisOptions) WithQuantizationStep(step int) AnalysisOptions {
	opts.QuantizationStep = step
	return opts
}

// WithDuplicateThreshold sets the Delta E below which colors are merged
func (opts AnalysisOptions) WithDuplicateThreshold(threshold float64) AnalysisOptions {
	opts.DuplicateThreshold = threshold
	return opts
}

// WithoutWorkerPool runs the extraction on the calling goroutine
func (opts AnalysisOptions) WithoutWorkerPool() AnalysisOptions {
	opts.UseWorkerPool = false
	return opts
}

func (opts AnalysisOptions) paletteOptions() palette.Options {
	return palette.Options{
		ColorCount:         opts.ColorCount,
		SampleSize:         opts.SampleSize,
		QuantizationStep:   opts.QuantizationStep,
		DuplicateThreshold: opts.DuplicateThreshold,
	}
}
