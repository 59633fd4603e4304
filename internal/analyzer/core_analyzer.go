package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/palette"
)

var errAnalyzerClosed = errors.New("analyzer is closed")

// coreAnalyzer implements PaletteAnalyzer on top of a shared worker pool
type coreAnalyzer struct {
	workerPool *WorkerPool
	closeOnce  sync.Once
}

type extraction struct {
	result palette.Result
	err    error
}

// NewPaletteAnalyzer creates an analyzer whose pool runs at most maxWorkers
// extractions at a time. maxWorkers <= 0 uses the CPU count.
func NewPaletteAnalyzer(maxWorkers int) PaletteAnalyzer {
	workerPool := NewWorkerPool(maxWorkers)
	workerPool.Start()

	return &coreAnalyzer{workerPool: workerPool}
}

// Analyze extracts a palette from img. With UseWorkerPool the work is queued
// on the pool and ctx bounds both queueing and waiting.
func (ca *coreAnalyzer) Analyze(ctx context.Context, img image.Image, options AnalysisOptions) (AnalysisResult, error) {
	if img == nil {
		return AnalysisResult{}, apperrors.NewValidationError("image is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, contextError(err)
	}

	start := time.Now()
	result := AnalysisResult{
		ID:        uuid.NewString(),
		Timestamp: start,
		Options:   options,
	}

	var out extraction
	if options.UseWorkerPool {
		var err error
		out, err = ca.runPooled(ctx, img, options.paletteOptions())
		if err != nil {
			return AnalysisResult{}, err
		}
	} else {
		out = extract(img, options.paletteOptions())
	}
	if out.err != nil {
		return AnalysisResult{}, out.err
	}

	result.Palette = out.result
	result.ProcessingTimeSec = time.Since(start).Seconds()
	return result, nil
}

func (ca *coreAnalyzer) runPooled(ctx context.Context, img image.Image, opts palette.Options) (extraction, error) {
	done := make(chan extraction, 1)
	job := func() {
		if ctx.Err() != nil {
			done <- extraction{err: contextError(ctx.Err())}
			return
		}
		done <- extract(img, opts)
	}

	if !ca.workerPool.SubmitContext(ctx, job) {
		if err := ctx.Err(); err != nil {
			return extraction{}, contextError(err)
		}
		return extraction{}, apperrors.NewInternalError("palette extraction unavailable", errAnalyzerClosed)
	}

	select {
	case out := <-done:
		return out, nil
	case <-ctx.Done():
		return extraction{}, contextError(ctx.Err())
	}
}

// extract recovers panics from the engine so a bad image cannot take a
// worker down with it.
func extract(img image.Image, opts palette.Options) (out extraction) {
	defer func() {
		if r := recover(); r != nil {
			out = extraction{err: apperrors.NewProcessingError("palette extraction failed", fmt.Errorf("panic: %v", r))}
		}
	}()
	return extraction{result: palette.Extract(img, opts)}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("palette extraction timed out", err)
	}
	return apperrors.NewProcessingError("palette extraction cancelled", err)
}

// Stats exposes worker pool counters for the metrics endpoint
func (ca *coreAnalyzer) Stats() PoolStats {
	return ca.workerPool.GetStats()
}

// Close releases resources used by the analyzer
func (ca *coreAnalyzer) Close() error {
	ca.closeOnce.Do(ca.workerPool.Close)
	return nil
}
