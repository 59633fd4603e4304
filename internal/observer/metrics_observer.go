package observer

import (
	"context"
	"sync"
	"time"
)

// MetricsSnapshot is the JSON shape served by the metrics endpoint
type MetricsSnapshot struct {
	TotalExtractions      int64         `json:"total_extractions"`
	SuccessfulExtractions int64         `json:"successful_extractions"`
	FailedExtractions     int64         `json:"failed_extractions"`
	RejectedUploads       int64         `json:"rejected_uploads"`
	ImageFetches          int64         `json:"image_fetches"`
	FailedImageFetches    int64         `json:"failed_image_fetches"`
	ColorsExtracted       int64         `json:"colors_extracted"`
	TotalProcessingTime   time.Duration `json:"total_processing_time_ns"`
	AvgProcessingTime     time.Duration `json:"avg_processing_time_ns"`
	// PaletteSizes counts completed extractions per number of returned colors
	PaletteSizes map[int]int64 `json:"palette_sizes"`
}

// MetricsObserver collects counters from extraction events
type MetricsObserver struct {
	mu sync.RWMutex

	totalExtractions      int64
	successfulExtractions int64
	failedExtractions     int64
	rejectedUploads       int64
	imageFetches          int64
	failedImageFetches    int64
	colorsExtracted       int64
	totalProcessingTime   time.Duration
	paletteSizes          map[int]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{paletteSizes: make(map[int]int64)}
}

// OnEvent handles extraction events by collecting metrics. Completed events
// may carry a "color_count" metadata entry.
func (o *MetricsObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ExtractionStarted:
		o.totalExtractions++
	case ExtractionCompleted:
		o.successfulExtractions++
		o.totalProcessingTime += event.ProcessingTime
		if n, ok := event.Metadata["color_count"].(int); ok {
			o.colorsExtracted += int64(n)
			o.paletteSizes[n]++
		}
	case ExtractionFailed:
		o.failedExtractions++
	case UploadRejected:
		o.rejectedUploads++
	case ImageFetched:
		o.imageFetches++
	case ImageFetchFailed:
		o.failedImageFetches++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Snapshot returns a copy of the current counters
func (o *MetricsObserver) Snapshot() MetricsSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var avg time.Duration
	if o.successfulExtractions > 0 {
		avg = o.totalProcessingTime / time.Duration(o.successfulExtractions)
	}

	sizes := make(map[int]int64, len(o.paletteSizes))
	for k, v := range o.paletteSizes {
		sizes[k] = v
	}

	return MetricsSnapshot{
		TotalExtractions:      o.totalExtractions,
		SuccessfulExtractions: o.successfulExtractions,
		FailedExtractions:     o.failedExtractions,
		RejectedUploads:       o.rejectedUploads,
		ImageFetches:          o.imageFetches,
		FailedImageFetches:    o.failedImageFetches,
		ColorsExtracted:       o.colorsExtracted,
		TotalProcessingTime:   o.totalProcessingTime,
		AvgProcessingTime:     avg,
		PaletteSizes:          sizes,
	}
}
