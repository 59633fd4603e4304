package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/anime-shed/palette-inspector-go/internal/observer"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/internal/strategy"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
	"github.com/anime-shed/palette-inspector-go/pkg/validation"
)

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Options bounds the work a single request may cause
type Options struct {
	MaxUploadSize     int64
	DefaultColorCount int
	FetchTimeout      time.Duration
	AnalysisTimeout   time.Duration
	// Strategy defaults to the standard strategy when nil
	Strategy strategy.AnalysisStrategy
}

// Metrics is served by the metrics endpoint
type Metrics struct {
	Extractions observer.MetricsSnapshot `json:"extractions"`
	WorkerPool  analyzer.PoolStats       `json:"worker_pool"`
}

// PaletteService extracts palettes from uploads and stored images
type PaletteService interface {
	ExtractFromUpload(ctx context.Context, upload Upload, colorCount int) (*models.PaletteResponse, error)
	ExtractFromReference(ctx context.Context, ref string, colorCount int) (*models.PaletteResponse, error)

	// Palette history
	GetPalette(ctx context.Context, id string) (*models.PaletteResponse, error)
	RecentPalettes(ctx context.Context, limit int) ([]models.PaletteSummary, error)

	Metrics() Metrics
}

type paletteService struct {
	imageRepo repository.ImageRepository
	store     repository.PaletteStore
	analyzer  analyzer.PaletteAnalyzer
	events    observer.Subject
	metrics   *observer.MetricsObserver
	opts      Options
}

// NewPaletteService wires the service. metrics may be nil when the metrics
// observer is not subscribed to events.
func NewPaletteService(
	imageRepository repository.ImageRepository,
	store repository.PaletteStore,
	paletteAnalyzer analyzer.PaletteAnalyzer,
	events observer.Subject,
	metrics *observer.MetricsObserver,
	opts Options,
) PaletteService {
	if opts.Strategy == nil {
		opts.Strategy = strategy.NewStandardStrategy()
	}
	return &paletteService{
		imageRepo: imageRepository,
		store:     store,
		analyzer:  paletteAnalyzer,
		events:    events,
		metrics:   metrics,
		opts:      opts,
	}
}

// ExtractFromUpload checks the declared type and size, sniffs the bytes and
// extracts a palette.
func (s *paletteService) ExtractFromUpload(ctx context.Context, upload Upload, colorCount int) (*models.PaletteResponse, error) {
	start := time.Now()
	s.publish(ctx, observer.ExtractionEvent{EventType: observer.ExtractionStarted, Source: upload.Filename})

	if err := validation.ValidateUpload(upload.ContentType, upload.Size, s.opts.MaxUploadSize); err != nil {
		return nil, s.reject(ctx, upload.Filename, start, err)
	}

	data, err := storage.ReadLimited(upload.Reader, s.opts.MaxUploadSize)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.NewValidationError("failed to read upload", err)
		}
		return nil, s.reject(ctx, upload.Filename, start, err)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		err := apperrors.NewUnsupportedMediaError("Invalid image file", nil).
			WithDetails("file content is " + detected.String())
		return nil, s.reject(ctx, upload.Filename, start, err)
	}

	decoded, err := storage.DecodeBytes(data)
	if err != nil {
		return nil, s.fail(ctx, upload.Filename, start, err)
	}

	return s.extract(ctx, decoded, upload.Filename, colorCount, start)
}

// ExtractFromReference loads ref from the configured backend and extracts a
// palette.
func (s *paletteService) ExtractFromReference(ctx context.Context, ref string, colorCount int) (*models.PaletteResponse, error) {
	start := time.Now()
	s.publish(ctx, observer.ExtractionEvent{EventType: observer.ExtractionStarted, Source: ref})

	if err := s.imageRepo.ValidateReference(ref); err != nil {
		return nil, s.fail(ctx, ref, start, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	fetchStart := time.Now()
	decoded, err := s.imageRepo.FetchImage(fetchCtx, ref)
	if err != nil {
		s.publish(ctx, observer.ExtractionEvent{
			EventType:      observer.ImageFetchFailed,
			Source:         ref,
			ProcessingTime: time.Since(fetchStart),
			ErrorMessage:   err.Error(),
			Metadata:       map[string]interface{}{"backend": s.imageRepo.Backend()},
		})
		return nil, s.fail(ctx, ref, start, err)
	}
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ImageFetched,
		Source:         ref,
		ProcessingTime: time.Since(fetchStart),
		Success:        true,
		Metadata: map[string]interface{}{
			"backend": s.imageRepo.Backend(),
			"format":  decoded.Format,
			"bytes":   decoded.Bytes,
		},
	})

	return s.extract(ctx, decoded, ref, colorCount, start)
}

func (s *paletteService) extract(ctx context.Context, decoded *storage.DecodedImage, source string, colorCount int, start time.Time) (*models.PaletteResponse, error) {
	if colorCount <= 0 {
		colorCount = s.opts.DefaultColorCount
	}
	options := s.opts.Strategy.Options(colorCount)

	analysisCtx, cancel := context.WithTimeout(ctx, s.opts.AnalysisTimeout)
	defer cancel()

	result, err := s.analyzer.Analyze(analysisCtx, decoded.Image, options)
	if err != nil {
		return nil, s.fail(ctx, source, start, err)
	}

	response := BuildResponse(result, source, decoded.Format)

	if err := s.store.Save(ctx, response); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"palette_id": response.ID,
			"source":     source,
		}).Warn("Failed to save palette history")
	}

	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionCompleted,
		Source:         source,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"palette_id":  response.ID,
			"color_count": len(response.Colors),
			"strategy":    s.opts.Strategy.GetStrategyName(),
			"width":       response.Width,
			"height":      response.Height,
		},
	})
	return response, nil
}

func (s *paletteService) GetPalette(ctx context.Context, id string) (*models.PaletteResponse, error) {
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrPaletteNotFound) {
		return nil, apperrors.NewNotFoundError("palette not found", err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load palette", err)
	}
	return p, nil
}

func (s *paletteService) RecentPalettes(ctx context.Context, limit int) ([]models.PaletteSummary, error) {
	items, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list palettes", err)
	}
	return items, nil
}

func (s *paletteService) Metrics() Metrics {
	m := Metrics{WorkerPool: s.analyzer.Stats()}
	if s.metrics != nil {
		m.Extractions = s.metrics.Snapshot()
	}
	return m
}

func (s *paletteService) reject(ctx context.Context, source string, start time.Time, err error) error {
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.UploadRejected,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	return err
}

func (s *paletteService) fail(ctx context.Context, source string, start time.Time, err error) error {
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	return err
}

func (s *paletteService) publish(ctx context.Context, event observer.ExtractionEvent) {
	if s.events == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = RequestIDFromContext(ctx)
	}
	s.events.NotifyObservers(ctx, event)
}
