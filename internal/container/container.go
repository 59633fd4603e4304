package container

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	"github.com/anime-shed/palette-inspector-go/internal/config"
	"github.com/anime-shed/palette-inspector-go/internal/factory"
	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/anime-shed/palette-inspector-go/internal/observer"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/internal/service"
	"github.com/anime-shed/palette-inspector-go/internal/strategy"
	"github.com/anime-shed/palette-inspector-go/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	imageRepository repository.ImageRepository
	paletteStore    repository.PaletteStore
	paletteAnalyzer analyzer.PaletteAnalyzer
	events          observer.Subject
	paletteService  service.PaletteService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	logger.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Build dependency graph
	components := factory.NewComponentFactory(cfg)

	imageRepository, err := components.ImageRepository(factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create image repository: %w", err)
	}

	analysisStrategy, err := strategy.ForName(cfg.ExtractionMode)
	if err != nil {
		return nil, err
	}

	paletteStore, err := components.StoreFactory.CreateStore(factory.StoreType(cfg.ResultStore))
	if err != nil {
		return nil, fmt.Errorf("failed to create palette store: %w", err)
	}

	paletteAnalyzer := analyzer.NewPaletteAnalyzer(cfg.MaxWorkers)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	paletteService := service.NewPaletteService(imageRepository, paletteStore, paletteAnalyzer, events, metrics, service.Options{
		MaxUploadSize:     cfg.MaxUploadSize,
		DefaultColorCount: cfg.DefaultColorCount,
		FetchTimeout:      cfg.ImageFetchTimeout,
		AnalysisTimeout:   cfg.AnalysisTimeout,
		Strategy:          analysisStrategy,
	})

	return &Container{
		config:          cfg,
		imageRepository: imageRepository,
		paletteStore:    paletteStore,
		paletteAnalyzer: paletteAnalyzer,
		events:          events,
		paletteService:  paletteService,
		handler:         transport.NewHandler(paletteService, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// PaletteService returns the service behind the handler
func (c *Container) PaletteService() service.PaletteService {
	return c.paletteService
}

// Close stops the worker pool, flushes pending events and closes the store
func (c *Container) Close() error {
	err := c.paletteAnalyzer.Close()
	c.events.Wait()
	return errors.Join(err, c.paletteStore.Close())
}
