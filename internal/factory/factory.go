package factory

import (
	"fmt"

	"github.com/anime-shed/palette-inspector-go/internal/config"
	"github.com/anime-shed/palette-inspector-go/internal/repository"
	"github.com/anime-shed/palette-inspector-go/internal/storage"
	"github.com/anime-shed/palette-inspector-go/pkg/validation"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = config.BackendHTTP
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = config.BackendAzure
	// LocalStorage for local file system
	LocalStorage StorageType = config.BackendLocal
)

// StoreType represents palette history backends
type StoreType string

const (
	MemoryStore StoreType = config.StoreMemory
	SQLiteStore StoreType = config.StoreSQLite
	NoStore     StoreType = config.StoreNone
)

// StorageFactory creates image sources and their reference validators
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
	CreateValidator(storageType StorageType) (validation.ReferenceValidator, error)
}

// storageFactory implements StorageFactory from configuration
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		opts := storage.DefaultHTTPFetcherOptions()
		opts.Timeout = f.cfg.ImageFetchTimeout
		opts.MaxBytes = f.cfg.MaxUploadSize
		return storage.NewHTTPImageFetcher(opts), nil
	case AzureStorage:
		return storage.NewAzureBlobFetcher(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxUploadSize)
	case LocalStorage:
		return storage.NewLocalImageFetcher(f.cfg.LocalImageRoot, f.cfg.MaxUploadSize)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// CreateValidator returns the reference validator matching a storage type
func (f *storageFactory) CreateValidator(storageType StorageType) (validation.ReferenceValidator, error) {
	switch storageType {
	case HTTPStorage:
		return validation.NewURLValidator(), nil
	case AzureStorage:
		return validation.NewBlobValidator(), nil
	case LocalStorage:
		return validation.NewPathValidator(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// StoreFactory creates palette history stores
type StoreFactory interface {
	CreateStore(storeType StoreType) (repository.PaletteStore, error)
}

type storeFactory struct {
	cfg *config.Config
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config) StoreFactory {
	return &storeFactory{cfg: cfg}
}

func (f *storeFactory) CreateStore(storeType StoreType) (repository.PaletteStore, error) {
	switch storeType {
	case MemoryStore:
		return repository.NewMemoryStore(f.cfg.ResultCacheSize), nil
	case SQLiteStore:
		return repository.OpenSQLiteStore(f.cfg.SQLitePath)
	case NoStore:
		return repository.NopStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory StorageFactory
	StoreFactory   StoreFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory: NewStorageFactory(cfg),
		StoreFactory:   NewStoreFactory(cfg),
	}
}

// ImageRepository builds the repository for the configured backend
func (c *ComponentFactory) ImageRepository(storageType StorageType) (repository.ImageRepository, error) {
	fetcher, err := c.StorageFactory.CreateStorage(storageType)
	if err != nil {
		return nil, fmt.Errorf("create %s storage: %w", storageType, err)
	}
	validator, err := c.StorageFactory.CreateValidator(storageType)
	if err != nil {
		return nil, err
	}
	return repository.NewImageRepository(fetcher, validator), nil
}
