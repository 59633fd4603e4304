package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for URL/reference based extraction.
const (
	BackendHTTP  = "http"
	BackendAzure = "azure"
	BackendLocal = "local"
)

// Result stores for palette history.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreNone   = "none"
)

// Extraction modes. An empty mode means standard.
const (
	ModeStandard = "standard"
	ModePreview  = "preview"
)

const (
	minColorCount = 3
	maxColorCount = 12
)

type Config struct {
	Host              string
	Port              string
	RequestTimeout    time.Duration
	ImageFetchTimeout time.Duration
	AnalysisTimeout   time.Duration
	MaxUploadSize     int64
	DefaultColorCount int
	MaxWorkers        int
	ExtractionMode    string

	StorageBackend      string
	AzureStorageAccount string
	AzureStorageKey     string
	LocalImageRoot      string

	ResultStore     string
	ResultCacheSize int
	SQLitePath      string

	LogLevel string
	GinMode  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv builds the configuration from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:              getEnvOrDefault("HOST", "0.0.0.0"),
		Port:              getEnvOrDefault("PORT", "8080"),
		RequestTimeout:    parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout: parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:   parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxUploadSize:     parseIntOrDefault("MAX_UPLOAD_SIZE", 20*1024*1024), // 20MB
		DefaultColorCount: int(parseIntOrDefault("DEFAULT_COLOR_COUNT", 6)),
		MaxWorkers:        int(parseIntOrDefault("MAX_WORKERS", 0)),
		ExtractionMode:    strings.ToLower(getEnvOrDefault("EXTRACTION_MODE", ModeStandard)),

		StorageBackend:      strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", BackendHTTP)),
		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
		LocalImageRoot:      getEnvOrDefault("LOCAL_IMAGE_ROOT", "."),

		ResultStore:     strings.ToLower(getEnvOrDefault("RESULT_STORE", StoreMemory)),
		ResultCacheSize: int(parseIntOrDefault("RESULT_CACHE_SIZE", 128)),
		SQLitePath:      getEnvOrDefault("SQLITE_PATH", "palettes.db"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		GinMode:  getEnvOrDefault("GIN_MODE", "release"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxUploadSize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	if c.DefaultColorCount < minColorCount || c.DefaultColorCount > maxColorCount {
		return fmt.Errorf("DEFAULT_COLOR_COUNT must be between %d and %d (got %d)",
			minColorCount, maxColorCount, c.DefaultColorCount)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", c.MaxWorkers)
	}

	switch c.ExtractionMode {
	case "", ModeStandard, ModePreview:
	default:
		return fmt.Errorf("unknown EXTRACTION_MODE: %q", c.ExtractionMode)
	}

	switch c.StorageBackend {
	case BackendHTTP:
	case BackendAzure:
		if c.AzureStorageAccount == "" || c.AzureStorageKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for the azure backend")
		}
	case BackendLocal:
		if strings.TrimSpace(c.LocalImageRoot) == "" {
			return fmt.Errorf("LOCAL_IMAGE_ROOT is required for the local backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND: %q", c.StorageBackend)
	}

	switch c.ResultStore {
	case StoreNone:
	case StoreMemory:
		if c.ResultCacheSize <= 0 {
			return fmt.Errorf("RESULT_CACHE_SIZE must be > 0 (got %d)", c.ResultCacheSize)
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite result store")
		}
	default:
		return fmt.Errorf("unknown RESULT_STORE: %q", c.ResultStore)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
