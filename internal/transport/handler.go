package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/palette-inspector-go/internal/config"
	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/anime-shed/palette-inspector-go/internal/service"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
	"github.com/anime-shed/palette-inspector-go/pkg/validation"
)

const (
	requestIDHeader = "X-Request-ID"

	// multipart framing and form fields on top of the file itself
	multipartOverhead = 1 << 20

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type paletteHandler struct {
	svc service.PaletteService
	cfg *config.Config
}

func NewHandler(svc service.PaletteService, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxUploadSize+multipartOverhead),
		errorHandler(),
	)

	h := &paletteHandler{svc: svc, cfg: cfg}

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", h.metrics)

	api := r.Group("/api/design")
	{
		api.GET("/color-palette", h.describe)
		api.POST("/color-palette", h.extractUpload)
		api.POST("/color-palette/url", h.extractURL)
		api.GET("/color-palette/history", h.history)
		api.GET("/color-palette/:id", h.getPalette)
	}

	return r
}

func (h *paletteHandler) extractUpload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondError(c, apperrors.NewPayloadTooLargeError(
				"File size must be less than "+humanize.IBytes(uint64(h.cfg.MaxUploadSize)), err))
		case errors.Is(err, http.ErrMissingFile):
			respondError(c, apperrors.NewValidationError("No file provided", err))
		default:
			respondError(c, apperrors.NewValidationError("Invalid multipart form", err))
		}
		return
	}

	colorCount := validation.ParseColorCount(c.PostForm("colorCount"), h.cfg.DefaultColorCount)

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.NewValidationError("Failed to read uploaded file", err))
		return
	}
	defer file.Close()

	logger.WithFields(logrus.Fields{
		"request_id":  service.RequestIDFromContext(ctx),
		"filename":    fileHeader.Filename,
		"size":        fileHeader.Size,
		"color_count": colorCount,
	}).Debug("Extracting palette from upload")

	resp, err := h.svc.ExtractFromUpload(ctx, service.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}, colorCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *paletteHandler) extractURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.URLPaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("Invalid request format", err))
		return
	}

	colorCount := h.cfg.DefaultColorCount
	if req.ColorCount != 0 {
		colorCount = validation.ClampColorCount(req.ColorCount)
	}

	resp, err := h.svc.ExtractFromReference(ctx, req.URL, colorCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *paletteHandler) describe(c *gin.Context) {
	c.JSON(http.StatusOK, models.PaletteEndpointDescriptor(humanize.IBytes(uint64(h.cfg.MaxUploadSize))))
}

func (h *paletteHandler) getPalette(c *gin.Context) {
	resp, err := h.svc.GetPalette(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paletteHandler) history(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, apperrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	items, err := h.svc.RecentPalettes(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []models.PaletteSummary{}
	}

	c.JSON(http.StatusOK, models.HistoryResponse{Items: items, Count: len(items)})
}

func (h *paletteHandler) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Metrics())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(service.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
			"request_id":         service.RequestIDFromContext(c.Request.Context()),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	body := models.ErrorResponse{
		Error:   "Failed to generate color palette",
		Message: http.StatusText(code),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		body.Details = appErr.Details
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
		"request_id":  service.RequestIDFromContext(c.Request.Context()),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, body)
}
