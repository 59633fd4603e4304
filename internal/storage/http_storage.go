package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/logger"
	"github.com/sirupsen/logrus"
)

const defaultFetchAttempts = 3

// HTTPFetcherOptions tunes the HTTP fetcher
type HTTPFetcherOptions struct {
	Timeout     time.Duration
	MaxBytes    int64
	MaxAttempts int
	// Backoff returns the pause before retry number attempt (0 based)
	Backoff func(attempt int) time.Duration
}

func linearBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * time.Second
}

// DefaultHTTPFetcherOptions returns options for single image downloads
func DefaultHTTPFetcherOptions() HTTPFetcherOptions {
	return HTTPFetcherOptions{
		Timeout:     30 * time.Second,
		MaxBytes:    20 * 1024 * 1024,
		MaxAttempts: defaultFetchAttempts,
		Backoff:     linearBackoff,
	}
}

// HTTPImageFetcher implements ImageFetcher for http(s) URLs
type HTTPImageFetcher struct {
	client *http.Client
	opts   HTTPFetcherOptions
}

// statusError carries a non-200 response status
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	if e.code >= 400 && e.code < 500 {
		return fmt.Sprintf("client error: status code %d", e.code)
	}
	if e.code >= 500 {
		return fmt.Sprintf("server error: status code %d", e.code)
	}
	return fmt.Sprintf("unexpected status code %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code >= 500
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(opts HTTPFetcherOptions) *HTTPImageFetcher {
	defaults := DefaultHTTPFetcherOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Backoff == nil {
		opts.Backoff = defaults.Backoff
	}

	// Connection pooling sized for single image downloads
	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment,
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		opts: opts,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *HTTPImageFetcher) Name() string {
	return "http"
}

// FetchImage downloads and decodes imageURL. 5xx responses and network
// errors are retried with backoff; 4xx responses fail immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*DecodedImage, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < h.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, h.opts.Backoff(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}
		attempts++

		img, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return img, nil
		}
		lastErr = err

		if !shouldRetry(ctx, err) {
			break
		}
		logger.WithFields(logrus.Fields{
			"url":     imageURL,
			"attempt": attempts,
			"error":   err.Error(),
		}).Warn("Retrying image fetch")
	}

	return nil, classifyFetchError(lastErr, attempts)
}

func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (*DecodedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid URL", err)
	}
	req.Header.Set("Accept", "image/avif, image/webp, image/png, image/jpeg, image/gif, */*")
	req.Header.Set("User-Agent", "Palette-Inspector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	if resp.ContentLength > 0 && h.opts.MaxBytes > 0 && resp.ContentLength > h.opts.MaxBytes {
		return nil, apperrors.NewPayloadTooLargeError("remote image is too large", nil)
	}

	return DecodeImage(resp.Body, h.opts.MaxBytes)
}

func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		// Decoding, size and validation failures will not improve on retry
		return false
	}
	return true
}

func classifyFetchError(err error, attempts int) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("image fetch timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.NewNetworkError("image fetch cancelled", err)
	}

	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return apperrors.NewNotFoundError("image not found", err)
	}
	if err == nil {
		err = errors.New("unknown error")
	}
	return apperrors.NewNetworkError(fmt.Sprintf("failed to fetch image after %d attempts", attempts), err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
