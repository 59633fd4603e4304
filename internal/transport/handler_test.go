package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anime-shed/palette-inspector-go/internal/analyzer"
	"github.com/anime-shed/palette-inspector-go/internal/config"
	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
	"github.com/anime-shed/palette-inspector-go/internal/service"
	"github.com/anime-shed/palette-inspector-go/pkg/models"
)

type stubService struct {
	err error

	upload     service.Upload
	uploadBody []byte
	ref        string
	colorCount int
	limit      int
	requestID  string
	history    []models.PaletteSummary
}

func (s *stubService) ExtractFromUpload(ctx context.Context, upload service.Upload, colorCount int) (*models.PaletteResponse, error) {
	s.upload = upload
	s.uploadBody, _ = io.ReadAll(upload.Reader)
	s.colorCount = colorCount
	s.requestID = service.RequestIDFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return &models.PaletteResponse{ID: "p-1", Source: upload.Filename, RequestedColors: colorCount}, nil
}

func (s *stubService) ExtractFromReference(ctx context.Context, ref string, colorCount int) (*models.PaletteResponse, error) {
	s.ref = ref
	s.colorCount = colorCount
	if s.err != nil {
		return nil, s.err
	}
	return &models.PaletteResponse{ID: "p-2", Source: ref, RequestedColors: colorCount}, nil
}

func (s *stubService) GetPalette(ctx context.Context, id string) (*models.PaletteResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.PaletteResponse{ID: id}, nil
}

func (s *stubService) RecentPalettes(ctx context.Context, limit int) ([]models.PaletteSummary, error) {
	s.limit = limit
	return s.history, s.err
}

func (s *stubService) Metrics() service.Metrics {
	return service.Metrics{WorkerPool: analyzer.PoolStats{Workers: 4}}
}

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:    5 * time.Second,
		MaxUploadSize:     20 << 20,
		DefaultColorCount: 6,
	}
}

func setupRouter(svc service.PaletteService) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, testConfig())
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		part.Write(data)
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "available" {
		t.Errorf("Expected status 'available', got %v", response["status"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a generated request ID header")
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "client-id")
	router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "client-id" {
		t.Errorf("Expected request ID to be echoed, got %q", got)
	}
}

func TestDescribeEndpoint(t *testing.T) {
	router := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/design/color-palette", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var desc models.EndpointDescriptor
	if err := json.Unmarshal(w.Body.Bytes(), &desc); err != nil {
		t.Fatalf("Failed to unmarshal descriptor: %v", err)
	}
	if desc.Endpoint != "POST /api/design/color-palette" {
		t.Errorf("Unexpected endpoint %q", desc.Endpoint)
	}
	if !strings.Contains(desc.Parameters["file"], "20 MiB") {
		t.Errorf("Expected upload limit in file parameter, got %q", desc.Parameters["file"])
	}
	if len(desc.Features) == 0 {
		t.Error("Expected features to be listed")
	}
}

func TestExtractUpload(t *testing.T) {
	tests := []struct {
		name          string
		colorCount    string
		expectedCount int
	}{
		{"default", "", 6},
		{"explicit", "8", 8},
		{"non-numeric falls back", "lots", 6},
		{"clamped high", "50", 12},
		{"clamped low", "1", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			router := setupRouter(svc)

			fields := map[string]string{}
			if tt.colorCount != "" {
				fields["colorCount"] = tt.colorCount
			}
			body, contentType := multipartUpload(t, "sunset.png", "image/png", []byte("png-bytes"), fields)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/design/color-palette", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
			}
			if svc.colorCount != tt.expectedCount {
				t.Errorf("Expected color count %d, got %d", tt.expectedCount, svc.colorCount)
			}
			if svc.upload.Filename != "sunset.png" || svc.upload.ContentType != "image/png" {
				t.Errorf("Unexpected upload %q (%q)", svc.upload.Filename, svc.upload.ContentType)
			}
			if string(svc.uploadBody) != "png-bytes" {
				t.Errorf("Expected file body to reach the service, got %q", svc.uploadBody)
			}
			if svc.upload.Size != int64(len("png-bytes")) {
				t.Errorf("Expected size %d, got %d", len("png-bytes"), svc.upload.Size)
			}
			if svc.requestID == "" {
				t.Error("Expected request ID in service context")
			}
		})
	}
}

func TestExtractUpload_MissingFile(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc)

	body, contentType := multipartUpload(t, "", "", nil, map[string]string{"colorCount": "6"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/design/color-palette", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "No file provided" {
		t.Errorf("Expected 'No file provided', got %q", resp.Error)
	}
}

func TestExtractUpload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "unsupported media",
			err:            apperrors.NewUnsupportedMediaError("Invalid image file", nil).WithDetails("file content is text/plain"),
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedError:  "Invalid image file",
		},
		{
			name:           "too large",
			err:            apperrors.NewPayloadTooLargeError("File size must be less than 20 MiB", nil),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedError:  "File size must be less than 20 MiB",
		},
		{
			name:           "plain error",
			err:            io.ErrUnexpectedEOF,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to generate color palette",
		},
		{
			name:           "deadline",
			err:            context.DeadlineExceeded,
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  "Failed to generate color palette",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&stubService{err: tt.err})

			body, contentType := multipartUpload(t, "a.png", "image/png", []byte("x"), nil)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/design/color-palette", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, resp.Error)
			}
			if resp.Message != http.StatusText(tt.expectedStatus) {
				t.Errorf("Expected message %q, got %q", http.StatusText(tt.expectedStatus), resp.Message)
			}
		})
	}
}

func TestExtractUpload_DetailsForwarded(t *testing.T) {
	err := apperrors.NewUnsupportedMediaError("Invalid image file", nil).WithDetails("file content is text/plain")
	router := setupRouter(&stubService{err: err})

	body, contentType := multipartUpload(t, "a.png", "image/png", []byte("x"), nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/design/color-palette", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if resp := decodeError(t, w); resp.Details != "file content is text/plain" {
		t.Errorf("Expected details to be forwarded, got %q", resp.Details)
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCount  int
	}{
		{"default count", `{"url":"https://example.com/a.png"}`, http.StatusOK, 6},
		{"explicit count", `{"url":"https://example.com/a.png","color_count":10}`, http.StatusOK, 10},
		{"clamped count", `{"url":"https://example.com/a.png","color_count":2}`, http.StatusOK, 3},
		{"missing url", `{"color_count":4}`, http.StatusBadRequest, 0},
		{"invalid json", `{not json`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			router := setupRouter(svc)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/design/color-palette/url", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				if svc.ref != "" {
					t.Error("Expected service not to be called")
				}
				return
			}
			if svc.ref != "https://example.com/a.png" {
				t.Errorf("Expected URL to reach the service, got %q", svc.ref)
			}
			if svc.colorCount != tt.expectedCount {
				t.Errorf("Expected color count %d, got %d", tt.expectedCount, svc.colorCount)
			}
		})
	}
}

func TestExtractURL_FetchError(t *testing.T) {
	router := setupRouter(&stubService{err: apperrors.NewNetworkError("failed to fetch image after 3 attempts", nil)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/design/color-palette/url", strings.NewReader(`{"url":"https://example.com/a.png"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedLimit  int
	}{
		{"default", "", http.StatusOK, 20},
		{"explicit", "?limit=5", http.StatusOK, 5},
		{"capped", "?limit=500", http.StatusOK, 100},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"non-numeric", "?limit=all", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			router := setupRouter(svc)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/design/color-palette/history"+tt.query, nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if svc.limit != tt.expectedLimit {
				t.Errorf("Expected limit %d, got %d", tt.expectedLimit, svc.limit)
			}
			if tt.expectedStatus == http.StatusOK && !strings.Contains(w.Body.String(), `"items":[]`) {
				t.Errorf("Expected empty items array, got %s", w.Body.String())
			}
		})
	}
}

func TestHistory_Items(t *testing.T) {
	svc := &stubService{history: []models.PaletteSummary{
		{ID: "b", Source: "b.png", Hexes: []string{"#000000"}},
		{ID: "a", Source: "a.png", Hexes: []string{"#FFFFFF"}},
	}}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/design/color-palette/history", nil)
	router.ServeHTTP(w, req)

	var resp models.HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal history: %v", err)
	}
	if resp.Count != 2 || resp.Items[0].ID != "b" {
		t.Errorf("Expected two items newest first, got %+v", resp)
	}
}

func TestGetPalette(t *testing.T) {
	router := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/design/color-palette/abc-123", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp models.PaletteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal palette: %v", err)
	}
	if resp.ID != "abc-123" {
		t.Errorf("Expected ID abc-123, got %q", resp.ID)
	}
}

func TestGetPalette_NotFound(t *testing.T) {
	router := setupRouter(&stubService{err: apperrors.NewNotFoundError("palette not found", nil)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/design/color-palette/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var m service.Metrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to unmarshal metrics: %v", err)
	}
	if m.WorkerPool.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", m.WorkerPool.Workers)
	}
}

func TestDetermineStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{apperrors.NewTimeoutError("slow", nil), http.StatusGatewayTimeout},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusTooManyRequests},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := determineStatusCode(tt.err); got != tt.expected {
			t.Errorf("determineStatusCode(%v): expected %d, got %d", tt.err, tt.expected, got)
		}
	}
}
