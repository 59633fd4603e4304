package storage

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	apperrors "github.com/anime-shed/palette-inspector-go/internal/errors"
)

func TestDecodeImage_PNG(t *testing.T) {
	data := encodePNG(t, 5, 3, color.NRGBA{10, 200, 30, 255})

	decoded, err := DecodeImage(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded.Format != "png" {
		t.Errorf("Expected png, got %s", decoded.Format)
	}
	if decoded.Bytes != int64(len(data)) {
		t.Errorf("Expected %d bytes, got %d", len(data), decoded.Bytes)
	}
	if b := decoded.Image.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("Expected 5x3, got %v", b)
	}
}

func TestDecodeImage_Errors(t *testing.T) {
	png := encodePNG(t, 4, 4, color.NRGBA{1, 2, 3, 255})

	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		errType  apperrors.ErrorType
	}{
		{"empty", nil, 0, apperrors.ErrorTypeValidation},
		{"text", []byte("definitely not pixels"), 0, apperrors.ErrorTypeUnsupportedMedia},
		{"truncated png", png[:len(png)/2], 0, apperrors.ErrorTypeProcessing},
		{"over limit", png, int64(len(png) - 1), apperrors.ErrorTypePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(bytes.NewReader(tt.data), tt.maxBytes)
			if !apperrors.IsType(err, tt.errType) {
				t.Errorf("Expected %s error, got %v", tt.errType, err)
			}
		})
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("12345"), 5)
	if err != nil || string(data) != "12345" {
		t.Errorf("Expected exact-limit read to succeed, got %q, %v", data, err)
	}

	_, err = ReadLimited(strings.NewReader("123456"), 5)
	if !apperrors.IsType(err, apperrors.ErrorTypePayloadTooLarge) {
		t.Errorf("Expected payload too large, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "5 B") {
		t.Errorf("Expected human readable limit in message, got %s", err.Error())
	}
}
