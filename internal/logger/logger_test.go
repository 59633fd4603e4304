package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"verbose", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		SetLevel(tt.input)
		if Logger.GetLevel() != tt.expected {
			t.Errorf("SetLevel(%q): expected %v, got %v", tt.input, tt.expected, Logger.GetLevel())
		}
	}
}

func TestWithFields_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	WithFields(logrus.Fields{"colors": 6}).Info("palette extracted")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "palette extracted" {
		t.Errorf("Expected msg field, got %v", entry["msg"])
	}
	if entry["colors"] != float64(6) {
		t.Errorf("Expected colors field 6, got %v", entry["colors"])
	}
}

func TestUseJSON_TextFormatter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	UseJSON(false)
	defer func() {
		UseJSON(true)
		SetOutput(os.Stdout)
	}()

	WithField("file", "hero.png").Warn("Failed to read image")

	line := buf.String()
	if !strings.Contains(line, `msg="Failed to read image"`) || !strings.Contains(line, "file=hero.png") {
		t.Errorf("Expected text log line, got %q", line)
	}
	if strings.HasPrefix(line, "{") {
		t.Errorf("Expected non-JSON output, got %q", line)
	}
}
