package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "info", "json")

		logger.Info("report ready", "total", 3)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
		}
		if entry["msg"] != "report ready" || entry["total"] != float64(3) {
			t.Errorf("unexpected log entry %v", entry)
		}
	})

	t.Run("text format filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "warn", "text")

		logger.Info("hidden")
		logger.Warn("shown")

		output := buf.String()
		if strings.Contains(output, "hidden") {
			t.Errorf("info message must be filtered at warn level, got %q", output)
		}
		if !strings.Contains(output, "msg=shown") {
			t.Errorf("expected warn message in text format, got %q", output)
		}
	})

	t.Run("nil writer falls back to stderr", func(t *testing.T) {
		if NewLogger(nil, "", "") == nil {
			t.Error("expected logger, got nil")
		}
	})
}
