package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"intake/internal/platform/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)

	l.Debug("hidden")
	l.Info("visible", "request_id", "req-1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("expected JSON attrs, got %q", out)
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "debug", Format: "text"}, &buf)

	l.Debug("shown")

	out := buf.String()
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("expected text output, got %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("expected source info in text format, got %q", out)
	}
}
