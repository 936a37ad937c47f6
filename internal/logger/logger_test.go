package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log == nil {
		t.Fatal("expected logger to be created")
	}
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level Info, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestSlogLogger_LogMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelDebug)

	tests := []struct {
		name  string
		fn    func(string, ...any)
		level string
	}{
		{"Debug", log.Debug, "DEBUG"},
		{"Info", log.Info, "INFO"},
		{"Warn", log.Warn, "WARN"},
		{"Error", log.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("test message", "key", "value")

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "test message") {
				t.Errorf("expected output to contain message, got: %s", output)
			}
			if !strings.Contains(output, "key=value") {
				t.Errorf("expected output to contain key=value, got: %s", output)
			}
		})
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn)

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}
}

func TestSlogLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo)

	log.Debug("before")
	if buf.Len() > 0 {
		t.Fatalf("debug should be filtered at info level: %s", buf.String())
	}

	log.SetLevel(slog.LevelDebug)
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected level Debug, got %v", log.GetLevel())
	}
	log.Debug("after")
	if !strings.Contains(buf.String(), "after") {
		t.Error("expected debug message after lowering the level")
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo)

	child := log.With("sector", "A")
	child.Info("recompute done")

	output := buf.String()
	if !strings.Contains(output, "sector=A") {
		t.Errorf("expected bound attribute in output, got: %s", output)
	}

	// Level changes propagate both ways through the shared level var.
	child.SetLevel(slog.LevelError)
	if log.GetLevel() != slog.LevelError {
		t.Errorf("expected parent level Error, got %v", log.GetLevel())
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}

	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}

	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}
