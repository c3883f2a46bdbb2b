package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, Prefix: "test"})

	logger.Debug("hidden")
	logger.Info("rendering %d items", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "[INFO] test: rendering 42 items") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	logger.WithComponent("window").WithField("range", "[0, 32)").Warn("slow")

	out := buf.String()
	if !strings.Contains(out, "[WARN] slow {component=window, range=[0, 32)}") {
		t.Errorf("expected sorted fields, got %q", out)
	}
}

func TestLogger_ChildDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})
	_ = parent.WithField("child", true)

	parent.Info("plain")
	if strings.Contains(buf.String(), "child") {
		t.Errorf("parent picked up child field: %q", buf.String())
	}
}

func TestNewSessionLogger(t *testing.T) {
	var buf bytes.Buffer
	a := NewSessionLogger(LoggerConfig{Output: &buf})
	b := NewSessionLogger(LoggerConfig{Output: &buf})

	if a.fields["session"] == b.fields["session"] {
		t.Error("expected distinct session ids")
	}
	if id, ok := a.fields["session"].(string); !ok || len(id) != 36 {
		t.Errorf("expected uuid session id, got %v", a.fields["session"])
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("ignored")
	NullLogger.WithComponent("x").Error("ignored")
	if NullLogger.Enabled(LogLevelError) {
		t.Error("NullLogger should be disabled")
	}
}

func TestOpenLogFile(t *testing.T) {
	w, err := OpenLogFile("")
	if err != nil {
		t.Fatalf("OpenLogFile(\"\") failed: %v", err)
	}
	if _, err := w.Write([]byte("x")); err != nil {
		t.Errorf("discard write failed: %v", err)
	}
	w.Close()

	path := filepath.Join(t.TempDir(), "vwindow.log")
	w, err = OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile failed: %v", err)
	}
	logger := NewLogger(LoggerConfig{Output: w})
	logger.Info("hello")
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log line in file, got %q", data)
	}

	if _, err := OpenLogFile(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected error for missing directory")
	}
}
