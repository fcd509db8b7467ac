package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
)

func decodeEntry(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(raw, &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, string(raw))
	}
	return logEntry
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Info("sync finished", slog.String("profile", "p-1"), slog.Int("products", 4))

	logEntry := decodeEntry(t, buf.Bytes())

	if logEntry["msg"] != "sync finished" {
		t.Errorf("Expected msg to be 'sync finished', got '%v'", logEntry["msg"])
	}
	if logEntry["profile"] != "p-1" {
		t.Errorf("Expected profile to be 'p-1', got '%v'", logEntry["profile"])
	}
	if logEntry["products"] != float64(4) {
		t.Errorf("Expected products to be 4, got '%v'", logEntry["products"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level to be 'INFO', got '%v'", logEntry["level"])
	}
	if _, ok := logEntry["time"]; !ok {
		t.Error("Expected 'time' field in JSON log output")
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected debug entry to be dropped at info level, got %s", buf.String())
	}

	New(&buf, true).Debug("visible")
	logEntry := decodeEntry(t, buf.Bytes())
	if logEntry["level"] != "DEBUG" {
		t.Errorf("Expected level to be 'DEBUG', got '%v'", logEntry["level"])
	}
}

// TestInitJSONLogger_OutputFormat verifies that InitJSONLogger sets up
// JSON formatted output for slog.
func TestInitJSONLogger_OutputFormat(t *testing.T) {
	oldStdout := os.Stdout
	oldDefault := slog.Default()
	t.Cleanup(func() { slog.SetDefault(oldDefault) })

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	InitJSONLogger(false)
	slog.Info("test initialization", slog.String("service", "inventory-console"), slog.Int("port", 8080))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(r); err != nil {
		t.Fatalf("Failed to read from pipe: %v", err)
	}

	logEntry := decodeEntry(t, buf.Bytes())

	if logEntry["msg"] != "test initialization" {
		t.Errorf("Expected msg to be 'test initialization', got '%v'", logEntry["msg"])
	}
	if logEntry["service"] != "inventory-console" {
		t.Errorf("Expected service to be 'inventory-console', got '%v'", logEntry["service"])
	}
	if logEntry["port"] != float64(8080) {
		t.Errorf("Expected port to be 8080, got '%v'", logEntry["port"])
	}
}
