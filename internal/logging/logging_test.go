package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestNewWritesJSONWithFieldMap(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.WithField("id", "abc").Debug("task toggled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["message"] != "task toggled" {
		t.Fatalf("expected message field, got %v", entry)
	}
	if entry["level"] != "debug" {
		t.Fatalf("expected level debug, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field, got %v", entry)
	}
	if entry["id"] != "abc" {
		t.Fatalf("expected id field, got %v", entry)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mestaches.log")
	file, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer file.Close()

	if _, err := file.WriteString("line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
}
