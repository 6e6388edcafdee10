package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("zone scored", "id", "z1", "score", 0.64)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "zone scored" || entry["id"] != "z1" || entry["score"] != 0.64 {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "text")

	logger.Debug("reloading", "kind", "zones")
	if !strings.Contains(buf.String(), "kind=zones") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "error", "json")

	logger.Warn("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected warn to be filtered at error level, got %q", buf.String())
	}

	logger = New(&buf, "bogus", "json")
	logger.Info("kept")
	if buf.Len() == 0 {
		t.Error("unknown level should default to info")
	}
}
