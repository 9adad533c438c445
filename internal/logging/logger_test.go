// Package logging tests for structured JSON logging.
package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// decodeEntries parses each JSON line written to buf.
func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

// TestLogger_levels verifies level gating.
func TestLogger_levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message", errors.New("boom"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (debug filtered), got %d", len(entries))
	}

	wantLevels := []string{"INFO", "WARN", "ERROR"}
	for i, want := range wantLevels {
		if entries[i].Level != want {
			t.Errorf("entry %d level = %q, want %q", i, entries[i].Level, want)
		}
	}

	if entries[2].Error != "boom" {
		t.Errorf("error entry Error = %q, want %q", entries[2].Error, "boom")
	}
}

// TestLogger_debugLevel verifies debug entries pass at LevelDebug.
func TestLogger_debugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Debug("trace me")

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "trace me" {
		t.Errorf("message = %q, want %q", entries[0].Message, "trace me")
	}
}

// TestLogger_context verifies context maps are attached and merged.
func TestLogger_context(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("with context",
		map[string]interface{}{"line": 4},
		map[string]interface{}{"status": "pending"},
	)

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].Context
	if ctx == nil {
		t.Fatal("context missing from entry")
	}
	// JSON numbers decode as float64.
	if ctx["line"] != float64(4) {
		t.Errorf("context line = %v, want 4", ctx["line"])
	}
	if ctx["status"] != "pending" {
		t.Errorf("context status = %v, want pending", ctx["status"])
	}
}

// TestLogger_noContext verifies entries without context omit the field.
func TestLogger_noContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("bare")

	if strings.Contains(buf.String(), `"context"`) {
		t.Errorf("bare entry should omit context field: %s", buf.String())
	}
}

// TestLogger_timestampFormat verifies RFC3339 timestamps.
func TestLogger_timestampFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("stamped")

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ts := entries[0].Timestamp
	if !strings.Contains(ts, "T") || !strings.HasSuffix(ts, "Z") {
		t.Errorf("timestamp %q is not RFC3339 UTC", ts)
	}
}

// TestGet_defaultLogger verifies Get initializes a logger when needed.
func TestGet_defaultLogger(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
}
