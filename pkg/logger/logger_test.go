package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLoggerEmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	logg.Info(context.Background(), "hello")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["service"] != "api" {
		t.Fatalf("expected service field, got %v", entries[0]["service"])
	}
	if entries[0]["message"] != "hello" {
		t.Fatalf("expected message, got %v", entries[0]["message"])
	}
}

func TestLoggerContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithUserID(ctx, "user-456")
	logg.Info(ctx, "handled")

	entries := decodeLines(t, &buf)
	if entries[0]["request_id"] != "req-123" {
		t.Fatalf("expected request_id, got %v", entries[0]["request_id"])
	}
	if entries[0]["user_id"] != "user-456" {
		t.Fatalf("expected user_id, got %v", entries[0]["user_id"])
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf, Level: zerolog.WarnLevel})

	logg.Info(context.Background(), "dropped")
	logg.Warn(context.Background(), "kept")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected only warn entry, got %d", len(entries))
	}
	if entries[0]["message"] != "kept" {
		t.Fatalf("unexpected entry: %v", entries[0])
	}
}

func TestLoggerErrorIncludesCauseAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	logg.Error(context.Background(), "boom", errors.New("underlying"))

	entries := decodeLines(t, &buf)
	if entries[0]["error"] != "underlying" {
		t.Fatalf("expected error field, got %v", entries[0]["error"])
	}
	if stack, _ := entries[0]["stack"].(string); stack == "" {
		t.Fatal("expected stack trace on error entries")
	}
}
