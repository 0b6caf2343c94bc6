package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "test")

	logger.InfoContext(context.Background(), "pick submitted", "user_id", int64(3), "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "test" {
		t.Fatalf("expected component field, got %v", fields)
	}
	if fields["user_id"] != int64(3) {
		t.Fatalf("expected user_id field, got %v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error field, got %v", fields)
	}
}

func TestLoggerOddArgs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Warn("dangling", "key")

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["key"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %v", fields)
	}
}

func TestMirrorReceivesContextRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := New(&bytes.Buffer{}, LevelInfo)
	logger.DebugContext(context.Background(), "filtered")
	logger.ErrorContext(context.Background(), "mirrored")
	logger.Info("not mirrored")

	if strings.Join(got, ",") != "error:mirrored" {
		t.Fatalf("unexpected mirrored records: %v", got)
	}
}

func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, LevelInfo).Info("hello", "week", 3)

	line := buf.String()
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"week":3`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNamedAndWithShareSync(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	base := FromZap(zap.New(core))
	child := base.Named("pickem").With("week", 3)

	child.Info("board built")
	entries := logs.All()
	if len(entries) != 1 || entries[0].LoggerName != "pickem" {
		t.Fatalf("expected one entry from named logger, got %+v", entries)
	}
	if err := child.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := base.Sync(); err != nil {
		t.Fatalf("second sync should be a no-op: %v", err)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.ErrorContext(context.Background(), "still no panic")
}
