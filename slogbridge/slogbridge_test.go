package slogbridge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lll-log/lll"
)

func TestHandlerEnabled(t *testing.T) {
	h := Install(nil, slog.LevelInfo)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should not be enabled when level is Info")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be enabled when level is Info")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn should be enabled when level is Info")
	}
}

func TestHandlerHandleWritesAttrs(t *testing.T) {
	dir := t.TempDir()
	l, err := lll.NewBuilder(dir, "app").Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.Finish()

	logger := slog.New(Install(l, slog.LevelDebug))
	logger.Info("test message", "key", "value", "count", 42)

	if err := l.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "app.*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	var output string
	for _, m := range matches {
		if fi, err := os.Lstat(m); err == nil && fi.Mode()&os.ModeSymlink == 0 {
			data, err := os.ReadFile(m)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			output = string(data)
		}
	}

	if !strings.Contains(output, "test message") {
		t.Errorf("expected 'test message' in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected 'key=value' in output, got: %s", output)
	}
	if !strings.Contains(output, "count=42") {
		t.Errorf("expected 'count=42' in output, got: %s", output)
	}
	if !strings.Contains(output, "INFO") {
		t.Errorf("expected level INFO in output, got: %s", output)
	}
}

func TestWithGroupPrefixesKeys(t *testing.T) {
	dir := t.TempDir()
	l, err := lll.NewBuilder(dir, "app").Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.Finish()

	logger := slog.New(Install(l, slog.LevelDebug)).WithGroup("req")
	logger.Info("handled", "status", 200)

	if err := l.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "app.*"))
	var output string
	for _, m := range matches {
		if fi, err := os.Lstat(m); err == nil && fi.Mode()&os.ModeSymlink == 0 {
			data, _ := os.ReadFile(m)
			output = string(data)
		}
	}
	if !strings.Contains(output, "req.status=200") {
		t.Errorf("expected grouped key 'req.status=200' in output, got: %s", output)
	}
}
