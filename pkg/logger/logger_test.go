package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFanoutRespectsChildLevels(t *testing.T) {
	var all, errs bytes.Buffer
	log := slog.New(NewFanout(
		slog.NewTextHandler(&all, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	log.Info("progress saved", "videoId", "v1")
	log.Error("store down")

	if !strings.Contains(all.String(), "progress saved") || !strings.Contains(all.String(), "store down") {
		t.Fatalf("info handler missed records: %s", all.String())
	}
	if strings.Contains(errs.String(), "progress saved") {
		t.Fatal("error handler received an info record")
	}
	if !strings.Contains(errs.String(), "store down") {
		t.Fatal("error handler missed the error record")
	}
}

func TestNewWritesFiles(t *testing.T) {
	dir := t.TempDir()
	log, err := New("info", dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Error("boom")

	data, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"boom"`) {
		t.Fatalf("error.log = %s", data)
	}
}
