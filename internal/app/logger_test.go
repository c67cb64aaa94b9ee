package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/saadjs/kalki/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		" WARN ": slog.LevelWarn,
		"error":  slog.LevelError,
		"":       slog.LevelInfo,
		"loud":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerJSONRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("days", 3))

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected exactly one json record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "shown" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["days"] != float64(3) {
		t.Fatalf("expected days attr, got %v", rec["days"])
	}
}
