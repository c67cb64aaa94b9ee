package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("KALKI_CONFIG", "")

	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Progress.RetentionDays != 30 {
		t.Errorf("expected retention 30, got %d", cfg.Progress.RetentionDays)
	}
	if cfg.Progress.MinRefreshInterval != 5*time.Second {
		t.Errorf("expected min refresh 5s, got %s", cfg.Progress.MinRefreshInterval)
	}
	if cfg.Nutrition.Provider != NutritionProviderMock {
		t.Errorf("expected mock provider, got %q", cfg.Nutrition.Provider)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected text log format, got %q", cfg.Log.Format)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("KALKI_CONFIG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
log:
  level: debug
  format: json
progress:
  retention_days: 14
  min_refresh_interval: 10s
nutrition:
  provider: openai
  model: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Progress.RetentionDays != 14 {
		t.Errorf("expected retention 14, got %d", cfg.Progress.RetentionDays)
	}
	if cfg.Progress.MinRefreshInterval != 10*time.Second {
		t.Errorf("expected min refresh 10s, got %s", cfg.Progress.MinRefreshInterval)
	}
	if cfg.Progress.RefreshInterval != time.Minute {
		t.Errorf("expected default refresh interval 1m, got %s", cfg.Progress.RefreshInterval)
	}
	if cfg.Nutrition.Provider != NutritionProviderOpenAI || cfg.Nutrition.Model != "gpt-4o-mini" {
		t.Errorf("unexpected nutrition config: %+v", cfg.Nutrition)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("progress:\n  retention_days: 14\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("KALKI_CONFIG", path)
	t.Setenv("KALKI_RETENTION_DAYS", "7")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Progress.RetentionDays != 7 {
		t.Errorf("expected env retention 7, got %d", cfg.Progress.RetentionDays)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("KALKI_CONFIG", "")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	if err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Log:       LogConfig{Format: "xml"},
		Progress:  ProgressConfig{RetentionDays: 0, RefreshInterval: time.Minute},
		Nutrition: NutritionConfig{Provider: "magic", Timeout: time.Second},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.format", "retention_days", "nutrition.provider"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}
