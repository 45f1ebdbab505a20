package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Affan1415/auto-apply/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	_, v := config.NormalizeAndValidate(config.Default())
	if !v.OK() {
		t.Fatalf("default config invalid: %v", v.Errors)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
run:
  interval_seconds: 7200
  max_postings: 5
search:
  default_query: golang developer
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.IntervalSeconds != 7200 || cfg.Run.MaxPostings != 5 {
		t.Errorf("run section = %+v", cfg.Run)
	}
	if cfg.Search.DefaultQuery != "golang developer" {
		t.Errorf("default_query = %q", cfg.Search.DefaultQuery)
	}
	// untouched keys keep their defaults
	if cfg.App.Port != config.Default().App.Port {
		t.Errorf("port = %d, want default", cfg.App.Port)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("AUTOAPPLY_INTERVAL_SECONDS", "600")
	t.Setenv("AUTOAPPLY_HEADLESS", "false")
	t.Setenv("AUTOAPPLY_WEBDRIVER_URL", "http://hub:4444/wd/hub")
	t.Setenv("AUTOAPPLY_VIEWPORT_W", "not-a-number")

	cfg := config.ApplyEnv(config.Default())
	if cfg.Run.IntervalSeconds != 600 {
		t.Errorf("interval = %d", cfg.Run.IntervalSeconds)
	}
	if cfg.WebDriver.Headless {
		t.Errorf("headless still true")
	}
	if cfg.WebDriver.RemoteURL != "http://hub:4444/wd/hub" {
		t.Errorf("remote url = %q", cfg.WebDriver.RemoteURL)
	}
	if cfg.WebDriver.ViewportWidth != config.Default().WebDriver.ViewportWidth {
		t.Errorf("garbage viewport width was applied: %d", cfg.WebDriver.ViewportWidth)
	}
}

func TestNormalizeAndValidateErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Run.MaxPostings = 0
	cfg.Run.PacingMinMs = 5000
	cfg.Run.PacingMaxMs = 2000
	cfg.Search.BaseURL = "   "

	_, v := config.NormalizeAndValidate(cfg)
	if v.OK() {
		t.Fatalf("expected errors")
	}
	if len(v.Errors) != 3 {
		t.Errorf("errors = %v, want 3", v.Errors)
	}
}

func TestNormalizeAndValidateWarnsOnLowInterval(t *testing.T) {
	cfg := config.Default()
	cfg.Run.IntervalSeconds = 60

	_, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("unexpected errors: %v", v.Errors)
	}
	if len(v.Warnings) == 0 {
		t.Errorf("expected a warning for a 60s interval")
	}
}

func TestNormalizeFillsGeminiDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.Model = ""
	cfg.Gemini.TimeoutSeconds = 0

	out, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("unexpected errors: %v", v.Errors)
	}
	if out.Gemini.Model != config.Default().Gemini.Model {
		t.Errorf("model = %q", out.Gemini.Model)
	}
	if out.Gemini.TimeoutSeconds != config.Default().Gemini.TimeoutSeconds {
		t.Errorf("timeout = %d", out.Gemini.TimeoutSeconds)
	}
}

func TestEnsureUserConfigCreatesCopy(t *testing.T) {
	dataDir := t.TempDir()

	path, err := config.EnsureUserConfig(dataDir, filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config not written: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if _, v := config.NormalizeAndValidate(cfg); !v.OK() {
		t.Errorf("bootstrapped config invalid: %v", v.Errors)
	}
}
