package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.ReasonModel != "gemini-2.5-flash" {
		t.Fatalf("model = %q", cfg.ReasonModel)
	}
	if cfg.ReasonTimeout != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.ReasonTimeout)
	}
	if cfg.PersonaName != "elara" {
		t.Fatalf("persona = %q", cfg.PersonaName)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_ADDR", ":9999")
	t.Setenv("REASON_RETRIES", "5")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.ReasonRetries != 5 {
		t.Fatalf("retries = %d", cfg.ReasonRetries)
	}
	if !cfg.Debug {
		t.Fatal("debug not set")
	}
}

func TestLoadWorldConstantsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wc.json")
	if err := os.WriteFile(path, []byte(`{"MAX_DAMAGE": 250}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	wc, err := LoadWorldConstants(path, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if wc.MaxDamage != 250 {
		t.Fatalf("max damage = %v, want 250", wc.MaxDamage)
	}
}

func TestLoadWorldConstantsMissingFileFallsBack(t *testing.T) {
	wc, err := LoadWorldConstants(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing file must fall back, got %v", err)
	}
	if wc.MaxDamage != 100 {
		t.Fatalf("max damage = %v, want default 100", wc.MaxDamage)
	}
}

func TestLoadWorldConstantsBrokenFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wc.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWorldConstants(path, zap.NewNop()); err == nil {
		t.Fatal("expected error for broken constants file")
	}
}
