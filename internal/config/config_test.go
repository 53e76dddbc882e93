package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gorp-rogue/gorp/internal/datafile"
)

func embedded(t *testing.T) *datafile.Resolver {
	t.Helper()
	r, err := datafile.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestLoadEngineCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yml")
	body := "window:\n  width: 1024\n  height: 768\nisland:\n  size: 64\n  seed: 12345\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadEngine(embedded(t), path)
	if err != nil {
		t.Fatalf("LoadEngine: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Island.Size != 64 || cfg.Island.Seed != 12345 {
		t.Errorf("island = %+v", cfg.Island)
	}
	if cfg.TPS != 60 || cfg.Window.Title != "GORP" {
		t.Errorf("missing fields should keep defaults: %+v", cfg)
	}
}

func TestLoadEngineRejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yml")
	if err := os.WriteFile(path, []byte("window:\n  width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEngine(embedded(t), path); err == nil {
		t.Errorf("zero window width should be rejected")
	}
}

func TestLoadEngineMissingCustomPath(t *testing.T) {
	if _, err := LoadEngine(embedded(t), filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("missing custom config should be an error")
	}
}

func TestLoadTitle(t *testing.T) {
	title, err := LoadTitle(embedded(t))
	if err != nil {
		t.Fatalf("LoadTitle: %v", err)
	}
	if len(title.GWords) == 0 || len(title.Phrases) == 0 {
		t.Errorf("title data incomplete: %+v", title)
	}
}

func TestLoadUniforms(t *testing.T) {
	u, err := LoadUniforms(embedded(t))
	if err != nil {
		t.Fatalf("LoadUniforms: %v", err)
	}
	if _, ok := u["Curvature"]; !ok {
		t.Errorf("Curvature uniform missing: %v", u)
	}
}
