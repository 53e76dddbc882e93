// Package config loads the YAML configuration shipped in gamedata.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorp-rogue/gorp/internal/datafile"
)

// Engine holds startup settings for the window and world generation.
type Engine struct {
	Window   WindowConfig `yaml:"window"`
	TPS      int          `yaml:"tps"`
	Ghosting bool         `yaml:"ghosting"`
	Island   IslandConfig `yaml:"island"`
}

// WindowConfig is the initial window title and pixel size.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// IslandConfig controls the island generated for a new game.
type IslandConfig struct {
	Size int    `yaml:"size"`
	Seed uint32 `yaml:"seed"`
}

// DefaultEngine returns the built-in engine settings.
func DefaultEngine() Engine {
	return Engine{
		Window:   WindowConfig{Title: "GORP", Width: 800, Height: 600},
		TPS:      60,
		Ghosting: true,
		Island:   IslandConfig{Size: 128},
	}
}

// Title is the data for the title screen.
type Title struct {
	GWords  []string `yaml:"g_words"`
	RWords  []string `yaml:"r_words"`
	PWords  []string `yaml:"p_words"`
	Phrases []string `yaml:"phrases"`
}

// Uniforms are extra shader parameters keyed by Kage variable name.
type Uniforms map[string]float32

// LoadEngine loads engine settings.
// Search order: customPath -> ~/.gorp/config/engine.yml -> gamedata config/engine.yml.
// Fields missing from the file keep their defaults.
func LoadEngine(data *datafile.Resolver, customPath string) (Engine, error) {
	cfg := DefaultEngine()

	if customPath != "" {
		raw, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.validate()
	}

	if userPath := userConfigPath("engine.yml"); userPath != "" {
		if raw, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err == nil {
				return cfg, cfg.validate()
			}
			cfg = DefaultEngine()
		}
	}

	raw, err := data.ReadFile("config/engine.yml")
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config/engine.yml: %w", err)
	}
	return cfg, cfg.validate()
}

func (e Engine) validate() error {
	if e.Window.Width < 1 || e.Window.Height < 1 {
		return fmt.Errorf("invalid window size %dx%d", e.Window.Width, e.Window.Height)
	}
	if e.TPS < 1 {
		return fmt.Errorf("invalid tps %d", e.TPS)
	}
	return nil
}

// LoadTitle reads misc/title.yml. Every word list must be non-empty.
func LoadTitle(data *datafile.Resolver) (Title, error) {
	var t Title
	if err := loadYAML(data, "misc/title.yml", &t); err != nil {
		return t, err
	}
	for name, list := range map[string][]string{
		"g_words": t.GWords, "r_words": t.RWords, "p_words": t.PWords, "phrases": t.Phrases,
	} {
		if len(list) == 0 {
			return t, fmt.Errorf("misc/title.yml: %s is empty", name)
		}
	}
	return t, nil
}

// LoadUniforms reads shader/uniforms.yml.
func LoadUniforms(data *datafile.Resolver) (Uniforms, error) {
	u := Uniforms{}
	return u, loadYAML(data, "shader/uniforms.yml", &u)
}

func loadYAML(data *datafile.Resolver, rel string, out any) error {
	raw, err := data.ReadFile(rel)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", rel, err)
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gorp", "config", filename)
}
