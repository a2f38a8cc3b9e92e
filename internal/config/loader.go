package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const arenaFile = "arena.yaml"

// Load loads the arena configuration.
// Search order: customPath -> ~/.arena/configs/arena.yaml -> ./configs/arena.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
func Load(customPath string) (ArenaConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ArenaConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return ArenaConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(arenaFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", arenaFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	return Default(), nil
}

// Default returns the embedded default configuration, falling back to the
// hard-coded one if the embedded file fails to parse.
func Default() ArenaConfig {
	var cfg ArenaConfig
	if err := yaml.Unmarshal(defaultArenaYAML, &cfg); err != nil {
		return DefaultArenaConfig()
	}
	if err := cfg.Validate(); err != nil {
		return DefaultArenaConfig()
	}
	return cfg
}

// Parse decodes YAML over the defaults and validates the result.
// A weapons list in data replaces the default loadout entirely.
func Parse(data []byte) (ArenaConfig, error) {
	cfg := Default()
	var overlay ArenaConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return ArenaConfig{}, fmt.Errorf("parse: %w", err)
	}
	if len(overlay.Weapons) > 0 {
		cfg.Weapons = nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ArenaConfig{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ArenaConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arena", "configs", filename)
}

// DataDir returns ~/.arena, where the client keeps its database and log file.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arena"
	}
	return filepath.Join(home, ".arena")
}
