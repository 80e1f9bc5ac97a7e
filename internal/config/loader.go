package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads the session configuration.
// Search order: customPath -> ~/.flappy/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Whatever file is found is overlaid on the embedded defaults, so partial
// files only need the keys they change. The result is validated.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	cfg := embeddedDefaults()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("flappy.yaml"), filepath.Join("configs", "flappy.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		overlay := cfg
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			continue
		}
		return overlay, overlay.Validate()
	}

	return cfg, cfg.Validate()
}

// Parse decodes a YAML document on top of the defaults and validates it.
func Parse(data []byte) (FlappyConfig, error) {
	cfg := embeddedDefaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Marshal renders cfg as YAML.
func Marshal(cfg FlappyConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func embeddedDefaults() FlappyConfig {
	var cfg FlappyConfig
	if err := yaml.Unmarshal(defaultFlappyYAML, &cfg); err != nil {
		return DefaultFlappyConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", filename)
}

// ParsePreset maps a preset name to a Preset. The empty string is normal.
func ParsePreset(name string) (Preset, error) {
	switch Preset(name) {
	case "", PresetNormal:
		return PresetNormal, nil
	case PresetEasy, PresetHard:
		return Preset(name), nil
	}
	return "", fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *FlappyConfig, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Pipe.Gap = 160
		cfg.Pipe.Velocity = 4
		cfg.Base.Velocity = 4
	case PresetHard:
		cfg.Pipe.Gap = 115
		cfg.Pipe.Velocity = 6
		cfg.Base.Velocity = 6
	}
}
