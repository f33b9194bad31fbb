package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HomeDirName is the per-user directory holding configs, the score
// database, the log file and generated assets.
const HomeDirName = ".flapforge"

// LoadFlappy loads the game tuning.
// Search order: customPath -> ~/.flapforge/configs/flappy.yaml ->
// ./configs/flappy.yaml -> embedded default -> hardcoded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names. An explicit customPath must exist and parse.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := decodeFlappy(data)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", "flappy.yaml")}
	if p := userConfigPath("flappy.yaml"); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decodeFlappy(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := decodeFlappy(defaultFlappyYAML); err == nil {
		return cfg, nil
	}
	return DefaultFlappyConfig(), nil
}

// decodeFlappy parses YAML on top of the hardcoded defaults and validates
// the result.
func decodeFlappy(data []byte) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FlappyConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return FlappyConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HomeDirName, "configs", filename)
}
