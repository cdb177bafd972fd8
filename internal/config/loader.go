package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the search path.
const FileName = "quizrun.yaml"

// LoadQuizRun loads the run configuration.
// Search order: customPath -> ~/.quizrun/configs/quizrun.yaml -> ./configs/quizrun.yaml -> embedded default
// Files are decoded over the defaults, so partial files only override what
// they set.
func LoadQuizRun(customPath string) (QuizRunConfig, error) {
	cfg := DefaultQuizRunConfig()

	// Try custom path first
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

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultQuizRunConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultQuizRunConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultQuizRunYAML, &cfg); err != nil {
		return DefaultQuizRunConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".quizrun", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *QuizRunConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Scoring.Lives = 5
		cfg.Level.HazardChance = 0.1
		cfg.Scoring.CooldownTicks = 90
	case DifficultyHard:
		cfg.Scoring.Lives = 2
		cfg.Level.HazardChance = 0.3
		cfg.Scoring.CooldownTicks = 30
	}
}
