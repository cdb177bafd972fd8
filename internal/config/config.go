// Package config provides YAML-based configuration loading and difficulty
// management for quiz runs.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// QuizRunConfig contains all configuration for a quiz run.
type QuizRunConfig struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Level      LevelConfig      `yaml:"level"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Placement  PlacementConfig  `yaml:"placement"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ScreenConfig defines the world size of one screen, in world pixels.
type ScreenConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	TickRate int     `yaml:"tick_rate"`
}

// LevelConfig selects and tunes the level assembler.
type LevelConfig struct {
	Strategy     string  `yaml:"strategy"` // "procedural" or "authored"
	Lookahead    int     `yaml:"lookahead"`
	HazardChance float64 `yaml:"hazard_chance"`
	HazardCodes  []int   `yaml:"hazard_codes"`
	SafeColumns  int     `yaml:"safe_columns"`
	CloudChance  float64 `yaml:"cloud_chance"`
	// Authored strategy only.
	MapDir string   `yaml:"map_dir"`
	Maps   []string `yaml:"maps"`
	Solid  []int    `yaml:"solid"`
}

// PhysicsConfig defines avatar movement, in pixels and seconds.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	MaxFallSpeed   float64 `yaml:"max_fall_speed"`
	JumpSpeed      float64 `yaml:"jump_speed"`
	WalkSpeed      float64 `yaml:"walk_speed"`
	AutopilotSpeed float64 `yaml:"autopilot_speed"`
	AvatarWidth    float64 `yaml:"avatar_width"`
	AvatarHeight   float64 `yaml:"avatar_height"`
}

// ScoringConfig defines rewards and penalties.
type ScoringConfig struct {
	Lives           int `yaml:"lives"`
	CorrectReward   int `yaml:"correct_reward"`
	WrongLifeCost   int `yaml:"wrong_life_cost"`
	WrongPointCost  int `yaml:"wrong_point_cost"`
	HazardPointCost int `yaml:"hazard_point_cost"`
	CooldownTicks   int `yaml:"cooldown_ticks"` // penalty-free window after a penalty
	// TimeLimit ends the run after this many seconds; 0 disables it.
	TimeLimit float64 `yaml:"time_limit"`
}

// PlacementConfig defines answer marker placement.
type PlacementConfig struct {
	MarkerSize  float64 `yaml:"marker_size"`
	Radius      float64 `yaml:"radius"`
	MaxAttempts int     `yaml:"max_attempts"`
	BandTop     float64 `yaml:"band_top"`    // fraction of screen height
	BandHeight  float64 `yaml:"band_height"` // fraction of screen height
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases along the quiz.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "question" or "none"
	MaxAt int    `yaml:"max_at"` // Question index at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	HazardIncrease float64 `yaml:"hazard_increase"` // Added to hazard chance at max difficulty
	MaxHazard      float64 `yaml:"max_hazard"`      // Upper bound on hazard chance
}

// Validate reports the first setting that cannot produce a playable run.
func (c QuizRunConfig) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen must be positive, got %vx%v", ErrInvalidConfig, c.Screen.Width, c.Screen.Height)
	case c.Screen.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	case c.Level.Strategy == "":
		return fmt.Errorf("%w: level.strategy is required", ErrInvalidConfig)
	case c.Scoring.Lives <= 0:
		return fmt.Errorf("%w: scoring.lives must be positive", ErrInvalidConfig)
	case c.Scoring.TimeLimit < 0:
		return fmt.Errorf("%w: scoring.time_limit must not be negative", ErrInvalidConfig)
	case c.Level.HazardChance < 0 || c.Level.HazardChance > 1:
		return fmt.Errorf("%w: level.hazard_chance must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
