package config

import (
	_ "embed"
)

//go:embed defaults/quizrun.yaml
var defaultQuizRunYAML []byte

// DefaultQuizRunConfig returns the default configuration.
func DefaultQuizRunConfig() QuizRunConfig {
	return QuizRunConfig{
		Screen: ScreenConfig{
			Width:    640,
			Height:   360,
			TickRate: 60,
		},
		Level: LevelConfig{
			Strategy:     "procedural",
			Lookahead:    1,
			HazardChance: 0.2,
			HazardCodes:  []int{107, 108, 128, 127},
			SafeColumns:  8,
			CloudChance:  0.15,
			MapDir:       "levels",
			Maps:         []string{"meadow", "ridge"},
			Solid:        []int{2, 88, 126, 146},
		},
		Physics: PhysicsConfig{
			Gravity:        900,
			MaxFallSpeed:   600,
			JumpSpeed:      420,
			WalkSpeed:      160,
			AutopilotSpeed: 200,
			AvatarWidth:    20,
			AvatarHeight:   28,
		},
		Scoring: ScoringConfig{
			Lives:           3,
			CorrectReward:   5,
			WrongLifeCost:   1,
			WrongPointCost:  1,
			HazardPointCost: 1,
			CooldownTicks:   60, // 1 second at 60fps
		},
		Placement: PlacementConfig{
			MarkerSize:  32,
			Radius:      96,
			MaxAttempts: 32,
			BandTop:     0.5,
			BandHeight:  0.3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "question",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				HazardIncrease: 0.2,
				MaxHazard:      0.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultQuizRunYAML
}
