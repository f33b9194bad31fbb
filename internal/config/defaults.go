package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultPalette is the fire palette of the crash burst.
var DefaultPalette = []string{"#ef4444", "#f97316", "#fbbf24", "#b91c1c", "#ffffff"}

// DefaultFlappyConfig returns the hardcoded tuning, used when the embedded
// YAML cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Field: FlappyField{
			Width:  400,
			Height: 600,
		},
		Physics: FlappyPhysics{
			Gravity:           0.25,
			JumpImpulse:       -8,
			RotationSmoothing: 0.2,
			SettleAfterCrash:  true,
		},
		Bird: FlappyBird{
			Size:        40,
			HitboxInset: 10,
			StartY:      300,
		},
		Pipes: FlappyPipes{
			Width:         60,
			Gap:           240,
			MinHeight:     50,
			Speed:         2,
			SpawnInterval: 3500,
			GrowRate:      0.05,
		},
		Particles: FlappyParticles{
			BurstCount: 40,
			Damping:    0.95,
			Drift:      0.15,
			Fade:       0.025,
			Shrink:     0.96,
			Palette:    append([]string(nil), DefaultPalette...),
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 40,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.75,
				IntervalReduction: 1500,
				MinInterval:       1500,
			},
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
