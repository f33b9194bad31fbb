// Package config provides YAML-based game tuning, difficulty management and
// the viper-backed application settings.
package config

import (
	"errors"
	"fmt"
	"time"
)

// FlappyConfig contains every tunable of the simulation. Units are logical
// playfield units and per-tick increments.
type FlappyConfig struct {
	Field      FlappyField      `yaml:"field"`
	Physics    FlappyPhysics    `yaml:"physics"`
	Bird       FlappyBird       `yaml:"bird"`
	Pipes      FlappyPipes      `yaml:"pipes"`
	Particles  FlappyParticles  `yaml:"particles"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyField is the logical playfield, independent of output scaling.
type FlappyField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FlappyPhysics defines bird motion parameters.
type FlappyPhysics struct {
	Gravity           float64 `yaml:"gravity"`
	JumpImpulse       float64 `yaml:"jump_impulse"`
	RotationSmoothing float64 `yaml:"rotation_smoothing"`
	SettleAfterCrash  bool    `yaml:"settle_after_crash"` // keep falling to the floor after game over
}

// FlappyBird defines the bird sprite and hitbox.
type FlappyBird struct {
	Size        float64 `yaml:"size"`
	HitboxInset float64 `yaml:"hitbox_inset"`
	StartY      float64 `yaml:"start_y"`
}

// FlappyPipes defines obstacle geometry and pacing.
type FlappyPipes struct {
	Width         float64 `yaml:"width"`
	Gap           float64 `yaml:"gap"`
	MinHeight     float64 `yaml:"min_height"`
	Speed         float64 `yaml:"speed"`
	SpawnInterval int     `yaml:"spawn_interval_ms"`
	GrowRate      float64 `yaml:"grow_rate"`
}

// Interval returns the spawn interval as a duration.
func (p FlappyPipes) Interval() time.Duration {
	return time.Duration(p.SpawnInterval) * time.Millisecond
}

// FlappyParticles defines the crash burst.
type FlappyParticles struct {
	BurstCount int      `yaml:"burst_count"`
	Damping    float64  `yaml:"damping"`
	Drift      float64  `yaml:"drift"`
	Fade       float64  `yaml:"fade"`
	Shrink     float64  `yaml:"shrink"`
	Palette    []string `yaml:"palette"`
}

// Validate reports the first inconsistency that would make the playfield
// unplayable or the simulation ill-defined.
func (c FlappyConfig) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("config: field must be positive, got %vx%v", c.Field.Width, c.Field.Height)
	case c.Bird.Size <= 0:
		return errors.New("config: bird size must be positive")
	case c.Bird.HitboxInset < 0 || 2*c.Bird.HitboxInset >= c.Bird.Size:
		return fmt.Errorf("config: hitbox inset %v does not fit bird size %v", c.Bird.HitboxInset, c.Bird.Size)
	case c.Pipes.Width <= 0 || c.Pipes.Speed <= 0:
		return errors.New("config: pipe width and speed must be positive")
	case c.Pipes.Gap <= 0 || c.Pipes.MinHeight < 0:
		return errors.New("config: pipe gap must be positive and min height non-negative")
	case c.Pipes.Gap+2*c.Pipes.MinHeight > c.Field.Height:
		return fmt.Errorf("config: gap %v with min height %v does not fit field height %v",
			c.Pipes.Gap, c.Pipes.MinHeight, c.Field.Height)
	case c.Pipes.SpawnInterval <= 0:
		return errors.New("config: spawn interval must be positive")
	case c.Pipes.GrowRate <= 0:
		return errors.New("config: pipe grow rate must be positive")
	case c.Particles.BurstCount < 0:
		return errors.New("config: burst count must not be negative")
	case c.Physics.RotationSmoothing < 0 || c.Physics.RotationSmoothing > 1:
		return errors.New("config: rotation smoothing must be within [0, 1]")
	}
	return nil
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes. The pipe gap
// never changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`      // Fraction added to pipe speed at max difficulty
	IntervalReduction int     `yaml:"interval_reduction_ms"` // Spawn interval reduction at max difficulty
	MinInterval       int     `yaml:"min_interval_ms"`       // Spawn interval floor
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name coming from a flag or setting.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyFixed, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyFlappyPreset modifies the config based on a difficulty preset.
// The fixed preset disables progression so pacing stays at base values.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.InitialLevel = 0
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
