package config

import (
	"time"

	"github.com/vovakirdan/flapforge/internal/core"
)

// DifficultyManager derives pipe pacing from the session's score or age.
// With progression disabled it returns the base values scaled by the
// initial level.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: core.ClampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level in [0, 1].
func (d *DifficultyManager) Level(score, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = core.ClampF(progress, 0, 1)
	return d.initialLevel + progress*(1-d.initialLevel)
}

// Speed returns the pipe speed for the current level. It grows from base to
// base * (1 + SpeedMultiplier).
func (d *DifficultyManager) Speed(base float64, score, ticks int) float64 {
	return base * (1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// Interval returns the spawn interval for the current level, never below
// the configured floor (and never below base when base is already smaller).
func (d *DifficultyManager) Interval(base time.Duration, score, ticks int) time.Duration {
	reduction := time.Duration(d.Level(score, ticks)*float64(d.cfg.Scaling.IntervalReduction)) * time.Millisecond
	result := base - reduction
	floor := min(time.Duration(d.cfg.Scaling.MinInterval)*time.Millisecond, base)
	if result < floor {
		result = floor
	}
	return result
}
