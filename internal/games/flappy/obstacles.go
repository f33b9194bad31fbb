package flappy

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/flapforge/internal/config"
	"github.com/vovakirdan/flapforge/internal/core"
)

// Pipe is a pair of vertical segments with a gap between them. Heights are
// the full-grown sizes; Scale animates them in from zero after spawning.
type Pipe struct {
	X            float64 // Left edge
	TopHeight    float64
	BottomHeight float64
	Passed       bool
	Scale        float64
}

// TopBox returns the collision box of the top segment at its current scale.
func (p Pipe) TopBox(width float64) core.Box {
	return core.NewBox(p.X, 0, width, p.TopHeight*p.Scale)
}

// BottomBox returns the collision box of the bottom segment at its current
// scale, anchored to the floor.
func (p Pipe) BottomBox(width, fieldH float64) core.Box {
	h := p.BottomHeight * p.Scale
	return core.NewBox(p.X, fieldH-h, width, h)
}

// Right returns the x-coordinate of the right edge.
func (p Pipe) Right(width float64) float64 {
	return p.X + width
}

// PipeManager handles spawning, movement, scoring marks and removal of pipes.
type PipeManager struct {
	pipes      []Pipe
	rng        *rand.Rand
	cfg        *config.FlappyConfig
	difficulty *config.DifficultyManager
	lastSpawn  time.Time
	speed      float64
}

// NewPipeManager creates a pipe manager with the given RNG seed.
func NewPipeManager(seed int64, cfg *config.FlappyConfig, diff *config.DifficultyManager) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		cfg:        cfg,
		difficulty: diff,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes, the spawn timer and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
	pm.lastSpawn = time.Time{}
	pm.speed = pm.cfg.Pipes.Speed
}

// MaybeSpawn adds a pipe at the right edge when the spawn interval has
// elapsed since the previous spawn. The first call after Reset always
// spawns. Reports whether a pipe was added.
func (pm *PipeManager) MaybeSpawn(now time.Time, score, ticks int) bool {
	interval := pm.difficulty.Interval(pm.cfg.Pipes.Interval(), score, ticks)
	if !pm.lastSpawn.IsZero() && now.Sub(pm.lastSpawn) <= interval {
		return false
	}
	pm.spawn()
	pm.lastSpawn = now
	return true
}

// spawn creates a pipe with a random top height, keeping at least MinHeight
// of pipe on both sides of the gap.
func (pm *PipeManager) spawn() {
	field := pm.cfg.Field
	p := pm.cfg.Pipes
	span := math.Max(0, field.Height-p.Gap-2*p.MinHeight)
	top := p.MinHeight + pm.rng.Float64()*span

	pm.pipes = append(pm.pipes, Pipe{
		X:            field.Width,
		TopHeight:    top,
		BottomHeight: field.Height - top - p.Gap,
	})
}

// Advance scrolls every pipe left and grows its scale toward 1.
func (pm *PipeManager) Advance(score, ticks int) {
	pm.speed = pm.difficulty.Speed(pm.cfg.Pipes.Speed, score, ticks)
	grow := pm.cfg.Pipes.GrowRate
	for i := range pm.pipes {
		pm.pipes[i].X -= pm.speed
		pm.pipes[i].Scale = math.Min(1, pm.pipes[i].Scale+grow)
	}
}

// Prune drops pipes that have fully left the playfield.
func (pm *PipeManager) Prune() {
	width := pm.cfg.Pipes.Width
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.Right(width) > 0 {
			kept = append(kept, p)
		}
	}
	pm.pipes = kept
}

// CheckPassed marks every pipe whose right edge the bird has cleared and
// returns how many were newly marked. Each pipe is counted at most once.
func (pm *PipeManager) CheckPassed(birdLeft float64) int {
	width := pm.cfg.Pipes.Width
	passed := 0
	for i := range pm.pipes {
		if !pm.pipes[i].Passed && birdLeft > pm.pipes[i].Right(width) {
			pm.pipes[i].Passed = true
			passed++
		}
	}
	return passed
}

// Pipes returns the live pipes. The slice is reused between ticks; callers
// that keep it must copy.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// Speed returns the scroll speed used by the last Advance.
func (pm *PipeManager) Speed() float64 {
	return pm.speed
}
