// Package flappy implements the flappy-bird simulation: bird physics, pipe
// spawning and scrolling, collision detection, scoring, the crash particle
// burst and the session state machine. Everything is advanced by a single
// Driver.Tick call per frame; frontends only read Snapshots and issue
// Jump/Start commands.
package flappy

import (
	"math"

	"github.com/vovakirdan/flapforge/internal/core"
)

// Rotation limits in radians.
const (
	MaxNoseUp   = -math.Pi / 4
	MaxNoseDown = math.Pi / 2
)

// Rotation gains applied to vertical velocity when choosing a target angle.
const (
	riseTilt = 0.15
	fallTilt = 0.1
)

// Bird is the player-controlled actor. X never changes; Y is the centre of
// the square sprite.
type Bird struct {
	X        float64
	Y        float64
	VY       float64
	Rotation float64
	Size     float64
}

// ApplyGravity accumulates one tick of gravity into the vertical velocity.
func (b *Bird) ApplyGravity(gravity float64) {
	b.VY += gravity
}

// Integrate moves the bird by its velocity for one tick.
func (b *Bird) Integrate() {
	b.Y += b.VY
}

// Jump replaces the vertical velocity with the impulse.
func (b *Bird) Jump(impulse float64) {
	b.VY = impulse
}

// UpdateRotation eases the displayed angle toward the target for the
// current velocity.
func (b *Bird) UpdateRotation(over bool, smoothing float64) {
	b.Rotation = core.Approach(b.Rotation, TargetRotation(b.VY, over), smoothing)
}

// TargetRotation is the angle the bird tilts toward: nose straight down once
// the session is over, nose up proportionally while rising, nose down
// proportionally while falling.
func TargetRotation(vy float64, over bool) float64 {
	switch {
	case over:
		return MaxNoseDown
	case vy < 0:
		return math.Max(MaxNoseUp, vy*riseTilt)
	default:
		return math.Min(MaxNoseDown, vy*fallTilt)
	}
}

// Bounds returns the nominal sprite square.
func (b Bird) Bounds() core.Box {
	return core.CenteredBox(b.X, b.Y, b.Size, b.Size)
}

// Hitbox returns the forgiving box used against pipes.
func (b Bird) Hitbox(inset float64) core.Box {
	return b.Bounds().Inset(inset)
}
