package flappy

import (
	"fmt"
	"time"

	"github.com/vovakirdan/flapforge/internal/config"
)

// Options configure a Driver.
type Options struct {
	// Config is the game tuning. Nil means config.DefaultFlappyConfig.
	Config *config.FlappyConfig
	// Seed feeds pipe heights and particles. Each session derives its own
	// stream from it, so a replay with the same inputs is identical.
	Seed int64
	// Cues receives sound requests. Nil discards them.
	Cues Cues
	// OnSessionEnd is invoked exactly once per session with the final score,
	// on the tick the bird first hits something.
	OnSessionEnd func(score int)
}

// Driver owns the whole simulation state. It is not safe for concurrent
// use: a frontend calls Tick, Jump and Start from its single update loop.
type Driver struct {
	cfg       config.FlappyConfig
	geom      Geometry
	bird      Bird
	pipes     *PipeManager
	particles *ParticleSystem
	session   Session
	lastHit   Hit
	cues      Cues
	onEnd     func(int)
	seed      int64
}

// NewDriver validates the tuning and returns a driver in PhaseIdle.
func NewDriver(opts Options) (*Driver, error) {
	cfg := config.DefaultFlappyConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}

	d := &Driver{
		cfg: cfg,
		geom: Geometry{
			FieldW:      cfg.Field.Width,
			FieldH:      cfg.Field.Height,
			PipeWidth:   cfg.Pipes.Width,
			HitboxInset: cfg.Bird.HitboxInset,
		},
		cues:  opts.Cues,
		onEnd: opts.OnSessionEnd,
		seed:  opts.Seed,
	}
	if d.cues == nil {
		d.cues = NopCues{}
	}
	diff := config.NewDifficultyManager(cfg.Difficulty)
	d.pipes = NewPipeManager(d.seed, &d.cfg, diff)
	d.particles = NewParticleSystem(d.seed, cfg.Particles, cfg.Bird.Size/2)
	d.resetBird()
	return d, nil
}

func (d *Driver) resetBird() {
	d.bird = Bird{
		X:    d.cfg.Field.Width / 2,
		Y:    d.cfg.Bird.StartY,
		Size: d.cfg.Bird.Size,
	}
}

// Start begins a new session from PhaseIdle or PhaseGameOver, resetting the
// bird, pipes, particles, score, spawn timer and the end-of-session guard,
// and silencing any cue still playing. It returns ErrSessionActive while a
// session is in progress.
func (d *Driver) Start(now time.Time) error {
	if err := d.session.begin(); err != nil {
		return err
	}
	seed := d.seed + int64(d.session.Number)
	d.cues.StopAll()
	d.resetBird()
	d.pipes.Reset(seed)
	d.particles.Reset(seed)
	d.lastHit = Hit{}
	return nil
}

// Jump applies the jump impulse and plays the jump cue. It does nothing
// unless a session is being played, and reports whether it took effect.
func (d *Driver) Jump() bool {
	if d.session.Phase != PhasePlaying {
		return false
	}
	d.bird.Jump(d.cfg.Physics.JumpImpulse)
	d.cues.Play(CueJump)
	return true
}

// Tick advances the simulation by one frame and returns the resulting
// snapshot. now drives the pipe spawn timer only; motion uses fixed
// per-tick increments.
func (d *Driver) Tick(now time.Time) Snapshot {
	switch d.session.Phase {
	case PhasePlaying:
		d.stepPlaying(now)
	case PhaseGameOver:
		if d.cfg.Physics.SettleAfterCrash {
			d.settle()
		}
	}

	d.bird.UpdateRotation(d.session.Phase == PhaseGameOver, d.cfg.Physics.RotationSmoothing)
	d.particles.Advance()
	return d.Snapshot()
}

func (d *Driver) stepPlaying(now time.Time) {
	d.session.Ticks++
	score, ticks := d.session.Score, d.session.Ticks

	d.bird.ApplyGravity(d.cfg.Physics.Gravity)
	d.bird.Integrate()

	d.pipes.MaybeSpawn(now, score, ticks)
	d.pipes.Advance(score, ticks)
	d.pipes.Prune()

	hit := Detect(d.bird.Bounds(), d.pipes.Pipes(), d.geom)
	d.lastHit = hit
	if hit.Floor {
		d.landOnFloor()
	}
	if hit.Any() {
		d.endSession()
		return
	}

	passed := d.pipes.CheckPassed(d.bird.Hitbox(d.cfg.Bird.HitboxInset).X)
	for i := 0; i < passed; i++ {
		d.session.Score++
		d.cues.Play(CueScore)
	}
}

// settle lets the bird fall to the floor after a crash.
func (d *Driver) settle() {
	if d.onFloor() {
		return
	}
	d.bird.ApplyGravity(d.cfg.Physics.Gravity)
	d.bird.Integrate()
	if d.bird.Bounds().Bottom() >= d.geom.FieldH {
		d.landOnFloor()
	}
}

func (d *Driver) onFloor() bool {
	return d.bird.Y >= d.geom.FieldH-d.bird.Size/2
}

func (d *Driver) landOnFloor() {
	d.bird.Y = d.geom.FieldH - d.bird.Size/2
	d.bird.VY = 0
}

// endSession runs the game-over side effects once per session.
func (d *Driver) endSession() {
	if !d.session.finish() {
		return
	}
	d.cues.StopAll()
	d.cues.Play(CueCrash)
	d.bird.VY = 0
	d.particles.SpawnBurst(d.bird.X, d.bird.Y, d.cfg.Particles.BurstCount)
	if d.onEnd != nil {
		d.onEnd(d.session.Score)
	}
}

// Phase returns the current session phase.
func (d *Driver) Phase() Phase {
	return d.session.Phase
}

// Score returns the current session score.
func (d *Driver) Score() int {
	return d.session.Score
}

// Config returns the tuning the driver runs with.
func (d *Driver) Config() config.FlappyConfig {
	return d.cfg
}
