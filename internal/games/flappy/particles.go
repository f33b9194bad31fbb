package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flapforge/internal/config"
)

// Particle is one fragment of the crash burst. Particles are cosmetic and
// never feed back into the simulation.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // 1 at birth, removed at 0
	Size   float64
	Color  string // hex from the palette
}

// ParticleSystem owns the live particles.
type ParticleSystem struct {
	particles []Particle
	rng       *rand.Rand
	cfg       config.FlappyParticles
	spread    float64
}

// NewParticleSystem creates an empty system. Burst positions are jittered by
// up to spread in each axis.
func NewParticleSystem(seed int64, cfg config.FlappyParticles, spread float64) *ParticleSystem {
	if len(cfg.Palette) == 0 {
		cfg.Palette = config.DefaultPalette
	}
	return &ParticleSystem{
		particles: make([]Particle, 0, cfg.BurstCount),
		rng:       rand.New(rand.NewSource(seed)),
		cfg:       cfg,
		spread:    spread,
	}
}

// SpawnBurst emits count particles around (x, y) with upward-biased random
// velocities.
func (ps *ParticleSystem) SpawnBurst(x, y float64, count int) {
	for i := 0; i < count; i++ {
		ps.particles = append(ps.particles, Particle{
			X:     x + (ps.rng.Float64()*2-1)*ps.spread,
			Y:     y + (ps.rng.Float64()*2-1)*ps.spread,
			VX:    (ps.rng.Float64() - 0.5) * 12,
			VY:    (ps.rng.Float64()-0.5)*12 - 2,
			Life:  1,
			Size:  ps.rng.Float64()*10 + 3,
			Color: ps.cfg.Palette[ps.rng.Intn(len(ps.cfg.Palette))],
		})
	}
}

// Advance moves, damps, fades and shrinks every particle, then drops the
// dead ones.
func (ps *ParticleSystem) Advance() {
	kept := ps.particles[:0]
	for _, p := range ps.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VX *= ps.cfg.Damping
		p.VY *= ps.cfg.Damping
		p.VY += ps.cfg.Drift
		p.Life -= ps.cfg.Fade
		p.Size *= ps.cfg.Shrink
		if p.Life > 0 {
			kept = append(kept, p)
		}
	}
	ps.particles = kept
}

// Particles returns the live particles. The slice is reused between ticks.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Len returns the number of live particles.
func (ps *ParticleSystem) Len() int {
	return len(ps.particles)
}

// Reset removes every particle and reseeds the RNG.
func (ps *ParticleSystem) Reset(seed int64) {
	ps.particles = ps.particles[:0]
	ps.rng = rand.New(rand.NewSource(seed))
}
