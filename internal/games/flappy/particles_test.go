package flappy

import (
	"math"
	"slices"
	"testing"

	"github.com/vovakirdan/flapforge/internal/config"
)

func newTestParticles(seed int64) *ParticleSystem {
	return NewParticleSystem(seed, config.DefaultFlappyConfig().Particles, 20)
}

func TestSpawnBurstRanges(t *testing.T) {
	ps := newTestParticles(3)
	ps.SpawnBurst(200, 300, 40)

	if ps.Len() != 40 {
		t.Fatalf("burst size = %d, expected 40", ps.Len())
	}
	for i, p := range ps.Particles() {
		if math.Abs(p.X-200) > 20 || math.Abs(p.Y-300) > 20 {
			t.Errorf("particle %d spawned outside the jitter square: (%v, %v)", i, p.X, p.Y)
		}
		if p.VX < -6 || p.VX > 6 {
			t.Errorf("particle %d VX %v outside [-6, 6]", i, p.VX)
		}
		if p.VY < -8 || p.VY > 4 {
			t.Errorf("particle %d VY %v outside [-8, 4]", i, p.VY)
		}
		if p.Size < 3 || p.Size > 13 {
			t.Errorf("particle %d size %v outside [3, 13]", i, p.Size)
		}
		if p.Life != 1 {
			t.Errorf("particle %d life %v, expected 1", i, p.Life)
		}
		if !slices.Contains(config.DefaultPalette, p.Color) {
			t.Errorf("particle %d color %q not from the palette", i, p.Color)
		}
	}
}

func TestParticleAdvance(t *testing.T) {
	ps := newTestParticles(3)
	ps.particles = append(ps.particles, Particle{X: 10, Y: 10, VX: 2, VY: -4, Life: 1, Size: 10})

	ps.Advance()
	p := ps.Particles()[0]

	checks := []struct {
		name      string
		got, want float64
	}{
		{"X", p.X, 12},
		{"Y", p.Y, 6},
		{"VX", p.VX, 1.9},
		{"VY", p.VY, -4*0.95 + 0.15},
		{"Life", p.Life, 0.975},
		{"Size", p.Size, 9.6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.want)
		}
	}
}

func TestParticlesExpire(t *testing.T) {
	ps := newTestParticles(9)
	ps.SpawnBurst(0, 0, 40)

	for i := 0; i < 39; i++ {
		ps.Advance()
	}
	if ps.Len() != 40 {
		t.Fatalf("after 39 frames %d particles left, expected all 40", ps.Len())
	}
	ps.Advance()
	ps.Advance()
	if ps.Len() != 0 {
		t.Errorf("after 41 frames %d particles left, expected none", ps.Len())
	}
}

func TestParticlesAdvanceInEveryPhase(t *testing.T) {
	h := newHarness(t, nil)

	// Idle: particles left over from nothing still advance without panicking
	h.d.particles.SpawnBurst(100, 100, 5)
	before := h.d.Snapshot().Particles[0]
	h.tick()
	after := h.d.Snapshot().Particles[0]
	if after.Life >= before.Life {
		t.Error("particles should age while idle")
	}

	h.start(t)
	h.d.bird.Y = 15
	s := h.tick()
	if !s.Over() || len(s.Particles) != 40 {
		t.Fatalf("expected a 40 particle burst on game over, got %d", len(s.Particles))
	}
	for i := 0; i < 45; i++ {
		s = h.tick()
	}
	if len(s.Particles) != 0 {
		t.Errorf("burst should fade out during game over, %d left", len(s.Particles))
	}
}

func TestParticleSystemReset(t *testing.T) {
	ps := newTestParticles(1)
	ps.SpawnBurst(0, 0, 10)
	ps.Reset(1)
	if ps.Len() != 0 {
		t.Errorf("Reset left %d particles", ps.Len())
	}

	// Same seed reproduces the same burst
	a := newTestParticles(5)
	b := newTestParticles(5)
	a.SpawnBurst(1, 2, 8)
	b.SpawnBurst(1, 2, 8)
	if !slices.Equal(a.Particles(), b.Particles()) {
		t.Error("identical seeds should produce identical bursts")
	}
}
