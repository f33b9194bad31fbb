package flappy

// Snapshot is a read-only copy of the simulation after a tick. Frontends
// draw from it and never touch the driver's state directly.
type Snapshot struct {
	Phase     Phase
	Score     int
	Session   int // session number, 0 before the first Start
	Tick      int
	FieldW    float64
	FieldH    float64
	PipeWidth float64
	Speed     float64
	Bird      Bird
	Pipes     []Pipe
	Particles []Particle
	Hit       Hit // surfaces touched on the last playing tick
}

// Over reports whether the session has ended.
func (s Snapshot) Over() bool {
	return s.Phase == PhaseGameOver
}

// Snapshot copies the current state without advancing it.
func (d *Driver) Snapshot() Snapshot {
	return Snapshot{
		Phase:     d.session.Phase,
		Score:     d.session.Score,
		Session:   d.session.Number,
		Tick:      d.session.Ticks,
		FieldW:    d.geom.FieldW,
		FieldH:    d.geom.FieldH,
		PipeWidth: d.geom.PipeWidth,
		Speed:     d.pipes.Speed(),
		Bird:      d.bird,
		Pipes:     append([]Pipe(nil), d.pipes.Pipes()...),
		Particles: append([]Particle(nil), d.particles.Particles()...),
		Hit:       d.lastHit,
	}
}
