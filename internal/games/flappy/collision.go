package flappy

import "github.com/vovakirdan/flapforge/internal/core"

// Geometry is the static playfield data collision needs.
type Geometry struct {
	FieldW      float64
	FieldH      float64
	PipeWidth   float64
	HitboxInset float64
}

// Hit lists the surfaces the bird touches on a tick. Any kind ends the session.
type Hit struct {
	Pipe    bool
	Ceiling bool
	Floor   bool
}

// Any reports whether anything was hit.
func (h Hit) Any() bool {
	return h.Pipe || h.Ceiling || h.Floor
}

// Detect tests the bird's nominal box against the playfield bounds and its
// inset hitbox against every pipe segment at the segment's current scale.
func Detect(body core.Box, pipes []Pipe, g Geometry) Hit {
	var hit Hit
	hit.Ceiling = body.Y <= 0
	hit.Floor = body.Bottom() >= g.FieldH

	hitbox := body.Inset(g.HitboxInset)
	for _, p := range pipes {
		if hitbox.Intersects(p.TopBox(g.PipeWidth)) || hitbox.Intersects(p.BottomBox(g.PipeWidth, g.FieldH)) {
			hit.Pipe = true
			break
		}
	}
	return hit
}
