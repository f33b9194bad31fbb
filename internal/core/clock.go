package core

import "time"

// SimClock converts wall-clock time into simulation time that stands still
// while paused. Spawn timers compare simulation timestamps, so a long pause
// does not release a burst of obstacles on resume.
type SimClock struct {
	offset   time.Duration
	pausedAt time.Time
}

// Now returns the simulation time corresponding to wall.
func (c *SimClock) Now(wall time.Time) time.Time {
	if !c.pausedAt.IsZero() {
		wall = c.pausedAt
	}
	return wall.Add(-c.offset)
}

// Paused reports whether the clock is stopped.
func (c *SimClock) Paused() bool {
	return !c.pausedAt.IsZero()
}

// Pause stops the clock at wall. Pausing twice keeps the first instant.
func (c *SimClock) Pause(wall time.Time) {
	if c.pausedAt.IsZero() {
		c.pausedAt = wall
	}
}

// Resume restarts the clock, discarding the time spent paused.
func (c *SimClock) Resume(wall time.Time) {
	if c.pausedAt.IsZero() {
		return
	}
	if d := wall.Sub(c.pausedAt); d > 0 {
		c.offset += d
	}
	c.pausedAt = time.Time{}
}

// Toggle flips between paused and running and returns the new state.
func (c *SimClock) Toggle(wall time.Time) (paused bool) {
	if c.Paused() {
		c.Resume(wall)
		return false
	}
	c.Pause(wall)
	return true
}
