package core

import "time"

// RuntimeConfig describes how a frontend drives the simulation.
type RuntimeConfig struct {
	ScreenW  int   // Output width in frontend units (cells or pixels)
	ScreenH  int   // Output height in frontend units
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means seed from the clock
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 Hz.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickInterval returns the wall-clock duration of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is zero.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
