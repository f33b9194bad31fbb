package core

import (
	"testing"
	"time"
)

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate     int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}

	for _, tc := range tests {
		cfg := RuntimeConfig{TickRate: tc.rate}
		if got := cfg.TickInterval(); got != tc.expected {
			t.Errorf("TickInterval() with rate %d = %v, expected %v", tc.rate, got, tc.expected)
		}
	}
}

func TestResolveSeed(t *testing.T) {
	if got := (RuntimeConfig{Seed: 42}).ResolveSeed(); got != 42 {
		t.Errorf("explicit seed should be kept, got %d", got)
	}
	if got := DefaultConfig().ResolveSeed(); got == 0 {
		t.Error("zero seed should be replaced by a clock-derived value")
	}
}
