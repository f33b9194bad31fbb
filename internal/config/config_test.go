package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := decodeFlappy(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFlappyConfig()) {
		t.Errorf("embedded defaults drifted from DefaultFlappyConfig:\n got %+v\nwant %+v", cfg, DefaultFlappyConfig())
	}
}

func TestLoadFlappyCustomPathPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	data := "pipes:\n  gap: 200\n  speed: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy: %v", err)
	}
	if cfg.Pipes.Gap != 200 || cfg.Pipes.Speed != 3 {
		t.Errorf("overrides not applied: %+v", cfg.Pipes)
	}
	if cfg.Pipes.Width != 60 || cfg.Physics.Gravity != 0.25 {
		t.Errorf("untouched keys should keep defaults: %+v %+v", cfg.Pipes, cfg.Physics)
	}
}

func TestLoadFlappyCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFlappy(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing explicit file should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("pipes:\n  gap: 900\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFlappy(bad)
	if err == nil || !strings.Contains(err.Error(), "does not fit") {
		t.Errorf("oversized gap should fail validation, got %v", err)
	}
}

func TestLoadFlappyUserDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, HomeDirName, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flappy.yaml"), []byte("physics:\n  gravity: 0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy: %v", err)
	}
	if cfg.Physics.Gravity != 0.3 {
		t.Errorf("user config not picked up, gravity = %v", cfg.Physics.Gravity)
	}
}

func TestLoadFlappyFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFlappyConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FlappyConfig)
		ok     bool
	}{
		{"defaults", func(*FlappyConfig) {}, true},
		{"zero field", func(c *FlappyConfig) { c.Field.Height = 0 }, false},
		{"inset swallows bird", func(c *FlappyConfig) { c.Bird.HitboxInset = 20 }, false},
		{"gap too large", func(c *FlappyConfig) { c.Pipes.Gap = 550 }, false},
		{"no spawn interval", func(c *FlappyConfig) { c.Pipes.SpawnInterval = 0 }, false},
		{"smoothing above one", func(c *FlappyConfig) { c.Physics.RotationSmoothing = 1.5 }, false},
		{"tight but valid gap", func(c *FlappyConfig) { c.Pipes.Gap = 500 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultFlappyConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"hard", DifficultyHard, false},
		{"", DifficultyFixed, false},
		{"insane", "", true},
	}

	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsePreset(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestApplyFlappyPreset(t *testing.T) {
	cfg := DefaultFlappyConfig()

	ApplyFlappyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: %+v", cfg.Difficulty)
	}

	ApplyFlappyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0 {
		t.Errorf("fixed preset should disable progression: %+v", cfg.Difficulty)
	}
}

func TestDifficultyFixedKeepsBaseValues(t *testing.T) {
	d := NewDifficultyManager(DefaultFlappyConfig().Difficulty)
	base := 3500 * time.Millisecond

	for _, score := range []int{0, 10, 1000} {
		if got := d.Speed(2, score, score*100); got != 2 {
			t.Errorf("fixed speed at score %d = %v, expected 2", score, got)
		}
		if got := d.Interval(base, score, 0); got != base {
			t.Errorf("fixed interval at score %d = %v, expected %v", score, got, base)
		}
	}
}

func TestDifficultyProgression(t *testing.T) {
	cfg := DefaultFlappyConfig().Difficulty
	cfg.Enabled = true
	d := NewDifficultyManager(cfg)
	base := 3500 * time.Millisecond

	if got := d.Level(20, 0); got != 0.5 {
		t.Errorf("Level halfway = %v, expected 0.5", got)
	}
	if got := d.Level(400, 0); got != 1 {
		t.Errorf("Level past max should clamp to 1, got %v", got)
	}
	if got := d.Speed(2, 40, 0); got != 3.5 {
		t.Errorf("Speed at max = %v, expected 3.5", got)
	}
	if got := d.Interval(base, 40, 0); got != 2000*time.Millisecond {
		t.Errorf("Interval at max = %v, expected 2s", got)
	}

	// The floor applies when the reduction would undercut it
	cfg.Scaling.IntervalReduction = 3400
	d = NewDifficultyManager(cfg)
	if got := d.Interval(base, 40, 0); got != 1500*time.Millisecond {
		t.Errorf("Interval should respect floor, got %v", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 600},
		Scaling:      ScalingConfig{SpeedMultiplier: 1},
	}
	d := NewDifficultyManager(cfg)

	if got := d.Level(0, 0); got != 0.5 {
		t.Errorf("Level at start = %v, expected initial 0.5", got)
	}
	if got := d.Level(0, 300); got != 0.75 {
		t.Errorf("Level at half time = %v, expected 0.75", got)
	}
}
