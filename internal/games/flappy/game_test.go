package flappy

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/flapforge/internal/config"
)

// recordingCues captures every cue request.
type recordingCues struct {
	played []Cue
	stops  int
}

func (r *recordingCues) Play(c Cue) { r.played = append(r.played, c) }
func (r *recordingCues) StopAll()   { r.stops++ }

func (r *recordingCues) count(c Cue) int {
	n := 0
	for _, p := range r.played {
		if p == c {
			n++
		}
	}
	return n
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// frame returns the timestamp of tick i at 60 Hz.
func frame(i int) time.Time {
	return epoch.Add(time.Duration(i) * time.Second / 60)
}

type harness struct {
	d      *Driver
	cues   *recordingCues
	ends   []int
	frames int
}

func newHarness(t *testing.T, mutate func(*config.FlappyConfig)) *harness {
	t.Helper()
	cfg := config.DefaultFlappyConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{cues: &recordingCues{}}
	d, err := NewDriver(Options{
		Config:       &cfg,
		Seed:         7,
		Cues:         h.cues,
		OnSessionEnd: func(score int) { h.ends = append(h.ends, score) },
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	h.d = d
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.d.Start(frame(h.frames)); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func (h *harness) tick() Snapshot {
	h.frames++
	return h.d.Tick(frame(h.frames))
}

func (h *harness) inject(p Pipe) {
	h.d.pipes.pipes = append(h.d.pipes.pipes, p)
}

func TestNewDriverRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Pipes.Gap = 0
	if _, err := NewDriver(Options{Config: &cfg}); err == nil {
		t.Error("NewDriver should reject an invalid tuning")
	}
}

func TestIdleIsStill(t *testing.T) {
	h := newHarness(t, nil)

	for i := 0; i < 30; i++ {
		s := h.tick()
		if s.Phase != PhaseIdle {
			t.Fatalf("phase = %v, expected idle", s.Phase)
		}
		if s.Bird.Y != 300 || s.Bird.VY != 0 {
			t.Fatalf("bird moved while idle: %+v", s.Bird)
		}
		if len(s.Pipes) != 0 {
			t.Fatal("no pipes should spawn while idle")
		}
	}
	if s := h.d.Snapshot(); s.Bird.X != 200 {
		t.Errorf("bird X = %v, expected centre 200", s.Bird.X)
	}
}

func TestGravityAppliedBeforeIntegration(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	prev := h.d.Snapshot().Bird
	for n := 1; n <= 40; n++ {
		s := h.tick()
		if s.Over() {
			t.Fatalf("unexpected game over at frame %d", n)
		}
		wantVY := prev.VY + 0.25
		wantY := prev.Y + wantVY
		if s.Bird.VY != wantVY {
			t.Fatalf("frame %d: VY = %v, expected %v", n, s.Bird.VY, wantVY)
		}
		if math.Abs(s.Bird.Y-wantY) > 1e-9 {
			t.Fatalf("frame %d: Y = %v, expected %v", n, s.Bird.Y, wantY)
		}
		if s.Bird.VY != 0.25*float64(n) {
			t.Fatalf("frame %d: VY = %v, expected 0.25*N = %v", n, s.Bird.VY, 0.25*float64(n))
		}
		if s.Bird.VY <= prev.VY {
			t.Fatalf("frame %d: velocity should increase monotonically", n)
		}
		prev = s.Bird
	}
}

func TestJump(t *testing.T) {
	h := newHarness(t, nil)

	if h.d.Jump() {
		t.Error("Jump should be a no-op while idle")
	}
	if h.d.Snapshot().Bird.VY != 0 || h.cues.count(CueJump) != 0 {
		t.Error("idle jump must not change velocity or play a cue")
	}

	h.start(t)
	for _, prior := range []float64{0, 5, -3, 12.5} {
		h.d.bird.VY = prior
		if !h.d.Jump() {
			t.Fatal("Jump should take effect while playing")
		}
		if h.d.bird.VY != -8 {
			t.Errorf("Jump from VY=%v set VY=%v, expected -8", prior, h.d.bird.VY)
		}
	}
	if h.cues.count(CueJump) != 4 {
		t.Errorf("jump cue played %d times, expected 4", h.cues.count(CueJump))
	}

	// Crash into the floor, then jumps are ignored
	h.d.bird.Y = 579
	h.d.bird.VY = 5
	h.tick()
	if h.d.Phase() != PhaseGameOver {
		t.Fatal("expected game over after floor contact")
	}
	if h.d.Jump() {
		t.Error("Jump should be a no-op after game over")
	}
	if h.d.bird.VY == -8 {
		t.Error("velocity must not change after game over")
	}
}

func TestScoreOncePerPassedPipe(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	// Right edge lands at 187 after the first advance, left of the hitbox at 190
	h.inject(Pipe{X: 129, TopHeight: 100, BottomHeight: 260, Scale: 1})

	s := h.tick()
	if s.Score != 1 {
		t.Fatalf("score after passing = %d, expected 1", s.Score)
	}
	for i := 0; i < 20; i++ {
		s = h.tick()
	}
	if s.Score != 1 {
		t.Errorf("score should not increase again, got %d", s.Score)
	}
	if h.cues.count(CueScore) != 1 {
		t.Errorf("score cue played %d times, expected 1", h.cues.count(CueScore))
	}
}

func TestScoreCountsEveryPipePassedOnSameFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	h.inject(Pipe{X: 100, TopHeight: 100, BottomHeight: 260, Scale: 1})
	h.inject(Pipe{X: 120, TopHeight: 100, BottomHeight: 260, Scale: 1})

	if s := h.tick(); s.Score != 2 {
		t.Errorf("score = %d, expected 2", s.Score)
	}
}

func TestNoScoreOnCrashFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	// The pipe is cleared on the same tick the bird hits the ceiling
	h.inject(Pipe{X: 129, TopHeight: 100, BottomHeight: 260, Scale: 1})
	h.d.bird.Y = 15
	h.d.bird.VY = 0

	s := h.tick()
	if !s.Over() || !s.Hit.Ceiling {
		t.Fatalf("expected a ceiling crash, got %+v", s.Hit)
	}
	if s.Score != 0 || len(h.ends) != 1 || h.ends[0] != 0 || h.cues.count(CueScore) != 0 {
		t.Errorf("crash frame scored: score=%d ends=%v cues=%d", s.Score, h.ends, h.cues.count(CueScore))
	}
}

func TestCeilingAndPipeSameFrameEndOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	stopsAtStart := h.cues.stops

	// Top edge above 0 and hitbox inside a top segment on the same tick
	h.d.bird.Y = 15
	h.d.bird.VY = 0
	h.inject(Pipe{X: 180, TopHeight: 100, BottomHeight: 260, Scale: 1})

	s := h.tick()
	if !s.Hit.Ceiling || !s.Hit.Pipe {
		t.Fatalf("expected ceiling and pipe hit, got %+v", s.Hit)
	}
	if !s.Over() {
		t.Fatal("expected game over")
	}
	if len(h.ends) != 1 || h.ends[0] != 0 {
		t.Fatalf("OnSessionEnd calls = %v, expected exactly [0]", h.ends)
	}
	if h.cues.count(CueCrash) != 1 {
		t.Errorf("crash cue played %d times, expected 1", h.cues.count(CueCrash))
	}
	if h.cues.stops != stopsAtStart+1 {
		t.Errorf("StopAll called %d times on game over, expected 1", h.cues.stops-stopsAtStart)
	}
	if len(s.Particles) != 40 {
		t.Errorf("burst size = %d, expected 40", len(s.Particles))
	}
	if s.Bird.VY != 0 {
		t.Errorf("velocity should be zeroed on game over, got %v", s.Bird.VY)
	}

	// Later frames keep colliding-adjacent conditions but never re-trigger
	for i := 0; i < 60; i++ {
		s = h.tick()
		if len(s.Particles) > 40 {
			t.Fatalf("frame %d: a second burst was emitted", i)
		}
	}
	if len(h.ends) != 1 || h.cues.count(CueCrash) != 1 {
		t.Errorf("side effects repeated: ends=%v crash=%d", h.ends, h.cues.count(CueCrash))
	}
}

func TestFloorContactClampsAndSettles(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	h.d.bird.Y = 575
	h.d.bird.VY = 10
	s := h.tick()

	if !s.Hit.Floor || !s.Over() {
		t.Fatalf("expected floor hit and game over, got %+v over=%v", s.Hit, s.Over())
	}
	if s.Bird.Y != 580 || s.Bird.VY != 0 {
		t.Fatalf("bird = (Y %v, VY %v), expected clamped to (580, 0)", s.Bird.Y, s.Bird.VY)
	}

	for i := 0; i < 30; i++ {
		s = h.tick()
		if s.Bird.Y > 580 {
			t.Fatalf("frame %d: bird sank below the floor (Y=%v)", i, s.Bird.Y)
		}
		if s.Bird.VY != 0 {
			t.Fatalf("frame %d: resting bird gained velocity %v", i, s.Bird.VY)
		}
	}
}

func TestBirdSettlesAfterMidairCrash(t *testing.T) {
	tests := []struct {
		name   string
		settle bool
	}{
		{"settle enabled", true},
		{"settle disabled", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, func(c *config.FlappyConfig) { c.Physics.SettleAfterCrash = tc.settle })
			h.start(t)

			h.d.bird.Y = 15 // ceiling hit
			s := h.tick()
			if !s.Over() {
				t.Fatal("expected game over")
			}
			crashY := s.Bird.Y

			for i := 0; i < 200; i++ {
				s = h.tick()
			}
			if tc.settle {
				if s.Bird.Y != 580 {
					t.Errorf("bird should rest on the floor, Y = %v", s.Bird.Y)
				}
			} else if s.Bird.Y != crashY {
				t.Errorf("bird should stay put, moved from %v to %v", crashY, s.Bird.Y)
			}
			if math.Abs(s.Bird.Rotation-math.Pi/2) > 1e-6 {
				t.Errorf("rotation should converge to pi/2 after game over, got %v", s.Bird.Rotation)
			}
		})
	}
}

func TestPipesFreezeAfterGameOver(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	for i := 0; i < 10; i++ {
		h.tick()
	}
	h.d.bird.Y = 579
	h.d.bird.VY = 5
	s := h.tick()
	if !s.Over() {
		t.Fatal("expected game over")
	}
	frozen := s.Pipes
	score := s.Score

	for i := 0; i < 300; i++ {
		s = h.tick()
	}
	if len(s.Pipes) != len(frozen) {
		t.Fatalf("pipe count changed after game over: %d -> %d", len(frozen), len(s.Pipes))
	}
	for i := range frozen {
		if s.Pipes[i] != frozen[i] {
			t.Errorf("pipe %d moved after game over: %+v -> %+v", i, frozen[i], s.Pipes[i])
		}
	}
	if s.Score != score {
		t.Errorf("score changed after game over: %d -> %d", score, s.Score)
	}
}

func TestStartWhilePlaying(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	err := h.d.Start(frame(h.frames))
	if !errors.Is(err, ErrSessionActive) {
		t.Errorf("Start while playing = %v, expected ErrSessionActive", err)
	}
}

func TestRestartFullyResets(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	h.inject(Pipe{X: 129, TopHeight: 100, BottomHeight: 260, Scale: 1})
	for i := 0; i < 20; i++ {
		if i%8 == 0 {
			h.d.Jump()
		}
		h.tick()
	}
	h.d.bird.Y = 579
	h.d.bird.VY = 5
	s := h.tick()
	if !s.Over() || s.Score == 0 || len(s.Pipes) == 0 || len(s.Particles) == 0 {
		t.Fatalf("setup did not reach a dirty game over: %+v", s)
	}

	stops := h.cues.stops
	h.start(t)
	s = h.d.Snapshot()

	if s.Phase != PhasePlaying {
		t.Errorf("phase = %v, expected playing", s.Phase)
	}
	if s.Score != 0 || s.Tick != 0 {
		t.Errorf("score/tick not reset: %d/%d", s.Score, s.Tick)
	}
	if len(s.Pipes) != 0 || len(s.Particles) != 0 {
		t.Errorf("pipes/particles not cleared: %d/%d", len(s.Pipes), len(s.Particles))
	}
	if s.Bird.Y != 300 || s.Bird.VY != 0 || s.Bird.Rotation != 0 {
		t.Errorf("bird not reset: %+v", s.Bird)
	}
	if s.Hit.Any() {
		t.Errorf("last hit not cleared: %+v", s.Hit)
	}
	if h.cues.stops != stops+1 {
		t.Error("Start should stop all playing cues")
	}
	if s.Session != 2 {
		t.Errorf("session number = %d, expected 2", s.Session)
	}

	// The new session reports its own end
	h.d.bird.Y = 579
	h.d.bird.VY = 5
	h.tick()
	if len(h.ends) != 2 || h.ends[1] != 0 {
		t.Errorf("OnSessionEnd calls = %v, expected a second call with 0", h.ends)
	}
}

func TestFirstTickSpawnsPipe(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)

	s := h.tick()
	if len(s.Pipes) != 1 {
		t.Fatalf("pipes after first tick = %d, expected 1", len(s.Pipes))
	}
	p := s.Pipes[0]
	if p.X != 398 {
		t.Errorf("new pipe X = %v, expected 400 minus one advance", p.X)
	}
	if math.Abs(p.Scale-0.05) > 1e-9 {
		t.Errorf("new pipe scale = %v, expected 0.05", p.Scale)
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() Snapshot {
		h := newHarness(t, nil)
		h.start(t)
		var s Snapshot
		for i := 0; i < 600; i++ {
			if i%22 == 0 {
				h.d.Jump()
			}
			s = h.tick()
		}
		return s
	}

	a, b := run(), run()
	if a.Score != b.Score || a.Phase != b.Phase || a.Bird != b.Bird {
		t.Fatalf("replays diverged: %+v vs %+v", a.Bird, b.Bird)
	}
	if len(a.Pipes) != len(b.Pipes) {
		t.Fatalf("pipe counts diverged: %d vs %d", len(a.Pipes), len(b.Pipes))
	}
	for i := range a.Pipes {
		if a.Pipes[i] != b.Pipes[i] {
			t.Errorf("pipe %d diverged: %+v vs %+v", i, a.Pipes[i], b.Pipes[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t, nil)
	h.start(t)
	s := h.tick()

	s.Pipes[0].X = -999
	if h.d.Snapshot().Pipes[0].X == -999 {
		t.Error("mutating a snapshot must not affect the driver")
	}
}
