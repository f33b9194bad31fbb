package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/core"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
	"github.com/vovakirdan/flapforge/internal/genai"
	"github.com/vovakirdan/flapforge/internal/highscore"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type stepper struct {
	g *Game
	i int
}

func newStepper(t *testing.T, best int) *stepper {
	t.Helper()
	g, err := NewGame(Options{Seed: 1, Board: highscore.NewMemory(best)})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return &stepper{g: g}
}

func (s *stepper) step() flappy.Snapshot {
	s.i++
	s.g.step(epoch.Add(time.Duration(s.i) * time.Second / 60))
	return s.g.Snapshot()
}

func TestGameLayout(t *testing.T) {
	s := newStepper(t, 0)
	w, h := s.g.Layout(1920, 1080)
	if w != 400 || h != 600 {
		t.Errorf("Layout = %dx%d, expected 400x600", w, h)
	}
}

func TestGameFlow(t *testing.T) {
	s := newStepper(t, 3)
	g := s.g

	// A click away from the button does nothing while idle.
	g.pointer(10, 10)
	if snap := s.step(); snap.Phase != flappy.PhaseIdle {
		t.Fatalf("phase = %v after stray click", snap.Phase)
	}

	btn := buttonBox(400, 600)
	g.pointer(int(btn.X+btn.W/2), int(btn.Y+btn.H/2))
	if snap := s.step(); snap.Phase != flappy.PhasePlaying || snap.Session != 1 {
		t.Fatalf("button click: phase %v session %d", snap.Phase, snap.Session)
	}

	// While playing any click flaps.
	g.pointer(10, 10)
	if snap := s.step(); snap.Bird.VY >= 0 {
		t.Errorf("VY = %v after click, expected upward", snap.Bird.VY)
	}

	g.input.Set(core.ActionPause)
	frozen := s.step()
	g.pointer(10, 10)
	for range 3 {
		if snap := s.step(); snap.Tick != frozen.Tick {
			t.Fatal("simulation advanced while paused")
		}
	}
	g.input.Set(core.ActionPause)
	if snap := s.step(); snap.Tick != frozen.Tick+1 {
		t.Errorf("Tick = %d after resume, expected %d", snap.Tick, frozen.Tick+1)
	}

	for range 300 {
		if s.step().Over() {
			break
		}
	}
	if !g.Snapshot().Over() {
		t.Fatal("session should have ended")
	}
	if g.Best() != 3 || g.improved {
		t.Errorf("best = %d improved = %v, expected 3 and false", g.Best(), g.improved)
	}

	g.input.Set(core.ActionStart)
	if snap := s.step(); snap.Phase != flappy.PhasePlaying || snap.Session != 2 {
		t.Errorf("restart: phase %v session %d", snap.Phase, snap.Session)
	}
}

func TestContains(t *testing.T) {
	b := core.NewBox(10, 20, 30, 40)
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 20, true},
		{39.9, 59.9, true},
		{40, 30, false},
		{20, 60, false},
		{9, 30, false},
	}
	for _, tt := range tests {
		if got := contains(b, tt.x, tt.y); got != tt.want {
			t.Errorf("contains(%v, %v) = %v, expected %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ef4444", color.RGBA{0xef, 0x44, 0x44, 0xff}},
		{"fbbf24", color.RGBA{0xfb, 0xbf, 0x24, 0xff}},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"#zzzzzz", color.RGBA{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		if got := hexColor(tt.in); got != tt.want {
			t.Errorf("hexColor(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}

	if got := fade(color.RGBA{1, 2, 3, 255}, 0.5).A; got != 127 {
		t.Errorf("fade alpha = %d, expected 127", got)
	}
	if got := fade(color.RGBA{1, 2, 3, 255}, -1).A; got != 0 {
		t.Errorf("negative life should be transparent, got %d", got)
	}
}

func TestEncodePCM(t *testing.T) {
	samples := [][2]float64{{0.5, -0.5}, {2, -2}, {0, 0}}
	pos := 0
	src := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, true
	})
	snd, err := assets.NewSound(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}, src)
	if err != nil {
		t.Fatal(err)
	}

	pcm := EncodePCM(snd, SampleRate)
	if len(pcm) != len(samples)*4 {
		t.Fatalf("len = %d, expected %d", len(pcm), len(samples)*4)
	}
	want := []int16{16383, -16383, 32767, -32767, 0, 0}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, expected %d", i, got, w)
		}
	}
}

func TestEncodePCMResamples(t *testing.T) {
	raw := make([]byte, 2400*2) // 100ms at 24 kHz
	snd, err := assets.DecodePCM(raw)
	if err != nil {
		t.Fatal(err)
	}
	frames := len(EncodePCM(snd, SampleRate)) / 4
	if frames < 4700 || frames > 4900 {
		t.Errorf("frames = %d, expected about 4800", frames)
	}
}

func TestCuesWithoutContext(t *testing.T) {
	lib := assets.NewLibrary()
	c := NewCues(nil, lib, 1, nil)
	c.Play(flappy.CueJump)
	c.StopAll()
	if c.Active() != 0 {
		t.Error("no player should start without an audio context")
	}
}

func TestSpriteCacheWithoutLibrary(t *testing.T) {
	c := newSpriteCache(nil)
	if c.get(assets.SlotBird) != nil {
		t.Error("expected no sprite without a library")
	}
}

type stubGenerator struct{}

func (stubGenerator) GenerateImage(context.Context, string) (*genai.Media, error) {
	return &genai.Media{MIMEType: "image/png", Data: tinyPNG()}, nil
}

func (stubGenerator) GenerateSpeech(context.Context, string) (*genai.Media, error) {
	return &genai.Media{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: make([]byte, 2400*2)}, nil
}

func tinyPNG() []byte {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	return buf.Bytes()
}

func newStudioGame(t *testing.T, gen assets.Generator) (*stepper, *assets.Studio, *Cues) {
	t.Helper()
	lib := assets.NewLibrary()
	st := assets.NewStudio(lib, gen, nil, nil, log.New(io.Discard))
	cues := NewCues(nil, lib, 1, nil)
	g, err := NewGame(Options{Seed: 1, Library: lib, Studio: st, Cues: cues})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return &stepper{g: g}, st, cues
}

func TestPanelGenerateReachesNextFrame(t *testing.T) {
	s, st, cues := newStudioGame(t, stubGenerator{})
	g := s.g
	lib := st.Library()

	g.input.Set(core.ActionStart)
	s.step()
	g.openPanel()
	frozen := s.step()
	if !g.clock.Paused() {
		t.Fatal("opening the panel should pause a running session")
	}
	if cues.pcm(assets.SlotJump) != nil {
		t.Fatal("jump should start silent")
	}

	g.panel.key(ebiten.KeyDigit4)
	if g.panel.slot != assets.SlotJump {
		t.Fatalf("slot = %v, expected jump", g.panel.slot)
	}
	g.panel.key(ebiten.KeyE)
	g.panel.typed([]rune("Boing\n"))
	g.panel.key(ebiten.KeyEnter)
	if g.panel.editing || !strings.HasPrefix(g.panel.status, "generating jump") {
		t.Fatalf("after Enter: editing %v status %q", g.panel.editing, g.panel.status)
	}

	st.Wait()
	if snap := s.step(); snap.Tick != frozen.Tick {
		t.Error("simulation advanced while the panel was open")
	}
	if g.panel.status != "jump updated" {
		t.Errorf("status = %q", g.panel.status)
	}
	if lib.Version(assets.SlotJump) != 1 || cues.pcm(assets.SlotJump) == nil {
		t.Error("generated sound should be playable on the next frame")
	}
	if g.panel.saved != "Boing" {
		t.Errorf("saved prompt = %q", g.panel.saved)
	}

	if g.panel.key(ebiten.KeyEscape) {
		t.Error("Esc should close the panel")
	}
}

func TestPanelWithoutGenerator(t *testing.T) {
	s, st, _ := newStudioGame(t, nil)
	g := s.g
	g.openPanel()

	g.panel.key(ebiten.KeyG)
	if g.panel.status != "generation is not configured" {
		t.Errorf("status = %q", g.panel.status)
	}

	g.panel.key(ebiten.KeyArrowUp)
	if g.panel.slot != assets.SlotCrash {
		t.Errorf("Up from the first slot should wrap, got %v", g.panel.slot)
	}
	g.panel.key(ebiten.KeyArrowDown)
	g.panel.drop("robin.png", tinyPNG())
	if st.Library().Image(assets.SlotBird) == nil || g.panel.slotState(assets.SlotBird) != "custom" {
		t.Error("dropped image should fill the bird slot")
	}
	g.panel.drop("notes.txt", []byte("x"))
	if !strings.Contains(g.panel.status, "unsupported") {
		t.Errorf("status = %q", g.panel.status)
	}

	g.panel.key(ebiten.KeyDelete)
	if st.Library().Image(assets.SlotBird) != nil || g.panel.status != "bird reset" {
		t.Errorf("reset: status %q", g.panel.status)
	}
}
