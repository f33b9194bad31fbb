// Package web runs the game with Ebitengine, in a desktop window or in the
// browser when built for js/wasm.
package web

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/config"
	"github.com/vovakirdan/flapforge/internal/core"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
	"github.com/vovakirdan/flapforge/internal/highscore"
)

// Options configure an Ebitengine game.
type Options struct {
	Tuning  *config.FlappyConfig // nil means the built-in defaults
	Seed    int64                // 0 picks a time-based seed
	Library *assets.Library      // sprites; nil draws placeholders
	Board   highscore.Board      // nil keeps the best score in memory
	Cues    flappy.Cues          // nil is silent
	Studio  *assets.Studio       // in-game asset panel; nil hides it
	Context context.Context      // bounds background generations; nil is Background
	Logger  *log.Logger          // nil discards
	Debug   bool                 // draw TPS and entity counts
}

// Game implements ebiten.Game around a flappy.Driver.
type Game struct {
	driver   *flappy.Driver
	snap     flappy.Snapshot
	clock    *core.SimClock
	input    core.InputFrame
	sprites  *spriteCache
	panel    *studioPanel
	fonts    *fontSet
	best     int
	improved bool
	touches  []ebiten.TouchID
	now      func() time.Time
	logger   *log.Logger
	debug    bool
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates an idle game.
func NewGame(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	board := opts.Board
	if board == nil {
		board = highscore.NewMemory(0)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	g := &Game{
		clock:   &core.SimClock{},
		input:   core.NewInputFrame(),
		sprites: newSpriteCache(opts.Library),
		fonts:   fonts,
		best:    board.Best(),
		now:     time.Now,
		logger:  logger,
		debug:   opts.Debug,
	}

	if opts.Studio != nil {
		ctx := opts.Context
		if ctx == nil {
			ctx = context.Background()
		}
		g.panel = newStudioPanel(ctx, opts.Studio, logger)
	}

	seed := core.RuntimeConfig{Seed: opts.Seed}.ResolveSeed()
	g.driver, err = flappy.NewDriver(flappy.Options{
		Config: opts.Tuning,
		Seed:   seed,
		Cues:   opts.Cues,
		OnSessionEnd: func(score int) {
			best, improved, err := board.Record(score)
			if err != nil {
				logger.Warn("could not record score", "score", score, "error", err)
			}
			g.best, g.improved = best, improved
			logger.Info("session ended", "score", score, "best", best, "improved", improved)
		},
	})
	if err != nil {
		return nil, err
	}
	g.snap = g.driver.Snapshot()
	return g, nil
}

// Update reads input and advances the simulation by one tick.
func (g *Game) Update() error {
	g.readInput()
	g.step(g.now())
	return nil
}

// step applies the queued input and ticks the driver, in the same order as
// the terminal frontend.
func (g *Game) step(wall time.Time) {
	if g.panel != nil {
		g.panel.poll()
	}
	phase := g.driver.Phase()

	if g.input.Has(core.ActionPause) && phase == flappy.PhasePlaying {
		g.clock.Toggle(wall)
	}

	if g.input.Has(core.ActionStart) && phase != flappy.PhasePlaying {
		g.clock.Resume(wall)
		if err := g.driver.Start(g.clock.Now(wall)); err != nil {
			g.logger.Warn("cannot start session", "error", err)
		} else {
			g.improved = false
		}
	}

	if g.input.Has(core.ActionJump) && !g.clock.Paused() {
		g.driver.Jump()
	}
	g.input.Clear()

	if !g.clock.Paused() {
		g.snap = g.driver.Tick(g.clock.Now(wall))
	}
}

func (g *Game) readInput() {
	if g.panel != nil {
		if g.panel.open {
			g.panel.readInput()
			return
		}
		if justPressed(ebiten.KeyA) {
			g.openPanel()
			return
		}
	}

	if justPressed(ebiten.KeySpace, ebiten.KeyArrowUp, ebiten.KeyW) {
		g.input.Set(core.ActionJump)
	}
	if justPressed(ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeyR) {
		g.input.Set(core.ActionStart)
	}
	if justPressed(ebiten.KeyP, ebiten.KeyEscape) {
		g.input.Set(core.ActionPause)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pointer(ebiten.CursorPosition())
	}
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		g.pointer(ebiten.TouchPosition(id))
	}
}

func justPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// openPanel shows the asset panel, pausing a running session.
func (g *Game) openPanel() {
	g.panel.show()
	if g.driver.Phase() == flappy.PhasePlaying && !g.clock.Paused() {
		g.input.Set(core.ActionPause)
	}
}

// pointer handles a click or tap at logical coordinates. While playing it
// flaps; otherwise only the overlay button reacts.
func (g *Game) pointer(x, y int) {
	if g.snap.Phase == flappy.PhasePlaying {
		if !g.clock.Paused() {
			g.input.Set(core.ActionJump)
		}
		return
	}
	if contains(buttonBox(g.snap.FieldW, g.snap.FieldH), float64(x), float64(y)) {
		g.input.Set(core.ActionStart)
	}
}

// Layout keeps the logical screen at the playfield size; Ebitengine scales
// it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.snap.FieldW), int(g.snap.FieldH)
}

// Snapshot returns the last simulated frame.
func (g *Game) Snapshot() flappy.Snapshot {
	return g.snap
}

// Best returns the best score known to the game.
func (g *Game) Best() int {
	return g.best
}

// buttonBox is the PLAY NOW / RESTART button in logical units.
func buttonBox(fieldW, fieldH float64) core.Box {
	return core.CenteredBox(fieldW/2, fieldH/2+90, 200, 50)
}

func contains(b core.Box, x, y float64) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Run opens a window and blocks until it is closed. On js/wasm the canvas
// takes the window's place. Generations still running when the window
// closes are canceled and awaited.
func Run(opts Options, title string, scale int) error {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer func() {
		cancel()
		if opts.Studio != nil {
			opts.Studio.Wait()
		}
	}()
	opts.Context = ctx

	g, err := NewGame(opts)
	if err != nil {
		return err
	}
	if scale < 1 {
		scale = 1
	}
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}
