package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flapforge/internal/config"
	"github.com/vovakirdan/flapforge/internal/core"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
	"github.com/vovakirdan/flapforge/internal/highscore"
)

const statusDuration = 2 * time.Second

// Options configure a terminal game.
type Options struct {
	Tuning  *config.FlappyConfig // nil means the built-in defaults
	Runtime core.RuntimeConfig
	Board   highscore.Board    // nil keeps the best score in memory
	Scores  ScoreSource        // nil disables the scoreboard screen
	Cues    flappy.Cues        // nil is silent
	SnapDir string             // screenshot directory; empty disables ctrl+s
	Logger  *log.Logger        // nil discards
	Lip     *lipgloss.Renderer // colour profile; nil uses the local terminal
}

type view int

const (
	viewGame view = iota
	viewScores
)

// outcome is written by the driver's end-of-session callback.
type outcome struct {
	best     int
	improved bool
}

// Model is the Bubble Tea model for one player's game.
type Model struct {
	driver     *flappy.Driver
	scores     ScoreSource
	screen     *core.Screen
	painter    *Painter
	clock      *core.SimClock
	guard      *core.RepeatGuard
	keys       *KeyMapper
	input      core.InputFrame
	config     core.RuntimeConfig
	outcome    *outcome
	snap       flappy.Snapshot
	scoreboard ScoreboardModel
	view       view
	snapDir    string
	status     string
	statusEnd  time.Time
	logger     *log.Logger
	quitting   bool
}

// NewModel creates the game model. The driver starts idle; the player
// presses Enter to begin.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	board := opts.Board
	if board == nil {
		board = highscore.NewMemory(0)
	}

	out := &outcome{best: board.Best()}
	driver, err := flappy.NewDriver(flappy.Options{
		Config: opts.Tuning,
		Seed:   cfg.ResolveSeed(),
		Cues:   opts.Cues,
		OnSessionEnd: func(score int) {
			best, improved, err := board.Record(score)
			if err != nil {
				logger.Warn("could not record score", "score", score, "error", err)
			}
			out.best, out.improved = best, improved
			logger.Info("session ended", "score", score, "best", best, "improved", improved)
		},
	})
	if err != nil {
		return Model{}, err
	}

	return Model{
		driver:  driver,
		scores:  opts.Scores,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		painter: NewPainter(opts.Lip),
		clock:   &core.SimClock{},
		guard:   core.NewRepeatGuard(core.DefaultRepeatWindow),
		keys:    NewKeyMapper(),
		input:   core.NewInputFrame(),
		config:  cfg,
		outcome: out,
		snap:    driver.Snapshot(),
		snapDir: opts.SnapDir,
		logger:  logger,
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == viewScores {
		return m.updateScores(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.keys.MapMouse(msg) == core.ActionJump {
			m.input.Set(core.ActionJump)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input. Game actions are queued for the next
// tick; quit, screenshot and scoreboard act immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionJump:
		// Terminals report a held key as repeated presses.
		if m.guard.Allow(msg.String(), time.Now()) {
			m.input.Set(core.ActionJump)
		}
	case core.ActionSnap:
		m.saveScreenshot(time.Now())
	case core.ActionScores:
		return m.openScores()
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

// handleTick applies queued input and advances the simulation.
func (m Model) handleTick(wall time.Time) (tea.Model, tea.Cmd) {
	phase := m.driver.Phase()

	if m.input.Has(core.ActionPause) && phase == flappy.PhasePlaying {
		paused := m.clock.Toggle(wall)
		m.logger.Debug("pause", "paused", paused)
	}

	if m.input.Has(core.ActionStart) && phase != flappy.PhasePlaying {
		m.clock.Resume(wall)
		if err := m.driver.Start(m.clock.Now(wall)); err != nil {
			m.logger.Warn("cannot start session", "error", err)
		} else {
			m.outcome.improved = false
			m.guard.Reset()
			m.logger.Debug("session started", "number", m.driver.Snapshot().Session)
		}
	}

	if m.input.Has(core.ActionJump) && !m.clock.Paused() {
		m.driver.Jump()
	}
	m.input.Clear()

	if !m.clock.Paused() {
		m.snap = m.driver.Tick(m.clock.Now(wall))
	}
	if m.status != "" && wall.After(m.statusEnd) {
		m.status = ""
	}
	return m, tickCmd(m.config.TickInterval())
}

// openScores pauses a running session and shows the scoreboard.
func (m Model) openScores() (tea.Model, tea.Cmd) {
	if m.scores == nil {
		m.setStatus("no score database", time.Now())
		return m, nil
	}
	if m.driver.Phase() == flappy.PhasePlaying {
		m.clock.Pause(time.Now())
	}
	m.scoreboard = NewScoreboardModel(m.scores, m.config.ScreenW, m.config.ScreenH)
	m.scoreboard.embedded = true
	m.view = viewScores
	return m, nil
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// Keep the tick loop alive; the simulation stays paused.
		return m, tickCmd(m.config.TickInterval())
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
	}

	updated, cmd := m.scoreboard.Update(msg)
	if sb, ok := updated.(ScoreboardModel); ok {
		m.scoreboard = sb
	}
	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.view = viewGame
	}
	return m, cmd
}

func (m *Model) setStatus(s string, now time.Time) {
	m.status = s
	m.statusEnd = now.Add(statusDuration)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot(now time.Time) {
	if m.snapDir == "" {
		return
	}
	m.painter.Draw(m.screen, m.snap, m.hud())

	if err := os.MkdirAll(m.snapDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}
	path := filepath.Join(m.snapDir, fmt.Sprintf("flappy_%s.txt", now.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		m.setStatus("screenshot failed", now)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.setStatus("screenshot saved", now)
}

func (m Model) hud() HUD {
	return HUD{
		Best:    m.outcome.best,
		NewBest: m.outcome.improved,
		Paused:  m.clock.Paused() && m.snap.Phase == flappy.PhasePlaying,
		Status:  m.status,
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.view == viewScores {
		return m.scoreboard.View()
	}
	m.painter.Draw(m.screen, m.snap, m.hud())
	return m.painter.Render(m.screen)
}

// Snapshot returns the last simulated frame.
func (m Model) Snapshot() flappy.Snapshot {
	return m.snap
}

// Best returns the best score known to the model.
func (m Model) Best() int {
	return m.outcome.best
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks jump
	)
	_, err = p.Run()
	return err
}
