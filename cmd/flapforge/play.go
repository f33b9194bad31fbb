package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/audio"
	"github.com/vovakirdan/flapforge/internal/config"
	"github.com/vovakirdan/flapforge/internal/core"
	"github.com/vovakirdan/flapforge/internal/highscore"
	"github.com/vovakirdan/flapforge/internal/platform/tui"
	"github.com/vovakirdan/flapforge/internal/storage"
)

var flagMute bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Enter/R          - Start / restart
  Space/Up/W/Click - Flap
  P/Esc            - Pause
  Tab              - High scores
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Sound cues come from the jump, score and crash assets; see 'flapforge assets'.

Examples:
  flapforge play
  flapforge play --difficulty easy
  flapforge play --tuning ./my-flappy.yaml --mute`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger("flapforge")
	defer closeLog()

	tuning, err := settings.Tuning()
	if err != nil {
		return err
	}

	// Get terminal size for the first frame
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Tuning: &tuning,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Board:   board(store, "local", logger),
		SnapDir: filepath.Join(filepath.Dir(settings.DBPath), "screenshots"),
		Logger:  logger,
	}
	if store != nil {
		opts.Scores = store
	}

	if settings.Audio && !flagMute {
		lib := loadLibrary(logger)
		spk := audio.NewSpeaker(lib, 0, logger)
		if err := spk.Initialize(); err != nil {
			logger.Warn("sound disabled", "error", err)
		} else {
			defer spk.Close()
			opts.Cues = spk
		}
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// openStore opens the scores database. The game still works without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	return store
}

// board returns the player's score board for mode, in memory when the
// database is unavailable.
func board(store *storage.Store, mode string, logger *log.Logger) highscore.Board {
	if store == nil {
		return highscore.NewMemory(0)
	}
	b, err := highscore.NewSQLBoard(store, settings.Player, mode)
	if err != nil {
		logger.Warn("could not load high score", "error", err)
		return highscore.NewMemory(0)
	}
	return b
}

// loadLibrary loads every slot found in the assets directory. Missing or
// broken files leave their slot on the built-in look.
func loadLibrary(logger *log.Logger) *assets.Library {
	lib := assets.NewLibrary()
	loaded, errs := lib.LoadDir(settings.AssetsDir)
	for _, err := range errs {
		logger.Warn("asset skipped", "error", err)
	}
	if len(loaded) > 0 {
		logger.Debug("assets loaded", "slots", loaded)
	}
	return lib
}

// tuningOrDefault is used by frontends that must start even with a broken
// tuning file.
func tuningOrDefault(logger *log.Logger) config.FlappyConfig {
	tuning, err := settings.Tuning()
	if err != nil {
		logger.Warn("using default tuning", "error", err)
		return config.DefaultFlappyConfig()
	}
	return tuning
}
