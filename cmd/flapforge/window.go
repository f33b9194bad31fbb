package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapforge/internal/platform/web"
)

var flagScale int

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open the game in a desktop window with sprites and sound from the
assets directory.

Controls:
  Enter/R or the button       - Start / restart
  Space/Up/W, click or tap    - Flap
  P/Esc                       - Pause
  A                           - Asset panel: pick a slot, edit its prompt,
                                generate, reset, or drop a file to upload`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&flagScale, "scale", 1, "Window scale factor")
	windowCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runWindow(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "flapforge")
	tuning := tuningOrDefault(logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	lib := loadLibrary(logger)

	opts := web.Options{
		Tuning:  &tuning,
		Seed:    flagSeed,
		Library: lib,
		Board:   board(store, "window", logger),
		Studio:  studioFor(store, lib, logger),
		Logger:  logger,
		Debug:   flagVerbose,
	}
	if settings.Audio && !flagMute {
		opts.Cues = web.NewCues(audio.NewContext(web.SampleRate), lib, 1, logger)
	}

	return web.Run(opts, "flapforge", flagScale)
}
