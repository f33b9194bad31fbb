// flapforge-web is the browser build of the game. The best score, custom
// assets and their prompts are kept in the browser's local storage.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o flapforge.wasm ./cmd/flapforge-web
//
// Press A in the game to open the asset panel. Files dropped onto the canvas
// replace the selected slot. Generation needs FLAPFORGE_GENAI_API_KEY or
// GEMINI_API_KEY in the environment the wasm glue passes to Go.
//
// The same binary also runs natively, storing its data in the user's data
// directory.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/config"
	"github.com/vovakirdan/flapforge/internal/genai"
	"github.com/vovakirdan/flapforge/internal/highscore"
	"github.com/vovakirdan/flapforge/internal/platform/web"
)

const appName = "flapforge"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
	})

	settings, err := config.LoadSettings("")
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}

	opts := web.Options{Logger: logger}

	board, err := highscore.OpenGData(appName)
	if err != nil {
		logger.Warn("best score will not be saved", "error", err)
	} else {
		opts.Board = board
	}

	lib := assets.NewLibrary()
	var gen assets.Generator
	if settings.GenAI.APIKey != "" {
		gen = genai.New(settings.GenAI)
	}

	store, err := assets.OpenGDataStore(appName)
	if err != nil {
		logger.Warn("custom assets will not be saved", "error", err)
		opts.Studio = assets.NewStudio(lib, gen, nil, nil, logger)
	} else {
		loaded, errs := store.LoadInto(lib)
		for _, err := range errs {
			logger.Warn("saved asset skipped", "error", err)
		}
		if len(loaded) > 0 {
			logger.Info("assets restored", "slots", loaded)
		}
		opts.Studio = assets.NewStudio(lib, gen, store, store, logger)
	}

	opts.Library = lib
	opts.Cues = web.NewCues(audio.NewContext(web.SampleRate), lib, 1, logger)

	if err := web.Run(opts, "flapforge", 1); err != nil {
		logger.Fatal("game stopped", "error", err)
	}
}
