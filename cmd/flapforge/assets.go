package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/genai"
	"github.com/vovakirdan/flapforge/internal/storage"
)

var (
	flagPrompt   string
	flagAll      bool
	flagParallel int
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Manage sprites and sound effects",
	Long: `Sprites and sounds are stored in the assets directory as <slot>.<ext>.
Empty slots use the built-in look and are silent.

Slots:
  bird, top_pipe, bottom_pipe  - images (png, jpeg, gif, webp, bmp)
  jump, score, crash           - sounds (wav, mp3, raw 24 kHz PCM)

Generation needs an API key in FLAPFORGE_GENAI_API_KEY or GEMINI_API_KEY.`,
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every slot, its file and its saved prompt",
	Args:  cobra.NoArgs,
	RunE:  runAssetsList,
}

var assetsGenerateCmd = &cobra.Command{
	Use:   "generate [slot...]",
	Short: "Generate assets from a prompt",
	Long: `Generate one or more slots. Without --prompt the slot's saved prompt is
reused. Sounds are spoken words: the prompt is the word to say.

Examples:
  flapforge assets generate bird --prompt "pixel art parrot, side view"
  flapforge assets generate jump --prompt "boing"
  flapforge assets generate --all`,
	RunE: runAssetsGenerate,
}

var assetsPromptCmd = &cobra.Command{
	Use:   "prompt <slot> [text]",
	Short: "Show or set the saved prompt of a slot",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAssetsPrompt,
}

var assetsUploadCmd = &cobra.Command{
	Use:   "upload <slot> <file>",
	Short: "Use a local file for a slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssetsUpload,
}

var assetsResetCmd = &cobra.Command{
	Use:   "reset <slot>",
	Short: "Remove a slot's file and return to the built-in look",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsReset,
}

func init() {
	assetsGenerateCmd.Flags().StringVarP(&flagPrompt, "prompt", "p", "", "Prompt text")
	assetsGenerateCmd.Flags().BoolVar(&flagAll, "all", false, "Generate every slot from its saved prompt")
	assetsGenerateCmd.Flags().IntVar(&flagParallel, "parallel", 3, "Concurrent generations with --all")

	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsGenerateCmd)
	assetsCmd.AddCommand(assetsPromptCmd)
	assetsCmd.AddCommand(assetsUploadCmd)
	assetsCmd.AddCommand(assetsResetCmd)
}

// newStudio wires the library, generation client, prompt store and assets
// directory. The returned function closes the database.
func newStudio(logger *log.Logger) (*assets.Studio, func()) {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		logger.Warn("prompts will not be saved", "error", err)
	}
	closeStore := func() {}
	if store != nil {
		closeStore = func() { store.Close() }
	}
	return studioFor(store, loadLibrary(logger), logger), closeStore
}

// studioFor builds a studio that publishes into lib, stores files in the
// assets directory and keeps prompts in store when it is open.
func studioFor(store *storage.Store, lib *assets.Library, logger *log.Logger) *assets.Studio {
	var prompts assets.PromptStore
	if store != nil {
		prompts = store
	}
	return assets.NewStudio(lib, genai.New(settings.GenAI), prompts, assets.DirStore(settings.AssetsDir), logger)
}

func parseSlots(args []string) ([]assets.Slot, error) {
	slots := make([]assets.Slot, 0, len(args))
	for _, a := range args {
		s, err := assets.ParseSlot(a)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func runAssetsList(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "flapforge")
	studio, closeStore := newStudio(logger)
	defer closeStore()

	fmt.Printf("Assets directory: %s\n\n", settings.AssetsDir)
	fmt.Printf("  %-12s  %-6s  %-24s  %s\n", "Slot", "Kind", "File", "Prompt")
	fmt.Printf("  %-12s  %-6s  %-24s  %s\n", "----", "----", "----", "------")
	for _, slot := range assets.Slots() {
		kind := "sound"
		if slot.IsImage() {
			kind = "image"
		}
		file := "(built-in)"
		if path, ok := assets.FindFile(settings.AssetsDir, slot); ok {
			file = shortPath(path)
		}
		fmt.Printf("  %-12s  %-6s  %-24s  %s\n", slot, kind, file, studio.Prompt(slot))
	}
	return nil
}

func shortPath(path string) string {
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

func runAssetsGenerate(_ *cobra.Command, args []string) error {
	var slots []assets.Slot
	switch {
	case flagAll && len(args) > 0:
		return errors.New("use either --all or slot names")
	case flagAll:
		if flagPrompt != "" {
			return errors.New("--prompt cannot be combined with --all")
		}
		slots = assets.Slots()
	case len(args) == 0:
		return errors.New("name at least one slot, or use --all")
	default:
		var err error
		if slots, err = parseSlots(args); err != nil {
			return err
		}
	}

	logger := newLogger(os.Stderr, "flapforge")
	studio, closeStore := newStudio(logger)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, flagParallel))
	for _, slot := range slots {
		if flagAll && studio.Prompt(slot) == "" {
			logger.Info("no saved prompt, skipping", "slot", slot)
			continue
		}
		g.Go(func() error {
			logger.Info("generating", "slot", slot)
			if err := studio.Generate(ctx, slot, flagPrompt); err != nil {
				return err
			}
			fmt.Printf("%s: done\n", slot)
			return nil
		})
	}
	return g.Wait()
}

func runAssetsPrompt(_ *cobra.Command, args []string) error {
	slot, err := assets.ParseSlot(args[0])
	if err != nil {
		return err
	}
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	if len(args) == 2 {
		prompt := strings.TrimSpace(args[1])
		if prompt == "" {
			return fmt.Errorf("empty prompt for %s", slot)
		}
		return store.SavePrompt(slot.String(), prompt)
	}

	prompt, ok, err := store.Prompt(slot.String())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s has no saved prompt\n", slot)
		return nil
	}
	fmt.Println(prompt)
	return nil
}

func runAssetsUpload(_ *cobra.Command, args []string) error {
	slot, err := assets.ParseSlot(args[0])
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "flapforge")
	studio, closeStore := newStudio(logger)
	defer closeStore()

	if err := studio.Upload(slot, args[1]); err != nil {
		return err
	}
	fmt.Printf("%s: loaded %s\n", slot, args[1])
	return nil
}

func runAssetsReset(_ *cobra.Command, args []string) error {
	slot, err := assets.ParseSlot(args[0])
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "flapforge")
	studio, closeStore := newStudio(logger)
	defer closeStore()

	if err := studio.Reset(slot); err != nil {
		return err
	}
	fmt.Printf("%s: reset\n", slot)
	return nil
}
