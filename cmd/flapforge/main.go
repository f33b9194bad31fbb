// flapforge is a flappy-bird game for the terminal, the desktop and the
// browser, with sprites and sound effects that can be generated on demand.
//
// Usage:
//
//	flapforge play               - Play in the terminal
//	flapforge window             - Play in a desktop window
//	flapforge serve              - Start SSH server for remote play
//	flapforge scores             - Show high scores
//	flapforge assets list        - Show the asset slots
//	flapforge assets generate    - Generate sprites and sounds
//
// Global flags:
//
//	--config <path>  - Settings file (default: ~/.flapforge/flapforge.yaml)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.flapforge/scores.db)
//	--verbose        - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flapforge/internal/config"
)

var (
	// Global flags
	flagSettings   string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagTuning     string
	flagDifficulty string
	flagVerbose    bool

	// settings is loaded before any subcommand runs.
	settings config.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flapforge",
	Short: "Flap through the pipes in your terminal, a window or over SSH",
	Long: `flapforge is a flappy-bird game. Flap between the pipes, every pipe
you pass scores a point, touching a pipe, the ceiling or the floor ends the run.

Sprites and sound effects live in the assets directory and can be generated
from a text prompt with the assets command.

Examples:
  flapforge play
  flapforge play --difficulty hard
  flapforge window --scale 2
  flapforge serve --ssh :2222
  flapforge scores
  flapforge assets generate bird --prompt "a tiny red dragon"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		s, err := config.LoadSettings(flagSettings)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			s.DBPath = config.ExpandHome(flagDBPath)
		}
		if cmd.Flags().Changed("tuning") {
			s.TuningFile = config.ExpandHome(flagTuning)
		}
		if cmd.Flags().Changed("difficulty") {
			s.Difficulty = flagDifficulty
		}
		if flagVerbose {
			s.LogLevel = "debug"
		}
		settings = s
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagSettings, "config", "", "Path to settings file")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagTuning, "tuning", "", "Path to custom game tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(assetsCmd)
}
