package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flapforge/internal/platform/tui"
	"github.com/vovakirdan/flapforge/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagYes   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the high score table. In a terminal this opens the interactive
scoreboard; with --plain or when output is redirected the top scores are
printed.

Examples:
  flapforge scores
  flapforge scores --plain --limit 5
  flapforge scores clear --yes`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded score",
	Args:  cobra.NoArgs,
	RunE:  runScoresClear,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the scoreboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to print")
	scoresClearCmd.Flags().BoolVar(&flagYes, "yes", false, "Do not ask for confirmation")
	scoresCmd.AddCommand(scoresClearCmd)
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	}
	return printScores(os.Stdout, store, flagLimit)
}

func printScores(w io.Writer, src tui.ScoreSource, limit int) error {
	scores, err := src.TopScores(limit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Fprintln(w, "High Scores")
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'flapforge play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Fprintf(w, "  %-4s  %-6s  %-12s  %-7s  %s\n", "Rank", "Score", "Player", "Mode", "Date")
	fmt.Fprintf(w, "  %-4s  %-6s  %-12s  %-7s  %s\n", "----", "-----", "------", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Fprintf(w, "  %-4d  %-6d  %-12s  %-7s  %s\n", i+1, entry.Score, entry.Player, entry.Mode, dateStr)
	}

	if stats, err := src.Stats(); err == nil && stats.Sessions > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Best: %d   Sessions: %d   Average: %.1f\n", stats.HighScore, stats.Sessions, stats.AvgScore)
	}
	return nil
}

func runScoresClear(_ *cobra.Command, _ []string) error {
	if !flagYes {
		fmt.Print("Delete every recorded score? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Nothing deleted.")
			return nil
		}
	}

	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if err := store.ClearScores(); err != nil {
		return err
	}
	fmt.Println("Scores cleared.")
	return nil
}
