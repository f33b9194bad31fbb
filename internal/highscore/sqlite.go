package highscore

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/flapforge/internal/storage"
)

// ScoreStore is the part of storage.Store the SQL board needs.
type ScoreStore interface {
	SaveScore(player, mode string, score int) (int64, error)
	HighScore(player string) (int, error)
}

var _ ScoreStore = (*storage.Store)(nil)

// SQLBoard records every finished session of one player in the score table
// and derives that player's best score from it. It is safe for concurrent
// use.
type SQLBoard struct {
	mu     sync.Mutex
	store  ScoreStore
	player string
	mode   string
	best   int
}

// NewSQLBoard loads the player's best score from store.
func NewSQLBoard(store ScoreStore, player, mode string) (*SQLBoard, error) {
	best, err := store.HighScore(player)
	if err != nil {
		return nil, fmt.Errorf("highscore: %w", err)
	}
	return &SQLBoard{store: store, player: player, mode: mode, best: best}, nil
}

func (b *SQLBoard) Best() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.best
}

// Record saves the session row regardless of its score, so the scoreboard
// lists every run, and then updates the cached best.
func (b *SQLBoard) Record(score int) (int, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.store.SaveScore(b.player, b.mode, score); err != nil {
		return b.best, false, fmt.Errorf("highscore: %w", err)
	}
	if score <= b.best {
		return b.best, false, nil
	}
	b.best = score
	return b.best, true, nil
}
