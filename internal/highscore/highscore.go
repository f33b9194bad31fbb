// Package highscore keeps the player's best score across sessions. The
// simulation never reads it; hosts call Record from their session-end hook
// and show Best in the HUD.
package highscore

// Board persists a single best score.
type Board interface {
	// Best returns the best score recorded so far, 0 when none.
	Best() int
	// Record offers a finished session's score. The best score is replaced
	// only when score is strictly greater. It returns the best score after
	// the call and whether it changed.
	Record(score int) (best int, improved bool, err error)
}

// Memory is a Board that lives only as long as the process.
type Memory struct {
	best int
}

// NewMemory returns an in-memory board starting at best.
func NewMemory(best int) *Memory {
	return &Memory{best: best}
}

func (m *Memory) Best() int { return m.best }

func (m *Memory) Record(score int) (int, bool, error) {
	if score <= m.best {
		return m.best, false, nil
	}
	m.best = score
	return m.best, true, nil
}
