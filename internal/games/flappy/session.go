package flappy

import "errors"

// ErrSessionActive is returned by Start while a session is being played.
var ErrSessionActive = errors.New("flappy: session already in progress")

// Phase is the state of the session state machine.
type Phase int

const (
	PhaseIdle     Phase = iota // before the first session; nothing moves
	PhasePlaying               // physics, pipes and scoring are live
	PhaseGameOver              // pipes frozen, bird settling, waiting for Start
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Session is the per-run bookkeeping.
type Session struct {
	Phase    Phase
	Score    int
	Ticks    int  // ticks spent in PhasePlaying
	Reported bool // set once the end of the session has been announced
	Number   int  // sessions started since the driver was created
}

// begin moves the session into PhasePlaying with fresh counters.
func (s *Session) begin() error {
	if s.Phase == PhasePlaying {
		return ErrSessionActive
	}
	*s = Session{Phase: PhasePlaying, Number: s.Number + 1}
	return nil
}

// finish moves the session into PhaseGameOver. It reports false when the
// end was already announced, so callers run their side effects exactly once.
func (s *Session) finish() bool {
	if s.Reported {
		return false
	}
	s.Reported = true
	s.Phase = PhaseGameOver
	return true
}
