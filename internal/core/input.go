package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses.
// Frontends translate keys, clicks and touches into actions.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, Up, W, click, touch
	ActionStart          // Enter, R - start or restart a session
	ActionPause          // P, Escape
	ActionScores         // Tab - toggle the scoreboard
	ActionSnap           // Ctrl+S - save a screenshot
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionScores:
		return "Scores"
	case ActionSnap:
		return "Snap"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered since the previous tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// DefaultRepeatWindow is the gap below which a key event is treated as an
// auto-repeat of the previous one.
const DefaultRepeatWindow = 150 * time.Millisecond

// RepeatGuard filters terminal auto-repeat. Terminals deliver a held key as
// a stream of press events with no release, so a press is accepted only when
// the previous event for the same key is older than Window. Every event,
// accepted or not, slides that key's window, so a continuously held key
// produces one action. Different keys never suppress each other. The first
// auto-repeat after the terminal's initial repeat delay is
// indistinguishable from a fresh press when that delay exceeds Window.
type RepeatGuard struct {
	Window time.Duration
	last   map[string]time.Time
}

// NewRepeatGuard returns a guard with the given window, or
// DefaultRepeatWindow when window is not positive.
func NewRepeatGuard(window time.Duration) *RepeatGuard {
	if window <= 0 {
		window = DefaultRepeatWindow
	}
	return &RepeatGuard{Window: window, last: make(map[string]time.Time)}
}

// Allow records an event for key at now and reports whether it counts as a
// fresh press.
func (g *RepeatGuard) Allow(key string, now time.Time) bool {
	last, seen := g.last[key]
	g.last[key] = now
	return !seen || now.Sub(last) >= g.Window
}

// Reset forgets every key so the next event is always accepted.
func (g *RepeatGuard) Reset() {
	clear(g.last)
}
