package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flapforge/internal/core"
)

// KeyMapper translates Bubble Tea key and mouse messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case " ", "up", "w", "W":
		return core.ActionJump, false
	case "enter", "r":
		return core.ActionStart, false
	case "p", "esc":
		return core.ActionPause, false
	case "tab":
		return core.ActionScores, false
	case "ctrl+s":
		return core.ActionSnap, false
	}
	return core.ActionNone, false
}

// MapMouse turns a left click or tap into a jump.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) core.Action {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return core.ActionJump
	}
	return core.ActionNone
}
