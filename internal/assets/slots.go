// Package assets holds the user-replaceable sprites and sound effects of the
// game. Every slot starts empty; presentation layers fall back to procedural
// placeholders for missing images and silence for missing sounds.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Slot identifies one replaceable asset.
type Slot int

const (
	SlotBird Slot = iota
	SlotTopPipe
	SlotBottomPipe
	SlotJump
	SlotScore
	SlotCrash

	numSlots
)

var (
	// ErrUnknownSlot is returned for slot names that do not exist.
	ErrUnknownSlot = errors.New("assets: unknown slot")
	// ErrUnsupportedFormat is returned when a file extension cannot be decoded.
	ErrUnsupportedFormat = errors.New("assets: unsupported format")
	// ErrWrongKind is returned when a sound is stored in an image slot or vice versa.
	ErrWrongKind = errors.New("assets: wrong asset kind for slot")
)

var slotNames = [numSlots]string{
	SlotBird:       "bird",
	SlotTopPipe:    "top_pipe",
	SlotBottomPipe: "bottom_pipe",
	SlotJump:       "jump",
	SlotScore:      "score",
	SlotCrash:      "crash",
}

// Slots lists every slot in display order.
func Slots() []Slot {
	return []Slot{SlotBird, SlotTopPipe, SlotBottomPipe, SlotJump, SlotScore, SlotCrash}
}

func (s Slot) String() string {
	if s < 0 || s >= numSlots {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// IsImage reports whether the slot holds a sprite.
func (s Slot) IsImage() bool {
	return s == SlotBird || s == SlotTopPipe || s == SlotBottomPipe
}

// IsSound reports whether the slot holds a sound effect.
func (s Slot) IsSound() bool {
	return s == SlotJump || s == SlotScore || s == SlotCrash
}

// ParseSlot accepts the canonical names plus the dashed and camel-case
// spellings ("top-pipe", "topPipe").
func ParseSlot(name string) (Slot, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	switch n {
	case "toppipe":
		n = "top_pipe"
	case "bottompipe":
		n = "bottom_pipe"
	}
	for i, s := range slotNames {
		if s == n {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
}
