package assets

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Library is the shared asset store. Generators publish into it from
// background goroutines while the game loop reads it every frame.
type Library struct {
	mu       sync.RWMutex
	images   [numSlots]image.Image
	sounds   [numSlots]*Sound
	sources  [numSlots]string
	versions [numSlots]uint64
}

// Snapshot is a point-in-time copy of the library.
type Snapshot struct {
	Images   map[Slot]image.Image
	Sounds   map[Slot]*Sound
	Versions map[Slot]uint64
}

// Image returns the sprite in slot, or nil.
func (s Snapshot) Image(slot Slot) image.Image { return s.Images[slot] }

// Sound returns the sound in slot, or nil.
func (s Snapshot) Sound(slot Slot) *Sound { return s.Sounds[slot] }

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

func checkSlot(slot Slot) error {
	if slot < 0 || slot >= numSlots {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, int(slot))
	}
	return nil
}

// SetImage stores a sprite. source is informational (file path or "generated").
func (l *Library) SetImage(slot Slot, img image.Image, source string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if !slot.IsImage() {
		return fmt.Errorf("%w: %s holds a sound", ErrWrongKind, slot)
	}
	if img == nil {
		return fmt.Errorf("assets: nil image for %s", slot)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images[slot] = img
	l.sources[slot] = source
	l.versions[slot]++
	return nil
}

// SetSound stores a sound effect.
func (l *Library) SetSound(slot Slot, snd *Sound, source string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if !slot.IsSound() {
		return fmt.Errorf("%w: %s holds an image", ErrWrongKind, slot)
	}
	if snd == nil {
		return fmt.Errorf("assets: nil sound for %s", slot)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sounds[slot] = snd
	l.sources[slot] = source
	l.versions[slot]++
	return nil
}

// Clear empties a slot so presentation falls back to its placeholder.
func (l *Library) Clear(slot Slot) {
	if checkSlot(slot) != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.images[slot] == nil && l.sounds[slot] == nil {
		return
	}
	l.images[slot] = nil
	l.sounds[slot] = nil
	l.sources[slot] = ""
	l.versions[slot]++
}

// Image returns the sprite in slot, or nil.
func (l *Library) Image(slot Slot) image.Image {
	if checkSlot(slot) != nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.images[slot]
}

// Sound returns the sound in slot, or nil.
func (l *Library) Sound(slot Slot) *Sound {
	if checkSlot(slot) != nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sounds[slot]
}

// Source returns where the slot's asset came from, or "" when empty.
func (l *Library) Source(slot Slot) string {
	if checkSlot(slot) != nil {
		return ""
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sources[slot]
}

// Version increments every time the slot changes. Renderers compare it to
// know when a cached texture is stale.
func (l *Library) Version(slot Slot) uint64 {
	if checkSlot(slot) != nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.versions[slot]
}

// Snapshot copies the current contents.
func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := Snapshot{
		Images:   make(map[Slot]image.Image),
		Sounds:   make(map[Slot]*Sound),
		Versions: make(map[Slot]uint64, numSlots),
	}
	for _, slot := range Slots() {
		if img := l.images[slot]; img != nil {
			snap.Images[slot] = img
		}
		if snd := l.sounds[slot]; snd != nil {
			snap.Sounds[slot] = snd
		}
		snap.Versions[slot] = l.versions[slot]
	}
	return snap
}

// LoadBytes decodes data for slot and publishes it. ext is the file
// extension including the dot; an empty ext is sniffed from the data.
// On failure the slot keeps its previous value.
func (l *Library) LoadBytes(slot Slot, data []byte, ext, source string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if slot.IsImage() {
		img, err := DecodeImage(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
		return l.SetImage(slot, img, source)
	}

	if ext == "" {
		ext = SniffSoundExt(data)
	}
	snd, err := DecodeSound(bytes.NewReader(data), ext)
	if err != nil {
		return fmt.Errorf("%s: %w", slot, err)
	}
	return l.SetSound(slot, snd, source)
}

// LoadFile decodes the file at path into slot.
func (l *Library) LoadFile(slot Slot, path string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if !supportedExt(slot, path) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupportedFormat, filepath.Ext(path), slot)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assets: cannot read %s: %w", path, err)
	}
	return l.LoadBytes(slot, data, strings.ToLower(filepath.Ext(path)), path)
}

// LoadDir loads every <slot>.<ext> file found in dir. A missing directory
// loads nothing. Per-slot failures are collected; the remaining slots still
// load.
func (l *Library) LoadDir(dir string) (loaded []Slot, errs []error) {
	for _, slot := range Slots() {
		path, ok := FindFile(dir, slot)
		if !ok {
			continue
		}
		if err := l.LoadFile(slot, path); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, slot)
	}
	return loaded, errs
}

// FindFile returns the first <dir>/<slot>.<ext> that exists.
func FindFile(dir string, slot Slot) (string, bool) {
	exts := soundExts
	if slot.IsImage() {
		exts = imageExts
	}
	for _, ext := range exts {
		path := filepath.Join(dir, slot.String()+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// RemoveFiles deletes every stored file for slot in dir.
func RemoveFiles(dir string, slot Slot) error {
	exts := soundExts
	if slot.IsImage() {
		exts = imageExts
	}
	for _, ext := range exts {
		path := filepath.Join(dir, slot.String()+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("assets: cannot remove %s: %w", path, err)
		}
	}
	return nil
}
