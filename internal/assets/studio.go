package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flapforge/internal/genai"
)

// Generator produces raw asset bytes from a prompt.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (*genai.Media, error)
	GenerateSpeech(ctx context.Context, word string) (*genai.Media, error)
}

// PromptStore remembers the last prompt used for each slot.
type PromptStore interface {
	SavePrompt(slot, prompt string) error
	Prompt(slot string) (string, bool, error)
}

// Studio runs asset generation and uploads on behalf of a frontend. Results
// are published into the Library, kept in the Store and their prompts saved.
type Studio struct {
	lib     *Library
	gen     Generator
	prompts PromptStore
	store   Store
	logger  *log.Logger

	mu   sync.Mutex
	busy [numSlots]bool
	wg   sync.WaitGroup
}

// NewStudio creates a studio. gen, prompts, store and logger may be nil; a
// nil store keeps results in memory only.
func NewStudio(lib *Library, gen Generator, prompts PromptStore, store Store, logger *log.Logger) *Studio {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Studio{lib: lib, gen: gen, prompts: prompts, store: store, logger: logger}
}

// CanGenerate reports whether a generator is configured.
func (s *Studio) CanGenerate() bool { return s.gen != nil }

// Library returns the library the studio publishes into.
func (s *Studio) Library() *Library { return s.lib }

// Busy reports whether a generation for slot is in flight.
func (s *Studio) Busy(slot Slot) bool {
	if checkSlot(slot) != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[slot]
}

func (s *Studio) acquire(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[slot] {
		return false
	}
	s.busy[slot] = true
	return true
}

func (s *Studio) release(slot Slot) {
	s.mu.Lock()
	s.busy[slot] = false
	s.mu.Unlock()
}

// Prompt returns the saved prompt for slot, or "".
func (s *Studio) Prompt(slot Slot) string {
	if s.prompts == nil {
		return ""
	}
	p, ok, err := s.prompts.Prompt(slot.String())
	if err != nil {
		s.logger.Warn("cannot load prompt", "slot", slot, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return p
}

// Generate runs one generation synchronously. A blank prompt falls back to
// the saved one; if there is none either, nothing happens.
func (s *Studio) Generate(ctx context.Context, slot Slot, prompt string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if s.gen == nil {
		return fmt.Errorf("assets: no generator configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = s.Prompt(slot)
	}
	if prompt == "" {
		return fmt.Errorf("assets: empty prompt for %s", slot)
	}
	if !s.acquire(slot) {
		return fmt.Errorf("assets: %s is already generating", slot)
	}
	defer s.release(slot)

	// The prompt is remembered even if generation fails so it can be retried.
	s.savePrompt(slot, prompt)

	var media *genai.Media
	var err error
	if slot.IsImage() {
		media, err = s.gen.GenerateImage(ctx, prompt)
	} else {
		media, err = s.gen.GenerateSpeech(ctx, prompt)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", slot, err)
	}

	ext := ""
	if slot.IsSound() {
		ext = SoundExtForMIME(media.MIMEType, media.Data)
	}
	if err := s.lib.LoadBytes(slot, media.Data, ext, "generated"); err != nil {
		return err
	}
	s.logger.Info("asset generated", "slot", slot, "bytes", len(media.Data), "mime", media.MIMEType)

	if ext == "" {
		ext = ExtFor(slot, media.Data)
	}
	if err := s.persist(slot, media.Data, ext); err != nil {
		s.logger.Warn("cannot store generated asset", "slot", slot, "error", err)
	}
	return nil
}

// GenerateAsync starts Generate in a goroutine and reports the outcome
// through done (which may be nil). It returns false when the slot is
// already generating.
func (s *Studio) GenerateAsync(ctx context.Context, slot Slot, prompt string, done func(Slot, error)) bool {
	if s.Busy(slot) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.Generate(ctx, slot, prompt)
		if err != nil {
			s.logger.Error("asset generation failed", "slot", slot, "error", err)
		}
		if done != nil {
			done(slot, err)
		}
	}()
	return true
}

// Wait blocks until every asynchronous generation has finished.
func (s *Studio) Wait() {
	s.wg.Wait()
}

// Upload loads a user-supplied file into slot and keeps a copy in the store.
func (s *Studio) Upload(slot Slot, path string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assets: cannot read %s: %w", path, err)
	}
	return s.UploadBytes(slot, path, data)
}

// UploadBytes is Upload for a file already in memory, such as one dropped
// onto the game window. name supplies the extension.
func (s *Studio) UploadBytes(slot Slot, name string, data []byte) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if !supportedExt(slot, name) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupportedFormat, filepath.Ext(name), slot)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if err := s.lib.LoadBytes(slot, data, ext, name); err != nil {
		if slot.IsSound() {
			return fmt.Errorf("failed to decode audio file, please try a different format (MP3/WAV): %w", err)
		}
		return err
	}
	s.logger.Info("asset uploaded", "slot", slot, "file", filepath.Base(name))
	return s.persist(slot, data, ext)
}

// Reset clears slot and deletes its stored files.
func (s *Studio) Reset(slot Slot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	s.lib.Clear(slot)
	if s.store == nil {
		return nil
	}
	return s.store.Remove(slot)
}

func (s *Studio) savePrompt(slot Slot, prompt string) {
	if s.prompts == nil {
		return
	}
	if err := s.prompts.SavePrompt(slot.String(), prompt); err != nil {
		s.logger.Warn("cannot save prompt", "slot", slot, "error", err)
	}
}

func (s *Studio) persist(slot Slot, data []byte, ext string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(slot, data, ext)
}
