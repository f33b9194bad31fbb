package assets

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasilyte/gdata/v2"
)

// Store keeps the raw bytes of published assets between runs.
type Store interface {
	Save(slot Slot, data []byte, ext string) error
	Remove(slot Slot) error
}

// DirStore stores each slot as <dir>/<slot><ext>.
type DirStore string

// Save replaces any existing file for slot with data.
func (d DirStore) Save(slot Slot, data []byte, ext string) error {
	dir := string(d)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("assets: cannot create %s: %w", dir, err)
	}
	if err := RemoveFiles(dir, slot); err != nil {
		return err
	}
	path := filepath.Join(dir, slot.String()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("assets: cannot write %s: %w", path, err)
	}
	return nil
}

func (d DirStore) Remove(slot Slot) error {
	if d == "" {
		return nil
	}
	return RemoveFiles(string(d), slot)
}

// Property names inside gdata objects.
const (
	gdataPrompts = "prompts"
	gdataData    = "data"
	gdataExt     = "ext"
)

// GDataStore keeps assets and prompts in gdata storage, which is the
// browser's localStorage on js/wasm. Values are base64 encoded because
// localStorage only holds strings.
type GDataStore struct {
	m *gdata.Manager
}

// OpenGDataStore opens the gdata store for appName.
func OpenGDataStore(appName string) (*GDataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("assets: open gdata: %w", err)
	}
	return NewGDataStore(m), nil
}

// NewGDataStore wraps an already opened manager.
func NewGDataStore(m *gdata.Manager) *GDataStore {
	return &GDataStore{m: m}
}

func assetObject(slot Slot) string { return "asset_" + slot.String() }

func (s *GDataStore) Save(slot Slot, data []byte, ext string) error {
	obj := assetObject(slot)
	if err := s.m.SaveObjectProp(obj, gdataExt, []byte(ext)); err != nil {
		return fmt.Errorf("assets: save %s: %w", slot, err)
	}
	enc := base64.StdEncoding.EncodeToString(data)
	if err := s.m.SaveObjectProp(obj, gdataData, []byte(enc)); err != nil {
		return fmt.Errorf("assets: save %s: %w", slot, err)
	}
	return nil
}

// Remove empties the slot's stored data.
func (s *GDataStore) Remove(slot Slot) error {
	if !s.m.ObjectPropExists(assetObject(slot), gdataData) {
		return nil
	}
	if err := s.m.SaveObjectProp(assetObject(slot), gdataData, nil); err != nil {
		return fmt.Errorf("assets: remove %s: %w", slot, err)
	}
	return nil
}

func (s *GDataStore) load(slot Slot) (data []byte, ext string, err error) {
	obj := assetObject(slot)
	if !s.m.ObjectPropExists(obj, gdataData) {
		return nil, "", nil
	}
	raw, err := s.m.LoadObjectProp(obj, gdataData)
	if err != nil || len(raw) == 0 {
		return nil, "", err
	}
	data, err = base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, "", fmt.Errorf("assets: stored %s is corrupt: %w", slot, err)
	}
	if s.m.ObjectPropExists(obj, gdataExt) {
		if e, err := s.m.LoadObjectProp(obj, gdataExt); err == nil {
			ext = string(e)
		}
	}
	return data, ext, nil
}

// LoadInto publishes every stored slot into lib. Failed slots are
// collected; the rest still load.
func (s *GDataStore) LoadInto(lib *Library) (loaded []Slot, errs []error) {
	for _, slot := range Slots() {
		data, ext, err := s.load(slot)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if data == nil {
			continue
		}
		if err := lib.LoadBytes(slot, data, ext, "saved"); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, slot)
	}
	return loaded, errs
}

func (s *GDataStore) SavePrompt(slot, prompt string) error {
	if err := s.m.SaveObjectProp(gdataPrompts, slot, []byte(prompt)); err != nil {
		return fmt.Errorf("assets: save prompt: %w", err)
	}
	return nil
}

func (s *GDataStore) Prompt(slot string) (string, bool, error) {
	if !s.m.ObjectPropExists(gdataPrompts, slot) {
		return "", false, nil
	}
	p, err := s.m.LoadObjectProp(gdataPrompts, slot)
	if err != nil {
		return "", false, fmt.Errorf("assets: load prompt: %w", err)
	}
	if len(p) == 0 {
		return "", false, nil
	}
	return string(p), true, nil
}
