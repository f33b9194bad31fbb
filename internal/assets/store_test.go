package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestGData(t *testing.T) *GDataStore {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	s, err := OpenGDataStore(fmt.Sprintf("flapforge_assets_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("gdata unavailable in this environment: %v", err)
	}
	return s
}

func TestGDataStoreRoundTrip(t *testing.T) {
	store := openTestGData(t)
	lib := NewLibrary()
	st := NewStudio(lib, &fakeGenerator{image: testPNG(t), speech: pcmBytes(240, 7)}, store, store, quietLogger())

	if err := st.Generate(context.Background(), SlotBird, "a robin"); err != nil {
		t.Fatalf("Generate image: %v", err)
	}
	if err := st.Generate(context.Background(), SlotCrash, "Bonk"); err != nil {
		t.Fatalf("Generate speech: %v", err)
	}

	fresh := NewLibrary()
	loaded, errs := store.LoadInto(fresh)
	if len(errs) != 0 || len(loaded) != 2 {
		t.Fatalf("LoadInto = %v %v", loaded, errs)
	}
	if fresh.Image(SlotBird) == nil {
		t.Error("bird image not restored")
	}
	if snd := fresh.Sound(SlotCrash); snd == nil || snd.Len() != 240 {
		t.Errorf("crash sound not restored: %+v", snd)
	}
	if p, ok, _ := store.Prompt("bird"); !ok || p != "a robin" {
		t.Errorf("saved prompt = %q, %v", p, ok)
	}
	if _, ok, _ := store.Prompt("jump"); ok {
		t.Error("jump has no saved prompt")
	}

	if err := st.Reset(SlotBird); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	again := NewLibrary()
	loaded, _ = store.LoadInto(again)
	if len(loaded) != 1 || loaded[0] != SlotCrash {
		t.Errorf("after reset loaded = %v, expected only crash", loaded)
	}
}

func TestDirStoreEmptyPath(t *testing.T) {
	var d DirStore
	if err := d.Save(SlotBird, []byte("x"), ".png"); err != nil {
		t.Errorf("Save with no directory: %v", err)
	}
	if err := d.Remove(SlotBird); err != nil {
		t.Errorf("Remove with no directory: %v", err)
	}
}

func TestStudioUploadBytes(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary()
	st := NewStudio(lib, nil, nil, DirStore(dir), quietLogger())

	if err := st.UploadBytes(SlotTopPipe, "pipe.PNG", testPNG(t)); err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	if lib.Image(SlotTopPipe) == nil || lib.Source(SlotTopPipe) != "pipe.PNG" {
		t.Error("dropped image not published")
	}
	if _, err := os.Stat(filepath.Join(dir, "top_pipe.png")); err != nil {
		t.Errorf("dropped image not stored: %v", err)
	}

	err := st.UploadBytes(SlotJump, "notes.txt", []byte("hello"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if st.CanGenerate() {
		t.Error("studio without a generator cannot generate")
	}
}
