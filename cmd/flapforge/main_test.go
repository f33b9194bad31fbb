package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/storage"
)

type fakeScores struct {
	entries []storage.ScoreEntry
	stats   *storage.Stats
}

func (f fakeScores) TopScores(limit int) ([]storage.ScoreEntry, error) {
	return f.entries[:min(limit, len(f.entries))], nil
}

func (f fakeScores) Stats() (*storage.Stats, error) { return f.stats, nil }

func TestPrintScores(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	src := fakeScores{
		entries: []storage.ScoreEntry{
			{Player: "ann", Mode: "local", Score: 14, CreatedAt: at},
			{Player: "bob", Mode: "ssh", Score: 9, CreatedAt: at},
		},
		stats: &storage.Stats{Sessions: 4, HighScore: 14, AvgScore: 6.5},
	}

	var buf bytes.Buffer
	if err := printScores(&buf, src, 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "ann") || strings.Contains(out, "bob") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "2024-05-01 09:30") {
		t.Errorf("missing date:\n%s", out)
	}
	if !strings.Contains(out, "Best: 14   Sessions: 4   Average: 6.5") {
		t.Errorf("missing stats line:\n%s", out)
	}

	buf.Reset()
	if err := printScores(&buf, fakeScores{stats: &storage.Stats{}}, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No scores recorded yet.") {
		t.Errorf("empty table:\n%s", buf.String())
	}
}

func TestParseSlots(t *testing.T) {
	slots, err := parseSlots([]string{"bird", "crash"})
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 2 || slots[0] != assets.SlotBird || slots[1] != assets.SlotCrash {
		t.Errorf("parseSlots = %v", slots)
	}
	if _, err := parseSlots([]string{"bird", "cloud"}); err == nil {
		t.Error("unknown slot should fail")
	}
}
