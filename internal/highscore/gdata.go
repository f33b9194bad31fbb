package highscore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// Storage keys of the best score.
const (
	gdataObject   = "highscore"
	gdataProperty = "best"
)

// GDataBoard keeps the best score in gdata storage: a file under the user
// data directory on desktop and localStorage in the browser.
type GDataBoard struct {
	m    *gdata.Manager
	best int
}

// OpenGData opens the gdata store for appName and loads the saved best
// score. A missing or unreadable value counts as 0.
func OpenGData(appName string) (*GDataBoard, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("highscore: open gdata: %w", err)
	}
	return NewGDataBoard(m), nil
}

// NewGDataBoard wraps an already opened manager.
func NewGDataBoard(m *gdata.Manager) *GDataBoard {
	b := &GDataBoard{m: m}
	b.best = b.load()
	return b
}

func (b *GDataBoard) load() int {
	if !b.m.ObjectPropExists(gdataObject, gdataProperty) {
		return 0
	}
	data, err := b.m.LoadObjectProp(gdataObject, gdataProperty)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (b *GDataBoard) Best() int { return b.best }

func (b *GDataBoard) Record(score int) (int, bool, error) {
	if score <= b.best {
		return b.best, false, nil
	}
	if err := b.m.SaveObjectProp(gdataObject, gdataProperty, []byte(strconv.Itoa(score))); err != nil {
		return b.best, false, fmt.Errorf("highscore: save best: %w", err)
	}
	b.best = score
	return b.best, true, nil
}
