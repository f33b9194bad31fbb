package web

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/flapforge/internal/assets"
)

const maxPromptLen = 200

type generated struct {
	slot assets.Slot
	err  error
}

// studioPanel is the in-game asset editor. It picks a slot, edits its
// prompt, generates in the background, takes dropped files and resets
// slots. Finished generations land in the library, so the next frame's
// sprite and sound caches pick them up.
type studioPanel struct {
	studio  *assets.Studio
	ctx     context.Context
	logger  *log.Logger
	open    bool
	slot    assets.Slot
	editing bool
	prompt  []rune
	saved   string // last saved prompt of slot
	status  string
	done    chan generated
	chars   []rune
}

func newStudioPanel(ctx context.Context, studio *assets.Studio, logger *log.Logger) *studioPanel {
	return &studioPanel{
		studio: studio,
		ctx:    ctx,
		logger: logger,
		done:   make(chan generated, 8),
	}
}

// digitKeys select slots in display order.
var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

// panelKeys are the keys the panel reacts to while open.
var panelKeys = append([]ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown,
	ebiten.KeyE, ebiten.KeyG, ebiten.KeyEnter, ebiten.KeyNumpadEnter,
	ebiten.KeyBackspace, ebiten.KeyDelete, ebiten.KeyEscape, ebiten.KeyA,
}, digitKeys...)

// readInput feeds one frame of Ebitengine input to the panel.
func (p *studioPanel) readInput() {
	if p.editing {
		p.chars = ebiten.AppendInputChars(p.chars[:0])
		p.typed(p.chars)
	}
	for _, k := range panelKeys {
		if justPressed(k) {
			p.key(k)
		}
	}
	if files := ebiten.DroppedFiles(); files != nil {
		p.dropFS(files)
	}
}

// key handles one key press and reports whether the panel is still open.
func (p *studioPanel) key(k ebiten.Key) bool {
	if p.editing {
		switch k {
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
			p.editing = false
			p.generate(string(p.prompt))
		case ebiten.KeyBackspace:
			if n := len(p.prompt); n > 0 {
				p.prompt = p.prompt[:n-1]
			}
		case ebiten.KeyEscape:
			p.editing = false
			p.status = ""
		}
		return true
	}

	n := assets.Slot(len(assets.Slots()))
	for i, d := range digitKeys {
		if k == d && assets.Slot(i) < n {
			p.selectSlot(assets.Slot(i))
			return true
		}
	}

	switch k {
	case ebiten.KeyArrowUp:
		p.selectSlot((p.slot + n - 1) % n)
	case ebiten.KeyArrowDown:
		p.selectSlot((p.slot + 1) % n)
	case ebiten.KeyE, ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		p.editing = true
		p.prompt = []rune(p.saved)
	case ebiten.KeyG:
		p.generate("")
	case ebiten.KeyBackspace, ebiten.KeyDelete:
		if err := p.studio.Reset(p.slot); err != nil {
			p.status = err.Error()
		} else {
			p.status = p.slot.String() + " reset"
		}
	case ebiten.KeyEscape, ebiten.KeyA:
		p.open = false
	}
	return p.open
}

// show opens the panel on the current slot.
func (p *studioPanel) show() {
	p.open = true
	p.status = ""
	p.selectSlot(p.slot)
}

func (p *studioPanel) selectSlot(slot assets.Slot) {
	p.slot = slot
	p.saved = p.studio.Prompt(slot)
}

// typed appends printable characters to the prompt being edited.
func (p *studioPanel) typed(rs []rune) {
	for _, r := range rs {
		if !unicode.IsPrint(r) || len(p.prompt) >= maxPromptLen {
			continue
		}
		p.prompt = append(p.prompt, r)
	}
}

func (p *studioPanel) generate(prompt string) {
	if !p.studio.CanGenerate() {
		p.status = "generation is not configured"
		return
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && p.studio.Prompt(p.slot) == "" {
		p.status = "type a prompt first (E)"
		return
	}
	slot := p.slot
	started := p.studio.GenerateAsync(p.ctx, slot, prompt, func(s assets.Slot, err error) {
		p.done <- generated{slot: s, err: err}
	})
	if !started {
		p.status = slot.String() + " is already generating"
		return
	}
	p.status = "generating " + slot.String() + "..."
	if prompt != "" {
		p.saved = prompt
	}
}

// poll collects finished generations without blocking.
func (p *studioPanel) poll() {
	for {
		select {
		case r := <-p.done:
			if r.err != nil {
				p.status = r.err.Error()
			} else {
				p.status = r.slot.String() + " updated"
			}
		default:
			return
		}
	}
}

// drop loads a dropped file into the selected slot.
func (p *studioPanel) drop(name string, data []byte) {
	if err := p.studio.UploadBytes(p.slot, name, data); err != nil {
		p.status = err.Error()
		return
	}
	p.status = p.slot.String() + " loaded from " + path.Base(name)
}

// dropFS uploads the first regular file of a drop.
func (p *studioPanel) dropFS(files fs.FS) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		p.logger.Warn("cannot read dropped files", "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := fs.ReadFile(files, e.Name())
		if err != nil {
			p.status = fmt.Sprintf("cannot read %s", e.Name())
			return
		}
		p.drop(e.Name(), data)
		return
	}
}

// slotState describes a slot for the panel list.
func (p *studioPanel) slotState(slot assets.Slot) string {
	lib := p.studio.Library()
	switch {
	case p.studio.Busy(slot):
		return "..."
	case slot.IsImage() && lib.Image(slot) != nil, slot.IsSound() && lib.Sound(slot) != nil:
		return "custom"
	}
	return "default"
}
