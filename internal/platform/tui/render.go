package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flapforge/internal/core"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// Minimum playable field in cells.
const (
	minFieldW = 12
	minFieldH = 8
)

// Layout maps the logical playfield onto screen cells.
type Layout struct {
	Field  core.Rect // inner field area, excluding the border
	ScaleX float64   // cells per logical unit
	ScaleY float64
}

// ComputeLayout fits a fieldW x fieldH playfield into the screen below a
// one-line HUD, preserving its aspect ratio and centring it. ok is false
// when the terminal is too small to play.
func ComputeLayout(screenW, screenH int, fieldW, fieldH float64) (Layout, bool) {
	if fieldW <= 0 || fieldH <= 0 {
		return Layout{}, false
	}
	maxW := screenW - 2
	maxH := screenH - 3 // HUD + top and bottom border
	if maxW < minFieldW || maxH < minFieldH {
		return Layout{}, false
	}

	ratio := fieldW / fieldH * cellAspect
	h := maxH
	w := int(math.Round(float64(h) * ratio))
	if w > maxW {
		w = maxW
		h = int(math.Round(float64(w) / ratio))
	}
	if w < minFieldW || h < minFieldH {
		return Layout{}, false
	}

	x := (screenW - w) / 2
	return Layout{
		Field:  core.NewRect(x, 2, w, h),
		ScaleX: float64(w) / fieldW,
		ScaleY: float64(h) / fieldH,
	}, true
}

// cell converts a logical point to a screen cell.
func (l Layout) cell(x, y float64) (int, int) {
	return l.Field.X + int(math.Floor(x*l.ScaleX)), l.Field.Y + int(math.Floor(y*l.ScaleY))
}

// span converts a logical [from, to) interval on one axis to an inclusive
// cell range relative to the field origin.
func span(from, to, scale float64) (int, int) {
	return int(math.Floor(from * scale)), int(math.Ceil(to*scale)) - 1
}

// HUD is the text shown above the field.
type HUD struct {
	Best    int
	NewBest bool
	Paused  bool
	Status  string
}

// Painter draws snapshots into a cell screen and turns the screen into a
// styled string.
type Painter struct {
	lip    *lipgloss.Renderer
	styles map[core.Color]lipgloss.Style
}

// NewPainter creates a painter. r selects the colour profile; nil uses the
// default renderer of the local terminal.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{lip: r, styles: make(map[core.Color]lipgloss.Style)}
}

func (p *Painter) style(c core.Color) lipgloss.Style {
	if st, ok := p.styles[c]; ok {
		return st
	}
	st := p.lip.NewStyle()
	if code := c.ANSI(); code != "" {
		st = st.Foreground(lipgloss.Color(code))
	}
	p.styles[c] = st
	return st
}

// Render converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func (p *Painter) Render(s *core.Screen) string {
	if s.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, run := range s.Runs(y) {
			if run.Color == core.ColorDefault {
				sb.WriteString(run.Text)
				continue
			}
			sb.WriteString(p.style(run.Color).Render(run.Text))
		}
	}
	return sb.String()
}

// Draw paints snap and the HUD into s.
func (p *Painter) Draw(s *core.Screen, snap flappy.Snapshot, hud HUD) {
	if s.Empty() {
		return
	}
	s.Clear()

	layout, ok := ComputeLayout(s.Width(), s.Height(), snap.FieldW, snap.FieldH)
	if !ok {
		s.DrawTextCentered(s.Height()/2, "Terminal too small", core.ColorGray)
		return
	}
	f := layout.Field

	p.drawHUD(s, layout, snap, hud)
	s.DrawBorder(core.NewRect(f.X-1, f.Y-1, f.W+2, f.H+2), core.ColorGray)
	p.drawPipes(s, layout, snap)
	p.drawParticles(s, layout, snap)
	p.drawBird(s, layout, snap)

	switch {
	case hud.Paused:
		p.drawOverlay(s, layout, []overlayLine{
			{"PAUSED", core.ColorBrightWhite},
			{"", core.ColorDefault},
			{"P to resume", core.ColorGray},
		})
	case snap.Phase == flappy.PhaseIdle:
		p.drawOverlay(s, layout, []overlayLine{
			{"READY?", core.ColorBrightWhite},
			{"", core.ColorDefault},
			{"ENTER to play", core.ColorBrightGreen},
			{"SPACE / UP / W to fly", core.ColorGray},
			{"TAB scores  Q quit", core.ColorGray},
		})
	case snap.Phase == flappy.PhaseGameOver:
		lines := []overlayLine{
			{"GAME OVER", core.ColorBrightRed},
			{"", core.ColorDefault},
			{fmt.Sprintf("Score %d   Best %d", snap.Score, hud.Best), core.ColorBrightWhite},
		}
		if hud.NewBest {
			lines = append(lines, overlayLine{"New best!", core.ColorBrightYellow})
		}
		lines = append(lines,
			overlayLine{"", core.ColorDefault},
			overlayLine{"ENTER / R to restart", core.ColorBrightGreen},
		)
		p.drawOverlay(s, layout, lines)
	}
}

func (p *Painter) drawHUD(s *core.Screen, l Layout, snap flappy.Snapshot, hud HUD) {
	f := l.Field
	left := fmt.Sprintf("SCORE %d", snap.Score)
	right := fmt.Sprintf("BEST %d", hud.Best)
	s.DrawText(f.X-1, 0, left, core.ColorBrightWhite)
	s.DrawText(f.Right()+1-len(right), 0, right, core.ColorBrightYellow)
	if hud.Status != "" {
		s.DrawTextCentered(0, hud.Status, core.ColorGray)
	}
}

func (p *Painter) drawPipes(s *core.Screen, l Layout, snap flappy.Snapshot) {
	f := l.Field
	for _, pipe := range snap.Pipes {
		top := pipe.TopBox(snap.PipeWidth)
		bottom := pipe.BottomBox(snap.PipeWidth, snap.FieldH)

		x0, x1 := span(top.X, top.Right(), l.ScaleX)
		x0 = max(x0, 0)
		x1 = min(x1, f.W-1)
		if x0 > x1 {
			continue
		}

		_, topEnd := span(0, top.H, l.ScaleY)
		bottomStart, _ := span(bottom.Y, snap.FieldH, l.ScaleY)
		topEnd = min(topEnd, f.H-1)
		bottomStart = max(bottomStart, 0)

		for x := x0; x <= x1; x++ {
			for y := 0; y <= topEnd; y++ {
				r, c := '█', core.ColorGreen
				if y == topEnd {
					r, c = '▀', core.ColorBrightGreen
				}
				s.Set(f.X+x, f.Y+y, r, c)
			}
			for y := bottomStart; y < f.H; y++ {
				r, c := '█', core.ColorGreen
				if y == bottomStart {
					r, c = '▄', core.ColorBrightGreen
				}
				s.Set(f.X+x, f.Y+y, r, c)
			}
		}
	}
}

func (p *Painter) drawParticles(s *core.Screen, l Layout, snap flappy.Snapshot) {
	f := l.Field
	for _, pt := range snap.Particles {
		x, y := l.cell(pt.X, pt.Y)
		if x < f.X || x >= f.Right() || y < f.Y || y >= f.Bottom() {
			continue
		}
		r := '·'
		switch {
		case pt.Life > 0.6 && pt.Size > 6:
			r = '*'
		case pt.Life > 0.3:
			r = '+'
		}
		s.Set(x, y, r, core.ColorFromHex(pt.Color))
	}
}

// beakGlyph picks a beak that follows the bird's pitch.
func beakGlyph(rotation float64) rune {
	switch {
	case rotation < -0.3:
		return '/'
	case rotation > 0.3:
		return '\\'
	default:
		return '>'
	}
}

func (p *Painter) drawBird(s *core.Screen, l Layout, snap flappy.Snapshot) {
	f := l.Field
	b := snap.Bird
	x, y := l.cell(b.X, b.Y)
	y = core.Clamp(y, f.Y, f.Bottom()-1)

	body, color := '@', core.ColorBrightYellow
	if snap.Over() {
		body, color = 'x', core.ColorBrightRed
	}
	s.Set(x-1, y, '(', color)
	s.Set(x, y, body, color)
	s.Set(x+1, y, beakGlyph(b.Rotation), core.ColorOrange)
}

type overlayLine struct {
	text  string
	color core.Color
}

func (p *Painter) drawOverlay(s *core.Screen, l Layout, lines []overlayLine) {
	f := l.Field
	w := 0
	for _, ln := range lines {
		w = max(w, len([]rune(ln.text)))
	}
	w = min(w+4, f.W)
	h := min(len(lines)+2, f.H)
	x := f.X + (f.W-w)/2
	y := f.Y + (f.H-h)/2

	box := core.NewRect(x, y, w, h)
	s.FillRect(box, ' ', core.ColorDefault)
	s.DrawBorder(box, core.ColorGray)
	for i, ln := range lines {
		if i+1 >= h-1 {
			break
		}
		n := len([]rune(ln.text))
		s.DrawText(x+(w-n)/2, y+1+i, ln.text, ln.color)
	}
}
