package core

import (
	"strings"
)

// Cell is a single glyph on a Screen together with its foreground color.
type Cell struct {
	Rune  rune
	Color Color
}

var blankCell = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D grid of colored cells. The terminal frontend rasterises the
// playfield into it and then converts it into styled text; nothing in the
// simulation depends on it.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen creates a blank screen. Negative dimensions are treated as zero.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in cells.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in cells.
func (s *Screen) Height() int { return s.height }

// Empty reports whether the screen has no drawable area.
func (s *Screen) Empty() bool {
	return s == nil || s.width == 0 || s.height == 0
}

// Resize changes the dimensions and clears the content. A frame is redrawn
// from scratch every tick, so nothing needs to survive a resize.
func (s *Screen) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	if width == s.width && height == s.height && s.cells != nil {
		return
	}
	s.width = width
	s.height = height
	s.cells = make([]Cell, width*height)
	s.Clear()
}

// Clear resets every cell to a blank default-colored space.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blankCell
	}
}

func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, false
	}
	return y*s.width + x, true
}

// Set places a rune with the given color. Out-of-bounds writes are ignored.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if i, ok := s.index(x, y); ok {
		s.cells[i] = Cell{Rune: r, Color: c}
	}
}

// SetColor recolors a cell without touching its glyph.
func (s *Screen) SetColor(x, y int, c Color) {
	if i, ok := s.index(x, y); ok {
		s.cells[i].Color = c
	}
}

// Get returns the rune at (x, y), or a space outside the screen.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell outside the screen.
func (s *Screen) GetCell(x, y int) Cell {
	if i, ok := s.index(x, y); ok {
		return s.cells[i]
	}
	return blankCell
}

// DrawText writes text left to right starting at (x, y), clipping at edges.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered writes text horizontally centred on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	n := len([]rune(text))
	s.DrawText((s.width-n)/2, y, text, c)
}

// FillRect fills the rectangle, clipped to the screen, with one glyph.
func (s *Screen) FillRect(r Rect, fill rune, c Color) {
	x0 := Clamp(r.X, 0, s.width)
	x1 := Clamp(r.Right(), 0, s.width)
	y0 := Clamp(r.Y, 0, s.height)
	y1 := Clamp(r.Bottom(), 0, s.height)
	for y := y0; y < y1; y++ {
		row := s.cells[y*s.width : (y+1)*s.width]
		for x := x0; x < x1; x++ {
			row[x] = Cell{Rune: fill, Color: c}
		}
	}
}

// DrawBorder outlines the rectangle with rounded box-drawing glyphs.
func (s *Screen) DrawBorder(r Rect, c Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		s.Set(x, r.Y, '─', c)
		s.Set(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.Set(r.X, y, '│', c)
		s.Set(right, y, '│', c)
	}
	s.Set(r.X, r.Y, '╭', c)
	s.Set(right, r.Y, '╮', c)
	s.Set(r.X, bottom, '╰', c)
	s.Set(right, bottom, '╯', c)
}

// Row returns the glyphs of row y. Rows outside the screen are blank.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	row := s.cells[y*s.width : (y+1)*s.width]
	var sb strings.Builder
	sb.Grow(len(row))
	for _, c := range row {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Run is a horizontal stretch of same-colored glyphs within one row.
type Run struct {
	Text  string
	Color Color
}

// Runs splits row y into maximal same-color runs so a renderer can style
// each run once instead of every cell.
func (s *Screen) Runs(y int) []Run {
	if y < 0 || y >= s.height || s.width == 0 {
		return nil
	}
	row := s.cells[y*s.width : (y+1)*s.width]
	var runs []Run
	var sb strings.Builder
	cur := row[0].Color
	for _, c := range row {
		if c.Color != cur {
			runs = append(runs, Run{Text: sb.String(), Color: cur})
			sb.Reset()
			cur = c.Color
		}
		sb.WriteRune(c.Rune)
	}
	return append(runs, Run{Text: sb.String(), Color: cur})
}

// String returns the plain glyphs of the whole screen, rows separated by
// newlines. Used for screenshots and tests.
func (s *Screen) String() string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
