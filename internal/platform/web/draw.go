package web

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/flapforge/internal/assets"
	"github.com/vovakirdan/flapforge/internal/games/flappy"
)

var (
	colorSky        = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	colorPipe       = color.RGBA{0x22, 0xc5, 0x5e, 0xff}
	colorPipeEdge   = color.RGBA{0x14, 0x53, 0x2d, 0xff}
	colorBird       = color.RGBA{0xfb, 0xbf, 0x24, 0xff}
	colorBeak       = color.RGBA{0xf9, 0x73, 0x16, 0xff}
	colorShade      = color.RGBA{0x00, 0x00, 0x00, 0xa0}
	colorGameOver   = color.RGBA{0xef, 0x44, 0x44, 0xff}
	colorBest       = color.RGBA{0xea, 0xb3, 0x08, 0xff}
	colorPlayButton = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	colorRestart    = color.RGBA{0x4f, 0x46, 0xe5, 0xff}
	colorPanel      = color.RGBA{0x0f, 0x17, 0x2a, 0xf0}
)

const pipeStroke = 3

type fontSet struct {
	score *text.GoTextFace
	title *text.GoTextFace
	body  *text.GoTextFace
	small *text.GoTextFace
}

func loadFonts() (*fontSet, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(fonts.PressStart2P_ttf))
	if err != nil {
		return nil, fmt.Errorf("web: cannot load font: %w", err)
	}
	return &fontSet{
		score: &text.GoTextFace{Source: src, Size: 40},
		title: &text.GoTextFace{Source: src, Size: 28},
		body:  &text.GoTextFace{Source: src, Size: 14},
		small: &text.GoTextFace{Source: src, Size: 10},
	}, nil
}

// hexColor parses "#rrggbb". Anything else is white.
func hexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// fade applies alpha in [0, 1] to c.
func fade(c color.RGBA, alpha float64) color.NRGBA {
	alpha = max(0, min(1, alpha))
	return color.NRGBA{c.R, c.G, c.B, uint8(alpha * 255)}
}

// Draw renders the last snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)
	g.drawPipes(screen)
	g.drawBird(screen)
	g.drawParticles(screen)
	g.drawScore(screen)

	switch {
	case g.clock.Paused() && g.snap.Phase == flappy.PhasePlaying:
		g.drawOverlay(screen, []overlayText{{"PAUSED", g.fonts.title, color.White}}, "", nil)
	case g.snap.Phase == flappy.PhaseIdle:
		lines := []overlayText{
			{"READY?", g.fonts.title, color.White},
			{"Space or tap to fly", g.fonts.body, color.White},
		}
		if g.panel != nil {
			lines = append(lines, overlayText{"A to edit assets", g.fonts.small, colorBest})
		}
		g.drawOverlay(screen, lines, "PLAY NOW", colorPlayButton)
	case g.snap.Phase == flappy.PhaseGameOver:
		lines := []overlayText{
			{"GAME OVER", g.fonts.title, colorGameOver},
			{fmt.Sprintf("Score %d", g.snap.Score), g.fonts.body, color.White},
			{fmt.Sprintf("Best %d", g.best), g.fonts.body, colorBest},
		}
		if g.improved {
			lines = append(lines, overlayText{"New best!", g.fonts.body, colorBest})
		}
		g.drawOverlay(screen, lines, "RESTART", colorRestart)
	}

	if g.panel != nil && g.panel.open {
		g.drawPanel(screen)
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f\ntick %d  pipes %d  particles %d",
			ebiten.ActualTPS(), ebiten.ActualFPS(), g.snap.Tick, len(g.snap.Pipes), len(g.snap.Particles)), 4, 4)
	}
}

func (g *Game) drawPipes(screen *ebiten.Image) {
	top := g.sprites.get(assets.SlotTopPipe)
	bottom := g.sprites.get(assets.SlotBottomPipe)
	for _, p := range g.snap.Pipes {
		t := p.TopBox(g.snap.PipeWidth)
		b := p.BottomBox(g.snap.PipeWidth, g.snap.FieldH)
		drawPipePart(screen, top, t.X, t.Y, t.W, t.H)
		drawPipePart(screen, bottom, b.X, b.Y, b.W, b.H)
	}
}

func drawPipePart(screen, sprite *ebiten.Image, x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if sprite != nil {
		drawStretched(screen, sprite, x, y, w, h)
		return
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), colorPipe, true)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), pipeStroke, colorPipeEdge, true)
}

// drawStretched scales img to fill the w x h box at (x, y).
func drawStretched(dst, img *ebiten.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

func (g *Game) drawBird(screen *ebiten.Image) {
	b := g.snap.Bird
	img := g.sprites.get(assets.SlotBird)
	if img == nil {
		img = g.sprites.placeholderBird(b.Size)
	}
	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(bounds.Dx())/2, -float64(bounds.Dy())/2)
	op.GeoM.Scale(b.Size/float64(bounds.Dx()), b.Size/float64(bounds.Dy()))
	op.GeoM.Rotate(b.Rotation)
	op.GeoM.Translate(b.X, b.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawBirdPlaceholder paints the default bird into a size x size image:
// a yellow square with an eye and a beak facing right.
func drawBirdPlaceholder(img *ebiten.Image, size float64) {
	c := float32(size / 2)
	vector.DrawFilledRect(img, 0, 0, float32(size), float32(size), colorBird, false)
	vector.DrawFilledRect(img, c+6, c-8, 10, 10, color.White, false)
	vector.DrawFilledRect(img, c+12, c-4, 4, 4, color.Black, false)
	vector.DrawFilledRect(img, c+8, c+2, 12, 8, colorBeak, false)
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	for _, p := range g.snap.Particles {
		half := p.Size / 2
		vector.DrawFilledRect(screen,
			float32(p.X-half), float32(p.Y-half), float32(p.Size), float32(p.Size),
			fade(hexColor(p.Color), p.Life), false)
	}
}

func (g *Game) drawScore(screen *ebiten.Image) {
	if g.snap.Phase == flappy.PhaseIdle {
		return
	}
	drawCentered(screen, strconv.Itoa(g.snap.Score), g.fonts.score, g.snap.FieldW/2, 60, color.White)
}

type overlayText struct {
	text  string
	face  *text.GoTextFace
	color color.Color
}

// drawOverlay dims the field, stacks lines above the centre and draws an
// optional button.
func (g *Game) drawOverlay(screen *ebiten.Image, lines []overlayText, button string, buttonColor color.Color) {
	w, h := g.snap.FieldW, g.snap.FieldH
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), colorShade, false)

	y := h/2 - 110
	for _, ln := range lines {
		drawCentered(screen, ln.text, ln.face, w/2, y, ln.color)
		y += ln.face.Size + 16
	}

	if button == "" {
		return
	}
	box := buttonBox(w, h)
	vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), buttonColor, true)
	drawCentered(screen, button, g.fonts.body, w/2, box.Y+(box.H-g.fonts.body.Size)/2, color.White)
}

func drawCentered(dst *ebiten.Image, s string, face *text.GoTextFace, cx, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}

// drawPanel covers the field with the asset panel.
func (g *Game) drawPanel(screen *ebiten.Image) {
	p := g.panel
	w, h := g.snap.FieldW, g.snap.FieldH
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), colorPanel, false)
	drawCentered(screen, "ASSETS", g.fonts.title, w/2, 30, color.White)

	const left, line = 24, 22
	y := 90.0
	for i, slot := range assets.Slots() {
		c := color.Color(color.White)
		marker := "  "
		if slot == p.slot {
			c, marker = colorBest, "> "
		}
		drawLeft(screen, fmt.Sprintf("%s%d %-12s %s", marker, i+1, slot, p.slotState(slot)), g.fonts.small, left, y, c)
		y += line
	}

	y += line
	prompt := string(p.prompt)
	if !p.editing {
		prompt = p.saved
	}
	drawLeft(screen, "Prompt:", g.fonts.small, left, y, colorBest)
	y += line
	if p.editing {
		prompt += "_"
	}
	drawLeft(screen, tail(prompt, panelColumns), g.fonts.small, left, y, color.White)
	y += 2 * line
	drawLeft(screen, tail(p.status, panelColumns), g.fonts.small, left, y, colorGameOver)

	help := []string{
		"1-6 Up Down  select",
		"E  edit prompt, Enter generates",
		"G  generate    Del  reset",
		"Drop a file to upload",
		"A / Esc  close",
	}
	y = h - float64(len(help))*line - 16
	for _, s := range help {
		drawLeft(screen, s, g.fonts.small, left, y, color.Gray{Y: 0xaa})
		y += line
	}
}

// panelColumns is how many small glyphs fit on one panel line.
const panelColumns = 35

// tail keeps the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func drawLeft(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}
