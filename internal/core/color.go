package core

import "strconv"

// Color is a terminal foreground color for a screen cell.
type Color uint8

// Palette used by the terminal renderer. The fire shades mirror the
// particle palette of the simulation.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorDarkRed
	ColorGray
	ColorSky
)

// ansi256 maps palette entries to xterm 256-color indexes.
var ansi256 = [...]int{
	ColorDefault:      -1,
	ColorRed:          160,
	ColorGreen:        34,
	ColorYellow:       178,
	ColorBlue:         27,
	ColorCyan:         44,
	ColorWhite:        252,
	ColorBrightRed:    203,
	ColorBrightGreen:  82,
	ColorBrightYellow: 220,
	ColorBrightWhite:  231,
	ColorOrange:       208,
	ColorDarkRed:      124,
	ColorGray:         244,
	ColorSky:          117,
}

// ANSI returns the xterm 256-color index as a string suitable for
// lipgloss.Color, or "" for the terminal default.
func (c Color) ANSI() string {
	if int(c) >= len(ansi256) || ansi256[c] < 0 {
		return ""
	}
	return strconv.Itoa(ansi256[c])
}

// ColorFromHex picks the palette entry for one of the particle fire shades.
// Unknown values fall back to bright white.
func ColorFromHex(hex string) Color {
	switch hex {
	case "#ef4444":
		return ColorBrightRed
	case "#f97316":
		return ColorOrange
	case "#fbbf24":
		return ColorBrightYellow
	case "#b91c1c":
		return ColorDarkRed
	default:
		return ColorBrightWhite
	}
}
