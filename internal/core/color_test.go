package core

import "testing"

func TestColorANSI(t *testing.T) {
	if ColorDefault.ANSI() != "" {
		t.Errorf("default color should map to empty string, got %q", ColorDefault.ANSI())
	}
	if ColorOrange.ANSI() != "208" {
		t.Errorf("orange ANSI = %q, expected 208", ColorOrange.ANSI())
	}
	if Color(250).ANSI() != "" {
		t.Error("out-of-range color should map to empty string")
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex      string
		expected Color
	}{
		{"#ef4444", ColorBrightRed},
		{"#f97316", ColorOrange},
		{"#fbbf24", ColorBrightYellow},
		{"#b91c1c", ColorDarkRed},
		{"#ffffff", ColorBrightWhite},
		{"bogus", ColorBrightWhite},
	}

	for _, tc := range tests {
		if got := ColorFromHex(tc.hex); got != tc.expected {
			t.Errorf("ColorFromHex(%q) = %v, expected %v", tc.hex, got, tc.expected)
		}
	}
}
