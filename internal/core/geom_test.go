package core

import (
	"math"
	"testing"
)

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained box",
			a:        NewBox(0, 0, 20, 20),
			b:        NewBox(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestCenteredBox(t *testing.T) {
	b := CenteredBox(200, 300, 40, 40)

	if b.X != 180 || b.Y != 280 {
		t.Errorf("CenteredBox origin = (%v, %v), expected (180, 280)", b.X, b.Y)
	}
	if b.Right() != 220 || b.Bottom() != 320 {
		t.Errorf("CenteredBox far edges = (%v, %v), expected (220, 320)", b.Right(), b.Bottom())
	}
}

func TestBoxInset(t *testing.T) {
	b := NewBox(180, 280, 40, 40).Inset(10)

	if b.X != 190 || b.Y != 290 || b.W != 20 || b.H != 20 {
		t.Errorf("Inset(10) = %+v, expected {190 290 20 20}", b)
	}

	collapsed := NewBox(0, 0, 10, 10).Inset(8)
	if collapsed.W != 0 || collapsed.H != 0 {
		t.Errorf("Inset larger than half should collapse, got %+v", collapsed)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(0, 10, 0.2); math.Abs(got-2) > 1e-9 {
		t.Errorf("Approach(0, 10, 0.2) = %f, expected 2", got)
	}
	if got := Approach(3, 10, 1); got != 10 {
		t.Errorf("Approach with factor 1 should snap, got %f", got)
	}
	if got := Approach(3, 10, 0); got != 3 {
		t.Errorf("Approach with factor 0 should hold, got %f", got)
	}

	// Repeated smoothing converges without overshoot
	v := 0.0
	for i := 0; i < 100; i++ {
		v = Approach(v, 1, 0.2)
		if v > 1 {
			t.Fatalf("Approach overshot target at step %d: %f", i, v)
		}
	}
	if math.Abs(v-1) > 1e-6 {
		t.Errorf("Approach should converge to target, got %f", v)
	}
}
