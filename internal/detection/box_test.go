package detection

import (
	"image"
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestToPixelBox(t *testing.T) {
	d := Detection{YMin: 0.1, XMin: 0.2, YMax: 0.5, XMax: 0.9}

	box := ToPixelBox(d, 100, 200)

	want := PixelBox{Left: 20, Top: 20, Right: 90, Bottom: 100}
	if !approxEqual(box.Left, want.Left) || !approxEqual(box.Top, want.Top) ||
		!approxEqual(box.Right, want.Right) || !approxEqual(box.Bottom, want.Bottom) {
		t.Errorf("ToPixelBox: got %+v, want %+v", box, want)
	}
}

func TestToPixelBox_RoundsNormalizedValues(t *testing.T) {
	// 0.12345 rounds to 0.123 before scaling.
	d := Detection{YMin: 0.12345, XMin: 0.45678, YMax: 0.9999, XMax: 0.5}

	box := ToPixelBox(d, 1000, 1000)

	if !approxEqual(box.Top, 123) {
		t.Errorf("Top: got %v, want 123", box.Top)
	}
	if !approxEqual(box.Left, 457) {
		t.Errorf("Left: got %v, want 457", box.Left)
	}
	if !approxEqual(box.Bottom, 1000) {
		t.Errorf("Bottom: got %v, want 1000", box.Bottom)
	}
	if !approxEqual(box.Right, 500) {
		t.Errorf("Right: got %v, want 500", box.Right)
	}
}

func TestToPixelBox_RoundsExactBinaryValue(t *testing.T) {
	// 0.1235 is stored as 0.12349999... and 0.4565 as 0.45650000...1, so
	// neither is a true tie.
	d := Detection{YMin: 0.1235, XMin: 0.4565, YMax: 0.2225, XMax: 0.5555}

	box := ToPixelBox(d, 1000, 1000)

	want := PixelBox{Left: 457, Top: 123, Right: 555, Bottom: 223}
	if !approxEqual(box.Left, want.Left) || !approxEqual(box.Top, want.Top) ||
		!approxEqual(box.Right, want.Right) || !approxEqual(box.Bottom, want.Bottom) {
		t.Errorf("ToPixelBox: got %+v, want %+v", box, want)
	}
}

func TestToPixelBox_NoClamping(t *testing.T) {
	d := Detection{YMin: -0.1, XMin: -0.5, YMax: 1.5, XMax: 2.0}

	box := ToPixelBox(d, 100, 100)

	if box.Top >= 0 || box.Left >= 0 {
		t.Errorf("negative coordinates were clamped: %+v", box)
	}
	if box.Bottom <= 100 || box.Right <= 100 {
		t.Errorf("coordinates beyond the canvas were clamped: %+v", box)
	}
}

func TestPixelBox_Rect(t *testing.T) {
	box := PixelBox{Left: 19.6, Top: 20.2, Right: 90, Bottom: 100.7}

	got := box.Rect()
	want := image.Rect(20, 20, 90, 101)
	if got != want {
		t.Errorf("Rect: got %v, want %v", got, want)
	}
}
