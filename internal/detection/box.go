package detection

import "image"

// boxDecimals is the precision normalized coordinates are rounded to before
// they are scaled to pixels.
const boxDecimals = 3

// PixelBox is a bounding box in pixel space.
//
// Values are kept as floats so that sub-pixel positions survive until the
// renderer decides how to rasterize them. They may lie outside the image.
type PixelBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// ToPixelBox converts the normalized box of d to pixel coordinates for an
// image of the given size.
//
// Each normalized value is rounded to three decimals first:
//
//	top    = round(y_min, 3) * height
//	bottom = round(y_max, 3) * height
//	left   = round(x_min, 3) * width
//	right  = round(x_max, 3) * width
//
// For a 100x200 (width x height) image and box (0.1, 0.2, 0.5, 0.9) the result
// is left=20, top=20, right=90, bottom=100.
func ToPixelBox(d Detection, width, height int) PixelBox {
	w := float64(width)
	h := float64(height)
	return PixelBox{
		Left:   roundTo(d.XMin, boxDecimals) * w,
		Top:    roundTo(d.YMin, boxDecimals) * h,
		Right:  roundTo(d.XMax, boxDecimals) * w,
		Bottom: roundTo(d.YMax, boxDecimals) * h,
	}
}

// Rect returns the box rounded to the nearest integer pixel rectangle.
// The result is not canonicalized, so inverted boxes stay inverted.
func (b PixelBox) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: roundPx(b.Left), Y: roundPx(b.Top)},
		Max: image.Point{X: roundPx(b.Right), Y: roundPx(b.Bottom)},
	}
}

func roundPx(v float64) int {
	return int(roundTo(v, 0))
}
