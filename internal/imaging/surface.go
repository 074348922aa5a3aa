package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/coral-annotate/internal/detection"
)

// LineWidth is the thickness of box outlines in pixels.
const LineWidth = 3

// Surface is a drawable RGBA copy of an image.
type Surface struct {
	img  *image.RGBA
	face font.Face
}

// NewSurface copies src into a new RGBA surface. The source is not modified
// by any later drawing.
func NewSurface(src image.Image) *Surface {
	return &Surface{
		img:  clone.AsRGBA(src),
		face: basicfont.Face7x13,
	}
}

// Image returns the surface pixels.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// DrawBox outlines box in c and writes text above its top edge.
//
// The outline is a closed four-sided rectangle, LineWidth pixels thick and
// centered on the box edges; it is not filled. The text starts LineWidth
// pixels right of the left edge, one line height plus LineWidth above the top
// edge. When that would be negative the absolute value is used instead, which
// moves the label into the canvas. The outline itself is only clipped.
// Empty text draws just the outline.
func (s *Surface) DrawBox(box detection.PixelBox, text string, c color.Color) {
	r := box.Rect().Canon()
	s.drawOutline(r, c)

	if text == "" {
		return
	}

	textHeight := s.face.Metrics().Height.Ceil()
	x := r.Min.X + LineWidth
	y := abs(r.Min.Y - LineWidth - textHeight)
	s.drawText(x, y, text, c)
}

// drawOutline strokes the four edges of r.
func (s *Surface) drawOutline(r image.Rectangle, c color.Color) {
	lo := (LineWidth - 1) / 2
	hi := LineWidth - lo
	src := image.NewUniform(c)

	edges := []image.Rectangle{
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Min.X+hi, r.Max.Y+hi), // left
		image.Rect(r.Min.X-lo, r.Max.Y-lo, r.Max.X+hi, r.Max.Y+hi), // bottom
		image.Rect(r.Max.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Max.Y+hi), // right
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Min.Y+hi), // top
	}
	for _, e := range edges {
		// draw.Draw clips to the destination bounds.
		draw.Draw(s.img, e, src, image.Point{}, draw.Src)
	}
}

// drawText renders text with its top-left corner at (x, y).
func (s *Surface) drawText(x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(x, y+s.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
