package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Annotation colors, as hex strings.
const (
	// AggregateHex outlines every qualifying detection in the "all" artifact.
	AggregateHex = "#ff0000"

	// TargetHex outlines the detections of a single target label.
	TargetHex = "#008000"
)

// Palette holds the colors used by the two render passes.
type Palette struct {
	Aggregate color.RGBA
	Target    color.RGBA
}

// DefaultPalette returns red for the aggregate pass and green for per-target
// passes.
func DefaultPalette() Palette {
	return Palette{
		Aggregate: mustParseHex(AggregateHex),
		Target:    mustParseHex(TargetHex),
	}
}

// ParseHexColor parses a "#RRGGBB" string into an opaque RGBA color.
func ParseHexColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func mustParseHex(hex string) color.RGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
