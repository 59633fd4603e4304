package palette

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Hex formats the color as uppercase #RRGGBB.
func (c RGB) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

// HSL converts to rounded hue/saturation/lightness.
func (c RGB) HSL() HSL {
	_, s, l := c.colorful().Hsl()
	return HSL{
		H: roundHalfUp(c.hueTurn() * 360),
		S: roundHalfUp(s * 100),
		L: roundHalfUp(l * 100),
	}
}

// hueTurn returns the hue as a fraction of a full turn. The sector offset is
// added before dividing by 6; hues on exactly .5 degrees round up only in
// that order.
func (c RGB) hueTurn() float64 {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	if hi == lo {
		return 0
	}
	d := hi - lo

	var h float64
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6
}

// Luminance is the WCAG relative luminance in [0,1].
func (c RGB) Luminance() float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// TextColor picks black or white for legible text on top of c, using the
// YIQ brightness cut at 150.
func (c RGB) TextColor() RGB {
	yiq := (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
	if yiq > 150 {
		return black
	}
	return white
}

// roundHalfUp rounds like JavaScript's Math.round for the non-negative
// values used here.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
