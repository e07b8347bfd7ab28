package imaging

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = opaque
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// NewColorResult describes c in every representation of ColorResult.
func NewColorResult(c color.RGBA) ColorResult {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	return ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// SampleColor returns the bilinearly interpolated color at image coordinates
// (x, y) of an equirectangular bitmap, where pixel (i, j) is centered at
// (i+0.5, j+0.5). Columns wrap around the seam and rows clamp at the poles.
func (b *Bitmap) SampleColor(x, y float64) (*ColorResult, error) {
	c, ok := b.InterpolateBilinear(x-0.5, y-0.5, BorderWrapClamp)
	if !ok {
		return nil, fmt.Errorf("cannot sample (%g,%g) on a %dx%d bitmap", x, y, b.Width(), b.Height())
	}
	res := NewColorResult(c)
	return &res, nil
}

// goldenAngle spaces successive hues so that any prefix of the sequence stays
// well spread around the color wheel.
const goldenAngle = 137.50776405003785

// DistinctColors returns n opaque, saturated colors with well separated hues,
// starting from red. The sequence is deterministic.
func DistinctColors(n int) []color.RGBA {
	out := make([]color.RGBA, 0, max(n, 0))
	for i := 0; i < n; i++ {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		r, g, b := colorful.Hsv(hue, 0.9, 1).RGB255()
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out
}
