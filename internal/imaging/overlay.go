package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// DrawGraticule draws meridians and parallels every spacingDeg degrees onto an
// equirectangular bitmap, labelling each intersection with "lon,lat" when
// showCoordinates is set.
func DrawGraticule(bmp *Bitmap, spacingDeg float64, showCoordinates bool, lineColor color.RGBA) error {
	if !(spacingDeg > 0 && spacingDeg <= 180) {
		return fmt.Errorf("graticule spacing %g must be in (0, 180] degrees", spacingDeg)
	}
	width := bmp.Width()
	height := bmp.Height()

	// Meridians
	for lon := -180.0; lon < 180; lon += spacingDeg {
		x := int(math.Floor((lon/360 + 0.5) * float64(width)))
		for y := 0; y < height; y++ {
			bmp.SetPixel(x, y, lineColor)
		}
	}

	// Parallels
	for lat := 90 - spacingDeg; lat > -90; lat -= spacingDeg {
		y := int(math.Floor((0.5 - lat/180) * float64(height)))
		for x := 0; x < width; x++ {
			bmp.SetPixel(x, y, lineColor)
		}
	}

	if showCoordinates {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for lat := 90 - spacingDeg; lat > -90; lat -= spacingDeg {
			y := int(math.Floor((0.5 - lat/180) * float64(height)))
			for lon := -180.0; lon < 180; lon += spacingDeg {
				x := int(math.Floor((lon/360 + 0.5) * float64(width)))
				label := fmt.Sprintf("%d,%d", int(math.Round(lon)), int(math.Round(lat)))
				DrawLabel(bmp, x+2, y+2, label, labelColor, bgColor)
			}
		}
	}
	return nil
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Simple 3x5 pixel font for digits and the separators used in labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'-': {"000", "000", "111", "000", "000"},
	'#': {"101", "111", "101", "111", "101"},
}

// DrawLabel draws text with its top-left corner at (x, y) on a filled
// background box. Characters without a glyph leave a gap. Pixels falling
// outside the bitmap are skipped.
func DrawLabel(bmp *Bitmap, x, y int, text string, fg, bg color.RGBA) {
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			bmp.SetPixel(x+dx, y+dy, bg)
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					bmp.SetPixel(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
