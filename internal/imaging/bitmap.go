package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// BorderMode selects how InterpolateBilinear treats coordinates outside the
// pixel grid.
type BorderMode int

const (
	// BorderUndefined reports out-of-range lookups as invalid. Pinhole and
	// tangent patches use this mode: they have no wraparound.
	BorderUndefined BorderMode = iota

	// BorderWrapClamp wraps columns around the horizontal seam and clamps rows
	// at the top and bottom edges. Equirectangular panoramas use this mode.
	BorderWrapClamp
)

func (m BorderMode) String() string {
	switch m {
	case BorderUndefined:
		return "undefined"
	case BorderWrapClamp:
		return "wrap-clamp"
	default:
		return fmt.Sprintf("BorderMode(%d)", int(m))
	}
}

// Bitmap is an 8-bit RGBA pixel grid with bilinear sampling.
//
// Pixel (0,0) is the top-left pixel. Sampling coordinates passed to
// InterpolateBilinear are in pixel-index space: the center of pixel (i, j) is
// at (i, j). Callers working in image coordinates, where that center is at
// (i+0.5, j+0.5), subtract 0.5 first.
//
// A Bitmap is safe for concurrent reads. Writes to the same Bitmap must be
// synchronized by the caller.
type Bitmap struct {
	pix *image.RGBA
}

// NewBitmap allocates a black, fully transparent bitmap.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{pix: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// BitmapFromImage copies any decoded image into a Bitmap. The copy is
// re-based so its top-left pixel is (0,0).
func BitmapFromImage(img image.Image) *Bitmap {
	rgba := clone.AsRGBA(img)
	if rgba.Rect.Min != (image.Point{}) {
		rgba = &image.RGBA{
			Pix:    rgba.Pix,
			Stride: rgba.Stride,
			Rect:   image.Rect(0, 0, rgba.Rect.Dx(), rgba.Rect.Dy()),
		}
	}
	return &Bitmap{pix: rgba}
}

// Width returns the number of columns.
func (b *Bitmap) Width() int { return b.pix.Rect.Dx() }

// Height returns the number of rows.
func (b *Bitmap) Height() int { return b.pix.Rect.Dy() }

// Image exposes the underlying pixels for encoding.
func (b *Bitmap) Image() *image.RGBA { return b.pix }

// GetPixel returns the pixel at (x, y) and whether it lies inside the grid.
func (b *Bitmap) GetPixel(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		return color.RGBA{}, false
	}
	return b.at(x, y), true
}

// SetPixel writes c at (x, y). Out-of-range writes are ignored.
func (b *Bitmap) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		return
	}
	i := y*b.pix.Stride + 4*x
	p := b.pix.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Bitmap) Fill(c color.RGBA) {
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			b.SetPixel(x, y, c)
		}
	}
}

func (b *Bitmap) at(x, y int) color.RGBA {
	i := y*b.pix.Stride + 4*x
	p := b.pix.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// InterpolateBilinear samples the bitmap at continuous pixel-index
// coordinates. The boolean result is false when the coordinate is not finite,
// the bitmap is empty, or, under BorderUndefined, the coordinate falls outside
// [0, W-1] x [0, H-1].
//
// Channels are interpolated in premultiplied space, so transparent pixels do
// not bleed color into their neighbours.
func (b *Bitmap) InterpolateBilinear(x, y float64, mode BorderMode) (color.RGBA, bool) {
	w, h := b.Width(), b.Height()
	if w == 0 || h == 0 || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return color.RGBA{}, false
	}

	var x0, x1, y0, y1 int
	var fx, fy float64

	switch mode {
	case BorderWrapClamp:
		x = math.Mod(x, float64(w))
		if x < 0 {
			x += float64(w)
		}
		fx0 := math.Floor(x)
		fx = x - fx0
		x0 = int(fx0) % w
		x1 = (x0 + 1) % w

		y = math.Max(0, math.Min(float64(h-1), y))
		fy0 := math.Floor(y)
		fy = y - fy0
		y0 = int(fy0)
		y1 = min(y0+1, h-1)
	default:
		if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
			return color.RGBA{}, false
		}
		fx0, fy0 := math.Floor(x), math.Floor(y)
		fx, fy = x-fx0, y-fy0
		x0, y0 = int(fx0), int(fy0)
		x1, y1 = min(x0+1, w-1), min(y0+1, h-1)
	}

	c00 := b.at(x0, y0)
	c10 := b.at(x1, y0)
	c01 := b.at(x0, y1)
	c11 := b.at(x1, y1)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	blend := func(v00, v10, v01, v11 uint8) uint8 {
		v := w00*float64(v00) + w10*float64(v10) + w01*float64(v01) + w11*float64(v11)
		return uint8(math.Max(0, math.Min(255, math.Round(v))))
	}

	return color.RGBA{
		R: blend(c00.R, c10.R, c01.R, c11.R),
		G: blend(c00.G, c10.G, c01.G, c11.G),
		B: blend(c00.B, c10.B, c01.B, c11.B),
		A: blend(c00.A, c10.A, c01.A, c11.A),
	}, true
}

// Resize returns a copy scaled to width x height with a linear filter. It is
// used to bring a panorama to the resolution of the sphere camera it is
// paired with.
func (b *Bitmap) Resize(width, height int) *Bitmap {
	if width == b.Width() && height == b.Height() {
		return BitmapFromImage(b.pix)
	}
	return BitmapFromImage(imaging.Resize(b.pix, width, height, imaging.Linear))
}
