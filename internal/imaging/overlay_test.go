package imaging

import (
	"image/color"
	"testing"
)

func TestDrawGraticule_Lines(t *testing.T) {
	bmp := newFilledBitmap(360, 180, color.RGBA{0, 0, 0, 255})
	red := color.RGBA{255, 0, 0, 255}

	if err := DrawGraticule(bmp, 90, false, red); err != nil {
		t.Fatalf("DrawGraticule failed: %v", err)
	}

	// Meridians at lon -180, -90, 0, 90 fall on columns 0, 90, 180, 270.
	for _, x := range []int{0, 90, 180, 270} {
		if c, _ := bmp.GetPixel(x, 45); c != red {
			t.Errorf("meridian pixel (%d,45): got %v, want %v", x, c, red)
		}
	}

	// Parallel at lat 0 falls on row 90.
	if c, _ := bmp.GetPixel(45, 90); c != red {
		t.Errorf("equator pixel (45,90): got %v, want %v", c, red)
	}

	// Off-grid pixel keeps the background.
	if c, _ := bmp.GetPixel(45, 45); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("background pixel (45,45): got %v, want black", c)
	}
}

func TestDrawGraticule_WithCoordinates(t *testing.T) {
	bmp := newFilledBitmap(720, 360, color.RGBA{128, 128, 128, 255})

	if err := DrawGraticule(bmp, 45, true, color.RGBA{255, 0, 0, 255}); err != nil {
		t.Fatalf("DrawGraticule failed: %v", err)
	}

	// A label box starts just right of the lon -180 / lat 45 intersection.
	hasWhite := false
	for y := 92; y < 99; y++ {
		for x := 2; x < 30; x++ {
			if c, _ := bmp.GetPixel(x, y); c.R == 255 && c.G == 255 {
				hasWhite = true
			}
		}
	}
	if !hasWhite {
		t.Error("expected label text near (2,92)")
	}
}

func TestDrawGraticule_InvalidSpacing(t *testing.T) {
	bmp := NewBitmap(10, 5)
	for _, spacing := range []float64{0, -10, 200} {
		if err := DrawGraticule(bmp, spacing, false, color.RGBA{}); err == nil {
			t.Errorf("DrawGraticule(%g) should fail", spacing)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		wantR   uint8
		wantG   uint8
		wantB   uint8
		wantA   uint8
		wantErr bool
	}{
		{"#FF0000", 255, 0, 0, 255, false},
		{"#00FF00", 0, 255, 0, 255, false},
		{"#0000FF", 0, 0, 255, 255, false},
		{"#FFFFFF", 255, 255, 255, 255, false},
		{"#000000", 0, 0, 0, 255, false},
		{"FF0000", 255, 0, 0, 255, false},    // without #
		{"#FF000080", 255, 0, 0, 128, false}, // with alpha
		{"FF000080", 255, 0, 0, 128, false},  // without # with alpha
		{"", 0, 0, 0, 0, true},               // empty
		{"#FFF", 0, 0, 0, 0, true},           // invalid length
		{"#GGGGGG", 0, 0, 0, 0, true},        // invalid hex
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ParseHexColor(tt.hex)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB || c.A != tt.wantA {
				t.Errorf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					c.R, c.G, c.B, c.A, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestDrawLabel(t *testing.T) {
	bmp := NewBitmap(100, 100)

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	DrawLabel(bmp, 10, 10, "-45,#3", fg, bg)

	hasWhite := false
	hasBackground := false
	for y := 9; y < 20; y++ {
		for x := 9; x < 40; x++ {
			c, _ := bmp.GetPixel(x, y)
			if c.R == 255 {
				hasWhite = true
			}
			if c.R == 0 && c.A == 180 {
				hasBackground = true
			}
		}
	}

	if !hasWhite {
		t.Error("label should have white pixels (text)")
	}
	if !hasBackground {
		t.Error("label should have background pixels")
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	bmp := NewBitmap(20, 20)

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}

	// These should not panic even if label extends past bounds
	DrawLabel(bmp, 15, 15, "100,100", fg, bg)
	DrawLabel(bmp, 0, 0, "0,0", fg, bg)
	DrawLabel(bmp, -5, -5, "test", fg, bg)
	DrawLabel(bmp, 10, 10, "", fg, bg)
}
