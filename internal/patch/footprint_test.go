package patch

import (
	"image/color"
	"testing"

	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/sphere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countColor(bmp *imaging.Bitmap, c color.RGBA) int {
	n := 0
	for y := 0; y < bmp.Height(); y++ {
		for x := 0; x < bmp.Width(); x++ {
			if p, _ := bmp.GetPixel(x, y); p == c {
				n++
			}
		}
	}
	return n
}

// hasColorNear reports whether c appears in the 3x3 block around (x, y).
func hasColorNear(bmp *imaging.Bitmap, x, y int, c color.RGBA) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if p, ok := bmp.GetPixel(x+dx, y+dy); ok && p == c {
				return true
			}
		}
	}
	return false
}

func TestFootprintOverlay_DrawsOutline(t *testing.T) {
	sphereCam, err := sphere.SphereCamera(360, 180)
	require.NoError(t, err)
	pano := imaging.NewBitmap(360, 180)
	pano.Fill(color.RGBA{40, 40, 40, 255})
	pinholeCam, err := sphere.PinholeCamera(90, 90, 90)
	require.NoError(t, err)
	red := color.RGBA{255, 0, 0, 255}

	out, err := FootprintOverlay(sphereCam, pano, pinholeCam, []int{0}, sphere.GetCubicRotations(), red)
	require.NoError(t, err)

	// The front face spans lon [-45, 45] on the equator.
	assert.True(t, hasColorNear(out, 135, 90, red), "left edge missing")
	assert.True(t, hasColorNear(out, 225, 90, red), "right edge missing")
	// Top edge crosses the central meridian at lat 45.
	assert.True(t, hasColorNear(out, 180, 45, red), "top edge missing")

	inside, _ := out.GetPixel(160, 60)
	assert.Equal(t, color.RGBA{40, 40, 40, 255}, inside)

	// The source is untouched.
	assert.Zero(t, countColor(pano, red))
}

func TestFootprintOverlay_WrapsSeam(t *testing.T) {
	sphereCam, err := sphere.SphereCamera(360, 180)
	require.NoError(t, err)
	pano := imaging.NewBitmap(360, 180)
	pinholeCam, err := sphere.PinholeCamera(60, 60, 60)
	require.NoError(t, err)
	blue := color.RGBA{0, 0, 255, 255}

	out, err := FootprintOverlay(sphereCam, pano, pinholeCam, []int{9}, map[int]sphere.Rotation{9: sphere.GetTangentPlaneRotation(180, 0, 0)}, blue)
	require.NoError(t, err)

	// Outline edges at lon 150 and -150 land on both sides of the image.
	assert.True(t, hasColorNear(out, 330, 90, blue), "west edge missing")
	assert.True(t, hasColorNear(out, 30, 90, blue), "east edge missing")
}

func TestFootprintOverlay_SkipsMissingAndRejectsInvalid(t *testing.T) {
	sphereCam, err := sphere.SphereCamera(36, 18)
	require.NoError(t, err)
	pano := imaging.NewBitmap(36, 18)
	pinholeCam, err := sphere.PinholeCamera(10, 10, 60)
	require.NoError(t, err)
	green := color.RGBA{0, 255, 0, 255}

	out, err := FootprintOverlay(sphereCam, pano, pinholeCam, []int{3}, map[int]sphere.Rotation{}, green)
	require.NoError(t, err)
	assert.Zero(t, countColor(out, green))

	bad := sphere.Identity
	bad[0] = 0
	_, err = FootprintOverlay(sphereCam, pano, pinholeCam, []int{1}, map[int]sphere.Rotation{1: bad}, green)
	assert.ErrorIs(t, err, sphere.ErrInvalidParameter)

	_, err = FootprintOverlay(sphereCam, nil, pinholeCam, nil, nil, green)
	assert.ErrorIs(t, err, sphere.ErrInvalidParameter)

	_, err = FootprintOverlay(pinholeCam, pano, pinholeCam, nil, nil, green)
	assert.ErrorIs(t, err, sphere.ErrInvalidParameter)
}

func TestFootprintOverlay_DistinctColorsWhenTransparent(t *testing.T) {
	sphereCam, err := sphere.SphereCamera(360, 180)
	require.NoError(t, err)
	pano := imaging.NewBitmap(360, 180)
	pinholeCam, err := sphere.PinholeCamera(90, 90, 90)
	require.NoError(t, err)

	out, err := FootprintOverlay(sphereCam, pano, pinholeCam, []int{0, 2}, sphere.GetCubicRotations(), color.RGBA{})
	require.NoError(t, err)

	palette := imaging.DistinctColors(2)
	require.NotEqual(t, palette[0], palette[1])
	// Front face left edge at lon -45, back face left edge at lon 135.
	assert.True(t, hasColorNear(out, 135, 90, palette[0]), "front outline missing")
	assert.True(t, hasColorNear(out, 315, 90, palette[1]), "back outline missing")
}
