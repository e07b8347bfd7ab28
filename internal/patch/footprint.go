package patch

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/sphere"
	"gonum.org/v1/gonum/spatial/r2"
)

// footprintSubsteps is the number of border samples traced per destination
// pixel, enough to keep outlines connected near the poles.
const footprintSubsteps = 4

// FootprintOverlay returns a copy of the panorama with the outline of every
// patch in imageIDs drawn in lineColor and its image id printed at the patch
// center. A fully transparent lineColor gives each patch its own color from
// imaging.DistinctColors. Ids without a rotation are skipped. The outline follows the true
// pinhole projection, so it shows exactly which panorama pixels feed each
// patch, including those that wrap across the seam.
func FootprintOverlay(sphereCam camera.Camera, sphereBmp *imaging.Bitmap, pinholeCam camera.Camera,
	imageIDs []int, rotations map[int]sphere.Rotation, lineColor color.RGBA) (*imaging.Bitmap, error) {

	if err := sphere.RequireSphere(sphereCam); err != nil {
		return nil, fmt.Errorf("sphere camera: %w", err)
	}
	if err := sphere.RequirePinhole(pinholeCam); err != nil {
		return nil, fmt.Errorf("pinhole camera: %w", err)
	}
	if sphereBmp == nil {
		return nil, fmt.Errorf("%w: nil sphere bitmap", sphere.ErrInvalidParameter)
	}

	out := sphereBmp.Resize(sphereCam.Width, sphereCam.Height)
	f := pinholeCam.FocalLength()
	cx, cy := pinholeCam.PrincipalPoint()
	w, h := float64(pinholeCam.Width), float64(pinholeCam.Height)

	palette := imaging.DistinctColors(len(imageIDs))

	plot := func(rot sphere.Rotation, px, py float64, c color.RGBA) {
		v := sphere.NormalizedPointToBearingVector(r2.Vec{X: (px - cx) / f, Y: (py - cy) / f})
		x, y := sphere.ProjectToSphere(sphereCam.Width, sphereCam.Height, rot.Apply(v))
		if math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		col := int(math.Floor(x)) % sphereCam.Width
		if col < 0 {
			col += sphereCam.Width
		}
		out.SetPixel(col, int(math.Floor(y)), c)
	}

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 200}
	for i, id := range imageIDs {
		rot, ok := rotations[id]
		if !ok {
			Debugf("patch: footprint skips image %d without rotation", id)
			continue
		}
		if err := rot.Validate(); err != nil {
			return nil, fmt.Errorf("rotation for image %d: %w", id, err)
		}

		c := lineColor
		if c.A == 0 {
			c = palette[i]
		}

		nx := pinholeCam.Width * footprintSubsteps
		ny := pinholeCam.Height * footprintSubsteps
		for k := 0; k <= nx; k++ {
			px := w * float64(k) / float64(nx)
			plot(rot, px, 0, c)
			plot(rot, px, h, c)
		}
		for j := 0; j <= ny; j++ {
			py := h * float64(j) / float64(ny)
			plot(rot, 0, py, c)
			plot(rot, w, py, c)
		}

		// Label at the principal point.
		x, y := sphere.ProjectToSphere(sphereCam.Width, sphereCam.Height, rot.OpticalAxis())
		imaging.DrawLabel(out, int(x)+2, int(y)+2, strconv.Itoa(id), fg, bg)
	}
	return out, nil
}
