package patch

import (
	"fmt"
	"math"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/sphere"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// rayFunc returns the camera-frame ray through the center of destination
// pixel (col, row).
type rayFunc func(col, row int) r3.Vec

// SphericalToPatch renders a rectilinear view of the panorama through the
// pinhole camera, oriented by rotation. Each destination pixel is unprojected
// with the camera's own intrinsics, so straight scene lines stay straight.
func SphericalToPatch(sphereCam camera.Camera, sphereBmp *imaging.Bitmap, rotation sphere.Rotation, pinholeCam camera.Camera) (*imaging.Bitmap, error) {
	if err := checkInputs(sphereCam, sphereBmp, rotation, pinholeCam); err != nil {
		return nil, err
	}
	return rasterize(sphereCam, sphereBmp, rotation, pinholeCam, pinholeRays(pinholeCam)), nil
}

// SphericalToTangent renders the panorama onto a gnomonic tangent plane whose
// grid is uniform in angle. It covers the same field of view as the pinhole
// camera and agrees with SphericalToPatch at the patch center, but pixels away
// from the center are spaced evenly in angle instead of evenly on the image
// plane.
func SphericalToTangent(sphereCam camera.Camera, sphereBmp *imaging.Bitmap, rotation sphere.Rotation, pinholeCam camera.Camera) (*imaging.Bitmap, error) {
	if err := checkInputs(sphereCam, sphereBmp, rotation, pinholeCam); err != nil {
		return nil, err
	}
	return rasterize(sphereCam, sphereBmp, rotation, pinholeCam, tangentRays(pinholeCam)), nil
}

func checkInputs(sphereCam camera.Camera, sphereBmp *imaging.Bitmap, rotation sphere.Rotation, pinholeCam camera.Camera) error {
	if err := sphere.RequireSphere(sphereCam); err != nil {
		return fmt.Errorf("sphere camera: %w", err)
	}
	if err := sphere.RequirePinhole(pinholeCam); err != nil {
		return fmt.Errorf("pinhole camera: %w", err)
	}
	if err := rotation.Validate(); err != nil {
		return err
	}
	if sphereBmp == nil {
		return fmt.Errorf("%w: nil sphere bitmap", sphere.ErrInvalidParameter)
	}
	if sphereBmp.Width() != sphereCam.Width || sphereBmp.Height() != sphereCam.Height {
		return fmt.Errorf("%w: sphere bitmap is %dx%d but camera is %dx%d", sphere.ErrInvalidParameter,
			sphereBmp.Width(), sphereBmp.Height(), sphereCam.Width, sphereCam.Height)
	}
	return nil
}

// rasterize is the sampling core shared by both projections: rotate each
// destination ray into the panorama frame, address it in equirectangular
// pixels and sample bilinearly with wraparound at the seam and clamping at the
// poles. Pixels whose ray has no valid sample stay transparent black.
func rasterize(sphereCam camera.Camera, src *imaging.Bitmap, rotation sphere.Rotation, pinholeCam camera.Camera, ray rayFunc) *imaging.Bitmap {
	dst := imaging.NewBitmap(pinholeCam.Width, pinholeCam.Height)
	for row := 0; row < pinholeCam.Height; row++ {
		for col := 0; col < pinholeCam.Width; col++ {
			x, y := sphere.ProjectToSphere(sphereCam.Width, sphereCam.Height, rotation.Apply(ray(col, row)))
			c, ok := src.InterpolateBilinear(x-0.5, y-0.5, imaging.BorderWrapClamp)
			if !ok {
				continue
			}
			dst.SetPixel(col, row, c)
		}
	}
	return dst
}

func pinholeRays(cam camera.Camera) rayFunc {
	f := cam.FocalLength()
	cx, cy := cam.PrincipalPoint()
	return func(col, row int) r3.Vec {
		p := r2.Vec{X: (float64(col) + 0.5 - cx) / f, Y: (float64(row) + 0.5 - cy) / f}
		return sphere.NormalizedPointToBearingVector(p)
	}
}

func tangentRays(cam camera.Camera) rayFunc {
	f := cam.FocalLength()
	w, h := float64(cam.Width), float64(cam.Height)
	fovx := 2 * math.Atan(w/(2*f))
	fovy := 2 * math.Atan(h/(2*f))
	return func(col, row int) r3.Vec {
		tx := ((float64(col)+0.5)/w - 0.5) * fovx
		ty := ((float64(row)+0.5)/h - 0.5) * fovy
		return r3.Unit(r3.Vec{X: math.Tan(tx), Y: math.Tan(ty), Z: 1})
	}
}
