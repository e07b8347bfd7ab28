package sphere

import (
	"fmt"
	"math"

	"github.com/ironsheep/panopatch/internal/camera"
)

// DefaultFieldOfView is the vertical field of view, in degrees, used for
// synthesized pinhole cameras when the caller has no preference.
const DefaultFieldOfView = 45.0

// PinholeFocalLength returns the focal length in pixels of a pinhole camera
// whose vertical field of view spans fov degrees over height pixels:
//
//	f = (height / 2) / tan(fov / 2)
func PinholeFocalLength(height int, fov float64) (float64, error) {
	if height <= 0 {
		return 0, fmt.Errorf("%w: height %d must be positive", ErrInvalidParameter, height)
	}
	if !(fov > 0 && fov < 180) {
		return 0, fmt.Errorf("%w: field of view %g must be in (0, 180) degrees", ErrInvalidParameter, fov)
	}
	return 0.5 * float64(height) / math.Tan(0.5*fov*degToRad), nil
}

// PinholeCamera builds a SIMPLE_PINHOLE camera with its principal point at the
// image center and a focal length derived from the vertical field of view.
func PinholeCamera(width, height int, fov float64) (camera.Camera, error) {
	if width <= 0 {
		return camera.Camera{}, fmt.Errorf("%w: width %d must be positive", ErrInvalidParameter, width)
	}
	f, err := PinholeFocalLength(height, fov)
	if err != nil {
		return camera.Camera{}, err
	}
	return camera.Camera{
		Model:  camera.SimplePinhole,
		Width:  width,
		Height: height,
		Params: []float64{f, float64(width) / 2, float64(height) / 2},
	}, nil
}

// SphereCamera builds a full 360x180 degree equirectangular camera.
func SphereCamera(width, height int) (camera.Camera, error) {
	if width <= 0 || height <= 0 {
		return camera.Camera{}, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidParameter, width, height)
	}
	return camera.Camera{Model: camera.Sphere, Width: width, Height: height}, nil
}
