package sphere

import (
	"fmt"
	"math"

	"github.com/ironsheep/panopatch/internal/camera"
	"gonum.org/v1/gonum/spatial/r3"
)

// LonLatToSphereImage returns the equirectangular image coordinates of ll on a
// width x height panorama. Pixel (i, j) is centered at (i+0.5, j+0.5).
func LonLatToSphereImage(width, height int, ll LonLat) (float64, float64) {
	x := (ll.Lon/360 + 0.5) * float64(width)
	y := (0.5 - ll.Lat/180) * float64(height)
	return x, y
}

// SphereImageToLonLat is the inverse of LonLatToSphereImage. Longitude is
// wrapped so any column maps to [-180, 180); latitude is not clamped.
func SphereImageToLonLat(width, height int, x, y float64) LonLat {
	return LonLat{
		Lon: WrapLongitude((x/float64(width) - 0.5) * 360),
		Lat: (0.5 - y/float64(height)) * 180,
	}
}

// ProjectToSphere maps a ray in the panorama frame to equirectangular image
// coordinates. A zero vector yields NaN coordinates.
func ProjectToSphere(width, height int, v r3.Vec) (float64, float64) {
	n := r3.Norm(v)
	if !(n > normEpsilon) {
		return math.NaN(), math.NaN()
	}
	return LonLatToSphereImage(width, height, bearingToLonLat(r3.Scale(1/n, v)))
}

// BearingToSphereImage maps a bearing vector to image coordinates of a sphere
// camera.
func BearingToSphereImage(cam camera.Camera, v r3.Vec) (float64, float64, error) {
	if err := RequireSphere(cam); err != nil {
		return 0, 0, err
	}
	ll, err := BearingVectorToLonLat(v)
	if err != nil {
		return 0, 0, err
	}
	x, y := LonLatToSphereImage(cam.Width, cam.Height, ll)
	return x, y, nil
}

// SphereImageToBearing maps image coordinates of a sphere camera to a unit
// bearing vector.
func SphereImageToBearing(cam camera.Camera, x, y float64) (r3.Vec, error) {
	if err := RequireSphere(cam); err != nil {
		return r3.Vec{}, err
	}
	return LonLatToBearingVector(SphereImageToLonLat(cam.Width, cam.Height, x, y)), nil
}

// RequireSphere returns an error wrapping ErrInvalidParameter unless cam is a
// valid sphere camera.
func RequireSphere(cam camera.Camera) error {
	if err := cam.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if !cam.IsSphere() {
		return fmt.Errorf("%w: expected a %s camera, got %s", ErrInvalidParameter, camera.Sphere, cam.Model)
	}
	return nil
}

// RequirePinhole returns an error wrapping ErrInvalidParameter unless cam is a
// valid pinhole camera.
func RequirePinhole(cam camera.Camera) error {
	if err := cam.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if !cam.IsPinhole() {
		return fmt.Errorf("%w: expected a %s camera, got %s", ErrInvalidParameter, camera.SimplePinhole, cam.Model)
	}
	return nil
}
