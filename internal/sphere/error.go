package sphere

import (
	"fmt"
	"math"
)

// PriorFocalLengthFactor scales max(width, height) into the focal length the
// reconstruction pipeline assumes for an uncalibrated pinhole image.
const PriorFocalLengthFactor = 1.2

func checkErrorArgs(width, height int, e float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidParameter, width, height)
	}
	if e < 0 || math.IsNaN(e) || math.IsInf(e, 0) {
		return fmt.Errorf("%w: error bound %g must be finite and non-negative", ErrInvalidParameter, e)
	}
	return nil
}

// priorFocalLength is the focal length of the pinhole model implied by an
// image of the given size.
func priorFocalLength(width, height int) float64 {
	return PriorFocalLengthFactor * float64(max(width, height))
}

// pixelAngle is the mean angular size, in radians, of one equirectangular
// pixel: 2*pi across the width and pi across the height.
func pixelAngle(width, height int) float64 {
	return 0.5 * (2*math.Pi/float64(width) + math.Pi/float64(height))
}

// ImagePlaneToCameraPlaneError normalizes a pixel error bound to the camera
// plane of the pinhole model implied by a width x height image.
func ImagePlaneToCameraPlaneError(width, height int, imageError float64) (float64, error) {
	if err := checkErrorArgs(width, height, imageError); err != nil {
		return 0, err
	}
	return imageError / priorFocalLength(width, height), nil
}

// CameraPlaneToImagePlaneError converts a camera-plane error bound back to
// pixels.
func CameraPlaneToImagePlaneError(width, height int, cameraError float64) (float64, error) {
	if err := checkErrorArgs(width, height, cameraError); err != nil {
		return 0, err
	}
	return cameraError * priorFocalLength(width, height), nil
}

// ImagePlaneToSpherePlaneError converts a pixel error bound on a width x height
// equirectangular panorama to an angular bound in radians.
func ImagePlaneToSpherePlaneError(width, height int, imageError float64) (float64, error) {
	if err := checkErrorArgs(width, height, imageError); err != nil {
		return 0, err
	}
	return imageError * pixelAngle(width, height), nil
}

// SpherePlaneToImagePlaneError converts an angular error bound in radians back
// to panorama pixels.
func SpherePlaneToImagePlaneError(width, height int, sphereError float64) (float64, error) {
	if err := checkErrorArgs(width, height, sphereError); err != nil {
		return 0, err
	}
	return sphereError / pixelAngle(width, height), nil
}

// Plane names a space an error bound can be expressed in.
type Plane string

const (
	// PlaneImage is pixels.
	PlaneImage Plane = "image"

	// PlaneCamera is the normalized camera plane of the implied pinhole.
	PlaneCamera Plane = "camera"

	// PlaneSphere is radians on the unit sphere.
	PlaneSphere Plane = "sphere"
)

// ParsePlane accepts "image", "camera" or "sphere".
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(s); p {
	case PlaneImage, PlaneCamera, PlaneSphere:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown plane %q", ErrInvalidParameter, s)
	}
}

// ConvertError moves an error bound between any two planes, passing through
// pixels when neither end is the image plane.
func ConvertError(width, height int, value float64, from, to Plane) (float64, error) {
	var px float64
	var err error
	switch from {
	case PlaneImage:
		px, err = value, checkErrorArgs(width, height, value)
	case PlaneCamera:
		px, err = CameraPlaneToImagePlaneError(width, height, value)
	case PlaneSphere:
		px, err = SpherePlaneToImagePlaneError(width, height, value)
	default:
		return 0, fmt.Errorf("%w: unknown plane %q", ErrInvalidParameter, from)
	}
	if err != nil {
		return 0, err
	}

	switch to {
	case PlaneImage:
		return px, nil
	case PlaneCamera:
		return ImagePlaneToCameraPlaneError(width, height, px)
	case PlaneSphere:
		return ImagePlaneToSpherePlaneError(width, height, px)
	default:
		return 0, fmt.Errorf("%w: unknown plane %q", ErrInvalidParameter, to)
	}
}
