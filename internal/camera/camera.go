// Package camera describes the intrinsic calibration of the two projection
// models the patch pipeline works with: a simple pinhole and a full-sphere
// equirectangular camera.
//
// Image coordinates follow the convention of the downstream reconstruction
// pipeline: the center of pixel (i, j) sits at (i+0.5, j+0.5), so the principal
// point of a centered pinhole camera is (W/2, H/2).
package camera

import (
	"errors"
	"fmt"
	"math"
)

// Model identifies a projection model.
type Model string

const (
	// SimplePinhole has one shared focal length and a principal point:
	// Params = [f, cx, cy].
	SimplePinhole Model = "SIMPLE_PINHOLE"

	// Sphere is a full 360x180 degree equirectangular camera. It has no
	// parameters; the pixel to angle mapping is fixed by its dimensions.
	Sphere Model = "SPHERE"
)

// ErrInvalidCamera is returned when a camera descriptor violates its model's
// invariants.
var ErrInvalidCamera = errors.New("invalid camera")

// Camera is an intrinsic camera descriptor.
type Camera struct {
	Model  Model     `json:"model" yaml:"model"`
	Width  int       `json:"width" yaml:"width"`
	Height int       `json:"height" yaml:"height"`
	Params []float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// NumParams returns the number of intrinsic parameters a model carries.
func NumParams(m Model) int {
	switch m {
	case SimplePinhole:
		return 3
	case Sphere:
		return 0
	default:
		return -1
	}
}

// Validate checks dimensions, parameter count and the focal length.
func (c Camera) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidCamera, c.Width, c.Height)
	}
	n := NumParams(c.Model)
	if n < 0 {
		return fmt.Errorf("%w: unknown model %q", ErrInvalidCamera, c.Model)
	}
	if len(c.Params) != n {
		return fmt.Errorf("%w: model %s expects %d params, got %d", ErrInvalidCamera, c.Model, n, len(c.Params))
	}
	for _, p := range c.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: non-finite parameter", ErrInvalidCamera)
		}
	}
	if c.Model == SimplePinhole && c.Params[0] <= 0 {
		return fmt.Errorf("%w: focal length %g must be positive", ErrInvalidCamera, c.Params[0])
	}
	return nil
}

// IsPinhole reports whether the camera uses a pinhole model.
func (c Camera) IsPinhole() bool { return c.Model == SimplePinhole }

// IsSphere reports whether the camera is equirectangular.
func (c Camera) IsSphere() bool { return c.Model == Sphere }

// FocalLength returns the pinhole focal length in pixels, or 0 for models
// without one.
func (c Camera) FocalLength() float64 {
	if c.Model != SimplePinhole || len(c.Params) < 1 {
		return 0
	}
	return c.Params[0]
}

// PrincipalPoint returns the principal point in image coordinates. Models
// without one report the image center.
func (c Camera) PrincipalPoint() (float64, float64) {
	if c.Model == SimplePinhole && len(c.Params) == 3 {
		return c.Params[1], c.Params[2]
	}
	return float64(c.Width) / 2, float64(c.Height) / 2
}

// ImageToWorld maps image coordinates to the normalized image plane at unit
// depth. Only pinhole cameras define this mapping.
func (c Camera) ImageToWorld(x, y float64) (float64, float64, error) {
	if c.Model != SimplePinhole {
		return 0, 0, fmt.Errorf("%w: ImageToWorld is undefined for model %s", ErrInvalidCamera, c.Model)
	}
	f := c.Params[0]
	return (x - c.Params[1]) / f, (y - c.Params[2]) / f, nil
}

// WorldToImage is the inverse of ImageToWorld.
func (c Camera) WorldToImage(u, v float64) (float64, float64, error) {
	if c.Model != SimplePinhole {
		return 0, 0, fmt.Errorf("%w: WorldToImage is undefined for model %s", ErrInvalidCamera, c.Model)
	}
	f := c.Params[0]
	return u*f + c.Params[1], v*f + c.Params[2], nil
}

// FieldOfView returns the horizontal and vertical field of view of a pinhole
// camera in degrees.
func (c Camera) FieldOfView() (float64, float64) {
	if c.Model == Sphere {
		return 360, 180
	}
	f := c.FocalLength()
	if f <= 0 {
		return 0, 0
	}
	fovx := 2 * math.Atan(float64(c.Width)/(2*f)) * 180 / math.Pi
	fovy := 2 * math.Atan(float64(c.Height)/(2*f)) * 180 / math.Pi
	return fovx, fovy
}

func (c Camera) String() string {
	return fmt.Sprintf("%s %dx%d %v", c.Model, c.Width, c.Height, c.Params)
}
