package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a 3x3 rotation matrix stored row-major. It maps rays from a
// virtual pinhole camera frame into the panorama frame.
type Rotation [9]float64

// Identity is the rotation of a camera looking at lon 0, lat 0 with no roll.
var Identity = Rotation{1, 0, 0, 0, 1, 0, 0, 0, 1}

var identity3 = mat.NewDiagDense(3, []float64{1, 1, 1})

// At returns the element at row i, column j.
func (r Rotation) At(i, j int) float64 { return r[3*i+j] }

// Apply rotates v.
func (r Rotation) Apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: r[0]*v.X + r[1]*v.Y + r[2]*v.Z,
		Y: r[3]*v.X + r[4]*v.Y + r[5]*v.Z,
		Z: r[6]*v.X + r[7]*v.Y + r[8]*v.Z,
	}
}

// Mul returns r * o.
func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = r[3*i]*o[j] + r[3*i+1]*o[3+j] + r[3*i+2]*o[6+j]
		}
	}
	return out
}

// Transpose returns the inverse rotation.
func (r Rotation) Transpose() Rotation {
	return Rotation{r[0], r[3], r[6], r[1], r[4], r[7], r[2], r[5], r[8]}
}

// OpticalAxis is the panorama-frame direction of the camera's +Z axis.
func (r Rotation) OpticalAxis() r3.Vec {
	return r3.Vec{X: r[2], Y: r[5], Z: r[8]}
}

// Dense returns a copy of r as a gonum matrix.
func (r Rotation) Dense() *mat.Dense {
	data := r
	return mat.NewDense(3, 3, data[:])
}

// Validate checks that r is finite, orthonormal and right-handed.
func (r Rotation) Validate() error {
	for _, x := range r {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: rotation has non-finite entries", ErrInvalidParameter)
		}
	}
	m := r.Dense()
	var rrt mat.Dense
	rrt.Mul(m, m.T())
	if !mat.EqualApprox(&rrt, identity3, rotationEpsilon) {
		return fmt.Errorf("%w: rotation is not orthonormal", ErrInvalidParameter)
	}
	if d := mat.Det(m); math.Abs(d-1) > rotationEpsilon {
		return fmt.Errorf("%w: rotation determinant is %g, want 1", ErrInvalidParameter, d)
	}
	return nil
}

// RotationFromMatrix copies a 3x3 gonum matrix into a Rotation and validates
// it.
func RotationFromMatrix(m mat.Matrix) (Rotation, error) {
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return Rotation{}, fmt.Errorf("%w: rotation must be 3x3, got %dx%d", ErrInvalidParameter, rows, cols)
	}
	var r Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[3*i+j] = m.At(i, j)
		}
	}
	if err := r.Validate(); err != nil {
		return Rotation{}, err
	}
	return r, nil
}

// rotX turns by deg about +X (elevation).
func rotX(deg float64) Rotation {
	s, c := math.Sincos(deg * degToRad)
	return Rotation{1, 0, 0, 0, c, -s, 0, s, c}
}

// rotY turns by deg about +Y (azimuth).
func rotY(deg float64) Rotation {
	s, c := math.Sincos(deg * degToRad)
	return Rotation{c, 0, s, 0, 1, 0, -s, 0, c}
}

// rotZ turns by deg about +Z (roll).
func rotZ(deg float64) Rotation {
	s, c := math.Sincos(deg * degToRad)
	return Rotation{c, -s, 0, s, c, 0, 0, 0, 1}
}

// GetTangentPlaneRotation returns Ry(lon) * Rx(lat) * Rz(roll), angles in
// degrees. The camera's optical axis maps to LonLatToBearingVector(lon, lat).
func GetTangentPlaneRotation(lon, lat, roll float64) Rotation {
	return rotY(lon).Mul(rotX(lat)).Mul(rotZ(roll))
}

// CubeFace indexes the six faces of a cubemap.
type CubeFace int

const (
	FaceFront CubeFace = iota
	FaceRight
	FaceBack
	FaceLeft
	FaceUp
	FaceDown
)

var cubeFaceNames = [...]string{"front", "right", "back", "left", "up", "down"}

func (f CubeFace) String() string {
	if f < FaceFront || f > FaceDown {
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
	return cubeFaceNames[f]
}

// Direction is the longitude and latitude the face looks at.
func (f CubeFace) Direction() LonLat {
	switch f {
	case FaceRight:
		return LonLat{Lon: 90}
	case FaceBack:
		return LonLat{Lon: 180}
	case FaceLeft:
		return LonLat{Lon: -90}
	case FaceUp:
		return LonLat{Lat: 90}
	case FaceDown:
		return LonLat{Lat: -90}
	default:
		return LonLat{}
	}
}

// cubeRotations are the exact values of GetTangentPlaneRotation for each
// face direction. The up face has the front face below it in the image; the
// down face has the back face below it.
var cubeRotations = [6]Rotation{
	FaceFront: {1, 0, 0, 0, 1, 0, 0, 0, 1},
	FaceRight: {0, 0, 1, 0, 1, 0, -1, 0, 0},
	FaceBack:  {-1, 0, 0, 0, 1, 0, 0, 0, -1},
	FaceLeft:  {0, 0, -1, 0, 1, 0, 1, 0, 0},
	FaceUp:    {1, 0, 0, 0, 0, -1, 0, 1, 0},
	FaceDown:  {1, 0, 0, 0, 0, 1, 0, -1, 0},
}

// GetCubicRotations returns the six cubemap rotations keyed by CubeFace index.
// With a 90 degree square pinhole camera the faces tile the whole sphere and
// only share their border rays.
func GetCubicRotations() map[int]Rotation {
	out := make(map[int]Rotation, len(cubeRotations))
	for i, r := range cubeRotations {
		out[i] = r
	}
	return out
}
