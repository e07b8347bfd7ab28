package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// LonLat is a direction on the sphere in degrees.
type LonLat struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// WrapLongitude maps any longitude in degrees into [-180, 180).
func WrapLongitude(lon float64) float64 {
	r := math.Mod(lon+180, 360)
	if r < 0 {
		r += 360
	}
	r -= 180
	if r >= 180 {
		r -= 360
	}
	return r
}

// NormalizedPointToBearingVector appends unit depth to p and normalizes.
func NormalizedPointToBearingVector(p r2.Vec) r3.Vec {
	return r3.Unit(r3.Vec{X: p.X, Y: p.Y, Z: 1})
}

// NormalizedPointsToBearingVectors converts points element-wise.
func NormalizedPointsToBearingVectors(points []r2.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = NormalizedPointToBearingVector(p)
	}
	return out
}

// BearingVectorToNormalizedPoint projects v onto the Z = 1 plane. v need not
// be unit length, but it must point in front of the camera.
func BearingVectorToNormalizedPoint(v r3.Vec) (r2.Vec, error) {
	n := r3.Norm(v)
	if !(n > normEpsilon) || math.IsInf(n, 0) {
		return r2.Vec{}, fmt.Errorf("%w: bearing vector %v has no direction", ErrInvalidParameter, v)
	}
	if v.Z <= normEpsilon*n {
		return r2.Vec{}, fmt.Errorf("%w: bearing vector %v does not point in front of the image plane", ErrInvalidParameter, v)
	}
	return r2.Vec{X: v.X / v.Z, Y: v.Y / v.Z}, nil
}

// BearingVectorsToNormalizedPoints converts vectors element-wise. The first
// degenerate vector aborts the conversion.
func BearingVectorsToNormalizedPoints(vectors []r3.Vec) ([]r2.Vec, error) {
	out := make([]r2.Vec, len(vectors))
	for i, v := range vectors {
		p, err := BearingVectorToNormalizedPoint(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// BearingVectorToLonLat returns the longitude and latitude of v. At the poles
// longitude is undefined and reported as 0.
func BearingVectorToLonLat(v r3.Vec) (LonLat, error) {
	n := r3.Norm(v)
	if !(n > normEpsilon) || math.IsInf(n, 0) {
		return LonLat{}, fmt.Errorf("%w: bearing vector %v has no direction", ErrInvalidParameter, v)
	}
	return bearingToLonLat(r3.Scale(1/n, v)), nil
}

// bearingToLonLat expects a unit vector.
func bearingToLonLat(u r3.Vec) LonLat {
	lat := math.Asin(math.Max(-1, math.Min(1, -u.Y))) * radToDeg
	lon := 0.0
	if math.Hypot(u.X, u.Z) > normEpsilon {
		lon = WrapLongitude(math.Atan2(u.X, u.Z) * radToDeg)
	}
	return LonLat{Lon: lon, Lat: lat}
}

// LonLatToBearingVector returns the unit vector pointing at ll.
func LonLatToBearingVector(ll LonLat) r3.Vec {
	lon := ll.Lon * degToRad
	lat := ll.Lat * degToRad
	cosLat := math.Cos(lat)
	return r3.Vec{
		X: cosLat * math.Sin(lon),
		Y: -math.Sin(lat),
		Z: cosLat * math.Cos(lon),
	}
}

// NormalizedPointToLonLat composes NormalizedPointToBearingVector with
// BearingVectorToLonLat.
func NormalizedPointToLonLat(p r2.Vec) LonLat {
	return bearingToLonLat(NormalizedPointToBearingVector(p))
}

// NormalizedPointsToLonLats converts points element-wise.
func NormalizedPointsToLonLats(points []r2.Vec) []LonLat {
	out := make([]LonLat, len(points))
	for i, p := range points {
		out[i] = NormalizedPointToLonLat(p)
	}
	return out
}

// LonLatToNormalizedPoint is the inverse of NormalizedPointToLonLat. It fails
// for directions at or behind the camera's image plane (|lon| >= 90 or the
// poles).
func LonLatToNormalizedPoint(ll LonLat) (r2.Vec, error) {
	return BearingVectorToNormalizedPoint(LonLatToBearingVector(ll))
}
