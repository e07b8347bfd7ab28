package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DistanceResult describes the separation of two points on an
// equirectangular panorama.
type DistanceResult struct {
	From LonLat `json:"from"`
	To   LonLat `json:"to"`

	// AngleDegrees and AngleRadians are the great-circle angle between the
	// two directions.
	AngleDegrees float64 `json:"angle_degrees"`
	AngleRadians float64 `json:"angle_radians"`

	// HeadingDegrees is the initial heading from From towards To in [0, 360),
	// 0 pointing up (north) and 90 to the right (east).
	HeadingDegrees float64 `json:"heading_degrees"`

	// DeltaX is the shortest signed column offset, crossing the seam when that
	// is shorter. DeltaY is the row offset.
	DeltaX float64 `json:"delta_x"`
	DeltaY float64 `json:"delta_y"`
}

// MeasureDistance measures the angle between image points (x1, y1) and
// (x2, y2) of a width x height panorama. Columns wrap; rows must lie in
// [0, height].
func MeasureDistance(width, height int, x1, y1, x2, y2 float64) (*DistanceResult, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidParameter, width, height)
	}
	for _, y := range []float64{y1, y2} {
		if !(y >= 0 && y <= float64(height)) {
			return nil, fmt.Errorf("%w: row %g outside [0, %d]", ErrInvalidParameter, y, height)
		}
	}
	if math.IsNaN(x1) || math.IsNaN(x2) || math.IsInf(x1, 0) || math.IsInf(x2, 0) {
		return nil, fmt.Errorf("%w: columns must be finite", ErrInvalidParameter)
	}

	from := SphereImageToLonLat(width, height, x1, y1)
	to := SphereImageToLonLat(width, height, x2, y2)
	a := LonLatToBearingVector(from)
	b := LonLatToBearingVector(to)
	angle := math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b))

	dx := math.Mod(x2-x1, float64(width))
	if dx > float64(width)/2 {
		dx -= float64(width)
	} else if dx < -float64(width)/2 {
		dx += float64(width)
	}

	return &DistanceResult{
		From:           from,
		To:             to,
		AngleDegrees:   angle * radToDeg,
		AngleRadians:   angle,
		HeadingDegrees: initialHeading(from, to),
		DeltaX:         dx,
		DeltaY:         y2 - y1,
	}, nil
}

func initialHeading(from, to LonLat) float64 {
	phi1, phi2 := from.Lat*degToRad, to.Lat*degToRad
	dLon := (to.Lon - from.Lon) * degToRad
	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	if math.Abs(x) < 1e-15 && math.Abs(y) < 1e-15 {
		return 0
	}
	h := math.Mod(math.Atan2(y, x)*radToDeg, 360)
	if h < 0 {
		h += 360
	}
	return h
}
