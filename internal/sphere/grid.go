package sphere

import (
	"fmt"
	"math"
)

// View is a named patch direction: the optical axis points at (Lon, Lat) and
// the image is turned by Roll about it. All angles are in degrees.
type View struct {
	ID   int     `json:"id" yaml:"id"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Roll float64 `json:"roll,omitempty" yaml:"roll,omitempty"`
}

// Rotation returns the tangent-plane rotation of the view.
func (v View) Rotation() Rotation {
	return GetTangentPlaneRotation(v.Lon, v.Lat, v.Roll)
}

// CubeViews returns the six cubemap faces as views whose IDs are the
// CubeFace indices. Their rotations equal GetCubicRotations up to rounding.
func CubeViews() []View {
	views := make([]View, 0, 6)
	for f := FaceFront; f <= FaceDown; f++ {
		d := f.Direction()
		views = append(views, View{ID: int(f), Lon: d.Lon, Lat: d.Lat})
	}
	return views
}

// GridViews plans rings of views that cover the sphere with square patches of
// the given field of view, overlapping neighbours by overlapPercent.
//
// The angular step between patch centers is fov * (1 - overlap). Rings are
// spread evenly between the latitudes where a patch touches a pole; each ring
// holds enough columns to cover its circumference at the latitude closest to
// the equator. IDs are assigned row-major from the top ring, west to east.
func GridViews(fov, overlapPercent float64) ([]View, error) {
	if !(fov > 0 && fov < 180) {
		return nil, fmt.Errorf("%w: field of view %g must be in (0, 180) degrees", ErrInvalidParameter, fov)
	}
	if overlapPercent < 0 || overlapPercent >= 100 {
		return nil, fmt.Errorf("%w: overlap %g must be in [0, 100)", ErrInvalidParameter, overlapPercent)
	}
	step := fov * (1 - overlapPercent/100)

	// Latitude span that ring centers must cover so the outer rings reach the poles.
	span := 180 - fov
	rows := int(math.Ceil(span/step)) + 1

	var views []View
	for row := 0; row < rows; row++ {
		lat := span/2 - span*float64(row)/float64(rows-1)

		// Widest circle a patch of this ring must span.
		edge := math.Max(0, math.Abs(lat)-fov/2)
		cols := int(math.Ceil(360 * math.Cos(edge*degToRad) / step))
		if cols < 1 {
			cols = 1
		}
		for col := 0; col < cols; col++ {
			lon := WrapLongitude(-180 + (float64(col)+0.5)*360/float64(cols))
			views = append(views, View{ID: len(views), Lon: lon, Lat: lat})
		}
	}
	return views, nil
}

// ViewRotations keys each view's rotation by its ID.
func ViewRotations(views []View) (map[int]Rotation, []int) {
	rotations := make(map[int]Rotation, len(views))
	ids := make([]int, 0, len(views))
	for _, v := range views {
		rotations[v.ID] = v.Rotation()
		ids = append(ids, v.ID)
	}
	return rotations, ids
}
