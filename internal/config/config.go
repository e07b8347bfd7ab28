// Package config loads patch-set job files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/patch"
	"github.com/ironsheep/panopatch/internal/sphere"
	"gopkg.in/yaml.v3"
)

// Layouts accepted in Job.Layout.
const (
	LayoutCube  = "cube"
	LayoutGrid  = "grid"
	LayoutViews = "views"
)

// SphereConfig is optional: the resolution the panorama is resampled to
// before patches are cut. Zero values keep the image's own size.
type SphereConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PatchConfig describes the synthesized pinhole camera.
type PatchConfig struct {
	Width      int     `yaml:"width"`      // pixels
	Height     int     `yaml:"height"`     // pixels
	FovDeg     float64 `yaml:"fov_deg"`    // vertical field of view
	Projection string  `yaml:"projection"` // "tangent" or "perspective"
}

// GridConfig tunes the "grid" layout.
type GridConfig struct {
	OverlapPercent float64 `yaml:"overlap_percent"` // overlap between neighbouring patches (0-100)
}

// ViewConfig is one explicit patch direction for the "views" layout.
type ViewConfig struct {
	ID         int     `yaml:"id" json:"id"`
	Lon        float64 `yaml:"lon" json:"lon"`
	Lat        float64 `yaml:"lat" json:"lat"`
	Roll       float64 `yaml:"roll" json:"roll,omitempty"`
	Projection string  `yaml:"projection,omitempty" json:"projection,omitempty"` // overrides patch.projection
}

// OutputConfig controls how patches are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Ext         string `yaml:"ext"`          // empty keeps the panorama's extension
	JPEGQuality int    `yaml:"jpeg_quality"` // 1-100, 0 = default
}

// Job is one patch-set run.
type Job struct {
	Panorama string        `yaml:"panorama"`
	Sphere   *SphereConfig `yaml:"sphere,omitempty"` // optional
	Patch    PatchConfig   `yaml:"patch"`
	Layout   string        `yaml:"layout"`
	Grid     GridConfig    `yaml:"grid"`
	Views    []ViewConfig  `yaml:"views"`
	Output   OutputConfig  `yaml:"output"`
	Workers  int           `yaml:"workers"` // 0 = one per CPU
}

// Load reads a YAML job file, applies defaults and validates it.
func Load(path string) (*Job, error) {
	job, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := job.Normalize(); err != nil {
		return nil, err
	}
	return job, nil
}

// Read decodes a YAML job file as written, without defaults. Callers that
// override fields afterwards must call Normalize.
func Read(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return decode(data)
}

// Parse decodes a YAML job, applies defaults and validates it.
func Parse(data []byte) (*Job, error) {
	job, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := job.Normalize(); err != nil {
		return nil, err
	}
	return job, nil
}

func decode(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return &job, nil
}

// Normalize applies defaults and validates j in place. Parse calls it; jobs
// built in code must call it before use.
func (j *Job) Normalize() error {
	if j.Panorama == "" {
		return fmt.Errorf("panorama is required")
	}
	if j.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	if j.Patch.Width < 0 || j.Patch.Height < 0 {
		return fmt.Errorf("%w: patch size %dx%d must not be negative", sphere.ErrInvalidParameter, j.Patch.Width, j.Patch.Height)
	}
	if j.Patch.Width == 0 {
		j.Patch.Width = 1024 // default
	}
	if j.Patch.Height == 0 {
		j.Patch.Height = j.Patch.Width
	}
	if _, err := patch.ParseProjection(j.Patch.Projection); err != nil {
		return fmt.Errorf("patch.projection: %w", err)
	}

	j.Layout = strings.ToLower(j.Layout)
	switch j.Layout {
	case "":
		if len(j.Views) > 0 {
			j.Layout = LayoutViews
		} else {
			j.Layout = LayoutCube
		}
	case LayoutCube, LayoutGrid, LayoutViews:
	default:
		return fmt.Errorf("layout must be cube, grid or views, got %q", j.Layout)
	}

	if j.Patch.FovDeg == 0 {
		j.Patch.FovDeg = sphere.DefaultFieldOfView
		if j.Layout == LayoutCube {
			j.Patch.FovDeg = 90
		}
	}
	if j.Patch.FovDeg < 0 || j.Patch.FovDeg >= 180 {
		return fmt.Errorf("patch.fov_deg must be in (0, 180), got %.2f", j.Patch.FovDeg)
	}

	if j.Layout == LayoutCube && j.Patch.FovDeg != 90 {
		// Cube faces only tile the sphere at 90 degrees.
		return fmt.Errorf("layout cube needs patch.fov_deg 90, got %.2f", j.Patch.FovDeg)
	}
	if j.Layout == LayoutCube && j.Patch.Width != j.Patch.Height {
		return fmt.Errorf("layout cube needs square patches, got %dx%d", j.Patch.Width, j.Patch.Height)
	}

	if j.Grid.OverlapPercent < 0 || j.Grid.OverlapPercent >= 100 {
		return fmt.Errorf("grid.overlap_percent must be in [0, 100), got %.2f", j.Grid.OverlapPercent)
	}
	if j.Grid.OverlapPercent == 0 {
		j.Grid.OverlapPercent = 20 // default (20%)
	}

	if j.Layout == LayoutViews {
		if len(j.Views) == 0 {
			return fmt.Errorf("layout views needs at least one view")
		}
		seen := make(map[int]bool, len(j.Views))
		for _, v := range j.Views {
			if seen[v.ID] {
				return fmt.Errorf("view id %d is listed twice", v.ID)
			}
			seen[v.ID] = true
			if v.Lat < -90 || v.Lat > 90 {
				return fmt.Errorf("view %d: lat must be in [-90, 90], got %.2f", v.ID, v.Lat)
			}
			if _, err := patch.ParseProjection(v.Projection); err != nil {
				return fmt.Errorf("view %d projection: %w", v.ID, err)
			}
		}
	}

	if j.Sphere != nil && (j.Sphere.Width < 0 || j.Sphere.Height < 0) {
		return fmt.Errorf("sphere dimensions must not be negative")
	}
	if j.Output.JPEGQuality < 0 || j.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be in [0, 100], got %d", j.Output.JPEGQuality)
	}
	if j.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", j.Workers)
	}
	return nil
}

// PatchCamera returns the pinhole camera every patch is rendered through.
func (j *Job) PatchCamera() (camera.Camera, error) {
	return sphere.PinholeCamera(j.Patch.Width, j.Patch.Height, j.Patch.FovDeg)
}

// SphereCamera returns the sphere camera for a panorama of the given size,
// honouring the optional sphere override.
func (j *Job) SphereCamera(imageWidth, imageHeight int) (camera.Camera, error) {
	w, h := imageWidth, imageHeight
	if j.Sphere != nil {
		if j.Sphere.Width > 0 {
			w = j.Sphere.Width
		}
		if j.Sphere.Height > 0 {
			h = j.Sphere.Height
		}
	}
	return sphere.SphereCamera(w, h)
}

// PlanViews expands the layout into patch directions.
func (j *Job) PlanViews() ([]sphere.View, error) {
	switch j.Layout {
	case LayoutGrid:
		return sphere.GridViews(j.Patch.FovDeg, j.Grid.OverlapPercent)
	case LayoutViews:
		views := make([]sphere.View, len(j.Views))
		for i, v := range j.Views {
			views[i] = sphere.View{ID: v.ID, Lon: v.Lon, Lat: v.Lat, Roll: v.Roll}
		}
		return views, nil
	default:
		return sphere.CubeViews(), nil
	}
}

// Rotations returns the driver inputs for the job: image ids in plan order
// and their rotations. The cube layout uses the exact cube-face matrices.
func (j *Job) Rotations() ([]int, map[int]sphere.Rotation, error) {
	if j.Layout == LayoutCube {
		rotations := sphere.GetCubicRotations()
		ids := make([]int, 0, len(rotations))
		for f := sphere.FaceFront; f <= sphere.FaceDown; f++ {
			ids = append(ids, int(f))
		}
		return ids, rotations, nil
	}
	views, err := j.PlanViews()
	if err != nil {
		return nil, nil, err
	}
	rotations, ids := sphere.ViewRotations(views)
	return ids, rotations, nil
}

// Options converts the job's rendering settings to driver options.
func (j *Job) Options() patch.Options {
	opts := patch.Options{
		Projection:  patch.Projection(j.Patch.Projection),
		Workers:     j.Workers,
		Ext:         j.Output.Ext,
		JPEGQuality: j.Output.JPEGQuality,
	}
	if j.Layout == LayoutViews {
		for _, v := range j.Views {
			if v.Projection == "" {
				continue
			}
			if opts.Projections == nil {
				opts.Projections = make(map[int]patch.Projection)
			}
			opts.Projections[v.ID] = patch.Projection(v.Projection)
		}
	}
	return opts
}
