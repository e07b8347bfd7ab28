package config

import (
	"context"
	"fmt"
	"image/color"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/patch"
)

// Cameras loads the panorama through cache and returns the sphere camera,
// the panorama fitted to it, and the patch camera.
func (j *Job) Cameras(cache *imaging.ImageCache) (camera.Camera, *imaging.Bitmap, camera.Camera, error) {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	src, err := cache.Load(j.Panorama)
	if err != nil {
		return camera.Camera{}, nil, camera.Camera{}, fmt.Errorf("%w: %w", patch.ErrSourceLoad, err)
	}
	sphereCam, err := j.SphereCamera(src.Width(), src.Height())
	if err != nil {
		return camera.Camera{}, nil, camera.Camera{}, err
	}
	pinholeCam, err := j.PatchCamera()
	if err != nil {
		return camera.Camera{}, nil, camera.Camera{}, err
	}
	bmp, err := patch.LoadSource(cache, j.Panorama, sphereCam)
	if err != nil {
		return camera.Camera{}, nil, camera.Camera{}, err
	}
	return sphereCam, bmp, pinholeCam, nil
}

// Run generates every patch the job plans and writes them to Output.Dir.
func (j *Job) Run(ctx context.Context, cache *imaging.ImageCache) (*patch.Result, error) {
	sphereCam, bmp, pinholeCam, err := j.Cameras(cache)
	if err != nil {
		return nil, err
	}
	ids, rotations, err := j.Rotations()
	if err != nil {
		return nil, err
	}
	patch.Logf("config: %s -> %d patches of %s", j.Panorama, len(ids), pinholeCam)
	return patch.SphericalToPinhole(ctx, sphereCam, bmp, j.Panorama, pinholeCam, j.Output.Dir, ids, rotations, j.Options())
}

// graticuleColor is drawn under the patch outlines.
var graticuleColor = color.RGBA{160, 160, 160, 255}

// Footprint draws the outline of every planned patch onto the panorama. A
// positive graticuleDeg first draws labelled meridians and parallels at that
// spacing.
func (j *Job) Footprint(cache *imaging.ImageCache, lineColor color.RGBA, graticuleDeg float64) (*imaging.Bitmap, error) {
	sphereCam, bmp, pinholeCam, err := j.Cameras(cache)
	if err != nil {
		return nil, err
	}
	ids, rotations, err := j.Rotations()
	if err != nil {
		return nil, err
	}
	if graticuleDeg > 0 {
		// The cached panorama is shared.
		bmp = bmp.Resize(bmp.Width(), bmp.Height())
		if err := imaging.DrawGraticule(bmp, graticuleDeg, true, graticuleColor); err != nil {
			return nil, err
		}
	}
	return patch.FootprintOverlay(sphereCam, bmp, pinholeCam, ids, rotations, lineColor)
}
