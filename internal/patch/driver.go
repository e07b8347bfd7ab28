package patch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/ironsheep/panopatch/internal/camera"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/sphere"
	"golang.org/x/sync/errgroup"
)

// Projection selects the resampling algorithm for a patch.
type Projection string

const (
	// Tangent resamples through a uniform-angle tangent-plane grid.
	Tangent Projection = "tangent"

	// Perspective resamples through the true pinhole projection.
	Perspective Projection = "perspective"
)

// ParseProjection accepts "tangent", "perspective" or "" (tangent).
func ParseProjection(s string) (Projection, error) {
	switch Projection(s) {
	case "", Tangent:
		return Tangent, nil
	case Perspective:
		return Perspective, nil
	default:
		return "", fmt.Errorf("%w: unknown projection %q", sphere.ErrInvalidParameter, s)
	}
}

var (
	// ErrMissingRotation marks an image id with no entry in the rotation map.
	ErrMissingRotation = errors.New("missing rotation")

	// ErrDuplicateImageID marks a repeated image id; only its first
	// occurrence is generated.
	ErrDuplicateImageID = errors.New("duplicate image id")

	// ErrSourceLoad is returned when the panorama cannot be read.
	ErrSourceLoad = errors.New("source load failure")

	// ErrSinkWrite marks a patch that could not be written.
	ErrSinkWrite = errors.New("sink write failure")
)

// ItemError records why one image id produced no patch.
type ItemError struct {
	ImageID int
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("image %d: %v", e.ImageID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Options tunes SphericalToPinhole. The zero value renders tangent patches
// with one worker per CPU and keeps the panorama's file extension.
type Options struct {
	// Projection applies to every image without an entry in Projections.
	Projection Projection

	// Projections overrides the projection per image id.
	Projections map[int]Projection

	// Workers bounds concurrent patch generation. Zero or less uses
	// runtime.GOMAXPROCS(0).
	Workers int

	// Ext is the output file extension. Empty keeps the panorama's.
	Ext string

	// JPEGQuality applies to JPEG output. Zero or less uses
	// imaging.DefaultJPEGQuality.
	JPEGQuality int
}

// Result lists what SphericalToPinhole produced.
type Result struct {
	// Paths of written patches, in input order.
	Paths []string

	// IDs holds the image id of each entry of Paths.
	IDs []int

	// Failures holds one entry per image id that produced no patch, in input
	// order.
	Failures []*ItemError
}

// Err joins the per-item failures, or returns nil if there were none.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// SphericalToPinhole renders one patch per image id and writes it under
// outputPath as PatchFileName(spherePath, id, opts.Ext).
//
// sphereBmp may be nil, in which case the panorama is read from spherePath.
// A panorama whose size differs from sphereCam is resized to match.
//
// Invalid cameras, invalid rotations and an unreadable panorama are hard
// failures returned as the error. A missing rotation, a repeated id or a
// failed write only fails that item: it is logged, recorded in
// Result.Failures and left out of Result.Paths. Cancelling ctx stops new
// items from starting; those items are recorded as failures and ctx.Err() is
// returned alongside the partial result.
func SphericalToPinhole(ctx context.Context, sphereCam camera.Camera, sphereBmp *imaging.Bitmap, spherePath string,
	pinholeCam camera.Camera, outputPath string, imageIDs []int, rotations map[int]sphere.Rotation, opts Options) (*Result, error) {

	if err := sphere.RequireSphere(sphereCam); err != nil {
		return nil, fmt.Errorf("sphere camera: %w", err)
	}
	if err := sphere.RequirePinhole(pinholeCam); err != nil {
		return nil, fmt.Errorf("pinhole camera: %w", err)
	}
	projections, err := resolveProjections(imageIDs, opts)
	if err != nil {
		return nil, err
	}
	for _, id := range imageIDs {
		if r, ok := rotations[id]; ok {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("rotation for image %d: %w", id, err)
			}
		}
	}

	if sphereBmp == nil {
		sphereBmp, err = LoadSource(nil, spherePath, sphereCam)
		if err != nil {
			return nil, err
		}
	} else {
		sphereBmp = fitToCamera(sphereBmp, sphereCam)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	paths := make([]string, len(imageIDs))
	failures := make([]error, len(imageIDs))

	seen := make(map[int]bool, len(imageIDs))
	for i, id := range imageIDs {
		if seen[id] {
			failures[i] = ErrDuplicateImageID
			continue
		}
		seen[id] = true
		if _, ok := rotations[id]; !ok {
			failures[i] = ErrMissingRotation
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range imageIDs {
		if failures[i] != nil {
			continue
		}
		if gctx.Err() != nil {
			failures[i] = gctx.Err()
			continue
		}
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			out := filepath.Join(outputPath, imaging.PatchFileName(spherePath, id, opts.Ext))
			if err := renderAndSave(sphereCam, sphereBmp, rotations[id], pinholeCam, projections[i], out, opts.JPEGQuality); err != nil {
				failures[i] = err
				return nil
			}
			paths[i] = out
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for i, id := range imageIDs {
		if failures[i] != nil {
			Logf("patch: skipping image %d: %v", id, failures[i])
			res.Failures = append(res.Failures, &ItemError{ImageID: id, Err: failures[i]})
			continue
		}
		res.Paths = append(res.Paths, paths[i])
		res.IDs = append(res.IDs, id)
	}
	return res, ctx.Err()
}

func resolveProjections(imageIDs []int, opts Options) ([]Projection, error) {
	def, err := ParseProjection(string(opts.Projection))
	if err != nil {
		return nil, err
	}
	out := make([]Projection, len(imageIDs))
	for i, id := range imageIDs {
		out[i] = def
		if p, ok := opts.Projections[id]; ok {
			if out[i], err = ParseProjection(string(p)); err != nil {
				return nil, fmt.Errorf("image %d: %w", id, err)
			}
		}
	}
	return out, nil
}

func renderAndSave(sphereCam camera.Camera, src *imaging.Bitmap, rotation sphere.Rotation, pinholeCam camera.Camera,
	proj Projection, out string, jpegQuality int) error {

	render := SphericalToTangent
	if proj == Perspective {
		render = SphericalToPatch
	}
	bmp, err := render(sphereCam, src, rotation, pinholeCam)
	if err != nil {
		return err
	}
	if err := imaging.SaveBitmap(bmp, out, jpegQuality); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return nil
}

// LoadSource reads the panorama at path, through cache when one is given, and
// resizes it to the sphere camera's dimensions if they differ. Failures wrap
// ErrSourceLoad.
func LoadSource(cache *imaging.ImageCache, path string, sphereCam camera.Camera) (*imaging.Bitmap, error) {
	if err := sphere.RequireSphere(sphereCam); err != nil {
		return nil, fmt.Errorf("sphere camera: %w", err)
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	bmp, err := cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}
	if bmp.Width() == 0 || bmp.Height() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrSourceLoad, path)
	}
	return fitToCamera(bmp, sphereCam), nil
}

func fitToCamera(bmp *imaging.Bitmap, sphereCam camera.Camera) *imaging.Bitmap {
	if bmp.Width() == sphereCam.Width && bmp.Height() == sphereCam.Height {
		return bmp
	}
	Debugf("patch: resizing panorama %dx%d to %dx%d", bmp.Width(), bmp.Height(), sphereCam.Width, sphereCam.Height)
	return bmp.Resize(sphereCam.Width, sphereCam.Height)
}
