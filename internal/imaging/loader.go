package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded panoramas to avoid
// redundant disk reads.
//
// The cache stores Bitmaps keyed by their file path. Once a panorama is loaded,
// subsequent Load() calls for the same path return the cached Bitmap without
// disk I/O. Cached Bitmaps are shared: callers must treat them as read-only.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// An 8192x4096 panorama occupies 128 MiB once decoded. Cached Bitmaps remain in
// memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	pano, err := cache.Load("/data/pano/0001.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Generate patches from pano...
//	cache.Evict("/data/pano/0001.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Bitmap
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Bitmap),
	}
}

// Load retrieves a panorama from the cache or decodes it from disk.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are those of
//     github.com/disintegration/imaging: JPEG, PNG, GIF, TIFF and BMP. EXIF
//     orientation is applied on decode.
//
// Returns:
//   - *Bitmap: The decoded pixels.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) result in separate cache entries.
func (c *ImageCache) Load(path string) (*Bitmap, error) {
	c.mu.RLock()
	if bmp, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return bmp, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	bmp := BitmapFromImage(img)

	c.mu.Lock()
	c.images[path] = bmp
	c.mu.Unlock()

	return bmp, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Bitmap)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// PanoramaInfo contains metadata about a panorama file.
type PanoramaInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, e.g. "jpeg" or "png", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// Equirectangular is true when the width is exactly twice the height, the
	// aspect ratio of a full 360x180 degree panorama.
	Equirectangular bool `json:"equirectangular"`

	// DegreesPerPixel is the horizontal angular resolution assuming full
	// 360 degree coverage.
	DegreesPerPixel float64 `json:"degrees_per_pixel"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadPanoramaInfo loads a panorama into the cache (if not already cached) and
// reports its dimensions and projection-related metadata.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
func LoadPanoramaInfo(cache *ImageCache, path string) (*PanoramaInfo, error) {
	bmp, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	w, h := bmp.Width(), bmp.Height()
	info := &PanoramaInfo{
		Width:           w,
		Height:          h,
		Format:          format,
		Equirectangular: w == 2*h,
		FileSizeBytes:   stat.Size(),
	}
	if w > 0 {
		info.DegreesPerPixel = 360 / float64(w)
	}
	return info, nil
}

// DefaultPatchStem and DefaultPatchExt name patches whose panorama path
// gives no usable stem or image extension.
const (
	DefaultPatchStem = "patch"
	DefaultPatchExt  = ".png"
)

// PatchFileName returns the deterministic file name of the patch generated
// for imageID from the panorama at panoramaPath. ext overrides the panorama's
// extension when non-empty; it may be given with or without the leading dot.
// An empty panoramaPath, as for an in-memory panorama, gives
// "patch_<id>.png"; a panorama extension imaging cannot encode falls back to
// ".png".
func PatchFileName(panoramaPath string, imageID int, ext string) string {
	stem := DefaultPatchStem
	pathExt := ""
	if panoramaPath != "" {
		base := filepath.Base(panoramaPath)
		pathExt = filepath.Ext(base)
		if s := strings.TrimSuffix(base, pathExt); s != "" && s != "." && s != string(filepath.Separator) {
			stem = s
		}
	}
	if ext == "" {
		ext = pathExt
		if _, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, ".")); err != nil {
			ext = DefaultPatchExt
		}
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s_%d%s", stem, imageID, ext)
}
