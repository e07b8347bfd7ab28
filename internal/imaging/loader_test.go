package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// createTestImageWithPattern creates a test image with a specific pattern
func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern: red top-left, green top-right, blue bottom-left, white bottom-right
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.RGBA{255, 255, 255, 255} // White
			}
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-pattern-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewImageCache did not initialize images map")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	// First load
	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1 == nil {
		t.Fatal("Load returned nil image")
	}

	if img1.Width() != 100 || img1.Height() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", img1.Width(), img1.Height())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()

	// Create a file with invalid image data
	tmpFile, err := os.CreateTemp("", "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.WriteString("not an image")
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	_, err = cache.Load(tmpFile.Name())
	if err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})
	defer os.Remove(imgPath)

	// Load image
	_, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Clear cache
	cache.Clear()

	if n := cache.Len(); n != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", n)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})
	defer os.Remove(imgPath)

	// Load image
	_, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Evict
	cache.Evict(imgPath)

	// Verify image is evicted
	cache.mu.RLock()
	_, exists := cache.images[imgPath]
	cache.mu.RUnlock()

	if exists {
		t.Error("Evict did not remove image from cache")
	}
}

func TestImageCache_Evict_NonExistent(t *testing.T) {
	cache := NewImageCache()
	// Should not panic
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})
	defer os.Remove(imgPath)

	var wg sync.WaitGroup
	errors := make(chan error, 100)

	// Concurrent loads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Load(imgPath)
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestImageCache_Load_Pattern(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageWithPattern(t, 40, 20)
	defer os.Remove(imgPath)

	bmp, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{39, 0, color.RGBA{0, 255, 0, 255}},
		{0, 19, color.RGBA{0, 0, 255, 255}},
		{39, 19, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if c, _ := bmp.GetPixel(tt.x, tt.y); c != tt.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestLoadPanoramaInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 100, color.RGBA{255, 128, 64, 255})
	defer os.Remove(imgPath)

	info, err := LoadPanoramaInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadPanoramaInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 100 {
		t.Errorf("Height: got %d, want 100", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if !info.Equirectangular {
		t.Error("200x100 should be reported as equirectangular")
	}
	if info.DegreesPerPixel != 1.8 {
		t.Errorf("DegreesPerPixel: got %g, want 1.8", info.DegreesPerPixel)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadPanoramaInfo_NotEquirectangular(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 150, 100, color.RGBA{0, 0, 0, 255})
	defer os.Remove(imgPath)

	info, err := LoadPanoramaInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadPanoramaInfo failed: %v", err)
	}
	if info.Equirectangular {
		t.Error("150x100 should not be reported as equirectangular")
	}
}

func TestLoadPanoramaInfo_FormatDetection(t *testing.T) {
	cache := NewImageCache()

	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".jpeg", "jpeg"},
		{".gif", "gif"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			tmpPath := filepath.Join(t.TempDir(), "test-format"+tt.ext)

			// Create a valid PNG regardless of extension
			img := image.NewRGBA(image.Rect(0, 0, 10, 10))
			f, err := os.Create(tmpPath)
			if err != nil {
				t.Fatalf("failed to create file: %v", err)
			}
			png.Encode(f, img)
			f.Close()

			info, err := LoadPanoramaInfo(cache, tmpPath)
			if err != nil {
				t.Fatalf("LoadPanoramaInfo failed: %v", err)
			}

			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestLoadPanoramaInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := LoadPanoramaInfo(cache, "/nonexistent/image.png")
	if err == nil {
		t.Error("LoadPanoramaInfo should fail for non-existent file")
	}
}

func TestPatchFileName(t *testing.T) {
	tests := []struct {
		path string
		id   int
		ext  string
		want string
	}{
		{"/data/pano/street.jpg", 3, "", "street_3.jpg"},
		{"/data/pano/street.jpg", 12, ".png", "street_12.png"},
		{"street.jpg", 0, "png", "street_0.png"},
		{"/data/pano/noext", 5, "", "noext_5.png"},
		{"/data/pano/a.b.tif", 7, "", "a.b_7.tif"},
		{"", 1, "", "patch_1.png"},
		{"", 2, ".jpg", "patch_2.jpg"},
		{"/data/pano.v2", 1, "", "pano_1.png"},
		{"/data/pano.", 4, "", "pano_4.png"},
		{"/data/pano/STREET.JPEG", 9, "", "STREET_9.JPEG"},
		{"/", 6, "", "patch_6.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := PatchFileName(tt.path, tt.id, tt.ext); got != tt.want {
				t.Errorf("PatchFileName(%q, %d, %q) = %q, want %q", tt.path, tt.id, tt.ext, got, tt.want)
			}
		})
	}
}
