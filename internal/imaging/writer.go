package imaging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when SaveBitmap writes JPEG files and the caller
// passes a non-positive quality.
const DefaultJPEGQuality = 95

// encodeBitmap writes bmp to w in format f.
var encodeBitmap = func(w io.Writer, bmp *Bitmap, f imaging.Format, jpegQuality int) error {
	return imaging.Encode(w, bmp.Image(), f, imaging.JPEGQuality(jpegQuality))
}

// SaveBitmap encodes bmp to path. The format is chosen from the file
// extension. Missing parent directories are created.
//
// The image is encoded to a temporary file next to path and renamed into
// place, so a failed save never leaves a partial file at path.
func SaveBitmap(bmp *Bitmap, path string, jpegQuality int) error {
	if bmp == nil || bmp.Width() == 0 || bmp.Height() == 0 {
		return fmt.Errorf("refusing to save empty bitmap to %s", path)
	}
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output format for %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	err = encodeBitmap(tmp, bmp, format, jpegQuality)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
