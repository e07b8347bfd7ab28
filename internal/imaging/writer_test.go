package imaging

import (
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestSaveBitmap_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "patch_1.png")
	bmp := newRampBitmap(16, 8)

	if err := SaveBitmap(bmp, path, 0); err != nil {
		t.Fatalf("SaveBitmap failed: %v", err)
	}

	loaded, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Width() != 16 || loaded.Height() != 8 {
		t.Fatalf("dimensions: got %dx%d, want 16x8", loaded.Width(), loaded.Height())
	}
	if c, _ := loaded.GetPixel(5, 3); c != (color.RGBA{5, 3, 0, 255}) {
		t.Errorf("pixel (5,3): got %v, want {5 3 0 255}", c)
	}
}

func TestSaveBitmap_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.jpg")
	if err := SaveBitmap(newFilledBitmap(8, 8, color.RGBA{90, 90, 90, 255}), path, 80); err != nil {
		t.Fatalf("SaveBitmap failed: %v", err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Errorf("expected a non-empty JPEG file, stat err=%v", err)
	}
}

func TestSaveBitmap_Errors(t *testing.T) {
	dir := t.TempDir()

	if err := SaveBitmap(NewBitmap(0, 0), filepath.Join(dir, "empty.png"), 0); err == nil {
		t.Error("SaveBitmap should refuse an empty bitmap")
	}
	if err := SaveBitmap(nil, filepath.Join(dir, "nil.png"), 0); err == nil {
		t.Error("SaveBitmap should refuse a nil bitmap")
	}
	if err := SaveBitmap(newRampBitmap(4, 4), filepath.Join(dir, "patch.xyz"), 0); err == nil {
		t.Error("SaveBitmap should reject an unknown extension")
	}

	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := SaveBitmap(newRampBitmap(4, 4), filepath.Join(blocker, "patch.png"), 0); err == nil {
		t.Error("SaveBitmap should fail when the output directory cannot be created")
	}
}

// failingEncoder writes a few bytes and then fails, like a disk filling up
// mid-encode.
func failingEncoder(t *testing.T) {
	t.Helper()
	orig := encodeBitmap
	encodeBitmap = func(w io.Writer, bmp *Bitmap, f imaging.Format, q int) error {
		if _, err := w.Write([]byte("\x89PNG partial")); err != nil {
			return err
		}
		return errors.New("no space left on device")
	}
	t.Cleanup(func() { encodeBitmap = orig })
}

func TestSaveBitmap_FailedEncodeLeavesNoFile(t *testing.T) {
	failingEncoder(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "patch_1.png")

	if err := SaveBitmap(newRampBitmap(4, 4), path, 0); err == nil {
		t.Fatal("SaveBitmap should report the encode failure")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("partial file left at %s (stat err=%v)", path, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestSaveBitmap_FailedEncodeKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patch_1.png")
	if err := SaveBitmap(newRampBitmap(4, 4), path, 0); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	failingEncoder(t)
	if err := SaveBitmap(newRampBitmap(8, 8), path, 0); err == nil {
		t.Fatal("SaveBitmap should report the encode failure")
	}
	loaded, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("existing patch damaged: %v", err)
	}
	if loaded.Width() != 4 {
		t.Errorf("existing patch replaced: width %d, want 4", loaded.Width())
	}
}

func TestSaveBitmap_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.png")
	if err := SaveBitmap(newRampBitmap(4, 4), path, 0); err != nil {
		t.Fatalf("SaveBitmap failed: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o644 {
		t.Errorf("mode: got %v, want 0644", st.Mode().Perm())
	}
}
