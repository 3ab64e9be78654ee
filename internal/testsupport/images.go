package testsupport

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// Red returns the primary fill used by the default test image.
func Red() color.NRGBA { return color.NRGBA{R: 200, G: 40, B: 40, A: 255} }

// Blue returns the secondary fill used by the default test image.
func Blue() color.NRGBA { return color.NRGBA{R: 20, G: 60, B: 180, A: 255} }

// NewTestImage builds an in-memory image of the requested size with a
// two-band fill so derivative and palette code sees more than one colour.
func NewTestImage(width, height int, primary, secondary color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		fill := primary
		if y >= height/2 {
			fill = secondary
		}
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

// WriteJPEG encodes a synthetic image of the given size to path.
func WriteJPEG(t testing.TB, path string, width, height int) {
	t.Helper()
	WriteJPEGColours(t, path, width, height, Red(), Blue())
}

// WriteJPEGColours encodes a two-band image with the given colours to path.
func WriteJPEGColours(t testing.TB, path string, width, height int, primary, secondary color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := NewTestImage(width, height, primary, secondary)
	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		t.Fatalf("write test image %s: %v", path, err)
	}
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
