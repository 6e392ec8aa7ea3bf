package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeTestPNG encodes a solid image into the test's temp dir and returns
// its path.
func writeTestPNG(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, solidImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil || cache.images == nil {
		t.Fatal("NewImageCache returned an uninitialized cache")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache has %d images", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, "portrait.png", 120, 80, color.RGBA{200, 10, 10, 255})

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Bounds().Dx() != 120 || img1.Bounds().Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 120x80", img1.Bounds().Dx(), img1.Bounds().Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_LoadBMP(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "source.bmp")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := bmp.Encode(f, solidImage(40, 30, color.RGBA{0, 0, 0, 255})); err != nil {
		t.Fatalf("failed to encode bmp: %v", err)
	}
	f.Close()

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed for bmp: %v", err)
	}
	if info.Format != "bmp" || info.Width != 40 || info.Height != 30 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	bad := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_EvictsOldest(t *testing.T) {
	cache := NewImageCacheSize(2)
	a := writeTestPNG(t, "a.png", 20, 20, color.White)
	b := writeTestPNG(t, "b.png", 20, 20, color.Black)
	c := writeTestPNG(t, "c.png", 20, 20, color.White)

	for _, p := range []string{a, b, a, c} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s) failed: %v", p, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("got %d cached images, want 2", cache.Len())
	}

	// a was loaded first, so c pushed it out; a cache hit does not refresh it.
	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(a); err == nil {
		t.Error("expected a to have been evicted and reloaded from disk")
	}
	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(b); err != nil {
		t.Errorf("b should still be cached: %v", err)
	}
}

func TestNewImageCacheSize_Minimum(t *testing.T) {
	cache := NewImageCacheSize(0)
	a := writeTestPNG(t, "a.png", 10, 10, color.White)
	b := writeTestPNG(t, "b.png", 10, 10, color.Black)
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("got %d cached images, want 1", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, "shared.png", 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, "photo.png", 1000, 600, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 1000 || info.Height != 600 {
		t.Errorf("source size: got %dx%d, want 1000x600", info.Width, info.Height)
	}
	if info.ProcessingWidth != 666 || info.ProcessingHeight != 400 {
		t.Errorf("processing size: got %dx%d, want 666x400", info.ProcessingWidth, info.ProcessingHeight)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatFromExtension(t *testing.T) {
	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".PNG", "png"},
		{".jpg", "jpeg"},
		{".jpeg", "jpeg"},
		{".gif", "gif"},
		{".bmp", "bmp"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			// A PNG payload decodes regardless of the extension.
			path := writeTestPNG(t, "image"+tt.ext, 10, 10, color.White)
			info, err := LoadImageInfo(NewImageCache(), path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestGetProcessingDimensions(t *testing.T) {
	cache := NewImageCache()
	small := writeTestPNG(t, "small.png", 300, 200, color.White)
	large := writeTestPNG(t, "large.png", 800, 1200, color.White)

	dims, err := GetProcessingDimensions(cache, small)
	if err != nil {
		t.Fatalf("GetProcessingDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("small: got %dx%d, want 300x200", dims.Width, dims.Height)
	}

	dims, err = GetProcessingDimensions(cache, large)
	if err != nil {
		t.Fatalf("GetProcessingDimensions failed: %v", err)
	}
	if dims.Width != 400 || dims.Height != 600 {
		t.Errorf("large: got %dx%d, want 400x600", dims.Width, dims.Height)
	}

	if _, err := GetProcessingDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetProcessingDimensions should fail for non-existent file")
	}
}
