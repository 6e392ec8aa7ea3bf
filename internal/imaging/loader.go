package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp" // Register BMP format decoder
)

// DefaultCacheCapacity is the number of images NewImageCache keeps.
const DefaultCacheCapacity = 8

// ImageCache keeps decoded source images keyed by the path they were loaded
// from, so repeated tool calls on one image skip the disk.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// The cache holds at most its capacity of images. Loading a new path into a
// full cache evicts the image that was loaded longest ago.
type ImageCache struct {
	mu       sync.RWMutex
	images   map[string]image.Image
	order    []string
	capacity int
}

// NewImageCache creates an empty cache holding DefaultCacheCapacity images.
func NewImageCache() *ImageCache {
	return NewImageCacheSize(DefaultCacheCapacity)
}

// NewImageCacheSize creates an empty cache holding up to capacity images.
// A capacity below one is treated as one.
func NewImageCacheSize(capacity int) *ImageCache {
	return &ImageCache{
		images:   make(map[string]image.Image),
		capacity: max(1, capacity),
	}
}

// Load returns the cached image for path, decoding it from disk on the first
// call. Supported formats are PNG, JPEG, GIF and BMP.
//
// The key is the exact path string, so a relative and an absolute path to one
// file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.images[path]; ok {
		// Another goroutine decoded it first.
		return cached, nil
	}
	for len(c.order) >= c.capacity {
		c.evict(c.order[0])
	}
	c.images[path] = img
	c.order = append(c.order, path)

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// evict drops path. The caller holds the write lock.
func (c *ImageCache) evict(path string) {
	delete(c.images, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// ImageInfo describes a source image and the size it will be processed at.
type ImageInfo struct {
	// Width and Height are the source dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ProcessingWidth and ProcessingHeight are the dimensions after
	// ResizeForProcessing. Nail layouts are built for this size.
	ProcessingWidth  int `json:"processing_width"`
	ProcessingHeight int `json:"processing_height"`

	// Format is "png", "jpeg", "gif", "bmp" or "unknown", taken from the
	// file extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	HasAlpha      bool  `json:"has_alpha"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	pw, ph := ProcessingSize(bounds.Dx(), bounds.Dy())

	return &ImageInfo{
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
		ProcessingWidth:  pw,
		ProcessingHeight: ph,
		Format:           formatFromExt(path),
		ColorDepth:       colorDepth,
		HasAlpha:         hasAlpha,
		FileSizeBytes:    stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	default:
		return "unknown"
	}
}

// Dimensions is a width and height pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetProcessingDimensions loads path and returns the size its darkness
// fields will have, which is the size nail layouts must be built for.
func GetProcessingDimensions(cache *ImageCache, path string) (*Dimensions, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	w, h := ProcessingSize(img.Bounds().Dx(), img.Bounds().Dy())
	return &Dimensions{Width: w, Height: h}, nil
}
