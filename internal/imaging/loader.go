package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUndecodable is wrapped by every decoding failure in this package, so
// callers can tell bad input bytes apart from I/O problems.
var ErrUndecodable = errors.New("image data could not be decoded")

// DecodeRaster decodes an encoded still image held in memory.
//
// The format is sniffed from the content; PNG, JPEG, GIF, BMP, TIFF and WebP
// are registered. The returned string is the format name reported by the
// decoder (e.g. "png").
//
// # Errors
//
// Empty input and undecodable bytes both return an error wrapping ErrUndecodable.
func DecodeRaster(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image buffer: %w", ErrUndecodable)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, format, nil
}

// DecodeDataURL turns a base64 image payload into raw bytes.
//
// Both bare base64 and data URLs ("data:image/png;base64,....") are accepted,
// matching what browser canvases post. Standard and unpadded encodings are tried
// in that order. Whitespace inside the payload is ignored.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed data URL: %w", ErrUndecodable)
		}
		if !strings.HasSuffix(s[:comma], ";base64") {
			return nil, fmt.Errorf("data URL is not base64 encoded: %w", ErrUndecodable)
		}
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, fmt.Errorf("empty base64 payload: %w", ErrUndecodable)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(s)
		if rawErr != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrUndecodable, err)
		}
	}
	return data, nil
}

// ImageCache keeps decoded images keyed by file path so repeated tool calls on
// the same scan do not hit the disk again.
//
// ImageCache is safe for concurrent use by multiple goroutines. Entries stay
// until Evict or Clear is called.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, reading and decoding it on first use.
//
// The path string is the cache key as given; a relative and an absolute path to
// the same file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, _, err := DecodeRaster(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo describes a scan on disk.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that accepted the file ("png", "jpeg", "bmp", ...).
	// It comes from the file content, not its extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports whether the decoded color model carries transparency.
	HasAlpha bool `json:"has_alpha"`

	// Grayscale reports whether the scan was stored as a single gray channel.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and describes it.
//
// The format is taken from image.DecodeConfig on the file header, so a PNG saved
// with a ".jpg" name is still reported as "png".
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		format = "unknown"
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case *image.Gray16:
		info.Grayscale = true
		info.ColorDepth = "16-bit"
	case *image.Gray:
		info.Grayscale = true
	}
	return info, nil
}

// DimensionsResult is the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through the cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
