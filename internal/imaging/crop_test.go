package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createPatternImage creates an image with a different color in each quadrant.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			default:
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func decodeCrop(t *testing.T, result *CropResult) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestRegion_Clamp(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name string
		in   Region
		want Region
	}{
		{"inside", Region{Top: 10, Bottom: 20, Left: 5, Right: 50}, Region{Top: 10, Bottom: 20, Left: 5, Right: 50}},
		{"negative origin", Region{Top: -5, Bottom: 20, Left: -10, Right: 50}, Region{Top: 0, Bottom: 20, Left: 0, Right: 50}},
		{"past the far edge", Region{Top: 70, Bottom: 200, Left: 90, Right: 300}, Region{Top: 70, Bottom: 80, Left: 90, Right: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(bounds); got != tt.want {
				t.Errorf("Clamp: got %s, want %s", got, tt.want)
			}
		})
	}

	if !(Region{Top: 0, Bottom: 10, Left: 150, Right: 200}).Clamp(bounds).Empty() {
		t.Error("region right of the image should clamp to empty")
	}
}

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, clamped, err := CropRegion(img, Region{Top: 0, Bottom: 50, Left: 0, Right: 50})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if cropped.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", cropped.Bounds())
	}
	if clamped.Width() != 50 || clamped.Height() != 50 {
		t.Errorf("clamped: got %s", clamped)
	}

	r, g, b, _ := cropped.At(25, 25).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("cropped color: got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestCropRegion_Offset(t *testing.T) {
	// A sub-image whose bounds do not start at the origin.
	base := createPatternImage(100, 100)
	sub := base.SubImage(image.Rect(50, 50, 100, 100))

	cropped, clamped, err := CropRegion(sub, Region{Top: 0, Bottom: 80, Left: 0, Right: 80})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if clamped != (Region{Top: 50, Bottom: 80, Left: 50, Right: 80}) {
		t.Errorf("clamped: got %s", clamped)
	}
	if cropped.Bounds() != image.Rect(0, 0, 30, 30) {
		t.Errorf("bounds: got %v, want (0,0)-(30,30)", cropped.Bounds())
	}
}

func TestCropRegion_Invalid(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    Region
	}{
		{"left equals right", Region{Top: 0, Bottom: 50, Left: 50, Right: 50}},
		{"left after right", Region{Top: 0, Bottom: 50, Left: 60, Right: 50}},
		{"top equals bottom", Region{Top: 50, Bottom: 50, Left: 0, Right: 50}},
		{"top after bottom", Region{Top: 60, Bottom: 50, Left: 0, Right: 50}},
		{"outside image", Region{Top: 0, Bottom: 50, Left: 100, Right: 150}},
		{"above image", Region{Top: -40, Bottom: -10, Left: 0, Right: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CropRegion(img, tt.r)
			if !errors.Is(err, ErrEmptyRegion) {
				t.Errorf("got %v, want ErrEmptyRegion", err)
			}
		})
	}
}

func TestCropImage(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := CropImage(img, Region{Top: 0, Bottom: 50, Left: 50, Right: 100}, 1.0)
	if err != nil {
		t.Fatalf("CropImage failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	// Top-right quadrant is green.
	r, g, b, _ := decodeCrop(t, result).At(25, 25).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("cropped color: got (%d,%d,%d), want green", r>>8, g>>8, b>>8)
	}
}

func TestCropImage_Scale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name         string
		scale        float64
		wantW, wantH int
	}{
		{"up 2x", 2.0, 100, 100},
		{"down 0.5x", 0.5, 25, 25},
		{"zero keeps size", 0, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CropImage(img, Region{Top: 0, Bottom: 50, Left: 0, Right: 50}, tt.scale)
			if err != nil {
				t.Fatalf("CropImage failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCropImage_Invalid(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	if _, err := CropImage(img, Region{}, 1.0); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("got %v, want ErrEmptyRegion", err)
	}
}
