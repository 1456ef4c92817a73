package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is wrapped when a crop has no pixels, either because the
// request itself is degenerate or because nothing is left after clamping to the
// image bounds.
var ErrEmptyRegion = errors.New("region is empty")

// Region is a rectangle in source-image coordinates.
//
// Rows run over [Top, Bottom) and columns over [Left, Right), so the region is
// Right-Left pixels wide and Bottom-Top pixels tall.
type Region struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// Width returns Right-Left.
func (r Region) Width() int { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r Region) Height() int { return r.Bottom - r.Top }

// Empty reports whether the region has no pixels.
func (r Region) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Rect converts the region to an image.Rectangle without canonicalizing it.
func (r Region) Rect() image.Rectangle {
	return image.Rectangle{Min: image.Pt(r.Left, r.Top), Max: image.Pt(r.Right, r.Bottom)}
}

// Clamp intersects the region with bounds. A region that misses bounds
// entirely comes back empty.
func (r Region) Clamp(bounds image.Rectangle) Region {
	c := Region{
		Top:    max(r.Top, bounds.Min.Y),
		Bottom: min(r.Bottom, bounds.Max.Y),
		Left:   max(r.Left, bounds.Min.X),
		Right:  min(r.Right, bounds.Max.X),
	}
	if c.Empty() {
		return Region{Top: c.Top, Bottom: c.Top, Left: c.Left, Right: c.Left}
	}
	return c
}

func (r Region) String() string {
	return fmt.Sprintf("top=%d bottom=%d left=%d right=%d", r.Top, r.Bottom, r.Left, r.Right)
}

// CropRegion cuts r out of img after clamping it to the image bounds.
//
// The returned image has its origin at (0,0); the returned Region is the clamped
// rectangle actually used, so callers can map crop columns back with
// clamped.Left.
//
// # Errors
//
// Returns an error wrapping ErrEmptyRegion if r is degenerate (Right <= Left or
// Bottom <= Top) or if it lies completely outside the image.
func CropRegion(img image.Image, r Region) (*image.NRGBA, Region, error) {
	if r.Empty() {
		return nil, r, fmt.Errorf("invalid crop region (%s): %w", r, ErrEmptyRegion)
	}
	clamped := r.Clamp(img.Bounds())
	if clamped.Empty() {
		b := img.Bounds()
		return nil, clamped, fmt.Errorf("crop region (%s) outside image bounds (%d,%d)-(%d,%d): %w",
			r, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, ErrEmptyRegion)
	}
	return imaging.Crop(img, clamped.Rect()), clamped, nil
}

// CropResult is a crop encoded for transport.
type CropResult struct {
	Region      Region `json:"region"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropImage crops r (clamped) and returns it as a base64 PNG, optionally
// rescaled with Lanczos resampling. A scale of 0 or 1 keeps the original size.
func CropImage(img image.Image, r Region, scale float64) (*CropResult, error) {
	cropped, clamped, err := CropRegion(img, r)
	if err != nil {
		return nil, err
	}

	var out image.Image = cropped
	if scale > 0 && scale != 1.0 {
		w := max(1, int(float64(cropped.Bounds().Dx())*scale))
		h := max(1, int(float64(cropped.Bounds().Dy())*scale))
		out = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	encoded, err := encodePNG(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Region:      clamped,
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
