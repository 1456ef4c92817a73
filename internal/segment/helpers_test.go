package segment

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createLineImage creates a white image with solid black character blocks.
// Each block is a half-open column range [x0, x1) spanning rows [top, bottom).
func createLineImage(width, height, top, bottom int, blocks [][2]int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, b := range blocks {
		for y := top; y < bottom; y++ {
			for x := b[0]; x < b[1]; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// dipSpan builds a projection with a zero column on each side of a width-60
// ink span (columns 1..60). Columns within 6 of column 31 ramp down linearly
// to floor; the rest sit at plateau.
func dipSpan(plateau, floor, slope int) Projection {
	p := make(Projection, 62)
	for i := 1; i <= 60; i++ {
		d := abs(i - 31)
		if d <= 6 {
			p[i] = floor + slope*d
		} else {
			p[i] = plateau
		}
	}
	return p
}
