package imaging

import (
	"fmt"
	"image"

	"github.com/ernyoke/imger/threshold"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

// Ink and Background are the two values a BinaryMask holds.
const (
	Ink        uint8 = 255
	Background uint8 = 0
)

// BinaryMask is an inverted, thresholded view of a grayscale image: ink pixels
// hold Ink (255) and everything else Background (0).
//
// Pix is row-major with Width entries per row.
type BinaryMask struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Threshold uint8   `json:"threshold"`
	// Histogram counts the crop's pixels per gray level.
	Histogram []int   `json:"-"`
	Pix       []uint8 `json:"-"`
}

// At returns the mask value at column x, row y.
func (m *BinaryMask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// InkCount reports how many pixels are ink.
func (m *BinaryMask) InkCount() int {
	n := 0
	for _, v := range m.Pix {
		if v == Ink {
			n++
		}
	}
	return n
}

// Grayscale converts img to 8-bit luminance using the ITU-R BT.601 weights
// (0.299 R + 0.587 G + 0.114 B, rounded). The result has its origin at (0,0).
func Grayscale(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// OtsuThreshold returns the global threshold Otsu's method picks for gray: the
// level that maximizes the between-class variance, the first maximum winning.
// Pixels at or below it form the dark class. An image with a single gray level
// yields 0.
func OtsuThreshold(gray *image.Gray) (uint8, error) {
	_, t, err := otsuInverse(gray)
	return t, err
}

// otsuInverse thresholds gray with Otsu's method, inverted: levels above the
// threshold become 0 and the rest 255. The threshold itself is recovered from
// the mask; the first maximum always falls on an occupied level, so it is the
// brightest level that turned into ink.
func otsuInverse(gray *image.Gray) (*image.Gray, uint8, error) {
	inv, err := threshold.OtsuThreshold(gray, threshold.ThreshBinaryInv)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to threshold image: %w", err)
	}
	var t uint8
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if v := gray.GrayAt(x, y).Y; inv.GrayAt(x, y).Y == Ink && v > t {
				t = v
			}
		}
	}
	return inv, t, nil
}

// GrayHistogram counts the pixels at each of the 256 gray levels.
func GrayHistogram(gray *image.Gray) []int {
	bins := histogram.NewRGBAHistogram(gray).R.Bins
	out := make([]int, len(bins))
	copy(out, bins)
	return out
}

// Binarize converts img to grayscale, thresholds it with Otsu's method and
// inverts the result, so dark strokes become Ink and paper becomes Background.
//
// A pixel is ink when its gray level is at or below the threshold.
func Binarize(img image.Image) (*BinaryMask, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("cannot binarize %dx%d image: %w", b.Dx(), b.Dy(), ErrEmptyRegion)
	}

	gray := Grayscale(img)
	inv, t, err := otsuInverse(gray)
	if err != nil {
		return nil, err
	}

	w, h := b.Dx(), b.Dy()
	mask := &BinaryMask{
		Width:     w,
		Height:    h,
		Threshold: t,
		Histogram: GrayHistogram(gray),
		Pix:       make([]uint8, w*h),
	}
	for y := 0; y < h; y++ {
		copy(mask.Pix[y*w:(y+1)*w], inv.Pix[y*inv.Stride:y*inv.Stride+w])
	}
	return mask, nil
}
