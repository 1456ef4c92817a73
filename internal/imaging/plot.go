package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Plot layout, in pixels.
const (
	plotTitleHeight = 16
	plotMinWidth    = 160
	plotMinCurve    = 80
	plotDash        = 4
)

// Plot palette (matplotlib defaults).
var (
	plotCurveColor = color.RGBA{31, 119, 180, 255}
	plotSplitColor = color.RGBA{214, 39, 40, 255}
	plotGridColor  = color.RGBA{221, 221, 221, 255}
	plotTextColor  = color.RGBA{34, 34, 34, 255}
)

// goldenAngle spaces successive cell hues so neighbours never look alike.
const goldenAngle = 137.50776

// PlotResult is a rendered diagnostic image.
type PlotResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderPlot draws the three-panel segmentation diagnostic:
//
//  1. the cropped source region,
//  2. its binary mask, the ink of each character cell in its own colour,
//  3. the column projection curve.
//
// Every split (a column index local to the crop) is drawn as a dashed vertical
// line through all three panels. Nothing is written to disk; the PNG is
// returned base64-encoded.
func RenderPlot(crop image.Image, mask *BinaryMask, projection []int, splits []int) (*PlotResult, error) {
	cb := crop.Bounds()
	w, h := cb.Dx(), cb.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot plot %dx%d crop: %w", w, h, ErrEmptyRegion)
	}
	if mask != nil && (mask.Width != w || mask.Height != h) {
		return nil, fmt.Errorf("mask is %dx%d, crop is %dx%d", mask.Width, mask.Height, w, h)
	}

	canvasW := max(w, plotMinWidth)
	curveH := max(h, plotMinCurve)
	canvasH := 3*plotTitleHeight + 2*h + curveH
	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Panel 1: source crop.
	y := 0
	drawTitle(canvas, 2, y, "source")
	y += plotTitleHeight
	sourceTop := y
	draw.Draw(canvas, image.Rect(0, y, w, y+h), crop, cb.Min, draw.Src)
	y += h

	// Panel 2: binary mask.
	drawTitle(canvas, 2, y, fmt.Sprintf("binary (otsu=%d)", maskThreshold(mask)))
	y += plotTitleHeight
	if mask != nil {
		draw.Draw(canvas, image.Rect(0, y, w, y+h), image.NewUniform(color.Black), image.Point{}, draw.Src)
		palette := cellColors(len(splits) + 1)
		for my := 0; my < h; my++ {
			for mx := 0; mx < w; mx++ {
				if mask.At(mx, my) == Ink {
					canvas.SetRGBA(mx, y+my, palette[cellIndex(splits, mx)])
				}
			}
		}
	}
	y += h

	// Panel 3: projection curve.
	peak := 0
	for _, v := range projection {
		peak = max(peak, v)
	}
	drawTitle(canvas, 2, y, fmt.Sprintf("projection (max=%d)", peak))
	y += plotTitleHeight
	curveTop := y
	for gy := curveTop; gy < curveTop+curveH; gy += curveH / 4 {
		for x := 0; x < canvasW; x++ {
			canvas.Set(x, gy, plotGridColor)
		}
	}
	drawCurve(canvas, projection, peak, curveTop, curveH)

	for _, s := range splits {
		if s < 0 || s >= w {
			continue
		}
		for py := sourceTop; py < canvasH; py++ {
			if (py/plotDash)%2 == 0 {
				canvas.Set(s, py, plotSplitColor)
			}
		}
	}

	encoded, err := encodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plot: %w", err)
	}
	return &PlotResult{
		Width:       canvasW,
		Height:      canvasH,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// drawCurve plots values scaled so peak touches the top of the band. Adjacent
// samples are joined with vertical strokes so steep edges stay visible.
func drawCurve(dst *image.RGBA, values []int, peak, top, height int) {
	if len(values) == 0 {
		return
	}
	bottom := top + height - 1
	level := func(v int) int {
		if peak == 0 {
			return bottom
		}
		return bottom - v*(height-1)/peak
	}
	prev := level(values[0])
	for x, v := range values {
		cur := level(v)
		lo, hi := min(prev, cur), max(prev, cur)
		for py := lo; py <= hi; py++ {
			dst.Set(x, py, plotCurveColor)
		}
		prev = cur
	}
}

func drawTitle(dst draw.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(plotTextColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent+1),
	}
	d.DrawString(text)
}

func maskThreshold(m *BinaryMask) int {
	if m == nil {
		return 0
	}
	return int(m.Threshold)
}

// cellColors returns n saturated colours, one per character cell.
func cellColors(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		r, g, b := colorful.Hsv(hue, 0.7, 0.95).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// cellIndex is the number of splits at or left of column x.
func cellIndex(splits []int, x int) int {
	n := 0
	for _, s := range splits {
		if s <= x {
			n++
		}
	}
	return n
}
