package segment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SmoothingParams returns the Savitzky-Golay window and polynomial order used
// for a span of the given width.
//
// The window is the width, made odd by dropping one column if needed, capped at
// cfg.MaxSmoothWindow and floored at cfg.MinSmoothWindow. The order is
// min(cfg.MaxPolyOrder, window-1).
func SmoothingParams(width int, cfg Config) (window, order int) {
	odd := width
	if odd%2 == 0 {
		odd--
	}
	window = min(cfg.MaxSmoothWindow, odd)
	if window < cfg.MinSmoothWindow {
		window = cfg.MinSmoothWindow
	}
	order = min(cfg.MaxPolyOrder, window-1)
	return window, order
}

// Smooth applies a Savitzky-Golay filter to values.
//
// Every sample at least window/2 away from both ends is replaced by the value at
// the window centre of the least-squares polynomial of the given order fitted to
// the window around it. The first and last window/2 samples are read off the
// polynomial fitted to the first (or last) window samples, so the output has the
// same length as the input and polynomials up to the given order pass through
// unchanged, edges included.
func Smooth(values []float64, window, order int) ([]float64, error) {
	switch {
	case window < 1 || window%2 == 0:
		return nil, fmt.Errorf("smoothing window must be a positive odd number, got %d", window)
	case order < 0 || order >= window:
		return nil, fmt.Errorf("polynomial order %d must be in [0, %d)", order, window)
	case len(values) < window:
		return nil, fmt.Errorf("smoothing window %d longer than input (%d samples)", window, len(values))
	}

	fit, err := fitOperator(window, order)
	if err != nil {
		return nil, err
	}

	n := len(values)
	half := window / 2
	out := make([]float64, n)

	for i := half; i < n-half; i++ {
		var s float64
		for k := 0; k < window; k++ {
			s += fit.At(0, k) * values[i-half+k]
		}
		out[i] = s
	}

	left := polyFit(fit, values[:window])
	right := polyFit(fit, values[n-window:])
	for i := 0; i < half; i++ {
		out[i] = polyEval(left, float64(i-half))
		out[n-half+i] = polyEval(right, float64(i+1))
	}
	return out, nil
}

// fitOperator returns the (order+1)×window matrix mapping window samples, taken
// at offsets -half..half, to the coefficients of their least-squares polynomial
// (constant term first).
func fitOperator(window, order int) (*mat.Dense, error) {
	half := window / 2
	vander := mat.NewDense(window, order+1, nil)
	for k := 0; k < window; k++ {
		t := float64(k - half)
		p := 1.0
		for j := 0; j <= order; j++ {
			vander.Set(k, j, p)
			p *= t
		}
	}

	ident := mat.NewDense(window, window, nil)
	for k := 0; k < window; k++ {
		ident.Set(k, k, 1)
	}

	var op mat.Dense
	if err := op.Solve(vander, ident); err != nil {
		return nil, fmt.Errorf("least-squares fit (window=%d, order=%d): %w", window, order, err)
	}
	return &op, nil
}

func polyFit(op *mat.Dense, samples []float64) []float64 {
	rows, cols := op.Dims()
	coef := make([]float64, rows)
	for j := 0; j < rows; j++ {
		var s float64
		for k := 0; k < cols; k++ {
			s += op.At(j, k) * samples[k]
		}
		coef[j] = s
	}
	return coef
}

func polyEval(coef []float64, t float64) float64 {
	var v float64
	for j := len(coef) - 1; j >= 0; j-- {
		v = v*t + coef[j]
	}
	return v
}

// minimaTolerance is the relative margin a sample must clear below both
// neighbours. It absorbs the rounding noise of the least-squares fit, which
// otherwise turns a flat stretch into a row of spurious minima.
const minimaTolerance = 1e-9

// LocalMinima returns the indices strictly lower than both neighbours. The
// first and last samples are never minima.
func LocalMinima(values []float64) []int {
	var out []int
	for i := 1; i < len(values)-1; i++ {
		eps := minimaTolerance * math.Max(1, math.Abs(values[i]))
		if values[i] < values[i-1]-eps && values[i] < values[i+1]-eps {
			out = append(out, i)
		}
	}
	return out
}
