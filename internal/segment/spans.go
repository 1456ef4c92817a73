package segment

// SplitMethod names the rule that produced the split(s) for an oversized span.
type SplitMethod string

const (
	// MethodInteriorZero: the span contained zero columns; all of them are used.
	MethodInteriorZero SplitMethod = "interior_zero"
	// MethodLocalMinimum: an accepted minimum of the smoothed curve.
	MethodLocalMinimum SplitMethod = "local_minimum"
	// MethodGlobalMinimum: no accepted minimum; lowest raw column near the centre.
	MethodGlobalMinimum SplitMethod = "global_minimum"
	// MethodShortSpan: span too narrow to smooth; lowest raw column near the centre.
	MethodShortSpan SplitMethod = "short_span"
)

// SpanDecision records how one oversized span was split.
type SpanDecision struct {
	Span   Run         `json:"span"`
	Method SplitMethod `json:"method"`
	Window int         `json:"window,omitempty"`
	Order  int         `json:"order,omitempty"`
	// Minima are the smoothed local minima (global columns) before the
	// acceptance cutoff.
	Minima []int `json:"minima,omitempty"`
	Splits []int `json:"splits"`
}

// SpanCandidates proposes splits inside every ink span wider than
// cfg.MaxCharWidth.
func SpanCandidates(p Projection, cfg Config) ([]int, error) {
	decisions, err := splitWideSpans(p, Spans(p, cfg.SplitTrailingSpan), cfg)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, d := range decisions {
		out = append(out, d.Splits...)
	}
	return out, nil
}

func splitWideSpans(p Projection, spans []Run, cfg Config) ([]SpanDecision, error) {
	var decisions []SpanDecision
	for _, s := range spans {
		if s.Width() <= cfg.MaxCharWidth {
			continue
		}
		d, err := splitSpan(p, s, cfg)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

// splitSpan chooses the split(s) for one oversized span:
//
//  1. any zero columns inside the span, all of them;
//  2. otherwise, for spans of at least cfg.MinSmoothWidth columns, the smoothed
//     local minimum closest to the centre among those <= cfg.MinimumAcceptValue;
//  3. otherwise the raw global-minimum column closest to the centre.
//
// Ties on distance go to the leftmost column.
func splitSpan(p Projection, span Run, cfg Config) (SpanDecision, error) {
	values := p[span.Start : span.End+1]
	width := span.Width()
	center := span.Start + width/2
	d := SpanDecision{Span: span}

	for i, v := range values {
		if v == 0 {
			d.Splits = append(d.Splits, span.Start+i)
		}
	}
	if len(d.Splits) > 0 {
		d.Method = MethodInteriorZero
		return d, nil
	}

	if width < cfg.MinSmoothWidth {
		d.Method = MethodShortSpan
		d.Splits = []int{globalMinimum(values, span.Start, center)}
		return d, nil
	}

	d.Window, d.Order = SmoothingParams(width, cfg)
	samples := make([]float64, width)
	for i, v := range values {
		samples[i] = float64(v)
	}
	smoothed, err := Smooth(samples, d.Window, d.Order)
	if err != nil {
		return d, newInternalError(span, "smoothing failed", err)
	}

	var accepted []int
	for _, i := range LocalMinima(smoothed) {
		d.Minima = append(d.Minima, span.Start+i)
		if smoothed[i] <= cfg.MinimumAcceptValue {
			accepted = append(accepted, span.Start+i)
		}
	}
	if len(accepted) > 0 {
		d.Method = MethodLocalMinimum
		d.Splits = []int{closestTo(accepted, center)}
		return d, nil
	}

	d.Method = MethodGlobalMinimum
	d.Splits = []int{globalMinimum(values, span.Start, center)}
	return d, nil
}

// globalMinimum returns the column (offset by start) holding the smallest value,
// picking the one closest to center when several share it.
func globalMinimum(values []int, start, center int) int {
	lowest := values[0]
	for _, v := range values[1:] {
		lowest = min(lowest, v)
	}
	var positions []int
	for i, v := range values {
		if v == lowest {
			positions = append(positions, start+i)
		}
	}
	return closestTo(positions, center)
}

// closestTo returns the first position with the smallest distance to center.
func closestTo(positions []int, center int) int {
	best := positions[0]
	for _, pos := range positions[1:] {
		if abs(pos-center) < abs(best-center) {
			best = pos
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
