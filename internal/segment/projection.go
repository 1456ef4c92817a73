package segment

import "github.com/ironsheep/charseg-mcp/internal/imaging"

// Projection holds one column sum per crop column.
type Projection []int

// Run is an inclusive interval of columns [Start, End].
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Width returns End-Start+1.
func (r Run) Width() int { return r.End - r.Start + 1 }

// BuildProjection sums each column of the mask. With 0/255 masks every entry
// is 255 times the number of ink pixels in the column.
func BuildProjection(m *imaging.BinaryMask) Projection {
	p := make(Projection, m.Width)
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			p[x] += int(v)
		}
	}
	return p
}

// ZeroRuns returns the maximal runs of zero-valued columns, left to right.
func ZeroRuns(p Projection) []Run {
	var runs []Run
	start := -1
	for x, v := range p {
		switch {
		case v == 0 && start < 0:
			start = x
		case v != 0 && start >= 0:
			runs = append(runs, Run{Start: start, End: x - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{Start: start, End: len(p) - 1})
	}
	return runs
}

// Spans returns the ink spans found by scanning left to right. A span opens
// at the first positive column and is closed by the next zero column. A span
// still open at the right edge is included only when includeTrailing is set.
func Spans(p Projection, includeTrailing bool) []Run {
	var spans []Run
	inChar := false
	start := 0
	for x, v := range p {
		if v > 0 && !inChar {
			inChar = true
			start = x
		} else if v == 0 && inChar {
			inChar = false
			spans = append(spans, Run{Start: start, End: x - 1})
		}
	}
	if inChar && includeTrailing {
		spans = append(spans, Run{Start: start, End: len(p) - 1})
	}
	return spans
}
