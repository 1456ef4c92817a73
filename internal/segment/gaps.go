package segment

// GapCandidates proposes splits from the zero runs of p.
//
// A run [s, e] with e-s < cfg.ShortGapLength is cut once at s+(e-s)/2. Longer
// runs are real whitespace and are cut at both s and e, so the characters on
// either side each get a tight edge.
func GapCandidates(p Projection, cfg Config) []int {
	return gapCandidates(ZeroRuns(p), cfg.ShortGapLength)
}

func gapCandidates(runs []Run, shortGap int) []int {
	out := make([]int, 0, len(runs))
	for _, r := range runs {
		length := r.End - r.Start
		if length < shortGap {
			out = append(out, r.Start+length/2)
			continue
		}
		out = append(out, r.Start, r.End)
	}
	return out
}
