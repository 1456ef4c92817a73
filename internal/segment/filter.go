package segment

import "sort"

// FilterSplits sorts and deduplicates candidates, then keeps them greedily from
// the left: a candidate survives if it lies at least minCharWidth past the last
// survivor. The first survivor only needs to be >= 0 (the imaginary previous
// split sits at -minCharWidth).
//
// The input slice is not modified. Filtering an already-filtered slice returns
// it unchanged.
func FilterSplits(candidates []int, minCharWidth int) []int {
	unique := sortedUnique(candidates)
	out := make([]int, 0, len(unique))
	prev := -minCharWidth
	for _, c := range unique {
		if c-prev >= minCharWidth {
			out = append(out, c)
			prev = c
		}
	}
	return out
}

// ToGlobal offsets crop-local column indices by the crop's left edge.
func ToGlobal(local []int, left int) []int {
	out := make([]int, len(local))
	for i, x := range local {
		out[i] = x + left
	}
	return out
}

func sortedUnique(values []int) []int {
	out := make([]int, len(values))
	copy(out, values)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
