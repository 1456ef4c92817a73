// Package segment splits a line of handwriting into character cells using the
// vertical projection of the binarized region.
//
// # Pipeline
//
//  1. Binarize the crop (package imaging): ink 255, paper 0.
//  2. BuildProjection: one column sum per crop column.
//  3. GapCandidates: every maximal run of zero columns yields its midpoint, or
//     both of its ends when the run is long.
//  4. SpanCandidates: every ink span wider than MaxCharWidth yields one split,
//     preferring interior zero columns, then an accepted minimum of the
//     Savitzky-Golay smoothed curve, then the raw minimum closest to the span
//     centre.
//  5. FilterSplits: sort, deduplicate and enforce MinCharWidth spacing greedily.
//  6. ToGlobal: shift to source-image coordinates.
//
// Segment and SegmentImage run the whole pipeline; Analyze runs steps 3 to 5 on
// a projection, which is how most tests exercise the algorithm.
//
// # Concurrency
//
// Calls share no state and allocate their own buffers. They may run in
// parallel; SegmentBatch does so for many regions of one image.
//
// # Errors
//
// Failures are *Error values carrying an ErrorCode. Compare with errors.Is
// against ErrDecode, ErrInvalidRegion, ErrInvalidConfig or ErrInternal. An empty
// split list is a valid result (no boundaries found), never an error signal.
package segment
