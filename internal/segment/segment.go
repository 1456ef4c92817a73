package segment

import (
	"errors"
	"image"
	"log/slog"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
	"github.com/ironsheep/charseg-mcp/internal/logging"
)

// Analysis is everything Analyze derives from a projection. All column
// indices are local to the crop.
type Analysis struct {
	Projection    Projection     `json:"projection"`
	ZeroRuns      []Run          `json:"zero_runs"`
	Spans         []Run          `json:"spans"`
	GapCandidates []int          `json:"gap_candidates"`
	SpanDecisions []SpanDecision `json:"span_decisions"`
	// Candidates is the sorted, deduplicated union of all proposals.
	Candidates []int `json:"candidates"`
	// Splits are the candidates that survived min-width filtering.
	Splits []int `json:"splits"`
}

// Analyze runs gap detection, wide-span splitting and filtering on a
// projection. It is the pure, image-free half of the pipeline.
func Analyze(p Projection, cfg Config) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analysis{
		Projection: p,
		ZeroRuns:   ZeroRuns(p),
		Spans:      Spans(p, cfg.SplitTrailingSpan),
	}
	a.GapCandidates = gapCandidates(a.ZeroRuns, cfg.ShortGapLength)

	decisions, err := splitWideSpans(p, a.Spans, cfg)
	if err != nil {
		return nil, err
	}
	a.SpanDecisions = decisions

	all := make([]int, 0, len(a.GapCandidates)+len(decisions))
	all = append(all, a.GapCandidates...)
	for _, d := range decisions {
		all = append(all, d.Splits...)
	}
	a.Candidates = sortedUnique(all)
	a.Splits = FilterSplits(a.Candidates, cfg.MinCharWidth)
	return a, nil
}

// Result is the outcome of segmenting one region.
type Result struct {
	// Region is the crop actually analysed, after clamping to the image.
	Region imaging.Region `json:"region"`
	// Splits are the boundary x-coordinates in source-image space, strictly
	// increasing and at least MinCharWidth apart.
	Splits []int `json:"split_positions"`
	// Local are the same boundaries relative to Region.Left.
	Local []int `json:"local_splits"`
	// Threshold is the Otsu level used to binarize the crop.
	Threshold uint8 `json:"threshold"`
}

// Option customizes a single call.
type Option func(*options)

type options struct {
	observers []Observer
}

// WithObserver attaches an observer that receives the Trace of a successful
// call. Observers run after the result is final and cannot change it.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observers = append(opts.observers, o)
		}
	}
}

// Segment decodes raster and segments region of it.
//
// # Errors
//
// Returns ErrDecode if raster is not a decodable image, ErrInvalidRegion if the
// crop is empty before or after clamping, ErrInvalidConfig for bad settings and
// ErrInternal (with region and span) if the algorithm itself fails.
func Segment(raster []byte, region imaging.Region, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if region.Empty() {
		return nil, newRegionError(region, imaging.ErrEmptyRegion)
	}
	img, _, err := imaging.DecodeRaster(raster)
	if err != nil {
		return nil, newDecodeError(err)
	}
	return SegmentImage(img, region, cfg, opts...)
}

// SegmentImage segments region of an already decoded image.
//
// The region is clamped to the image bounds; the returned coordinates are
// offset by the clamped left edge. See Segment for the error contract.
func SegmentImage(img image.Image, region imaging.Region, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	crop, clamped, err := imaging.CropRegion(img, region)
	if err != nil {
		return nil, newRegionError(region, err)
	}

	mask, err := imaging.Binarize(crop)
	if err != nil {
		return nil, newRegionError(region, err)
	}

	projection := BuildProjection(mask)
	analysis, err := Analyze(projection, cfg)
	if err != nil {
		var segErr *Error
		if errors.As(err, &segErr) {
			segErr.Region = clamped
		}
		logging.Logger().Error("segmentation failed",
			slog.String("region", clamped.String()),
			slog.Any("error", err))
		return nil, err
	}

	res := &Result{
		Region:    clamped,
		Splits:    ToGlobal(analysis.Splits, clamped.Left),
		Local:     analysis.Splits,
		Threshold: mask.Threshold,
	}

	logging.Logger().Debug("segmented region",
		slog.String("region", clamped.String()),
		slog.Int("threshold", int(mask.Threshold)),
		slog.Int("candidates", len(analysis.Candidates)),
		slog.Int("splits", len(res.Splits)))

	if len(o.observers) > 0 {
		trace := &Trace{
			Requested: region,
			Region:    clamped,
			Crop:      crop,
			Mask:      mask,
			Analysis:  analysis,
			Splits:    res.Splits,
		}
		for _, obs := range o.observers {
			obs.Observe(trace)
		}
	}
	return res, nil
}
