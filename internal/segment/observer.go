package segment

import (
	"context"
	"image"
	"log/slog"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
)

// Trace is the intermediate state of one successful segmentation.
// Observers must treat it as read-only.
type Trace struct {
	Requested imaging.Region
	Region    imaging.Region
	Crop      image.Image
	Mask      *imaging.BinaryMask
	Analysis  *Analysis
	// Splits are the final global coordinates, as returned in Result.Splits.
	Splits []int
}

// Observer receives the Trace of each successful call it is attached to.
// Observers attached to SegmentBatch are called from several goroutines.
type Observer interface {
	Observe(t *Trace)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t *Trace)

// Observe calls f(t).
func (f ObserverFunc) Observe(t *Trace) { f(t) }

// LogObserver writes one debug record per call with the projection, the
// candidate sets and the chosen splits.
func LogObserver(l *slog.Logger) Observer {
	return ObserverFunc(func(t *Trace) {
		if !l.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		methods := make([]string, len(t.Analysis.SpanDecisions))
		for i, d := range t.Analysis.SpanDecisions {
			methods[i] = string(d.Method)
		}
		l.Debug("segmentation trace",
			slog.String("region", t.Region.String()),
			slog.Int("threshold", int(t.Mask.Threshold)),
			slog.Any("projection", []int(t.Analysis.Projection)),
			slog.Any("gap_candidates", t.Analysis.GapCandidates),
			slog.Any("span_methods", methods),
			slog.Any("candidates", t.Analysis.Candidates),
			slog.Any("splits", t.Splits))
	})
}
