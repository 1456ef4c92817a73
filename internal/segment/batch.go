package segment

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
)

// SegmentBatch segments several regions of one image concurrently.
//
// At most limit regions run at once; limit <= 0 means runtime.NumCPU(). Results
// are returned in the order of regions. The first failure cancels the remaining
// work and is returned wrapped with the index of the region that failed;
// errors.Is still classifies it.
func SegmentBatch(ctx context.Context, img image.Image, regions []imaging.Region, cfg Config, limit int, opts ...Option) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]*Result, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, r := range regions {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := SegmentImage(img, r, cfg, opts...)
			if err != nil {
				return fmt.Errorf("region %d (%s): %w", i, r, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
