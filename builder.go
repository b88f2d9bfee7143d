package punchbloom

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BuildFilter assembles a filter from a catalog of item identifiers.
//
// Each item's digest → derive step is independent, so derivation fans out
// across GOMAXPROCS goroutines; only the final union into the shared filter
// is serialized, through a [SyncFilter]. Unions commute, so the resulting
// filter is identical to a sequential build.
//
// The returned bitmaps are the per-item sparse hashes, index-aligned with
// names, for laying out the matching item cards.
func BuildFilter(ctx context.Context, names []string, k int) (*Filter, []*Bitmap, error) {
	if k < 1 || k > MaxSubHashes {
		return nil, nil, fmt.Errorf("%w: k=%d, want 1 <= k <= %d", ErrInvalidParameter, k, MaxSubHashes)
	}

	sf := NewSyncFilter()
	hashes := make([]*Bitmap, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := DeriveString(name, k)
			if err != nil {
				return err
			}
			hashes[i] = item
			return sf.Add(item)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return sf.Unwrap(), hashes, nil
}
