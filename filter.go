package punchbloom

import (
	"fmt"
	"sync"
)

// Filter is a Bloom filter bitmap: the union of every item bitmap added to
// it. It grows monotonically; there is no remove operation, because clearing
// a cell shared with another item would introduce false negatives.
//
// Filter is NOT safe for concurrent use. Wrap it in a [SyncFilter] to share
// it across goroutines.
type Filter struct {
	bits  *Bitmap
	items uint64 // number of Add calls (approximate item count)
}

// NewFilter returns an empty filter on the standard 16x16 grid.
func NewFilter() *Filter {
	return &Filter{bits: NewBitmap()}
}

// Add unions an item's sparse hash bitmap into the filter. Adding the same
// bitmap twice does not change the set cells, and the final filter is
// independent of add order.
//
// Returns ErrGridMismatch if the item bitmap was built for a different grid
// side, or ErrInvalidCoordinate if it contains cells outside the grid.
func (f *Filter) Add(item *Bitmap) error {
	if err := f.check(item); err != nil {
		return err
	}
	f.bits.merge(item)
	f.items++
	return nil
}

// AddItem hashes an item identifier, derives its sparse bitmap with k
// sub-hashes, and unions it into the filter. The derived bitmap is returned
// so the caller can lay out the matching item card.
func (f *Filter) AddItem(name string, k int) (*Bitmap, error) {
	item, err := DeriveString(name, k)
	if err != nil {
		return nil, err
	}
	if err := f.Add(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Passes reports whether an item bitmap is a subset of the filter: true
// exactly when every peg on the item card aligns with a hole. An item that
// was added always passes (no false negatives, by construction of set
// union); an item that was never added may still pass if its cells all
// coincide with cells set by other items (an expected false positive).
func (f *Filter) Passes(item *Bitmap) (bool, error) {
	if err := f.check(item); err != nil {
		return false, err
	}
	return item.SubsetOf(f.bits), nil
}

func (f *Filter) check(item *Bitmap) error {
	if item.side != f.bits.side {
		return fmt.Errorf("%w: bitmap side %d, filter side %d",
			ErrGridMismatch, item.side, f.bits.side)
	}
	for c := range item.cells {
		if !c.InGrid(f.bits.side) {
			return fmt.Errorf("%w: (%d,%d) not in [0,%d)x[0,%d)",
				ErrInvalidCoordinate, c.Row, c.Col, f.bits.side, f.bits.side)
		}
	}
	return nil
}

// Len returns the number of set cells (holes on the filter card).
func (f *Filter) Len() int {
	return f.bits.Len()
}

// Items returns the number of item bitmaps added. Re-adding an item counts
// again, so this is an upper bound on the distinct item count.
func (f *Filter) Items() uint64 {
	return f.items
}

// Bitmap returns an independent snapshot of the filter's set cells.
func (f *Filter) Bitmap() *Bitmap {
	return f.bits.Clone()
}

// EstimatedFalsePositiveRate estimates the current false positive rate for
// membership tests with k sub-hashes per item, based on the number of items
// added so far.
func (f *Filter) EstimatedFalsePositiveRate(k int) float64 {
	return EstimateFalsePositiveRate(k, f.items)
}

// SyncFilter is a Filter safe for concurrent use. All mutation is routed
// through a single mutex; unions are cheap (O(k) per item) and commutative,
// so serializing them costs little and requires no ordering guarantees.
type SyncFilter struct {
	mu sync.Mutex
	f  *Filter
}

// NewSyncFilter returns an empty thread-safe filter.
func NewSyncFilter() *SyncFilter {
	return &SyncFilter{f: NewFilter()}
}

// Add unions an item bitmap into the filter. Safe to call concurrently.
func (s *SyncFilter) Add(item *Bitmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Add(item)
}

// AddItem hashes, derives, and unions an item identifier. The digest and
// derivation run outside the lock; only the union is serialized.
func (s *SyncFilter) AddItem(name string, k int) (*Bitmap, error) {
	item, err := DeriveString(name, k)
	if err != nil {
		return nil, err
	}
	if err := s.Add(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Passes reports whether an item bitmap passes the filter.
func (s *SyncFilter) Passes(item *Bitmap) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Passes(item)
}

// Len returns the number of set cells.
func (s *SyncFilter) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Len()
}

// Items returns the number of item bitmaps added.
func (s *SyncFilter) Items() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Items()
}

// Bitmap returns an independent snapshot of the filter's set cells.
func (s *SyncFilter) Bitmap() *Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Bitmap()
}

// Unwrap returns the underlying Filter. Callers must not use it while other
// goroutines still hold the SyncFilter.
func (s *SyncFilter) Unwrap() *Filter {
	return s.f
}
