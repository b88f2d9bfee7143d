package punchbloom

import (
	"fmt"
	"slices"
)

// Bitmap is a set of grid cells: either one item's sparse hash or the union
// a filter accumulates. Cells are unordered and deduplicated; [Bitmap.Coords]
// produces the canonical row-then-column ordering.
//
// The zero value is not usable; call [NewBitmap].
type Bitmap struct {
	side  int
	cells map[Coord]struct{}
}

// NewBitmap returns an empty bitmap on the standard 16x16 grid.
func NewBitmap() *Bitmap {
	return newBitmapWithSide(GridSide)
}

func newBitmapWithSide(side int) *Bitmap {
	return &Bitmap{side: side, cells: make(map[Coord]struct{})}
}

// Side returns the grid side length the bitmap's cells are bounded by.
func (b *Bitmap) Side() int {
	return b.side
}

// Len returns the number of set cells.
func (b *Bitmap) Len() int {
	return len(b.cells)
}

// Contains reports whether the cell is set.
func (b *Bitmap) Contains(c Coord) bool {
	_, ok := b.cells[c]
	return ok
}

// Set marks a cell. Setting an already-set cell is a no-op. Returns
// ErrInvalidCoordinate if the cell is outside the grid.
func (b *Bitmap) Set(c Coord) error {
	if !c.InGrid(b.side) {
		return fmt.Errorf("%w: (%d,%d) not in [0,%d)x[0,%d)",
			ErrInvalidCoordinate, c.Row, c.Col, b.side, b.side)
	}
	b.cells[c] = struct{}{}
	return nil
}

// Coords returns the set cells sorted by row, then column. The slice is a
// copy; mutating it does not affect the bitmap.
func (b *Bitmap) Coords() []Coord {
	out := make([]Coord, 0, len(b.cells))
	for c := range b.cells {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCoords)
	return out
}

// Clone returns an independent copy.
func (b *Bitmap) Clone() *Bitmap {
	out := newBitmapWithSide(b.side)
	for c := range b.cells {
		out.cells[c] = struct{}{}
	}
	return out
}

// Equal reports whether two bitmaps have the same side and the same cells.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.side != o.side || len(b.cells) != len(o.cells) {
		return false
	}
	for c := range b.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every cell of b is set in o. Average-case O(1)
// lookup per cell, so the test is O(len(b)).
func (b *Bitmap) SubsetOf(o *Bitmap) bool {
	if len(b.cells) > len(o.cells) {
		return false
	}
	for c := range b.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

// merge ORs o's cells into b. Both sides are assumed validated.
func (b *Bitmap) merge(o *Bitmap) {
	for c := range o.cells {
		b.cells[c] = struct{}{}
	}
}
