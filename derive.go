package punchbloom

import "fmt"

const (
	// MaxSubHashes is the largest usable k: a 32-byte digest slices into at
	// most 32 one-byte sub-hashes.
	MaxSubHashes = DigestSize

	// DefaultSubHashes is a reasonable k for hand-sized catalogs. It is a
	// suggestion only; Derive always takes k explicitly so that filters are
	// reproducible from their recorded parameters.
	DefaultSubHashes = 10
)

// Derive maps the first k bytes of a digest to grid cells and collects them
// into an item's sparse hash bitmap. Bytes are consumed left-to-right as
// produced by the digest, with no reordering, so the derivation is fully
// reproducible from the digest alone.
//
// Colliding sub-hash bytes merge into a single cell, so the result holds at
// most k cells; that is the sparsification working as intended, not an
// error. Returns ErrInvalidParameter unless 1 <= k <= MaxSubHashes.
func Derive(d Digest, k int) (*Bitmap, error) {
	if k < 1 || k > MaxSubHashes {
		return nil, fmt.Errorf("%w: k=%d, want 1 <= k <= %d", ErrInvalidParameter, k, MaxSubHashes)
	}
	b := NewBitmap()
	for _, sub := range d[:k] {
		b.cells[CoordFromByte(sub)] = struct{}{}
	}
	return b, nil
}

// DeriveString is shorthand for Derive(DigestOfString(s), k).
func DeriveString(s string, k int) (*Bitmap, error) {
	return Derive(DigestOfString(s), k)
}
