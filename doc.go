// Package punchbloom derives physically-manufacturable Bloom filters:
// punchcards whose holes encode a filter bitmap, and item cards whose pegs
// encode a single item's sparse hash.
//
// A Bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are
// possible, but false negatives are not – if the filter says an element is
// not present, it definitely is not. Here the filter is made physical: an
// item card "passes" a filter card exactly when every one of its pegs lines
// up with a hole.
//
// # How items become grid cells
//
// Every item identifier is hashed once with SHA-256, producing a 32-byte
// [Digest]. The digest's first k bytes are treated as k independent 8-bit
// sub-hashes (all bits of a high-quality hash are equally probable, so
// slicing one digest is as good as computing k separate hashes). Each byte b
// maps to a cell on a 16x16 grid:
//
//	row = b / 16
//	col = b % 16
//
// The mapping is a bijection over the full byte range, so the 256 grid cells
// are exactly the 256 possible sub-hash values. The k cells for one item form
// its sparse hash [Bitmap]; duplicate bytes simply merge, which is why a
// bitmap holds at most k cells.
//
// The digest algorithm is fixed, not configurable: cards punched by two
// different tool instances must interoperate, and that only works if both
// derive identical grids from identical names.
//
// # Filters
//
// A [Filter] is the union of item bitmaps. Adding an item ORs its cells into
// the filter; membership is a subset test. Union is idempotent, commutative
// and associative, so a filter assembled card-by-card is identical no matter
// the order the cards arrive in. There is deliberately no remove operation:
// clearing a cell shared with another item would make the filter falsely
// reject an item that is still present, and a Bloom filter must never produce
// false negatives.
//
// [Filter] is NOT safe for concurrent use. [SyncFilter] wraps it with a
// mutex so multiple goroutines can add and test concurrently; since unions
// commute, no ordering guarantee is needed beyond "eventually all applied".
// [BuildFilter] uses that to derive item hashes in parallel across a catalog.
//
// # Layouts
//
// [ToLayout] turns any bitmap into geometry: one (center, radius) placement
// per set cell, on a configurable pitch, tagged with a [Polarity] (cut holes
// for a filter card, raised pegs for an item card). Placements are always
// emitted sorted by row then column, so the same bitmap yields
// byte-identical geometry on every run – downstream CAD diffing and testing
// depend on that. Constructing solid bodies from the placements is out of
// scope; any consumer that can turn (center, radius, polarity) into a
// feature can manufacture the cards.
//
// # Choosing k
//
// More sub-hashes per item means fewer false positives for small filters but
// faster saturation of the 256-cell grid as items are added. The standard
// estimate applies with m = 256:
//
//	fp ≈ (1 - e^(-kn/256))^k
//
// [DefaultSubHashes] (10) is a comfortable choice for hand-sized catalogs;
// [OptimalSubHashes] computes the textbook optimum for a given item count,
// and [EstimateFalsePositiveRate] reports the expected rate for any (k, n).
//
// # Serialization
//
// Bitmaps and filters marshal to a canonical binary form: a version byte,
// the grid side, and the sorted, deduplicated (row, col) pairs, followed by
// an xxh3 checksum of the payload. Canonical ordering means equal bitmaps
// always serialize to equal bytes, so serialized forms can be compared or
// content-addressed directly.
//
// # References
//
//   - Bloom, "Space/Time Trade-offs in Hash Coding with Allowable Errors" (1970)
//   - Less Hashing, Same Performance: https://www.eecs.harvard.edu/~michaelm/postscripts/rsa2008.pdf
package punchbloom
