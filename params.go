package punchbloom

import "math"

// ln2 is the natural logarithm of 2.
const ln2 = 0.6931471805599453

// EstimateFalsePositiveRate estimates the false positive rate of a filter
// holding n items, each derived with k sub-hashes, on the 256-cell grid.
// Formula: (1 - e^(-kn/m))^k with m = GridCells.
func EstimateFalsePositiveRate(k int, n uint64) float64 {
	if k <= 0 || n == 0 {
		return 0
	}
	m := float64(GridCells)
	kf := float64(k)
	return math.Pow(1-math.Exp(-kf*float64(n)/m), kf)
}

// OptimalSubHashes returns the k that minimizes the false positive rate for
// the expected number of items: (m/n) * ln(2), clamped to the usable range
// [1, MaxSubHashes]. For more than a few dozen items the 256-cell grid is
// simply too small and the optimum collapses toward k=1; check the estimate
// before committing to a physical card.
func OptimalSubHashes(expectedItems uint64) int {
	if expectedItems == 0 {
		expectedItems = 1
	}
	k := int(math.Round(float64(GridCells) / float64(expectedItems) * ln2))
	k = max(k, 1)
	k = min(k, MaxSubHashes)
	return k
}
