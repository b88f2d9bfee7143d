package punchbloom

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
)

func mustDerive(t *testing.T, name string, k int) *Bitmap {
	t.Helper()
	b, err := DeriveString(name, k)
	if err != nil {
		t.Fatalf("DeriveString(%q, %d) failed: %v", name, k, err)
	}
	return b
}

// disjointItem finds an item name whose sparse hash shares no cell with the
// filter. False positives against a sparse filter are rare, so the search
// terminates almost immediately.
func disjointItem(t *testing.T, f *Filter, k int) (string, *Bitmap) {
	t.Helper()
	snapshot := f.Bitmap()
	for i := 0; i < 100000; i++ {
		name := fmt.Sprintf("probe-%d", i)
		b := mustDerive(t, name, k)
		overlap := false
		for _, c := range b.Coords() {
			if snapshot.Contains(c) {
				overlap = true
				break
			}
		}
		if !overlap {
			return name, b
		}
	}
	t.Fatal("no disjoint item found; filter is saturated")
	return "", nil
}

func TestFilterNoFalseNegatives(t *testing.T) {
	f := NewFilter()
	items := []string{"Tomato", "Apple", "Banana", "Pear", "Cucumber"}

	for _, item := range items {
		if _, err := f.AddItem(item, 10); err != nil {
			t.Fatalf("AddItem(%q) failed: %v", item, err)
		}
	}

	for _, item := range items {
		pass, err := f.Passes(mustDerive(t, item, 10))
		if err != nil {
			t.Fatalf("Passes(%q) failed: %v", item, err)
		}
		if !pass {
			t.Errorf("added item %q does not pass the filter", item)
		}
	}
}

func TestFilterRejectsDisjointItem(t *testing.T) {
	f := NewFilter()
	for _, item := range []string{"Oats", "Peas"} {
		if _, err := f.AddItem(item, 10); err != nil {
			t.Fatalf("AddItem(%q) failed: %v", item, err)
		}
	}

	name, b := disjointItem(t, f, 10)
	pass, err := f.Passes(b)
	if err != nil {
		t.Fatalf("Passes(%q) failed: %v", name, err)
	}
	if pass {
		t.Errorf("item %q has no cell in common with the filter but passed", name)
	}
}

func TestFilterEndToEndBanana(t *testing.T) {
	item := mustDerive(t, "Banana", 10)
	if item.Len() > 10 {
		t.Fatalf("Banana bitmap has %d cells, want <= 10", item.Len())
	}

	f := NewFilter()
	if err := f.Add(item); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	pass, err := f.Passes(item)
	if err != nil {
		t.Fatalf("Passes failed: %v", err)
	}
	if !pass {
		t.Error("Banana does not pass its own single-item filter")
	}

	name, other := disjointItem(t, f, 10)
	pass, err = f.Passes(other)
	if err != nil {
		t.Fatalf("Passes(%q) failed: %v", name, err)
	}
	if pass {
		t.Errorf("disjoint item %q passed the single-item filter", name)
	}
}

func TestFilterUnionCommutative(t *testing.T) {
	a := mustDerive(t, "Carrot", 10)
	b := mustDerive(t, "Lettuce", 10)
	c := mustDerive(t, "Beet", 10)

	orders := [][]*Bitmap{
		{a, b, c},
		{c, b, a},
		{b, a, c},
	}

	var snapshots []*Bitmap
	for _, order := range orders {
		f := NewFilter()
		for _, item := range order {
			if err := f.Add(item); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}
		snapshots = append(snapshots, f.Bitmap())
	}

	for i := 1; i < len(snapshots); i++ {
		if !snapshots[0].Equal(snapshots[i]) {
			t.Errorf("add order %d produced a different filter", i)
		}
	}
}

func TestFilterUnionIdempotent(t *testing.T) {
	item := mustDerive(t, "Broccoli", 10)

	f := NewFilter()
	if err := f.Add(item); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	once := f.Bitmap()

	if err := f.Add(item); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}
	if !once.Equal(f.Bitmap()) {
		t.Error("re-adding the same item changed the filter's cells")
	}
	if f.Items() != 2 {
		t.Errorf("Items() = %d, want 2 (counts adds, not distinct items)", f.Items())
	}
}

func TestFilterGridMismatch(t *testing.T) {
	f := NewFilter()
	foreign := newBitmapWithSide(8)

	if err := f.Add(foreign); !errors.Is(err, ErrGridMismatch) {
		t.Errorf("Add: got %v, want ErrGridMismatch", err)
	}
	if _, err := f.Passes(foreign); !errors.Is(err, ErrGridMismatch) {
		t.Errorf("Passes: got %v, want ErrGridMismatch", err)
	}
}

func TestFilterInvalidCoordinate(t *testing.T) {
	f := NewFilter()

	// A bitmap built through the API cannot hold out-of-grid cells, so
	// construct one directly the way a buggy caller might.
	bad := NewBitmap()
	bad.cells[Coord{Row: 20, Col: 3}] = struct{}{}

	if err := f.Add(bad); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Add: got %v, want ErrInvalidCoordinate", err)
	}
	if _, err := f.Passes(bad); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Passes: got %v, want ErrInvalidCoordinate", err)
	}
}

func TestBitmapSetValidation(t *testing.T) {
	b := NewBitmap()
	if err := b.Set(Coord{Row: 15, Col: 15}); err != nil {
		t.Errorf("Set of valid cell failed: %v", err)
	}
	if err := b.Set(Coord{Row: 16, Col: 0}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("got %v, want ErrInvalidCoordinate", err)
	}
}

func TestSyncFilterConcurrent(t *testing.T) {
	f := NewSyncFilter()

	const numGoroutines = 8
	const itemsPerGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < itemsPerGoroutine; i++ {
				name := fmt.Sprintf("g%d-item-%d", goroutineID, i)
				if _, err := f.AddItem(name, 10); err != nil {
					t.Errorf("AddItem(%q) failed: %v", name, err)
				}
			}
		}(g)
	}
	wg.Wait()

	if f.Items() != numGoroutines*itemsPerGoroutine {
		t.Errorf("Items() = %d, want %d", f.Items(), numGoroutines*itemsPerGoroutine)
	}

	// Every added item must pass, regardless of interleaving.
	for g := 0; g < numGoroutines; g++ {
		for i := 0; i < itemsPerGoroutine; i++ {
			name := fmt.Sprintf("g%d-item-%d", g, i)
			pass, err := f.Passes(mustDerive(t, name, 10))
			if err != nil {
				t.Fatalf("Passes(%q) failed: %v", name, err)
			}
			if !pass {
				t.Errorf("added item %q missing from concurrently-built filter", name)
			}
		}
	}
}

func TestEstimateFalsePositiveRate(t *testing.T) {
	// Against the formula directly: (1 - e^(-kn/m))^k, m = 256.
	k, n := 10, uint64(5)
	want := math.Pow(1-math.Exp(-float64(k)*float64(n)/256), float64(k))
	if got := EstimateFalsePositiveRate(k, n); math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := EstimateFalsePositiveRate(10, 0); got != 0 {
		t.Errorf("empty filter: got %v, want 0", got)
	}

	f := NewFilter()
	for i := 0; i < 5; i++ {
		if _, err := f.AddItem(fmt.Sprintf("item-%d", i), k); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}
	if got := f.EstimatedFalsePositiveRate(k); math.Abs(got-want) > 1e-12 {
		t.Errorf("filter estimate: got %v, want %v", got, want)
	}
}

func TestOptimalSubHashes(t *testing.T) {
	tests := []struct {
		items uint64
		want  int
	}{
		{1, 32},   // 256*ln2 ≈ 177, clamped to 32
		{18, 10},  // 256/18*ln2 ≈ 9.86
		{25, 7},   // 256/25*ln2 ≈ 7.1
		{100, 2},  // 256/100*ln2 ≈ 1.77
		{1000, 1}, // grid far too small; clamps to 1
	}
	for _, tt := range tests {
		if got := OptimalSubHashes(tt.items); got != tt.want {
			t.Errorf("OptimalSubHashes(%d) = %d, want %d", tt.items, got, tt.want)
		}
	}
}
