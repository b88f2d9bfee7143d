package punchbloom

import "fmt"

// Physical defaults, in millimeters. A 3 mm feature with 1.5 mm spacing
// prints reliably on hobby FDM printers and keeps a full 16x16 card around
// 72 mm square.
const (
	// DefaultPitch is the default center-to-center spacing of grid cells.
	DefaultPitch = 4.5

	// DefaultRadius is the default hole/peg radius.
	DefaultRadius = 1.5
)

// Point is a physical 2D position. Units are whatever the pitch is given
// in; the defaults here are millimeters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polarity declares how a layout's placements should be realized: cut
// through the card, or raised from it. A filter card uses holes, an item
// card uses pegs; a card passes a filter when every peg meets a hole.
type Polarity string

const (
	// PolarityHole marks placements to be cut through the card.
	PolarityHole Polarity = "hole"
	// PolarityPeg marks placements to be raised from the card.
	PolarityPeg Polarity = "peg"
)

// LayoutConfig controls the bitmap-to-geometry mapping.
type LayoutConfig struct {
	// Pitch is the center-to-center spacing between adjacent cells.
	// Must be > 0.
	Pitch float64 `json:"pitch"`

	// Radius is the hole/peg radius. Must be > 0 and at most Pitch/2, or
	// adjacent features would touch.
	Radius float64 `json:"radius"`

	// Origin is the physical center of cell (0,0). Defaults to (0,0).
	Origin Point `json:"origin"`

	// Side is the grid side the bitmap was derived on. Zero means take the
	// bitmap's own side; any other value must match it.
	Side int `json:"side,omitempty"`

	// Polarity selects holes or pegs. Defaults to PolarityHole.
	Polarity Polarity `json:"polarity,omitempty"`
}

// DefaultLayoutConfig returns the millimeter defaults for a hole layout.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Pitch: DefaultPitch, Radius: DefaultRadius, Polarity: PolarityHole}
}

// Placement is one cell's physical realization.
type Placement struct {
	Cell   Coord `json:"cell"`
	Center Point `json:"center"`
}

// Layout is the geometry description of one card face: a placement per set
// cell plus the scalar parameters a downstream body builder needs. It is a
// derived, read-only value owned by the caller.
type Layout struct {
	Placements []Placement `json:"placements"`
	Pitch      float64     `json:"pitch"`
	Radius     float64     `json:"radius"`
	Side       int         `json:"side"`
	Polarity   Polarity    `json:"polarity"`
}

// ToLayout converts a bitmap into a physical punch/peg layout. Each set cell
// (r, c) is placed at origin + (c*pitch, r*pitch). Placements are sorted by
// row then column, so the same bitmap and config always yield an identical
// layout, across calls and across process restarts. The input bitmap is not
// modified.
func ToLayout(b *Bitmap, cfg LayoutConfig) (*Layout, error) {
	if cfg.Pitch <= 0 {
		return nil, fmt.Errorf("%w: pitch %v, want > 0", ErrInvalidParameter, cfg.Pitch)
	}
	if cfg.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius %v, want > 0", ErrInvalidParameter, cfg.Radius)
	}
	if cfg.Radius > cfg.Pitch/2 {
		return nil, fmt.Errorf("%w: radius %v, pitch %v allows at most %v",
			ErrGeometryOverlap, cfg.Radius, cfg.Pitch, cfg.Pitch/2)
	}
	side := cfg.Side
	if side == 0 {
		side = b.Side()
	} else if side != b.Side() {
		return nil, fmt.Errorf("%w: config side %d, bitmap side %d",
			ErrGridMismatch, cfg.Side, b.Side())
	}
	polarity := cfg.Polarity
	switch polarity {
	case "":
		polarity = PolarityHole
	case PolarityHole, PolarityPeg:
	default:
		return nil, fmt.Errorf("%w: polarity %q", ErrInvalidParameter, cfg.Polarity)
	}

	coords := b.Coords() // already sorted row, then column
	placements := make([]Placement, len(coords))
	for i, c := range coords {
		placements[i] = Placement{
			Cell: c,
			Center: Point{
				X: cfg.Origin.X + float64(c.Col)*cfg.Pitch,
				Y: cfg.Origin.Y + float64(c.Row)*cfg.Pitch,
			},
		}
	}

	return &Layout{
		Placements: placements,
		Pitch:      cfg.Pitch,
		Radius:     cfg.Radius,
		Side:       side,
		Polarity:   polarity,
	}, nil
}
