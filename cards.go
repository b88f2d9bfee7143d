package punchbloom

import (
	"context"
	"fmt"
)

// ItemCard is the geometry for one item: its name and the peg layout of its
// sparse hash.
type ItemCard struct {
	Name   string  `json:"name"`
	Layout *Layout `json:"layout"`
}

// CardSet is the complete geometry description for one physical filter: the
// filter card's hole layout plus one peg card per catalog item. It is the
// hand-off format to an external geometry generator, which only needs to
// turn each (center, radius, polarity) into an extruded peg or a cut hole.
type CardSet struct {
	Name      string     `json:"name"`
	SubHashes int        `json:"sub_hashes"`
	Filter    *Layout    `json:"filter"`
	Items     []ItemCard `json:"items"`
}

// BuildCardSet builds a filter from the named catalog items and lays out the
// full card set: the aggregate filter card with hole polarity, and one card
// per item with peg polarity. All cards share the supplied pitch, radius and
// origin; cfg.Polarity is ignored since polarity is determined per card.
func BuildCardSet(ctx context.Context, name string, items []string, k int, cfg LayoutConfig) (*CardSet, error) {
	filter, hashes, err := BuildFilter(ctx, items, k)
	if err != nil {
		return nil, err
	}
	return NewCardSet(name, k, filter, items, hashes, cfg)
}

// NewCardSet lays out a card set from an already-built filter and its
// per-item sparse hashes (index-aligned with items), as returned by
// [BuildFilter].
func NewCardSet(name string, k int, filter *Filter, items []string, hashes []*Bitmap, cfg LayoutConfig) (*CardSet, error) {
	if len(items) != len(hashes) {
		return nil, fmt.Errorf("%w: %d items but %d hashes", ErrInvalidParameter, len(items), len(hashes))
	}

	holeCfg := cfg
	holeCfg.Polarity = PolarityHole
	filterLayout, err := ToLayout(filter.Bitmap(), holeCfg)
	if err != nil {
		return nil, err
	}

	pegCfg := cfg
	pegCfg.Polarity = PolarityPeg
	cards := make([]ItemCard, len(items))
	for i, item := range items {
		layout, err := ToLayout(hashes[i], pegCfg)
		if err != nil {
			return nil, err
		}
		cards[i] = ItemCard{Name: item, Layout: layout}
	}

	return &CardSet{
		Name:      name,
		SubHashes: k,
		Filter:    filterLayout,
		Items:     cards,
	}, nil
}
