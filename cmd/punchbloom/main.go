// Command punchbloom derives punchcard geometry for a physical Bloom filter.
//
// It reads a catalog of item identifiers (one per line), builds the filter,
// and writes a card-set JSON document: hole placements for the filter card
// and peg placements for each item card. Feeding the placements to a CAD
// body builder is out of scope here.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/punchbloom/punchbloom"
)

var logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

func main() {
	app := kingpin.New("punchbloom", "Derive punchcard geometry for a physical Bloom filter.")
	name := app.Flag("name", "Name of the filter card.").Default("Filter").String()
	catalog := app.Flag("catalog", "File with one item identifier per line, or - for stdin.").
		Short('c').Default("-").String()
	k := app.Flag("sub-hashes", "Sub-hashes per item (1-32).").
		Short('k').Default("10").Int()
	pitch := app.Flag("pitch", "Center-to-center cell spacing, in mm.").
		Default("4.5").Float64()
	radius := app.Flag("radius", "Hole/peg radius, in mm.").
		Default("1.5").Float64()
	originX := app.Flag("origin-x", "Physical X of cell (0,0)'s center, in mm.").Default("0").Float64()
	originY := app.Flag("origin-y", "Physical Y of cell (0,0)'s center, in mm.").Default("0").Float64()
	output := app.Flag("output", "Write card-set JSON to this file instead of stdout.").
		Short('o').String()
	queries := app.Flag("query", "Report whether this item would pass the built filter. Repeatable.").
		Short('q').Strings()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	items, err := readCatalog(*catalog)
	if err != nil {
		exitWithErr(err)
	}
	if len(items) == 0 {
		exitWithErr(fmt.Errorf("catalog %q contains no items", *catalog))
	}

	ctx := context.Background()
	filter, hashes, err := punchbloom.BuildFilter(ctx, items, *k)
	if err != nil {
		exitWithErr(err)
	}
	level.Info(logger).Log(
		"msg", "filter built",
		"name", *name,
		"items", len(items),
		"cells", filter.Len(),
		"sub_hashes", *k,
		"estimated_fp_rate", fmt.Sprintf("%.4f", filter.EstimatedFalsePositiveRate(*k)),
	)

	cfg := punchbloom.LayoutConfig{
		Pitch:  *pitch,
		Radius: *radius,
		Origin: punchbloom.Point{X: *originX, Y: *originY},
	}
	cards, err := punchbloom.NewCardSet(*name, *k, filter, items, hashes, cfg)
	if err != nil {
		exitWithErr(err)
	}

	for _, q := range *queries {
		item, err := punchbloom.DeriveString(q, *k)
		if err != nil {
			exitWithErr(err)
		}
		pass, err := filter.Passes(item)
		if err != nil {
			exitWithErr(err)
		}
		level.Info(logger).Log("msg", "query", "item", q, "passes", pass)
	}

	if err := writeCardSet(cards, *output); err != nil {
		exitWithErr(err)
	}
}

func readCatalog(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var items []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if item := strings.TrimSpace(scanner.Text()); item != "" {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return items, nil
}

func writeCardSet(cards *punchbloom.CardSet, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

func exitWithErr(err error) {
	level.Error(logger).Log("msg", "failed", "err", err)
	os.Exit(1)
}
