// Package clean builds the working copy of a dataset: a missing-value
// strategy applied first, then an optional column drop. The input dataset is
// never mutated.
package clean

import (
	"fmt"
	"strconv"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/errors"

	"github.com/montanaflynn/stats"
)

// Strategy selects how missing values are handled
type Strategy string

const (
	StrategyNone        Strategy = "none"
	StrategyDropMissing Strategy = "drop_missing"
	StrategyFill        Strategy = "fill_missing"
)

// ParseStrategy maps a form value to a strategy, defaulting to none.
func ParseStrategy(value string) Strategy {
	switch Strategy(value) {
	case StrategyDropMissing:
		return StrategyDropMissing
	case StrategyFill:
		return StrategyFill
	default:
		return StrategyNone
	}
}

// Label returns the human-readable name shown in the UI.
func (s Strategy) Label() string {
	switch s {
	case StrategyDropMissing:
		return "Drop Rows with Missing Values"
	case StrategyFill:
		return "Fill with Mean/Mode"
	default:
		return "None"
	}
}

// Strategies lists all strategies in UI order.
func Strategies() []Strategy {
	return []Strategy{StrategyNone, StrategyDropMissing, StrategyFill}
}

// Apply returns a new working copy of ds with the strategy applied. The
// original is left untouched.
func Apply(ds *dataset.Dataset, strategy Strategy) *dataset.Dataset {
	working := ds.Copy()

	switch strategy {
	case StrategyDropMissing:
		dropMissingRows(working)
	case StrategyFill:
		fillMissing(working)
	}

	return working
}

// dropMissingRows removes every row containing at least one missing cell.
func dropMissingRows(ds *dataset.Dataset) {
	numRows := ds.NumRows()
	keep := make([]bool, numRows)
	kept := 0
	for i := 0; i < numRows; i++ {
		keep[i] = true
		for _, col := range ds.Columns {
			if dataset.IsMissing(col.Cells[i]) {
				keep[i] = false
				break
			}
		}
		if keep[i] {
			kept++
		}
	}

	for c := range ds.Columns {
		cells := make([]string, 0, kept)
		for i, cell := range ds.Columns[c].Cells {
			if keep[i] {
				cells = append(cells, cell)
			}
		}
		ds.Columns[c].Cells = cells
	}
}

// fillMissing replaces missing cells per column: numeric columns take the
// column mean of the present values, other columns take the most frequent
// value. Ties on frequency go to the value seen first in row order.
func fillMissing(ds *dataset.Dataset) {
	for c := range ds.Columns {
		col := &ds.Columns[c]
		if col.MissingCount() == 0 {
			continue
		}

		var fill string
		if col.Kind() == dataset.KindNumeric {
			values := col.Float64s()
			if len(values) == 0 {
				continue // nothing to derive a mean from
			}
			mean, err := stats.Mean(values)
			if err != nil {
				continue
			}
			fill = strconv.FormatFloat(mean, 'g', -1, 64)
		} else {
			fill = mostFrequent(col.Cells)
			if fill == "" {
				continue // all cells missing
			}
		}

		for i, cell := range col.Cells {
			if dataset.IsMissing(cell) {
				col.Cells[i] = fill
			}
		}
	}
}

// mostFrequent returns the most common non-missing cell value, first
// occurrence winning ties. Empty result means the column has no values.
func mostFrequent(cells []string) string {
	counts := make(map[string]int)
	var order []string
	for _, cell := range cells {
		if dataset.IsMissing(cell) {
			continue
		}
		value := strings.TrimSpace(cell)
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}

	best := ""
	bestCount := 0
	for _, value := range order {
		if counts[value] > bestCount {
			best = value
			bestCount = counts[value]
		}
	}
	return best
}

// DropColumns removes the named columns from ds in place and returns the
// same dataset so downstream steps see the drop. Names that are already
// absent are ignored.
func DropColumns(ds *dataset.Dataset, names []string) *dataset.Dataset {
	if len(names) == 0 {
		return ds
	}

	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	kept := ds.Columns[:0]
	for _, col := range ds.Columns {
		if !drop[col.Name] {
			kept = append(kept, col)
		}
	}
	ds.Columns = kept
	return ds
}

// BuildWorkingCopy derives the working copy from (original, strategy, drop
// set) in the fixed order: strategy first, then column drop. It is the one
// entry point handlers use, so the derivation stays deterministic.
func BuildWorkingCopy(original *dataset.Dataset, strategy Strategy, dropSet []string) (ds *dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = errors.RenderError(fmt.Sprintf("cleaning failed: %v", r), nil)
		}
	}()

	working := Apply(original, strategy)
	working = DropColumns(working, dropSet)
	return working, nil
}
