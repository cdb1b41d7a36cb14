// Package inspect produces read-only summaries of a dataset: previews,
// shape, per-column info, descriptive statistics and missing-value counts.
package inspect

import (
	"strings"

	"datalens/domain/dataset"

	"github.com/montanaflynn/stats"
)

// Shape holds row and column counts
type Shape struct {
	Rows int
	Cols int
}

// ColumnInfo summarizes one column for the info block
type ColumnInfo struct {
	Index   int
	Name    string
	Kind    dataset.ColumnKind
	NonNull int
}

// NumericSummary holds descriptive statistics for a numeric column
type NumericSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// CategoricalSummary holds descriptive statistics for a non-numeric column
type CategoricalSummary struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Description carries the per-column statistics in column order
type Description struct {
	Numeric     []NumericSummary
	Categorical []CategoricalSummary
}

// NullCount pairs a column with its missing-value count
type NullCount struct {
	Name    string
	Missing int
}

// DatasetShape returns the shape of ds.
func DatasetShape(ds *dataset.Dataset) Shape {
	rows, cols := ds.Shape()
	return Shape{Rows: rows, Cols: cols}
}

// Preview returns the first n rows. Cells are already textual, so nothing
// further is needed to make mixed-type columns displayable.
func Preview(ds *dataset.Dataset, n int) [][]string {
	return ds.Head(n)
}

// Info returns the per-column type and non-null summary in column order.
func Info(ds *dataset.Dataset) []ColumnInfo {
	infos := make([]ColumnInfo, len(ds.Columns))
	for i := range ds.Columns {
		col := &ds.Columns[i]
		infos[i] = ColumnInfo{
			Index:   i,
			Name:    col.Name,
			Kind:    col.Kind(),
			NonNull: col.NonNullCount(),
		}
	}
	return infos
}

// Describe computes descriptive statistics for every column: count, mean,
// std, min, quartiles and max for numeric columns; count, unique, top and
// freq for the rest. Statistics follow the conventions of the underlying
// stats library.
func Describe(ds *dataset.Dataset) Description {
	var desc Description
	for i := range ds.Columns {
		col := &ds.Columns[i]
		if col.Kind() == dataset.KindNumeric {
			desc.Numeric = append(desc.Numeric, describeNumeric(col))
		} else {
			desc.Categorical = append(desc.Categorical, describeCategorical(col))
		}
	}
	return desc
}

func describeNumeric(col *dataset.Column) NumericSummary {
	values := col.Float64s()
	summary := NumericSummary{Name: col.Name, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	summary.Mean, _ = stats.Mean(values)
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)
	summary.Median, _ = stats.Median(values)
	if len(values) > 1 {
		summary.Std, _ = stats.StandardDeviationSample(values)
	}
	if quartiles, err := stats.Quartile(values); err == nil {
		summary.Q1 = quartiles.Q1
		summary.Median = quartiles.Q2
		summary.Q3 = quartiles.Q3
	}
	return summary
}

func describeCategorical(col *dataset.Column) CategoricalSummary {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, cell := range col.Cells {
		if dataset.IsMissing(cell) {
			continue
		}
		value := strings.TrimSpace(cell)
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
		total++
	}

	summary := CategoricalSummary{Name: col.Name, Count: total, Unique: len(order)}
	for _, value := range order {
		if counts[value] > summary.Freq {
			summary.Top = value
			summary.Freq = counts[value]
		}
	}
	return summary
}

// NullCounts returns the per-column missing-value counts in column order.
func NullCounts(ds *dataset.Dataset) []NullCount {
	counts := make([]NullCount, len(ds.Columns))
	for i := range ds.Columns {
		counts[i] = NullCount{
			Name:    ds.Columns[i].Name,
			Missing: ds.Columns[i].MissingCount(),
		}
	}
	return counts
}
