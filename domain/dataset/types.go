// Package dataset defines the in-memory table model the rest of the
// application operates on: ordered named columns of string cells, with
// missing values encoded as empty cells.
package dataset

import (
	"strconv"
	"strings"
)

// ColumnKind classifies a column by the values it currently holds
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is a named, ordered sequence of cells. Cells are kept in their
// textual form; numeric interpretation happens on demand.
type Column struct {
	Name  string
	Cells []string
}

// Dataset is an ordered collection of named columns. Column order is
// insertion order and every column holds the same number of cells.
type Dataset struct {
	Columns []Column
}

// missing value markers beyond the empty cell, matched case-insensitively
var missingMarkers = map[string]bool{
	"na":   true,
	"nan":  true,
	"null": true,
}

// IsMissing reports whether a cell value represents a missing entry.
func IsMissing(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return true
	}
	return missingMarkers[strings.ToLower(trimmed)]
}

// New creates an empty dataset with the given column names.
func New(names ...string) *Dataset {
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name}
	}
	return &Dataset{Columns: cols}
}

// AppendRow adds one row of cells. Short rows are padded with missing cells
// and extra cells beyond the known columns are dropped.
func (d *Dataset) AppendRow(cells []string) {
	for i := range d.Columns {
		if i < len(cells) {
			d.Columns[i].Cells = append(d.Columns[i].Cells, cells[i])
		} else {
			d.Columns[i].Cells = append(d.Columns[i].Cells, "")
		}
	}
}

// Shape returns (row count, column count).
func (d *Dataset) Shape() (rows, cols int) {
	if len(d.Columns) == 0 {
		return 0, 0
	}
	return len(d.Columns[0].Cells), len(d.Columns)
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	rows, _ := d.Shape()
	return rows
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or nil when absent.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether a column with the given name exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.Column(name) != nil
}

// Row returns row i as a cell slice in column order.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Columns))
	for j, col := range d.Columns {
		if i < len(col.Cells) {
			row[j] = col.Cells[i]
		}
	}
	return row
}

// Head returns the first n rows, fewer when the dataset is shorter.
func (d *Dataset) Head(n int) [][]string {
	rows := d.NumRows()
	if n > rows {
		n = rows
	}
	out := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Row(i))
	}
	return out
}

// Copy returns a deep structural copy. Mutating the copy never touches the
// original, which stays inspectable after cleaning.
func (d *Dataset) Copy() *Dataset {
	cols := make([]Column, len(d.Columns))
	for i, col := range d.Columns {
		cells := make([]string, len(col.Cells))
		copy(cells, col.Cells)
		cols[i] = Column{Name: col.Name, Cells: cells}
	}
	return &Dataset{Columns: cols}
}

// Kind classifies the column from its current cells: numeric when every
// non-missing cell parses as a float and at least one such cell exists,
// categorical otherwise.
func (c *Column) Kind() ColumnKind {
	seen := false
	for _, cell := range c.Cells {
		if IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return KindCategorical
		}
		seen = true
	}
	if seen {
		return KindNumeric
	}
	return KindCategorical
}

// Float64s returns the parsed values of all non-missing cells in row order.
func (c *Column) Float64s() []float64 {
	var values []float64
	for _, cell := range c.Cells {
		if IsMissing(cell) {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	count := 0
	for _, cell := range c.Cells {
		if IsMissing(cell) {
			count++
		}
	}
	return count
}

// NonNullCount returns the number of non-missing cells.
func (c *Column) NonNullCount() int {
	return len(c.Cells) - c.MissingCount()
}

// NumericColumns returns the names of all currently numeric columns.
// Classification is re-derived from the live cells on every call so that
// column drops are always reflected.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for i := range d.Columns {
		if d.Columns[i].Kind() == KindNumeric {
			names = append(names, d.Columns[i].Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of all currently non-numeric columns.
func (d *Dataset) CategoricalColumns() []string {
	var names []string
	for i := range d.Columns {
		if d.Columns[i].Kind() == KindCategorical {
			names = append(names, d.Columns[i].Name)
		}
	}
	return names
}

// Workbook holds the datasets parsed from one upload, keyed by sheet name in
// insertion order. A CSV upload yields a single-sheet workbook.
type Workbook struct {
	Order  []string
	Sheets map[string]*Dataset
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{Sheets: make(map[string]*Dataset)}
}

// AddSheet registers a dataset under the given name, preserving order.
// Adding an existing name replaces the dataset in place.
func (w *Workbook) AddSheet(name string, ds *Dataset) {
	if _, exists := w.Sheets[name]; !exists {
		w.Order = append(w.Order, name)
	}
	w.Sheets[name] = ds
}

// Sheet returns the named dataset, or nil when absent.
func (w *Workbook) Sheet(name string) *Dataset {
	return w.Sheets[name]
}

// SheetNames returns the sheet names in insertion order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Order))
	copy(names, w.Order)
	return names
}

// First returns the first sheet's name and dataset, the natural default when
// the user has not picked one yet.
func (w *Workbook) First() (string, *Dataset) {
	if len(w.Order) == 0 {
		return "", nil
	}
	return w.Order[0], w.Sheets[w.Order[0]]
}

// MultiSheet reports whether the workbook has more than one sheet, which is
// when the sheet selector becomes meaningful.
func (w *Workbook) MultiSheet() bool {
	return len(w.Order) > 1
}
