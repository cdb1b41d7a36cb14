package clean

import (
	"testing"

	"datalens/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *dataset.Dataset {
	ds := dataset.New("age", "city")
	ds.AppendRow([]string{"25", "Paris"})
	ds.AppendRow([]string{"NaN", "Paris"})
	ds.AppendRow([]string{"31", ""})
	return ds
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyNone, ParseStrategy(""))
	assert.Equal(t, StrategyNone, ParseStrategy("bogus"))
	assert.Equal(t, StrategyDropMissing, ParseStrategy("drop_missing"))
	assert.Equal(t, StrategyFill, ParseStrategy("fill_missing"))
}

func TestApplyNoneLeavesDataUntouched(t *testing.T) {
	ds := buildSample()
	working := Apply(ds, StrategyNone)

	assert.NotSame(t, ds, working)
	assert.Equal(t, ds.Head(3), working.Head(3))
}

func TestApplyDropMissingRemovesIncompleteRows(t *testing.T) {
	ds := buildSample()
	working := Apply(ds, StrategyDropMissing)

	assert.Equal(t, 1, working.NumRows())
	assert.Equal(t, []string{"25", "Paris"}, working.Row(0))
	// original untouched
	assert.Equal(t, 3, ds.NumRows())
}

func TestApplyDropMissingOnCleanDataIsNoop(t *testing.T) {
	ds := dataset.New("a", "b")
	ds.AppendRow([]string{"1", "x"})
	ds.AppendRow([]string{"2", "y"})

	working := Apply(ds, StrategyDropMissing)
	assert.Equal(t, ds.Head(2), working.Head(2))
}

func TestApplyFillUsesMeanAndMode(t *testing.T) {
	ds := buildSample()
	working := Apply(ds, StrategyFill)

	// mean of 25 and 31 is 28
	assert.Equal(t, []string{"25", "28", "31"}, working.Column("age").Cells)
	// Paris is the most frequent city
	assert.Equal(t, []string{"Paris", "Paris", "Paris"}, working.Column("city").Cells)

	for _, col := range working.Columns {
		assert.Zero(t, col.MissingCount(), "column %s still has missing cells", col.Name)
	}
}

func TestFillModeTieGoesToFirstSeen(t *testing.T) {
	ds := dataset.New("color")
	ds.AppendRow([]string{"blue"})
	ds.AppendRow([]string{"red"})
	ds.AppendRow([]string{"red"})
	ds.AppendRow([]string{"blue"})
	ds.AppendRow([]string{""})

	working := Apply(ds, StrategyFill)
	assert.Equal(t, "blue", working.Column("color").Cells[4])
}

func TestFillSkipsAllMissingColumns(t *testing.T) {
	ds := dataset.New("empty")
	ds.AppendRow([]string{""})
	ds.AppendRow([]string{"NA"})

	working := Apply(ds, StrategyFill)
	assert.Equal(t, 2, working.Column("empty").MissingCount())
}

func TestDropColumns(t *testing.T) {
	ds := dataset.New("a", "b", "c")
	ds.AppendRow([]string{"1", "2", "3"})

	DropColumns(ds, []string{"b", "not_there"})
	assert.Equal(t, []string{"a", "c"}, ds.ColumnNames())

	DropColumns(ds, []string{"a", "c"})
	_, cols := ds.Shape()
	assert.Zero(t, cols)
}

func TestDropColumnChangesClassification(t *testing.T) {
	ds := dataset.New("n", "t")
	ds.AppendRow([]string{"1", "x"})

	DropColumns(ds, []string{"n"})
	assert.Empty(t, ds.NumericColumns())
	assert.Equal(t, []string{"t"}, ds.CategoricalColumns())
}

func TestBuildWorkingCopyOrderIsStrategyThenDrop(t *testing.T) {
	// the age column carries the only missing cell; dropping it AFTER the
	// row drop would still lose the row, dropping it first would keep it
	ds := dataset.New("age", "city")
	ds.AppendRow([]string{"25", "Paris"})
	ds.AppendRow([]string{"", "Lyon"})

	working, err := BuildWorkingCopy(ds, StrategyDropMissing, []string{"age"})
	require.NoError(t, err)
	assert.Equal(t, []string{"city"}, working.ColumnNames())
	assert.Equal(t, 1, working.NumRows())
	assert.Equal(t, []string{"Paris"}, working.Column("city").Cells)
}

func TestBuildWorkingCopyLeavesOriginalIntact(t *testing.T) {
	ds := buildSample()
	_, err := BuildWorkingCopy(ds, StrategyFill, []string{"city"})
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "city"}, ds.ColumnNames())
	assert.Equal(t, 1, ds.Column("age").MissingCount())
}
