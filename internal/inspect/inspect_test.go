package inspect

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
	ds.AppendRow([]string{"31", "Lyon"})
	return ds
}

func TestDatasetShape(t *testing.T) {
	shape := DatasetShape(buildSample())
	assert.Equal(t, Shape{Rows: 3, Cols: 2}, shape)

	assert.Equal(t, Shape{}, DatasetShape(dataset.New()))
}

func TestPreview(t *testing.T) {
	rows := Preview(buildSample(), 2)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"25", "Paris"}, rows[0])
	assert.Equal(t, []string{"NaN", "Paris"}, rows[1])
}

func TestInfo(t *testing.T) {
	infos := Info(buildSample())
	require.Len(t, infos, 2)

	assert.Equal(t, ColumnInfo{Index: 0, Name: "age", Kind: dataset.KindNumeric, NonNull: 2}, infos[0])
	assert.Equal(t, ColumnInfo{Index: 1, Name: "city", Kind: dataset.KindCategorical, NonNull: 3}, infos[1])
}

func TestDescribeNumeric(t *testing.T) {
	ds := dataset.New("v")
	for _, cell := range []string{"1", "2", "3", "4", ""} {
		ds.AppendRow([]string{cell})
	}

	desc := Describe(ds)
	require.Len(t, desc.Numeric, 1)
	assert.Empty(t, desc.Categorical)

	s := desc.Numeric[0]
	assert.Equal(t, "v", s.Name)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944487, s.Std, 1e-9)
	assert.InDelta(t, 1, s.Min, 1e-9)
	assert.InDelta(t, 4, s.Max, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.Less(t, s.Q1, s.Median)
	assert.Greater(t, s.Q3, s.Median)
}

func TestDescribeCategorical(t *testing.T) {
	ds := dataset.New("city")
	for _, cell := range []string{"Paris", "Paris", "Lyon", ""} {
		ds.AppendRow([]string{cell})
	}

	desc := Describe(ds)
	require.Len(t, desc.Categorical, 1)

	s := desc.Categorical[0]
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.Unique)
	assert.Equal(t, "Paris", s.Top)
	assert.Equal(t, 2, s.Freq)
}

func TestDescribeSingleValueColumn(t *testing.T) {
	ds := dataset.New("v")
	ds.AppendRow([]string{"7"})

	desc := Describe(ds)
	require.Len(t, desc.Numeric, 1)
	assert.Zero(t, desc.Numeric[0].Std)
	assert.InDelta(t, 7, desc.Numeric[0].Mean, 1e-9)
}

func TestNullCounts(t *testing.T) {
	counts := NullCounts(buildSample())
	assert.Equal(t, []NullCount{
		{Name: "age", Missing: 1},
		{Name: "city", Missing: 0},
	}, counts)
}
