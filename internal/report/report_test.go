package report

import (
	"strings"
	"testing"

	"datalens/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *dataset.Dataset {
	ds := dataset.New("age", "city")
	ds.AppendRow([]string{"25", "Paris"})
	ds.AppendRow([]string{"28", "Paris"})
	ds.AppendRow([]string{"31", ""})
	return ds
}

func TestGenerateSectionsInOrder(t *testing.T) {
	text := Generate(buildSample())

	assert.True(t, strings.HasPrefix(text, "Data Analysis Summary Report\n"))

	sections := []string{
		"1. Data Shape",
		"2. Data Info",
		"3. Descriptive Statistics",
		"4. Missing Values Count",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(text, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestGenerateShapeLines(t *testing.T) {
	text := Generate(buildSample())

	assert.Contains(t, text, "Number of Rows: 3")
	assert.Contains(t, text, "Number of Columns: 2")
}

func TestGenerateInfoAndStatistics(t *testing.T) {
	text := Generate(buildSample())

	assert.Contains(t, text, "age")
	assert.Contains(t, text, "city")
	assert.Contains(t, text, "3 non-null") // age has no missing cells
	assert.Contains(t, text, "2 non-null") // city has one
	assert.Contains(t, text, "28.0000")    // mean age
	assert.Contains(t, text, "Paris")      // top city
}

func TestGenerateIsDeterministic(t *testing.T) {
	ds := buildSample()
	assert.Equal(t, Generate(ds), Generate(ds))
}

func TestGenerateEmptyDataset(t *testing.T) {
	text := Generate(dataset.New())

	assert.Contains(t, text, "Number of Rows: 0")
	assert.Contains(t, text, "Number of Columns: 0")
	assert.Contains(t, text, "(no columns)")
}
