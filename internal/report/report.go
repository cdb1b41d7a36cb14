// Package report serializes a dataset summary into the downloadable
// data_summary.txt document.
package report

import (
	"fmt"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/inspect"
)

// Filename is the name the report is downloaded under.
const Filename = "data_summary.txt"

// ContentType is the MIME type of the report.
const ContentType = "text/plain"

// Generate produces the plain-text summary of ds. The output is a pure
// function of the dataset: header, shape, info block, descriptive statistics
// and missing-value counts, in that order.
func Generate(ds *dataset.Dataset) string {
	var b strings.Builder

	b.WriteString("Data Analysis Summary Report\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")

	shape := inspect.DatasetShape(ds)
	b.WriteString("1. Data Shape\n")
	fmt.Fprintf(&b, "Number of Rows: %d\n", shape.Rows)
	fmt.Fprintf(&b, "Number of Columns: %d\n\n", shape.Cols)

	b.WriteString("2. Data Info\n")
	writeInfo(&b, ds)
	b.WriteString("\n")

	b.WriteString("3. Descriptive Statistics\n")
	writeDescribe(&b, ds)
	b.WriteString("\n")

	b.WriteString("4. Missing Values Count\n")
	writeNullCounts(&b, ds)

	return b.String()
}

// writeInfo renders the fixed-width column/kind/non-null block.
func writeInfo(b *strings.Builder, ds *dataset.Dataset) {
	infos := inspect.Info(ds)
	if len(infos) == 0 {
		b.WriteString("(no columns)\n")
		return
	}

	nameWidth := len("Column")
	for _, info := range infos {
		if len(info.Name) > nameWidth {
			nameWidth = len(info.Name)
		}
	}

	fmt.Fprintf(b, " #   %-*s  %-16s  %s\n", nameWidth, "Column", "Non-Null Count", "Kind")
	for _, info := range infos {
		fmt.Fprintf(b, " %-3d %-*s  %-16s  %s\n",
			info.Index, nameWidth, info.Name,
			fmt.Sprintf("%d non-null", info.NonNull), info.Kind)
	}
	fmt.Fprintf(b, "Total rows: %d\n", ds.NumRows())
}

// writeDescribe renders the fixed-width descriptive statistics tables.
func writeDescribe(b *strings.Builder, ds *dataset.Dataset) {
	desc := inspect.Describe(ds)
	if len(desc.Numeric) == 0 && len(desc.Categorical) == 0 {
		b.WriteString("(no columns)\n")
		return
	}

	if len(desc.Numeric) > 0 {
		nameWidth := columnWidth(numericNames(desc.Numeric))
		fmt.Fprintf(b, "%-*s %10s %12s %12s %12s %12s %12s %12s %12s\n",
			nameWidth, "column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
		for _, s := range desc.Numeric {
			fmt.Fprintf(b, "%-*s %10d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
				nameWidth, s.Name, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
		}
	}

	if len(desc.Categorical) > 0 {
		if len(desc.Numeric) > 0 {
			b.WriteString("\n")
		}
		nameWidth := columnWidth(categoricalNames(desc.Categorical))
		fmt.Fprintf(b, "%-*s %10s %10s %-16s %8s\n",
			nameWidth, "column", "count", "unique", "top", "freq")
		for _, s := range desc.Categorical {
			fmt.Fprintf(b, "%-*s %10d %10d %-16s %8d\n",
				nameWidth, s.Name, s.Count, s.Unique, s.Top, s.Freq)
		}
	}
}

// writeNullCounts renders one "name  count" line per column.
func writeNullCounts(b *strings.Builder, ds *dataset.Dataset) {
	counts := inspect.NullCounts(ds)
	if len(counts) == 0 {
		b.WriteString("(no columns)\n")
		return
	}

	nameWidth := len("column")
	for _, c := range counts {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}
	for _, c := range counts {
		fmt.Fprintf(b, "%-*s  %d\n", nameWidth, c.Name, c.Missing)
	}
}

func columnWidth(names []string) int {
	width := len("column")
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	return width
}

func numericNames(summaries []inspect.NumericSummary) []string {
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Name
	}
	return names
}

func categoricalNames(summaries []inspect.CategoricalSummary) []string {
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Name
	}
	return names
}
