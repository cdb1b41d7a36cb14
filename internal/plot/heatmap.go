package plot

import (
	"fmt"
	"strconv"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/errors"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
)

// corrGrid adapts a correlation matrix to the heatmap grid interface.
// Row 0 is drawn at the bottom, so Z flips the row index to keep the matrix
// reading top-down like a table.
type corrGrid struct {
	names  []string
	matrix [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) Z(c, r int) float64 { return g.matrix[len(g.names)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrHeatmap draws the pairwise Pearson correlation of all numeric columns
// on a fixed [-1,1] diverging scale, each cell annotated to two decimals.
func CorrHeatmap(ds *dataset.Dataset) (*plot.Plot, error) {
	names := ds.NumericColumns()
	if len(names) == 0 {
		return nil, errors.NoEligibleColumns("no numerical columns available to create a heatmap")
	}

	matrix, err := correlationMatrix(ds, names)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Correlation Matrix of Numerical Columns"

	grid := corrGrid{names: names, matrix: matrix}
	heatmap := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(256))
	heatmap.Min = -1
	heatmap.Max = 1
	p.Add(heatmap)

	// Column names on both axes
	ticks := make([]plot.Tick, len(names))
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	yTicks := make([]plot.Tick, len(names))
	for i, name := range names {
		yTicks[i] = plot.Tick{Value: float64(len(names) - 1 - i), Label: name}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	// Two-decimal annotation at every cell center
	labels := plotter.XYLabels{}
	for i := range names {
		for j := range names {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(j), Y: float64(len(names) - 1 - i)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", matrix[i][j]))
		}
	}
	annotations, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, errors.RenderError("failed to annotate heatmap", err)
	}
	p.Add(annotations)

	return p, nil
}

// correlationMatrix computes pairwise Pearson correlations, each pair over
// the rows where both columns have values. Pairs without enough overlap
// correlate as zero rather than poisoning the color scale with NaN.
func correlationMatrix(ds *dataset.Dataset, names []string) ([][]float64, error) {
	numRows := ds.NumRows()

	type columnValues struct {
		values  []float64
		present []bool
	}
	cols := make([]columnValues, len(names))
	for i, name := range names {
		col := ds.Column(name)
		cols[i] = columnValues{
			values:  make([]float64, numRows),
			present: make([]bool, numRows),
		}
		for r, cell := range col.Cells {
			if dataset.IsMissing(cell) {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				cols[i].values[r] = v
				cols[i].present[r] = true
			}
		}
	}

	matrix := make([][]float64, len(names))
	for i := range names {
		matrix[i] = make([]float64, len(names))
	}
	for i := range names {
		matrix[i][i] = 1
		for j := i + 1; j < len(names); j++ {
			var xs, ys []float64
			for r := 0; r < numRows; r++ {
				if cols[i].present[r] && cols[j].present[r] {
					xs = append(xs, cols[i].values[r])
					ys = append(ys, cols[j].values[r])
				}
			}
			corr := 0.0
			if len(xs) >= 2 {
				corr = stat.Correlation(xs, ys, nil)
				if corr != corr { // NaN when a column is constant
					corr = 0
				}
			}
			matrix[i][j] = corr
			matrix[j][i] = corr
		}
	}

	return matrix, nil
}
