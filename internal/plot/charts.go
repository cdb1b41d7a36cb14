package plot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Histogram draws a single numeric column as a density-normalized histogram
// with a Gaussian kernel density overlay.
func Histogram(ds *dataset.Dataset, column string, bins int) (*plot.Plot, error) {
	values, err := numericValues(ds, column, "histogram")
	if err != nil {
		return nil, err
	}
	bins = ClampBins(bins)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Histogram of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Density"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, errors.RenderError("failed to build histogram", err)
	}
	h.Normalize(1)
	p.Add(h)

	if line := densityLine(values); line != nil {
		p.Add(line)
	}

	return p, nil
}

// densityLine builds the kernel density estimate overlay. Returns nil when
// the sample is degenerate (fewer than two distinct values).
func densityLine(values []float64) *plotter.Line {
	n := len(values)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n - 1)
	sigma := math.Sqrt(variance)
	if sigma == 0 {
		return nil
	}

	// Silverman's rule of thumb bandwidth
	bandwidth := 1.06 * sigma * math.Pow(float64(n), -0.2)

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	lo -= 3 * bandwidth
	hi += 3 * bandwidth

	kernel := distuv.Normal{Mu: 0, Sigma: 1}
	const points = 200
	pts := make(plotter.XYs, points)
	step := (hi - lo) / float64(points-1)
	for i := 0; i < points; i++ {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range values {
			density += kernel.Prob((x - v) / bandwidth)
		}
		density /= float64(n) * bandwidth
		pts[i].X = x
		pts[i].Y = density
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil
	}
	line.Color = plotutil.Color(1)
	line.Width = vg.Points(1.5)
	return line
}

// Box draws a single vertical box plot of a numeric column.
func Box(ds *dataset.Dataset, column string) (*plot.Plot, error) {
	values, err := numericValues(ds, column, "box plot")
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Box Plot of %s", column)
	p.Y.Label.Text = column

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(values))
	if err != nil {
		return nil, errors.RenderError("failed to build box plot", err)
	}
	p.Add(box)
	p.NominalX(column)

	return p, nil
}

// Scatter draws numeric x against numeric y, optionally colored by a
// categorical hue column. Rows missing any used cell are skipped.
func Scatter(ds *dataset.Dataset, xName, yName, hueName string) (*plot.Plot, error) {
	if len(ds.NumericColumns()) < 2 {
		return nil, errors.NoEligibleColumns("a scatter plot needs two numerical columns")
	}
	xCol := ds.Column(xName)
	yCol := ds.Column(yName)
	if xCol == nil || yCol == nil {
		return nil, errors.NoEligibleColumns("select numerical columns for both axes")
	}
	if xCol.Kind() != dataset.KindNumeric || yCol.Kind() != dataset.KindNumeric {
		return nil, errors.InvalidInput("scatter plot axes must be numeric columns")
	}

	var hueCol *dataset.Column
	if hueName != "" {
		hueCol = ds.Column(hueName)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scatter Plot of %s vs %s", xName, yName)
	p.X.Label.Text = xName
	p.Y.Label.Text = yName

	type series struct {
		label string
		pts   plotter.XYs
	}
	var groups []*series
	index := make(map[string]*series)

	for i := 0; i < ds.NumRows(); i++ {
		xCell, yCell := xCol.Cells[i], yCol.Cells[i]
		if dataset.IsMissing(xCell) || dataset.IsMissing(yCell) {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xCell), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(yCell), 64)
		if errX != nil || errY != nil {
			continue
		}

		label := ""
		if hueCol != nil {
			if dataset.IsMissing(hueCol.Cells[i]) {
				continue
			}
			label = strings.TrimSpace(hueCol.Cells[i])
		}

		group, ok := index[label]
		if !ok {
			group = &series{label: label}
			index[label] = group
			groups = append(groups, group)
		}
		group.pts = append(group.pts, plotter.XY{X: x, Y: y})
	}

	if len(groups) == 0 {
		return nil, errors.NoEligibleColumns(fmt.Sprintf("no complete rows for %s vs %s", xName, yName))
	}

	for i, group := range groups {
		scatter, err := plotter.NewScatter(group.pts)
		if err != nil {
			return nil, errors.RenderError("failed to build scatter plot", err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		if group.label != "" {
			p.Legend.Add(group.label, scatter)
		}
	}
	if hueCol != nil {
		p.Legend.Top = true
	}

	return p, nil
}

// GroupMean pairs a category label with the mean of its numeric values.
type GroupMean struct {
	Label string
	Mean  float64
}

// GroupMeans aggregates the numeric column per category, skipping missing
// cells, and returns the groups sorted by descending mean.
func GroupMeans(ds *dataset.Dataset, catName, numName string) ([]GroupMean, error) {
	catCol := ds.Column(catName)
	numCol := ds.Column(numName)
	if catCol == nil || numCol == nil {
		return nil, errors.NoEligibleColumns("select a categorical and a numerical column")
	}
	if numCol.Kind() != dataset.KindNumeric {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", numName))
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for i := 0; i < ds.NumRows(); i++ {
		catCell, numCell := catCol.Cells[i], numCol.Cells[i]
		if dataset.IsMissing(catCell) || dataset.IsMissing(numCell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(numCell), 64)
		if err != nil {
			continue
		}
		label := strings.TrimSpace(catCell)
		if counts[label] == 0 {
			order = append(order, label)
		}
		sums[label] += v
		counts[label]++
	}

	if len(order) == 0 {
		return nil, errors.NoEligibleColumns(fmt.Sprintf("no complete rows for %s by %s", numName, catName))
	}

	groups := make([]GroupMean, 0, len(order))
	for _, label := range order {
		groups = append(groups, GroupMean{Label: label, Mean: sums[label] / float64(counts[label])})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Mean > groups[j].Mean })
	return groups, nil
}

// Bar draws the mean of a numeric column per category, bars sorted
// descending, x labels rotated for readability.
func Bar(ds *dataset.Dataset, catName, numName string) (*plot.Plot, error) {
	if len(ds.CategoricalColumns()) == 0 || len(ds.NumericColumns()) == 0 {
		return nil, errors.NoEligibleColumns("a bar chart needs a categorical and a numerical column")
	}

	groups, err := GroupMeans(ds, catName, numName)
	if err != nil {
		return nil, err
	}

	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Mean
		labels[i] = g.Label
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Average %s by %s", numName, catName)
	p.Y.Label.Text = fmt.Sprintf("Mean %s", numName)

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, errors.RenderError("failed to build bar chart", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)

	// Rotate category labels so long names stay readable
	p.X.Tick.Label.Rotation = -math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XLeft
	p.X.Tick.Label.YAlign = draw.YCenter

	return p, nil
}
