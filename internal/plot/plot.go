// Package plot renders the five chart kinds over a working copy. Column
// eligibility is recomputed from the live dataset on every call, and a
// request with no eligible columns yields a warning error instead of a
// chart.
package plot

import (
	"bytes"
	"fmt"
	"log"
	"strconv"

	"datalens/domain/dataset"
	"datalens/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Kind identifies one of the supported chart types
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindHeatmap   Kind = "heatmap"
)

// Bin count bounds for histograms
const (
	MinBins     = 5
	MaxBins     = 100
	DefaultBins = 20
)

// default render size
const (
	renderWidth  = 7 * vg.Inch
	renderHeight = 5 * vg.Inch
)

// Kinds lists the chart types in UI order.
func Kinds() []Kind {
	return []Kind{KindHistogram, KindBox, KindScatter, KindBar, KindHeatmap}
}

// Label returns the human-readable chart name.
func (k Kind) Label() string {
	switch k {
	case KindHistogram:
		return "Histogram"
	case KindBox:
		return "Box Plot"
	case KindScatter:
		return "Scatter Plot"
	case KindBar:
		return "Bar Chart"
	case KindHeatmap:
		return "Correlation Heatmap"
	default:
		return string(k)
	}
}

// ParseKind maps a form value to a chart kind, defaulting to histogram.
func ParseKind(value string) Kind {
	switch Kind(value) {
	case KindBox, KindScatter, KindBar, KindHeatmap:
		return Kind(value)
	default:
		return KindHistogram
	}
}

// Request carries a chart kind and the parameters it needs. Unused fields
// are ignored by the other kinds.
type Request struct {
	Kind Kind

	Column string // histogram, box
	Bins   int    // histogram

	X   string // scatter
	Y   string // scatter
	Hue string // scatter, optional

	Category string // bar
	Value    string // bar
}

// ClampBins forces a bin count into [MinBins, MaxBins], with zero mapping to
// the default.
func ClampBins(bins int) int {
	if bins == 0 {
		return DefaultBins
	}
	if bins < MinBins {
		return MinBins
	}
	if bins > MaxBins {
		return MaxBins
	}
	return bins
}

// ParseBins reads a form value into a clamped bin count.
func ParseBins(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return DefaultBins
	}
	return ClampBins(n)
}

// Render builds the requested chart against ds and encodes it as PNG.
// Eligibility failures come back as NO_ELIGIBLE_COLUMNS errors; any panic in
// the underlying plotting code is caught and surfaced as a render error so a
// bad chart never takes the session down.
func Render(ds *dataset.Dataset, req Request) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Plot] FAILED - %s rendering panicked: %v", req.Kind, r)
			png = nil
			err = errors.RenderError(fmt.Sprintf("failed to render %s", req.Kind.Label()), nil)
		}
	}()

	var p *plot.Plot
	switch req.Kind {
	case KindHistogram:
		p, err = Histogram(ds, req.Column, req.Bins)
	case KindBox:
		p, err = Box(ds, req.Column)
	case KindScatter:
		p, err = Scatter(ds, req.X, req.Y, req.Hue)
	case KindBar:
		p, err = Bar(ds, req.Category, req.Value)
	case KindHeatmap:
		p, err = CorrHeatmap(ds)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown plot type %q", req.Kind))
	}
	if err != nil {
		return nil, err
	}

	return encodePNG(p)
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(renderWidth, renderHeight, "png")
	if err != nil {
		return nil, errors.RenderError("failed to prepare chart canvas", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, errors.RenderError("failed to encode chart", err)
	}
	return buf.Bytes(), nil
}

// numericValues returns the parsed values of a numeric column, validating
// eligibility along the way.
func numericValues(ds *dataset.Dataset, name, role string) ([]float64, error) {
	if len(ds.NumericColumns()) == 0 {
		return nil, errors.NoEligibleColumns("no numerical columns available")
	}
	col := ds.Column(name)
	if col == nil {
		return nil, errors.NoEligibleColumns(fmt.Sprintf("select a numerical column for the %s", role))
	}
	if col.Kind() != dataset.KindNumeric {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", name))
	}
	values := col.Float64s()
	if len(values) == 0 {
		return nil, errors.NoEligibleColumns(fmt.Sprintf("column %q has no values to plot", name))
	}
	return values, nil
}
