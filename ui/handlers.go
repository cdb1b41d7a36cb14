package ui

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/clean"
	"datalens/internal/errors"
	"datalens/internal/inspect"
	"datalens/internal/loader"
	"datalens/internal/plot"
	"datalens/internal/report"
)

// strategyOption is one cleaning radio button
type strategyOption struct {
	Value    clean.Strategy
	Label    string
	Selected bool
}

// kindOption is one plot-type dropdown entry
type kindOption struct {
	Value    plot.Kind
	Label    string
	Selected bool
}

// dashboardView is everything the index template needs for one full render
type dashboardView struct {
	FileName  string
	LoadError string
	HasData   bool

	MultiSheet  bool
	SheetNames  []string
	ActiveSheet string

	Strategies []strategyOption
	Columns    []string
	DropSet    map[string]bool

	CleanError string

	RawHeader      []string
	RawPreview     [][]string
	WorkingHeader  []string
	WorkingPreview [][]string
	Shape          inspect.Shape
	Info           []inspect.ColumnInfo
	Describe       inspect.Description
	NullCounts     []inspect.NullCount

	PlotKinds          []kindOption
	Plot               plot.Request
	NumericColumns     []string
	CategoricalColumns []string
	YOptions           []string
	PlotWarning        string
	PlotError          string
	PlotURL            string

	ReportName string
	HelpHTML   template.HTML
}

// handleIndex renders the whole dashboard from the current state.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot := a.state.Snapshot()

	view := &dashboardView{
		FileName:   snapshot.FileName,
		LoadError:  snapshot.LoadError,
		ReportName: report.Filename,
		HelpHTML:   a.helpHTML,
	}

	if !snapshot.HasData() {
		a.renderTemplate(w, "index.html", view)
		return
	}

	original := snapshot.Selected()
	view.HasData = true
	view.MultiSheet = snapshot.Workbook.MultiSheet()
	view.SheetNames = snapshot.Workbook.SheetNames()
	view.ActiveSheet = snapshot.ActiveSheet

	for _, strategy := range clean.Strategies() {
		view.Strategies = append(view.Strategies, strategyOption{
			Value:    strategy,
			Label:    strategy.Label(),
			Selected: strategy == snapshot.Strategy,
		})
	}

	view.DropSet = make(map[string]bool, len(snapshot.DropSet))
	for _, name := range snapshot.DropSet {
		view.DropSet[name] = true
	}

	working, err := clean.BuildWorkingCopy(original, snapshot.Strategy, snapshot.DropSet)
	if err != nil {
		log.Printf("[UI] FAILED - Cleaning failed: %v", err)
		view.CleanError = err.Error()
		a.renderTemplate(w, "index.html", view)
		return
	}

	view.Columns = original.ColumnNames()
	view.RawHeader = original.ColumnNames()
	view.RawPreview = inspect.Preview(original, a.config.Uploads.PreviewRows)
	view.WorkingHeader = working.ColumnNames()
	view.WorkingPreview = inspect.Preview(working, a.config.Uploads.PreviewRows)
	view.Shape = inspect.DatasetShape(working)
	view.Info = inspect.Info(working)
	view.Describe = inspect.Describe(working)
	view.NullCounts = inspect.NullCounts(working)

	req := normalizePlot(snapshot.Plot, working)
	view.Plot = req
	view.NumericColumns = working.NumericColumns()
	view.CategoricalColumns = working.CategoricalColumns()
	view.YOptions = scatterYOptions(working, req.X)
	for _, kind := range plot.Kinds() {
		view.PlotKinds = append(view.PlotKinds, kindOption{
			Value:    kind,
			Label:    kind.Label(),
			Selected: kind == req.Kind,
		})
	}

	if _, err := plot.Render(working, req); err != nil {
		if errors.HasCode(err, errors.CodeNoEligibleColumns) {
			view.PlotWarning = err.Error()
		} else {
			log.Printf("[UI] FAILED - Plot rendering failed: %v", err)
			view.PlotError = err.Error()
		}
	} else {
		view.PlotURL = plotImageURL(req)
	}

	a.renderTemplate(w, "index.html", view)
}

// normalizePlot fills empty or stale column selections with the first
// eligible column, mirroring a dropdown's default. The y-axis default skips
// the chosen x column but a deliberate x==y selection is left alone.
func normalizePlot(req plot.Request, ds *dataset.Dataset) plot.Request {
	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()

	numericSet := make(map[string]bool, len(numeric))
	for _, name := range numeric {
		numericSet[name] = true
	}
	categoricalSet := make(map[string]bool, len(categorical))
	for _, name := range categorical {
		categoricalSet[name] = true
	}

	req.Bins = plot.ClampBins(req.Bins)

	switch req.Kind {
	case plot.KindHistogram, plot.KindBox:
		if !numericSet[req.Column] && len(numeric) > 0 {
			req.Column = numeric[0]
		}
	case plot.KindScatter:
		if !numericSet[req.X] && len(numeric) > 0 {
			req.X = numeric[0]
		}
		if !numericSet[req.Y] {
			req.Y = ""
			for _, name := range numeric {
				if name != req.X {
					req.Y = name
					break
				}
			}
		}
		if req.Hue != "" && !categoricalSet[req.Hue] {
			req.Hue = ""
		}
	case plot.KindBar:
		if !categoricalSet[req.Category] && len(categorical) > 0 {
			req.Category = categorical[0]
		}
		if !numericSet[req.Value] && len(numeric) > 0 {
			req.Value = numeric[0]
		}
	}

	return req
}

// scatterYOptions lists numeric columns excluding the chosen x column.
func scatterYOptions(ds *dataset.Dataset, x string) []string {
	var options []string
	for _, name := range ds.NumericColumns() {
		if name != x {
			options = append(options, name)
		}
	}
	return options
}

// plotImageURL bakes the request parameters into the image URL so the
// served chart always matches the page that embeds it.
func plotImageURL(req plot.Request) string {
	params := url.Values{}
	params.Set("kind", string(req.Kind))
	params.Set("column", req.Column)
	params.Set("bins", strconv.Itoa(req.Bins))
	params.Set("x", req.X)
	params.Set("y", req.Y)
	params.Set("hue", req.Hue)
	params.Set("category", req.Category)
	params.Set("value", req.Value)
	return "/plot.png?" + params.Encode()
}

// handleUpload receives the dataset file, gates it by extension and size,
// and loads it through the memoizing loader.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	log.Printf("[Upload] Starting file upload process")

	maxBytes := int64(a.config.Uploads.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		log.Printf("[Upload] FAILED - No file uploaded: %v", err)
		a.state.SetLoadError("No file uploaded")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	filename := header.Filename
	if !loader.SupportedExtension(filename) {
		log.Printf("[Upload] FAILED - Invalid file extension: %s", filename)
		a.state.SetLoadError("Only CSV (.csv) and Excel (.xlsx) files are allowed")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[Upload] FAILED - Could not read upload: %v", err)
		a.state.SetLoadError(fmt.Sprintf("Could not read uploaded file: %v", err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if path, err := a.storage.Store(strings.NewReader(string(content)), filename); err != nil {
		// Storage is best-effort durability for the session; parsing proceeds
		log.Printf("[Upload] WARNING - Could not store upload: %v", err)
	} else {
		log.Printf("[Upload] Stored upload at %s", path)
	}

	workbook, err := a.loader.Load(filename, content)
	if err != nil {
		log.Printf("[Upload] FAILED - Load failed: %v", err)
		a.state.SetLoadError(fmt.Sprintf("Error loading data: %v", err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	identity := core.NewFileIdentity(filename, content)
	a.state.SetWorkbook(filename, identity, workbook)
	log.Printf("[Upload] Successfully loaded %s (%d sheets)", filename, len(workbook.Order))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleControls applies a sheet/cleaning/plot form submission to the state
// and redirects back to the dashboard for a full re-render.
func (a *App) handleControls(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("[Controls] FAILED - Invalid form: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if sheet := r.FormValue("sheet"); sheet != "" {
		a.state.SetActiveSheet(sheet)
	}

	strategy := clean.ParseStrategy(r.FormValue("strategy"))
	dropSet := r.Form["drop"]
	a.state.SetCleaning(strategy, dropSet)

	a.state.SetPlot(plot.Request{
		Kind:     plot.ParseKind(r.FormValue("plot_kind")),
		Column:   r.FormValue("plot_column"),
		Bins:     plot.ParseBins(r.FormValue("plot_bins")),
		X:        r.FormValue("plot_x"),
		Y:        r.FormValue("plot_y"),
		Hue:      r.FormValue("plot_hue"),
		Category: r.FormValue("plot_category"),
		Value:    r.FormValue("plot_value"),
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReportDownload serves the summary of the current working copy as a
// plain-text attachment.
func (a *App) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	snapshot := a.state.Snapshot()
	if !snapshot.HasData() {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	working, err := clean.BuildWorkingCopy(snapshot.Selected(), snapshot.Strategy, snapshot.DropSet)
	if err != nil {
		log.Printf("[Report] FAILED - Cleaning failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := report.Generate(working)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Type", report.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, summary); err != nil {
		log.Printf("[Report] Error writing report response: %v", err)
	}
}

// stateResponse is the machine-readable snapshot served by /api/state
type stateResponse struct {
	FileName    string         `json:"file_name"`
	Sheets      []string       `json:"sheets,omitempty"`
	ActiveSheet string         `json:"active_sheet,omitempty"`
	Strategy    clean.Strategy `json:"strategy"`
	DropSet     []string       `json:"drop_set,omitempty"`
	Rows        int            `json:"rows"`
	Columns     []string       `json:"columns,omitempty"`
	Numeric     []string       `json:"numeric_columns,omitempty"`
	Categorical []string       `json:"categorical_columns,omitempty"`
	PlotKind    plot.Kind      `json:"plot_kind"`
	LoadError   string         `json:"load_error,omitempty"`
}

// handleAPIState exposes the current configuration and working-copy shape
// as JSON.
func (a *App) handleAPIState(w http.ResponseWriter, r *http.Request) {
	snapshot := a.state.Snapshot()

	resp := stateResponse{
		FileName:  snapshot.FileName,
		Strategy:  snapshot.Strategy,
		DropSet:   snapshot.DropSet,
		PlotKind:  snapshot.Plot.Kind,
		LoadError: snapshot.LoadError,
	}

	if snapshot.HasData() {
		resp.Sheets = snapshot.Workbook.SheetNames()
		resp.ActiveSheet = snapshot.ActiveSheet
		working, err := clean.BuildWorkingCopy(snapshot.Selected(), snapshot.Strategy, snapshot.DropSet)
		if err == nil {
			resp.Rows = working.NumRows()
			resp.Columns = working.ColumnNames()
			resp.Numeric = working.NumericColumns()
			resp.Categorical = working.CategoricalColumns()
		}
	}

	render.JSON(w, r, resp)
}
