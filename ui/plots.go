package ui

import (
	"log"
	"net/http"

	"datalens/internal/clean"
	"datalens/internal/errors"
	"datalens/internal/plot"
)

// handlePlotImage renders the requested chart against a freshly built
// working copy. The chart parameters ride in the query string so the image
// always matches the page that embedded it.
func (a *App) handlePlotImage(w http.ResponseWriter, r *http.Request) {
	snapshot := a.state.Snapshot()
	if !snapshot.HasData() {
		http.Error(w, "no dataset loaded", http.StatusNotFound)
		return
	}

	working, err := clean.BuildWorkingCopy(snapshot.Selected(), snapshot.Strategy, snapshot.DropSet)
	if err != nil {
		log.Printf("[Plot] FAILED - Cleaning failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	req := plot.Request{
		Kind:     plot.ParseKind(query.Get("kind")),
		Column:   query.Get("column"),
		Bins:     plot.ParseBins(query.Get("bins")),
		X:        query.Get("x"),
		Y:        query.Get("y"),
		Hue:      query.Get("hue"),
		Category: query.Get("category"),
		Value:    query.Get("value"),
	}
	req = normalizePlot(req, working)

	png, err := plot.Render(working, req)
	if err != nil {
		if errors.HasCode(err, errors.CodeNoEligibleColumns) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("[Plot] FAILED - Rendering failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("[Plot] Error writing image response: %v", err)
	}
}
