// Package session holds the explicit application state threaded through
// each request: the loaded workbook, the active sheet, the cleaning
// configuration and the current plot request. The working copy itself is
// never stored here; it is rebuilt from this state on every render.
package session

import (
	"sync"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/clean"
	"datalens/internal/plot"
)

// Snapshot is a point-in-time copy of the state handlers can use without
// holding any lock.
type Snapshot struct {
	Workbook     *dataset.Workbook
	FileName     string
	FileIdentity core.FileIdentity
	ActiveSheet  string
	Strategy     clean.Strategy
	DropSet      []string
	Plot         plot.Request
	LoadError    string
}

// HasData reports whether an upload has been loaded successfully.
func (s Snapshot) HasData() bool {
	return s.Workbook != nil && len(s.Workbook.Order) > 0
}

// Selected returns the active sheet's dataset, falling back to the first
// sheet when the recorded name no longer matches.
func (s Snapshot) Selected() *dataset.Dataset {
	if s.Workbook == nil {
		return nil
	}
	if ds := s.Workbook.Sheet(s.ActiveSheet); ds != nil {
		return ds
	}
	_, ds := s.Workbook.First()
	return ds
}

// State is the single mutable application state. One logical actor mutates
// it per interaction; the lock only guards against overlapping HTTP
// requests.
type State struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewState creates an empty state with defaults.
func NewState() *State {
	return &State{
		snapshot: Snapshot{
			Strategy: clean.StrategyNone,
			Plot:     plot.Request{Kind: plot.KindHistogram, Bins: plot.DefaultBins},
		},
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.snapshot
	snapshot.DropSet = append([]string(nil), s.snapshot.DropSet...)
	return snapshot
}

// SetWorkbook replaces the loaded workbook after a successful upload and
// resets all downstream selections, clearing any previous load error.
func (s *State) SetWorkbook(name string, identity core.FileIdentity, wb *dataset.Workbook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Workbook = wb
	s.snapshot.FileName = name
	s.snapshot.FileIdentity = identity
	s.snapshot.ActiveSheet, _ = wb.First()
	s.snapshot.Strategy = clean.StrategyNone
	s.snapshot.DropSet = nil
	s.snapshot.Plot = plot.Request{Kind: plot.KindHistogram, Bins: plot.DefaultBins}
	s.snapshot.LoadError = ""
}

// SetLoadError records a failed upload. The previous workbook, if any, is
// discarded so downstream sections stop rendering until the next upload.
func (s *State) SetLoadError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Workbook = nil
	s.snapshot.FileName = ""
	s.snapshot.FileIdentity = ""
	s.snapshot.ActiveSheet = ""
	s.snapshot.DropSet = nil
	s.snapshot.LoadError = message
}

// SetActiveSheet switches the selected sheet and clears selections that
// belonged to the previous one.
func (s *State) SetActiveSheet(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Workbook == nil || s.snapshot.Workbook.Sheet(name) == nil {
		return
	}
	if s.snapshot.ActiveSheet != name {
		s.snapshot.ActiveSheet = name
		s.snapshot.DropSet = nil
		s.snapshot.Plot = plot.Request{Kind: s.snapshot.Plot.Kind, Bins: plot.DefaultBins}
	}
}

// SetCleaning updates the missing-value strategy and drop set.
func (s *State) SetCleaning(strategy clean.Strategy, dropSet []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Strategy = strategy
	s.snapshot.DropSet = append([]string(nil), dropSet...)
}

// SetPlot updates the current plot request.
func (s *State) SetPlot(req plot.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Plot = req
}
