// Package loader turns uploaded file bytes into workbooks, memoizing the
// parse by file identity so repeated interactions never re-parse the same
// upload.
package loader

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"datalens/adapters/excel"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/errors"

	"golang.org/x/sync/singleflight"
)

// supported upload extensions; anything else is rejected before parsing
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// Loader parses uploads and caches the result of the most recent one.
// The cache holds exactly one entry keyed by file identity and is replaced
// whenever a different file is loaded. No LRU is needed at this scale.
type Loader struct {
	mu       sync.RWMutex
	cacheKey core.FileIdentity
	cached   *dataset.Workbook

	group singleflight.Group
}

// New creates a loader with an empty cache.
func New() *Loader {
	return &Loader{}
}

// SupportedExtension reports whether the file name carries a loadable
// extension.
func SupportedExtension(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Load parses the named file content into a workbook. Identical uploads hit
// the cache; concurrent identical uploads share a single parse.
func (l *Loader) Load(name string, content []byte) (*dataset.Workbook, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !supportedExtensions[ext] {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file extension %q: only .csv and .xlsx files are accepted", ext))
	}

	identity := core.NewFileIdentity(name, content)

	l.mu.RLock()
	if l.cached != nil && l.cacheKey == identity {
		workbook := l.cached
		l.mu.RUnlock()
		log.Printf("[Loader] Cache hit for %s", name)
		return workbook, nil
	}
	l.mu.RUnlock()

	result, err, _ := l.group.Do(identity.String(), func() (interface{}, error) {
		reader := excel.NewDataReader(name, content)
		workbook, err := reader.ReadWorkbook()
		if err != nil {
			return nil, errors.LoadFailed(fmt.Sprintf("failed to load %s", name), err)
		}

		l.mu.Lock()
		l.cacheKey = identity
		l.cached = workbook
		l.mu.Unlock()

		log.Printf("[Loader] Parsed and cached %s (%d sheets)", name, len(workbook.Order))
		return workbook, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*dataset.Workbook), nil
}
