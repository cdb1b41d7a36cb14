// Package excel reads CSV and Excel files into the dataset model.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"datalens/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV content into workbooks
type DataReader struct {
	name     string
	content  []byte
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the named file content. The file type
// is derived from the extension.
func NewDataReader(name string, content []byte) *DataReader {
	ext := strings.ToLower(filepath.Ext(name))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{name: name, content: content, fileType: fileType}
}

// ReadWorkbook parses the content into a workbook. A CSV yields a single
// sheet named after the file; an Excel file yields one sheet per workbook
// sheet, in workbook order.
func (r *DataReader) ReadWorkbook() (*dataset.Workbook, error) {
	log.Printf("[DataReader] Starting to read %s file: %s (%d bytes)", r.fileType, r.name, len(r.content))

	switch r.fileType {
	case "csv":
		return r.readCSVWorkbook()
	case "xlsx":
		return r.readExcelWorkbook()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readCSVWorkbook reads CSV content into a one-sheet workbook
func (r *DataReader) readCSVWorkbook() (*dataset.Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(r.content))
	reader.FieldsPerRecord = -1 // tolerate ragged rows, padded later

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	readTime := time.Since(readStart)
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(readTime.Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	ds := r.buildDataset(rows)

	sheetName := strings.TrimSuffix(filepath.Base(r.name), filepath.Ext(r.name))
	if sheetName == "" {
		sheetName = "data"
	}

	workbook := dataset.NewWorkbook()
	workbook.AddSheet(sheetName, ds)
	return workbook, nil
}

// readExcelWorkbook reads every sheet of an Excel file, preserving order
func (r *DataReader) readExcelWorkbook() (*dataset.Workbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(r.content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	fileOpenTime := time.Since(startTime)
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(fileOpenTime.Nanoseconds())/1e6)

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	workbook := dataset.NewWorkbook()
	for _, sheetName := range sheetNames {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		log.Printf("[DataReader] Sheet %q read (%d rows)", sheetName, len(rows))
		workbook.AddSheet(sheetName, r.buildDataset(rows))
	}

	return workbook, nil
}

// buildDataset converts raw string rows into a dataset. The first row is
// the header; short data rows are padded with missing cells.
func (r *DataReader) buildDataset(rows [][]string) *dataset.Dataset {
	if len(rows) == 0 {
		return dataset.New()
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	ds := dataset.New(headers...)
	for i := 1; i < len(rows); i++ {
		cells := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			cells[j] = strings.TrimSpace(cell)
		}
		ds.AppendRow(cells)
	}

	numRows, numCols := ds.Shape()
	log.Printf("[DataReader] %s data processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), numCols, numRows)

	return ds
}
