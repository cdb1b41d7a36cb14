package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"datalens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "age,city\n25,Paris\n,Paris\n31,Lyon\n"

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Uploads: config.UploadConfig{
			Dir:         t.TempDir(),
			MaxUploadMB: 5,
			PreviewRows: 5,
		},
	}
	app, err := NewApp(cfg)
	require.NoError(t, err)
	return app
}

func uploadFile(t *testing.T, app *App, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("dataset", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func getPage(app *App, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func postForm(app *App, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestIndexBeforeUpload(t *testing.T) {
	app := newTestApp(t)

	rec := getPage(app, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Interactive Data Analysis Dashboard")
	assert.Contains(t, rec.Body.String(), "Awaiting file upload")
	assert.NotContains(t, rec.Body.String(), "Data Exploration")
}

func TestUploadThenIndexShowsData(t *testing.T) {
	app := newTestApp(t)

	rec := uploadFile(t, app, "people.csv", sampleCSV)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := getPage(app, "/").Body.String()
	assert.Contains(t, page, "Loaded: people.csv")
	assert.Contains(t, page, "Data Exploration")
	assert.Contains(t, page, "Paris")
	assert.Contains(t, page, "3 rows")
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	app := newTestApp(t)

	rec := uploadFile(t, app, "notes.txt", "hello")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	page := getPage(app, "/").Body.String()
	assert.Contains(t, page, "Only CSV (.csv) and Excel (.xlsx) files are allowed")
	assert.NotContains(t, page, "Data Exploration")
}

func TestUploadErrorDiscardsPreviousData(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)

	uploadFile(t, app, "broken.xlsx", "not really an xlsx")

	page := getPage(app, "/").Body.String()
	assert.Contains(t, page, "Error loading data")
	assert.NotContains(t, page, "Data Exploration")
}

func TestControlsApplyCleaningAndDrop(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)

	rec := postForm(app, "/controls", url.Values{
		"strategy": {"drop_missing"},
		"drop":     {"city"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	page := getPage(app, "/").Body.String()
	// one row has a missing age; dropping rows leaves 2, dropping city leaves 1 column
	assert.Contains(t, page, "2 rows")
	assert.Contains(t, page, "1 columns")
}

func TestPlotImage(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)

	rec := getPage(app, "/plot.png?kind=histogram&column=age&bins=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestPlotImageWithoutData(t *testing.T) {
	app := newTestApp(t)
	rec := getPage(app, "/plot.png?kind=histogram")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlotImageWithoutEligibleColumns(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "words.csv", "word\nalpha\nbeta\n")

	rec := getPage(app, "/plot.png?kind=heatmap")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportDownload(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)

	rec := getPage(app, "/report/download")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "data_summary.txt")
	assert.Contains(t, rec.Body.String(), "Data Analysis Summary Report")
	assert.Contains(t, rec.Body.String(), "Number of Rows: 3")
	assert.Contains(t, rec.Body.String(), "Number of Columns: 2")
}

func TestReportDownloadWithoutData(t *testing.T) {
	app := newTestApp(t)
	rec := getPage(app, "/report/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIState(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)
	postForm(app, "/controls", url.Values{"strategy": {"fill_missing"}})

	rec := getPage(app, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FileName string   `json:"file_name"`
		Strategy string   `json:"strategy"`
		Rows     int      `json:"rows"`
		Numeric  []string `json:"numeric_columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "people.csv", resp.FileName)
	assert.Equal(t, "fill_missing", resp.Strategy)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, []string{"age"}, resp.Numeric)
}

func TestNormalizePlotDefaults(t *testing.T) {
	app := newTestApp(t)
	uploadFile(t, app, "people.csv", sampleCSV)

	// stale column from a dropped selection falls back to the first numeric
	rec := getPage(app, "/plot.png?kind=histogram&column=gone")
	assert.Equal(t, http.StatusOK, rec.Code)
}
