// Package ui serves the interactive dashboard: one HTML page rebuilt from
// the explicit application state on every request.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datalens/internal/config"
	"datalens/internal/loader"
	"datalens/internal/session"
	"datalens/internal/storage"
)

//go:embed templates/* static/* help.md
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	config    *config.Config
	loader    *loader.Loader
	storage   *storage.LocalFileStorage
	state     *session.State
	templates *template.Template
	helpHTML  template.HTML
}

// NewApp creates a new UI application
func NewApp(cfg *config.Config) (*App, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"hasString": func(set map[string]bool, key string) bool {
			return set[key]
		},
		"dict2": func(header []string, rows [][]string) map[string]any {
			return map[string]any{"Header": header, "Rows": rows}
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	helpHTML, err := renderHelp()
	if err != nil {
		return nil, fmt.Errorf("failed to render help panel: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		config:    cfg,
		loader:    loader.New(),
		storage:   storage.NewLocalFileStorage(cfg.Uploads.Dir),
		state:     session.NewState(),
		templates: templates,
		helpHTML:  helpHTML,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", http.StripPrefix("/", staticFS))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/controls", a.handleControls)
	a.router.Get("/plot.png", a.handlePlotImage)
	a.router.Get("/report/download", a.handleReportDownload)
	a.router.Get("/api/state", a.handleAPIState)
}

// Start runs the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Server.Port
	log.Printf("[App] Dashboard listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// renderHelp converts the embedded markdown help document to HTML once at
// startup.
func renderHelp() (template.HTML, error) {
	source, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		return "", err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML(source, p, renderer)
	return template.HTML(rendered), nil
}
