// Package ui serves the dashboard: one HTML page whose filter controls
// drive JSON data endpoints, plus export downloads of the filtered view.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"franmap/adapters/store"
	"franmap/internal"
	"franmap/internal/cleaning"
)

//go:embed templates/* static/* about.md
var embeddedFiles embed.FS

// Config holds UI application configuration
type Config struct {
	Port string

	// MaxTableRows caps the rows sent to the table view per request;
	// analytics and exports always use the full filtered set.
	MaxTableRows int
}

// Server is the dashboard web application.
type Server struct {
	router       *chi.Mux
	store        *store.BrandStore
	templates    *template.Template
	log          *internal.Logger
	port         string
	maxTableRows int

	// Load report from the startup ingest, shown on /api/status.
	loadID     string
	loadReport *cleaning.Report
}

// NewServer creates the dashboard application.
func NewServer(config Config, st *store.BrandStore, loadID string, report *cleaning.Report) (*Server, error) {
	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	maxRows := config.MaxTableRows
	if maxRows <= 0 {
		maxRows = 500
	}

	s := &Server{
		router:       chi.NewRouter(),
		store:        st,
		templates:    templates,
		log:          internal.DefaultLogger,
		port:         config.Port,
		maxTableRows: maxRows,
		loadID:       loadID,
		loadReport:   report,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	s.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/about", s.handleAbout)

	// Data endpoints consumed by the chart layer
	s.router.Get("/api/status", s.handleStatus)
	s.router.Get("/api/filters", s.handleFilters)
	s.router.Get("/api/dashboard", s.handleDashboard)

	// Filtered-view download
	s.router.Get("/export", s.handleExport)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks.
func (s *Server) Start() error {
	addr := ":" + s.port
	s.log.Info("Dashboard listening on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.router)
}
