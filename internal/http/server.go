// Package http provides the HTTP server for the web UI and JSON API.
package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/metrics"
	"github.com/roelfdiedericks/devkit/internal/prefs"
	"github.com/roelfdiedericks/devkit/internal/tools"
)

//go:embed html/*.html
var htmlFS embed.FS

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	registry  *tools.Registry
	prefs     *prefs.Store
	metrics   *metrics.MetricsManager
	templates *template.Template
	maxBody   int64
	wg        sync.WaitGroup

	// Dev mode: reload templates from disk on each request
	devMode      bool
	templatesDir string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Listen       string // Address to listen on (e.g., ":1337", "127.0.0.1:1337")
	DevMode      bool   // Reload templates from disk on each request
	MaxBodyBytes int64  // Request body limit for tool input
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *ServerConfig, reg *tools.Registry, store *prefs.Store, m *metrics.MetricsManager) (*Server, error) {
	L_debug("http: NewServer starting", "listen", cfg.Listen, "devMode", cfg.DevMode, "tools", reg.Count())

	listen := cfg.Listen
	if listen == "" {
		listen = "127.0.0.1:1337"
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	if m == nil {
		m = metrics.GetInstance()
	}

	s := &Server{
		registry: reg,
		prefs:    store,
		metrics:  m,
		maxBody:  maxBody,
		devMode:  cfg.DevMode,
	}

	// In dev mode, find the templates directory from source location
	if s.devMode {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			return nil, fmt.Errorf("dev mode: failed to determine source directory")
		}
		s.templatesDir = filepath.Join(filepath.Dir(file), "html")
		if _, err := os.Stat(s.templatesDir); err != nil {
			return nil, fmt.Errorf("dev mode: templates directory not found: %s", s.templatesDir)
		}
		L_info("http: dev mode enabled, loading templates from disk", "dir", s.templatesDir)
	}

	if err := s.loadTemplates(); err != nil {
		L_error("http: template loading failed", "error", err, "devMode", s.devMode, "templatesDir", s.templatesDir)
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	s.server = &http.Server{
		Addr:         listen,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Middleware chain: logging -> strip headers -> body limit
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return s.logRequest(s.stripHeaders(s.limitBody(h)))
	}

	// API routes
	mux.HandleFunc("GET /api/tools", wrap(s.handleListTools))
	mux.HandleFunc("GET /api/tools/{id}", wrap(s.handleGetTool))
	mux.HandleFunc("POST /api/tools/{id}", wrap(s.handleRunTool))
	mux.HandleFunc("GET /api/prefs", wrap(s.handleGetPrefs))
	mux.HandleFunc("POST /api/prefs", wrap(s.handleSetPrefs))
	mux.HandleFunc("POST /api/prefs/toggle", wrap(s.handleTogglePrefs))
	mux.HandleFunc("GET /api/metrics", wrap(s.handleMetrics))

	// Web UI
	mux.HandleFunc("GET /{$}", wrap(s.handleIndex))

	return mux
}

// loadTemplates loads HTML templates (from disk in dev mode, embedded otherwise)
func (s *Server) loadTemplates() error {
	if s.devMode && s.templatesDir != "" {
		pattern := filepath.Join(s.templatesDir, "*.html")
		tmpl, err := template.ParseGlob(pattern)
		if err != nil {
			return fmt.Errorf("failed to parse templates from disk: %w", err)
		}
		s.templates = tmpl
		L_trace("http: loaded templates from disk", "dir", s.templatesDir)
		return nil
	}

	htmlDir, err := fs.Sub(htmlFS, "html")
	if err != nil {
		return fmt.Errorf("failed to get html subdirectory: %w", err)
	}

	tmpl, err := template.ParseFS(htmlDir, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	s.templates = tmpl
	L_debug("http: loaded embedded templates")
	return nil
}

// reloadTemplatesIfDev reloads templates from disk if in dev mode
func (s *Server) reloadTemplatesIfDev() error {
	if !s.devMode {
		return nil
	}
	return s.loadTemplates()
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start binds the listen address and serves in the background.
// Bind errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.server.Addr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		L_info("http: server starting", "addr", s.server.Addr)

		err := s.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			L_error("http: server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		L_error("http: shutdown error", "error", err)
		return err
	}

	s.wg.Wait()
	L_info("http: server stopped")
	return nil
}
