package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/metrics"
	"github.com/roelfdiedericks/devkit/internal/prefs"
	"github.com/roelfdiedericks/devkit/internal/tools"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// categoryGroup is one heading on the index page
type categoryGroup struct {
	Name  string
	Tools []types.Metadata
}

// indexData is the template data for index.html
type indexData struct {
	Title  string
	Theme  prefs.Theme
	Query  string
	Groups []categoryGroup
	Shown  int
	Total  int
	Tools  []types.Metadata
}

// handleIndex serves the tool list page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.reloadTemplatesIfDev(); err != nil {
		L_error("http: template reload error", "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	// ?q= replaces the stored search; without it the last search is kept
	query := s.prefs.Search()
	if r.URL.Query().Has("q") {
		query = r.URL.Query().Get("q")
		s.prefs.SetSearch(query)
	}

	matched := s.registry.Search(query)
	data := indexData{
		Title:  "devkit",
		Theme:  s.prefs.Theme(),
		Query:  query,
		Groups: groupByCategory(matched),
		Shown:  len(matched),
		Total:  s.registry.Count(),
		Tools:  s.registry.Search(""),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		L_error("http: template error", "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// groupByCategory splits search results, which arrive in category order
func groupByCategory(metas []types.Metadata) []categoryGroup {
	var groups []categoryGroup
	for _, m := range metas {
		if n := len(groups); n == 0 || groups[n-1].Name != m.Category {
			groups = append(groups, categoryGroup{Name: m.Category})
		}
		g := &groups[len(groups)-1]
		g.Tools = append(g.Tools, m)
	}
	return groups
}

// handleListTools handles GET /api/tools?q=
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Search(r.URL.Query().Get("q")))
}

// handleGetTool handles GET /api/tools/{id}
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tool: "+r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, tools.ToDefinition(tool))
}

// handleRunTool handles POST /api/tools/{id}, the body is the tool input
func (s *Server) handleRunTool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.registry.Has(id) {
		writeError(w, http.StatusNotFound, "unknown tool: "+id)
		return
	}

	input, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			L_warn("http: tool input too large", "tool", id, "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, "input too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read input")
		return
	}

	res, err := s.registry.Execute(r.Context(), id, input)
	if err != nil {
		if types.IsInputError(err) {
			L_debug("http: tool input rejected", "tool", id, "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		L_error("http: tool failed", "tool", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGetPrefs handles GET /api/prefs
func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// handleSetPrefs handles POST /api/prefs with {"theme"?, "search"?}
func (s *Server) handleSetPrefs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme  *string `json:"theme"`
		Search *string `json:"search"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		L_warn("http: prefs - invalid JSON", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Theme != nil {
		theme, err := prefs.ParseTheme(*req.Theme)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.prefs.SetTheme(theme); err != nil {
			L_error("http: failed to save theme", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.Search != nil {
		s.prefs.SetSearch(*req.Search)
	}
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// handleTogglePrefs handles POST /api/prefs/toggle
func (s *Server) handleTogglePrefs(w http.ResponseWriter, r *http.Request) {
	if _, err := s.prefs.Toggle(); err != nil {
		L_error("http: failed to save theme", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

// handleMetrics handles GET /api/metrics?prefix=
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.metrics.Snapshot(r.URL.Query().Get("prefix"))
	if snap == nil {
		snap = []metrics.MetricSnapshot{}
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		L_error("http: failed to encode response", "error", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		L_warn("http: failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
