package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crossdocs/xbridl/internal/render"
	"github.com/crossdocs/xbridl/internal/store"
)

// handleListRuns lists metadata for all persisted extraction runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	metas, err := s.orchestrator.Store().ListRuns()
	if err != nil {
		jsonError(w, "failed to list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if metas == nil {
		metas = []store.RunMeta{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": metas})
}

// handleGetRun returns the full JSON result of one run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// handleRunOutline renders a run as a Markdown outline, or HTML with
// ?format=html.
func (s *Server) handleRunOutline(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}

	md := render.RunMarkdown(run)
	if r.URL.Query().Get("format") != "html" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	}

	html, err := render.HTMLPreview(md)
	if err != nil {
		jsonError(w, "render preview: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) loadRun(w http.ResponseWriter, id string) (*render.Run, bool) {
	run, err := s.orchestrator.Store().LoadRun(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "run not found", http.StatusNotFound)
		} else {
			jsonError(w, "failed to load run: "+err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return run, true
}
