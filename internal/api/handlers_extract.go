package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/crossdocs/xbridl/internal/pipeline"
)

type extractRequest struct {
	Root  string   `json:"root,omitempty"`  // Defaults to the configured docs root.
	Paths []string `json:"paths,omitempty"` // Optional allow-list for targeted re-extraction.
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	root := req.Root
	if root == "" {
		root = s.cfg.DocsRoot
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		jsonError(w, fmt.Sprintf("root is not a readable directory: %s", root), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(root, req.Paths)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/extract/%s/status", snap.ID),
	})
}

func (s *Server) handleExtractStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"root":     snap.Root,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"run_id":   snap.RunID,
		"progress": snap.Progress,
	})
}
