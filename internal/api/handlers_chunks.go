package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleIngestSections returns the validated section summaries for a job.
// Available once the job has passed the segmenting phase.
func (s *Server) handleIngestSections(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	sections := job.Sections()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"sections": sections,
	})
}

// handleIngestChunks returns the full chunk list for a job, including the
// text and overlap context sent to the index.
func (s *Server) handleIngestChunks(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	chunks := job.Chunks()
	if len(chunks) == 0 {
		jsonError(w, "no chunks available yet", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": job.ID,
		"doc_id": job.DocID,
		"count":  len(chunks),
		"chunks": chunks,
	})
}
