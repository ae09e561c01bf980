package api

import (
	"encoding/json"
	"net/http"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/vectorstore"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().ListDocuments(r.Context(), r.URL.Query().Get("content_hash"))
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "index unavailable", http.StatusBadGateway)
		return
	}
	if docs == nil {
		docs = []vectorstore.DocumentInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if docID == "" {
		jsonError(w, "doc_id is required", http.StatusBadRequest)
		return
	}
	if err := s.orchestrator.Store().DeleteDocument(r.Context(), docID); err != nil {
		s.log.Error("delete document failed", "doc_id", docID, "error", err)
		jsonError(w, "delete failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":  docID,
		"deleted": true,
	})
}
