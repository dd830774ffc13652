package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/writerkit/internal/batch"
	"github.com/go-chi/chi/v5"
)

// handleBatch reports a message batch. Once the batch has ended the response
// also carries the collected summary.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if s.batches == nil {
		jsonError(w, "batch retrieval unavailable", http.StatusServiceUnavailable)
		return
	}
	batchID := chi.URLParam(r, "batchID")

	b, err := s.batches.Get(r.Context(), batchID)
	if err != nil {
		s.batchError(w, batchID, err)
		return
	}

	resp := map[string]any{"batch": b}
	if b.Ended() {
		summary, err := batch.Collect(r.Context(), s.batches, batchID, s.log)
		if err != nil {
			s.batchError(w, batchID, err)
			return
		}
		resp["summary"] = summary
		resp["word_count"] = batch.CountWords(summary.Response)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) batchError(w http.ResponseWriter, batchID string, err error) {
	switch {
	case errors.Is(err, batch.ErrNotFound):
		jsonError(w, "batch not found", http.StatusNotFound)
	case errors.Is(err, batch.ErrNotEnded):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("batch retrieval failed", "batch_id", batchID, "error", err)
		jsonError(w, "batch retrieval failed: "+err.Error(), http.StatusBadGateway)
	}
}
