package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/molfuse/molfuse/internal/fusion"
	"github.com/molfuse/molfuse/internal/llm"
)

func (s *Server) handleFuse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Evidence []fusion.RawEvidence `json:"evidence"`
		Review   bool                 `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if len(req.Evidence) == 0 {
		http.Error(w, `{"error":"evidence required"}`, http.StatusBadRequest)
		return
	}
	if req.Review && s.reviewer == nil {
		http.Error(w, `{"error":"review not available — no LLM configured"}`, http.StatusServiceUnavailable)
		return
	}

	result := s.integrator.IntegrateEvidence(req.Evidence)

	var adjustments []llm.Adjustment
	if req.Review {
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		var err error
		adjustments, err = s.reviewer.Review(ctx, req.Evidence, result)
		if err != nil {
			// A failed review degrades to the unadjusted result.
			log.Printf("review failed: %v", err)
			adjustments = nil
		}
		llm.ApplyAdjustments(result, adjustments)
	}

	batchID := uuid.New().String()
	if err := s.db.SaveBatch(batchID, req.Evidence, result); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"batch_id":    batchID,
		"result":      result,
		"adjustments": adjustments,
	})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	batches, err := s.db.RecentBatches(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(batches),
		"batches": batches,
	})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	batch, err := s.db.GetBatch(batchID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}
	if batch == nil {
		http.Error(w, `{"error":"batch not found"}`, http.StatusNotFound)
		return
	}

	evidence, err := s.db.GetBatchEvidence(batchID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}
	confidences, err := s.db.GetBatchConfidences(batchID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}
	predictions, err := s.db.GetBatchPredictions(batchID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"batch":       batch,
		"evidence":    evidence,
		"confidences": confidences,
		"predictions": predictions,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.Stats()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
