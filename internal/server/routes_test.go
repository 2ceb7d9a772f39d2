package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/molfuse/molfuse/internal/llm"
)

const fuseBody = `{
	"evidence": [
		{"id": "ms-1", "source": "mass_spec", "evidence_type": "mass_spec", "confidence": 0.9},
		{"id": "ms-2", "source": "mass_spec", "evidence_type": "mass_spec", "confidence": 0.85},
		{"id": "gen-1", "source": "genome_db", "evidence_type": "genomics", "confidence": 0.8}
	]
}`

func postFuse(t *testing.T, srv *Server, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/fuse", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("fuse status = %d, body: %s", w.Code, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode fuse response: %v", err)
	}
	return out
}

func TestFuseEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	out := postFuse(t, srv, fuseBody)

	batchID, ok := out["batch_id"].(string)
	if !ok || batchID == "" {
		t.Fatalf("batch_id = %v, want non-empty string", out["batch_id"])
	}

	result, ok := out["result"].(map[string]any)
	if !ok {
		t.Fatalf("result missing: %v", out)
	}
	if result["original_evidence_count"] != float64(3) {
		t.Errorf("original count = %v, want 3", result["original_evidence_count"])
	}
	confidences, ok := result["enhanced_confidences"].(map[string]any)
	if !ok || len(confidences) != 3 {
		t.Errorf("enhanced confidences = %v, want 3 entries", result["enhanced_confidences"])
	}
}

func TestFuseRejectsEmptyBody(t *testing.T) {
	srv := testServer(t, nil)

	for _, body := range []string{`{}`, `{"evidence": []}`, `not json`} {
		req := httptest.NewRequest("POST", "/api/fuse", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestFuseReviewWithoutReviewer(t *testing.T) {
	srv := testServer(t, nil)

	body := strings.Replace(fuseBody, `"evidence"`, `"review": true, "evidence"`, 1)
	req := httptest.NewRequest("POST", "/api/fuse", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestFuseWithReview(t *testing.T) {
	mock := &llm.MockClient{
		Response: &llm.Response{Content: `[{"evidence_id": "gen-1", "confidence": 0.55, "rationale": "outlier"}]`},
	}
	srv := testServer(t, llm.NewReviewer(mock))

	body := strings.Replace(fuseBody, `"evidence"`, `"review": true, "evidence"`, 1)
	out := postFuse(t, srv, body)

	adjustments, ok := out["adjustments"].([]any)
	if !ok || len(adjustments) != 1 {
		t.Fatalf("adjustments = %v, want 1 entry", out["adjustments"])
	}

	result := out["result"].(map[string]any)
	confidences := result["enhanced_confidences"].(map[string]any)
	gen := confidences["gen-1"].(map[string]any)
	if gen["final_confidence"] != 0.55 {
		t.Errorf("adjusted final = %v, want 0.55", gen["final_confidence"])
	}
}

func TestGetBatchRoundTrip(t *testing.T) {
	srv := testServer(t, nil)

	out := postFuse(t, srv, fuseBody)
	batchID := out["batch_id"].(string)

	req := httptest.NewRequest("GET", "/api/batches/"+batchID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	batch := body["batch"].(map[string]any)
	if batch["batch_id"] != batchID {
		t.Errorf("batch_id = %v, want %s", batch["batch_id"], batchID)
	}
	evidence := body["evidence"].([]any)
	if len(evidence) != 3 {
		t.Errorf("evidence = %d items, want 3", len(evidence))
	}
	confidences := body["confidences"].(map[string]any)
	if len(confidences) != 3 {
		t.Errorf("confidences = %d items, want 3", len(confidences))
	}
}

func TestGetBatchNotFound(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest("GET", "/api/batches/no-such-batch", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestListBatches(t *testing.T) {
	srv := testServer(t, nil)

	postFuse(t, srv, fuseBody)
	postFuse(t, srv, fuseBody)

	req := httptest.NewRequest("GET", "/api/batches?limit=1", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1 with limit", body["count"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	postFuse(t, srv, fuseBody)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["batch_count"] != float64(1) {
		t.Errorf("batch_count = %v, want 1", body["batch_count"])
	}
	if body["evidence_count"] != float64(3) {
		t.Errorf("evidence_count = %v, want 3", body["evidence_count"])
	}
}
