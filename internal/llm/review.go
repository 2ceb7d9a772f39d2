package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/molfuse/molfuse/internal/fusion"
)

// Adjustment is one proposed confidence override from a review.
type Adjustment struct {
	EvidenceID string  `json:"evidence_id"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Reviewer asks an LLM to second-guess the fused confidence scores.
type Reviewer struct {
	client Client
}

func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// reviewItem is the per-evidence slice of the batch summary sent for review.
type reviewItem struct {
	EvidenceID string  `json:"evidence_id"`
	Source     string  `json:"source"`
	Type       string  `json:"evidence_type"`
	Original   float64 `json:"original_confidence"`
	Final      float64 `json:"final_confidence"`
}

// Review sends the batch summary for review and returns the proposed
// adjustments. Adjustments for unknown evidence ids or with confidences
// outside [0,1] are dropped rather than failing the review.
func (r *Reviewer) Review(ctx context.Context, evidence []fusion.RawEvidence, result *fusion.Result) ([]Adjustment, error) {
	items := make([]reviewItem, 0, len(evidence))
	for _, ev := range evidence {
		ec, ok := result.EnhancedConfidences[ev.ID]
		if !ok {
			continue
		}
		items = append(items, reviewItem{
			EvidenceID: ev.ID,
			Source:     ev.Source,
			Type:       ev.EvidenceType,
			Original:   ec.Original,
			Final:      ec.Final,
		})
	}
	if len(items) == 0 {
		return nil, nil
	}

	summary, err := json.Marshal(map[string]any{
		"coherence": result.NetworkCoherenceScore,
		"conflicts": result.Stats.ConflictCount,
		"evidence":  items,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal review summary: %w", err)
	}

	resp, err := r.client.Complete(ctx, ReviewPrompt(string(summary)))
	if err != nil {
		return nil, fmt.Errorf("review completion: %w", err)
	}

	adjustments := ParseAdjustments(resp.Content)

	valid := adjustments[:0]
	for _, adj := range adjustments {
		if _, ok := result.EnhancedConfidences[adj.EvidenceID]; !ok {
			continue
		}
		if adj.Confidence < 0 || adj.Confidence > 1 {
			continue
		}
		valid = append(valid, adj)
	}
	return valid, nil
}

// ParseAdjustments extracts the JSON array of adjustments from the LLM
// response. The response might contain markdown code fences or other
// wrapper text. Unparseable responses yield nil.
func ParseAdjustments(content string) []Adjustment {
	content = strings.TrimSpace(content)

	// Strip markdown code fences
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < 0 || end <= start {
		return nil
	}

	var adjustments []Adjustment
	if err := json.Unmarshal([]byte(content[start:end+1]), &adjustments); err != nil {
		return nil
	}
	return adjustments
}

// ApplyAdjustments overrides the final confidence of reviewed items.
// Unknown ids are ignored.
func ApplyAdjustments(result *fusion.Result, adjustments []Adjustment) {
	for _, adj := range adjustments {
		ec, ok := result.EnhancedConfidences[adj.EvidenceID]
		if !ok {
			continue
		}
		ec.Final = adj.Confidence
		result.EnhancedConfidences[adj.EvidenceID] = ec
	}
}
