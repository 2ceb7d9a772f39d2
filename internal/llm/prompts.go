package llm

import "fmt"

// ReviewPrompt generates the prompt for reviewing a fused evidence batch.
// The summary is a compact JSON document of evidence items and their
// blended confidence scores.
func ReviewPrompt(summary string) string {
	return fmt.Sprintf(`You are reviewing automated confidence scores for molecular identity evidence.

BATCH:
%s

Each item carries the upstream confidence, the fused final confidence, and
the network coherence of the whole batch. Flag items where the fused score
looks wrong given the rest of the batch:
- An item contradicted by several independent sources should not keep a high score
- An item corroborated across sources should not be scored far below its peers
- Leave well-scored items out of your answer entirely

Rules:
- confidence must be a number in [0, 1]
- rationale is one short sentence
- If every score looks reasonable, return: []
- Return ONLY a JSON array, no other text

Return a JSON array:
[{"evidence_id": "id", "confidence": 0.0, "rationale": "why"}]`, summary)
}
