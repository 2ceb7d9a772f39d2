package network

import (
	"fmt"
	"sort"
)

// Prediction is a value estimate for an evidence node that was not part
// of the known input set, inferred from its neighbors.
type Prediction struct {
	NodeID             string   `json:"node_id"`
	PredictedValue     float64  `json:"predicted_value"`
	Confidence         float64  `json:"confidence"`
	SupportingEvidence []string `json:"supporting_evidence"`
	Reasoning          string   `json:"reasoning"`
}

// PredictMissing estimates values for every node absent from knownIDs
// that has at least one neighbor (edges count in both directions).
// Predicted value and confidence are confidence-weighted averages over
// the neighbors, weighted by each neighbor's defuzzified confidence.
// Isolated nodes yield no prediction. Results are ordered by descending
// confidence, ties broken by node id.
func (e *Engine) PredictMissing(knownIDs []string) []Prediction {
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	var predictions []Prediction
	for id, node := range e.Graph.Nodes {
		if known[id] {
			continue
		}
		neighbors := e.Graph.Neighbors(id)
		if len(neighbors) == 0 {
			continue
		}
		predictions = append(predictions, predictFromNeighbors(node, neighbors))
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].NodeID < predictions[j].NodeID
	})

	return predictions
}

func predictFromNeighbors(target *Node, neighbors []*Node) Prediction {
	var value, confidence, weight float64
	var supporting []string

	for _, n := range neighbors {
		if n.Evidence == nil {
			continue
		}
		w := n.Evidence.DefuzzifiedConfidence()
		value += n.Evidence.RawValue * w
		confidence += n.Evidence.DefuzzifiedConfidence() * w
		weight += w
		supporting = append(supporting, n.ID)
	}

	if weight > 0 {
		value /= weight
		confidence /= weight
	}

	return Prediction{
		NodeID:             target.ID,
		PredictedValue:     value,
		Confidence:         confidence,
		SupportingEvidence: supporting,
		Reasoning:          fmt.Sprintf("predicted from %d connected evidence nodes", len(supporting)),
	}
}
