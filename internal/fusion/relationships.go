package fusion

import (
	"math"

	"github.com/molfuse/molfuse/internal/network"
)

// Relationship inference thresholds. Same-source evidence corroborates
// when confidences sit within corroborationBand of each other; cross-
// source evidence supports above supportSimilarity and contradicts
// below conflictSimilarity. Edges at or below noiseFloor are dropped.
const (
	corroborationBand  = 0.2
	supportSimilarity  = 0.7
	conflictSimilarity = 0.3
	noiseFloor         = 0.1
)

// determineRelationship infers the relationship kind and strength
// between two evidence records from their sources, types, and raw
// confidences.
func determineRelationship(a, b RawEvidence) (network.Relationship, float64) {
	diff := math.Abs(a.Confidence - b.Confidence)

	// Same source: close confidences corroborate, divergent ones
	// contradict in proportion to the divergence.
	if a.Source == b.Source {
		if diff < corroborationBand {
			return network.Corroborates, 0.8 - diff
		}
		return network.Contradicts, diff
	}

	sim := 1 - diff
	if sim > supportSimilarity {
		return network.Supports, sim
	}
	if sim < conflictSimilarity {
		return network.Contradicts, 1 - sim
	}

	// Ambiguous band: fall back to known cross-domain implications.
	switch {
	case a.EvidenceType == "genomics" && b.EvidenceType == "proteomics":
		return network.Implies, 0.6
	case a.EvidenceType == "proteomics" && b.EvidenceType == "metabolomics":
		return network.Implies, 0.5
	case a.EvidenceType == "literature":
		return network.Supports, 0.4
	default:
		return network.Supports, sim
	}
}

// fuzzyRelationshipStrength builds the weak/moderate/strong qualitative
// breakdown of an edge: weak dominates when confidences disagree,
// strong requires both close and both high.
func fuzzyRelationshipStrength(a, b RawEvidence) map[string]float64 {
	diff := math.Abs(a.Confidence - b.Confidence)
	avg := (a.Confidence + b.Confidence) / 2

	weak := diff * 2
	if diff > 0.5 {
		weak = 1.0
	}

	moderate := 0.5
	if diff < 0.3 && avg > 0.4 {
		moderate = 1.0
	}

	strong := 0.0
	if diff < 0.1 && avg > 0.7 {
		strong = 1.0
	}

	return map[string]float64{
		"weak":     weak,
		"moderate": moderate,
		"strong":   strong,
	}
}

// buildRelationships infers an edge for every unordered pair of input
// records and adds the ones above the noise floor to the graph.
func buildRelationships(g *network.Graph, evidence []RawEvidence) {
	for i := 0; i < len(evidence); i++ {
		for j := i + 1; j < len(evidence); j++ {
			rel, strength := determineRelationship(evidence[i], evidence[j])
			if strength <= noiseFloor {
				continue
			}
			g.AddEdge(network.Edge{
				From:          evidence[i].ID,
				To:            evidence[j].ID,
				Rel:           rel,
				Strength:      strength,
				FuzzyStrength: fuzzyRelationshipStrength(evidence[i], evidence[j]),
			})
		}
	}
}
