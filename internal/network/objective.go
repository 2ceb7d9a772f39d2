package network

import (
	"fmt"
	"math"
	"sort"
)

// Kind is the optimization direction of one objective component.
type Kind int

const (
	MaximizeConfidence Kind = iota
	MinimizeUncertainty
	MaximizeConsistency
	MinimizeConflicts
	MaximizeNetworkCoherence
)

// Component is one named scoring term of an objective function.
type Component struct {
	Name string
	Kind Kind
}

// Objective is a weighted multi-criteria scoring function over the
// whole graph.
type Objective struct {
	Name       string
	Components []Component
	Weights    map[string]float64
}

// Recommendation is an actionable output of objective evaluation: nudge
// the target node's confidence by Adjustment.
type Recommendation struct {
	TargetNode string
	Adjustment float64
	Reasoning  string
}

// Result is the outcome of evaluating one objective.
type Result struct {
	Total           float64
	ComponentScores map[string]float64
	Recommendations []Recommendation
}

// Components scoring below this emit a corrective recommendation.
const componentFloor = 0.5

// Recommended confidence bump for underperforming components.
const recommendedAdjustment = 0.1

// MolecularIdentityObjective is the default 5-component objective for
// molecular identity validation.
func MolecularIdentityObjective() Objective {
	return Objective{
		Name: "molecular_identity_validation",
		Components: []Component{
			{Name: "confidence", Kind: MaximizeConfidence},
			{Name: "uncertainty", Kind: MinimizeUncertainty},
			{Name: "consistency", Kind: MaximizeConsistency},
			{Name: "conflicts", Kind: MinimizeConflicts},
			{Name: "coherence", Kind: MaximizeNetworkCoherence},
		},
		Weights: map[string]float64{
			"confidence":  0.3,
			"uncertainty": 0.2,
			"consistency": 0.25,
			"conflicts":   0.15,
			"coherence":   0.1,
		},
	}
}

// Evaluate scores every component of the objective against the current
// graph and emits a recommendation for each component below the floor.
// Recommendations are ordered worst-first.
func (e *Engine) Evaluate(obj Objective) Result {
	scores := make(map[string]float64, len(obj.Components))
	total := 0.0

	type scoredRec struct {
		rec   Recommendation
		score float64
	}
	var low []scoredRec

	for _, c := range obj.Components {
		score := e.componentScore(c.Kind)
		scores[c.Name] = score

		weight, ok := obj.Weights[c.Name]
		if !ok {
			weight = 1.0
		}
		total += score * weight

		if score < componentFloor {
			low = append(low, scoredRec{
				rec: Recommendation{
					TargetNode: "global",
					Adjustment: recommendedAdjustment,
					Reasoning:  fmt.Sprintf("improve %s score from %.2f", c.Name, score),
				},
				score: score,
			})
		}
	}

	sort.SliceStable(low, func(i, j int) bool { return low[i].score < low[j].score })

	recs := make([]Recommendation, len(low))
	for i, sr := range low {
		recs[i] = sr.rec
	}

	return Result{Total: total, ComponentScores: scores, Recommendations: recs}
}

// componentScore evaluates one objective component over the graph.
// Degenerate graphs score neutral rather than failing.
func (e *Engine) componentScore(kind Kind) float64 {
	g := e.Graph
	switch kind {
	case MaximizeConfidence:
		sum, n := 0.0, 0
		for _, node := range g.Nodes {
			if node.Evidence == nil {
				continue
			}
			sum += node.Evidence.DefuzzifiedConfidence()
			n++
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)

	case MinimizeUncertainty:
		sum, n := 0.0, 0
		for _, node := range g.Nodes {
			if node.Evidence == nil {
				continue
			}
			sum += node.Evidence.UncertaintyHi - node.Evidence.UncertaintyLow
			n++
		}
		if n == 0 {
			return 1.0
		}
		return 1.0 - sum/float64(n)

	case MaximizeConsistency:
		sum, n := 0.0, 0
		for _, edge := range g.Edges {
			from, okFrom := g.Nodes[edge.From]
			to, okTo := g.Nodes[edge.To]
			if !okFrom || !okTo {
				continue
			}
			switch edge.Rel {
			case Supports:
				sum += 1 - math.Abs(from.Posterior-to.Posterior)
			case Contradicts:
				sum += math.Abs(from.Posterior - to.Posterior)
			default:
				sum += 0.5
			}
			n++
		}
		if n == 0 {
			return 0.5
		}
		return sum / float64(n)

	case MinimizeConflicts:
		edges := len(g.Edges)
		if edges == 0 {
			edges = 1
		}
		return 1.0 - float64(g.ConflictCount())/float64(edges)

	case MaximizeNetworkCoherence:
		nodes := len(g.Nodes)
		if nodes == 0 {
			nodes = 1
		}
		connectivity := float64(len(g.Edges)) / float64(nodes*nodes)
		return (connectivity + e.componentScore(MaximizeConsistency)) / 2
	}
	return 0
}
