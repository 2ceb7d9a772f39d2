package network

import (
	"github.com/molfuse/molfuse/internal/fuzzy"
)

// Prior adjustments from rule firing stay inside this band so a rule can
// never drive a prior to a degenerate 0 or 1.
const (
	minRulePrior = 0.05
	maxRulePrior = 0.95
)

// Engine runs fuzzy-Bayesian inference over one evidence graph. It is
// synchronous and single-use: one engine per fusion call.
type Engine struct {
	Graph      *Graph
	Rules      []Rule
	Confidence *fuzzy.Variable
	Agreement  *fuzzy.Variable
	Objectives map[string]Objective
}

// NewEngine builds an engine around an empty graph with the default rule
// base and the default molecular-identity objective.
func NewEngine() *Engine {
	return &Engine{
		Graph:      NewGraph(),
		Rules:      DefaultRules(),
		Confidence: fuzzy.ConfidenceVariable(),
		Agreement:  fuzzy.AgreementVariable(),
		Objectives: map[string]Objective{
			"default": MolecularIdentityObjective(),
		},
	}
}

// UpdateNetwork runs the four inference phases in fixed order: fuzzy
// rule application, Bayesian posterior update, influence propagation,
// and objective-driven optimization. Every phase is total over the
// current graph state; an empty graph is a valid no-op input. Running
// the cycle twice with no new evidence is stable for any node without
// incoming edges or rule activation.
func (e *Engine) UpdateNetwork() {
	e.applyRules()
	e.updatePosteriors()
	e.propagateInfluence()
	e.optimize()
}

// applyRules recomputes each node's prior from the neutral baseline plus
// the summed activation-weighted adjustments of every firing rule.
// Recomputing from the baseline (rather than accumulating) keeps this
// phase idempotent and order-independent across rules.
func (e *Engine) applyRules() {
	for _, n := range e.Graph.Nodes {
		if n.Evidence == nil {
			continue
		}
		total := 0.0
		for _, r := range e.Rules {
			act := r.activation(n)
			if act > 0 {
				total += act * r.Consequent.Adjustment
			}
		}
		n.Prior = clamp(neutralPrior+total, minRulePrior, maxRulePrior)
	}
}

// updatePosteriors applies the binary Bayes update to every node with
// evidence, treating the defuzzified confidence as P(E|H) and the prior
// as P(H). The denominator is zero only when likelihood and prior are
// both exactly 0 or 1; in that degenerate case the posterior is left
// unchanged.
func (e *Engine) updatePosteriors() {
	for _, n := range e.Graph.Nodes {
		if n.Evidence == nil {
			continue
		}
		likelihood := n.Evidence.DefuzzifiedConfidence()
		denom := likelihood*n.Prior + (1-likelihood)*(1-n.Prior)
		if denom == 0 {
			continue
		}
		n.Posterior = likelihood * n.Prior / denom
	}
}

// propagateInfluence zeroes accumulated influence and re-sums it from
// every edge. Edges referencing missing nodes are skipped silently.
func (e *Engine) propagateInfluence() {
	for _, n := range e.Graph.Nodes {
		n.Influence = 0
	}

	for _, edge := range e.Graph.Edges {
		from, okFrom := e.Graph.Nodes[edge.From]
		to, okTo := e.Graph.Nodes[edge.To]
		if !okFrom || !okTo {
			continue
		}
		to.Influence += edgeInfluence(edge.Rel, from.Posterior) * edge.Strength
	}
}

// edgeInfluence maps a relationship kind and the source posterior to the
// influence exerted on the target.
func edgeInfluence(rel Relationship, fromPosterior float64) float64 {
	switch rel {
	case Supports:
		return fromPosterior
	case Contradicts:
		return 1 - fromPosterior
	case Corroborates:
		return fromPosterior * 0.8
	case Implies:
		return fromPosterior * 0.9
	case Requires:
		if fromPosterior > 0.5 {
			return 1.0
		}
		return 0.0
	}
	return 0
}

// optimize evaluates every registered objective and applies the
// resulting recommendations.
func (e *Engine) optimize() {
	for _, obj := range e.Objectives {
		result := e.Evaluate(obj)
		for _, rec := range result.Recommendations {
			e.ApplyRecommendation(rec)
		}
	}
}

// ApplyRecommendation nudges the target node's posterior by the
// recommended adjustment, clamped to [0,1]. Recommendations addressed
// to absent targets (including the "global" sentinel) are no-ops.
func (e *Engine) ApplyRecommendation(rec Recommendation) {
	n, ok := e.Graph.Nodes[rec.TargetNode]
	if !ok {
		return
	}
	n.Posterior = clamp(n.Posterior+rec.Adjustment, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
