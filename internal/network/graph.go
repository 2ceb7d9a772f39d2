// Package network implements the fuzzy-Bayesian evidence network: the
// graph of evidence nodes and typed relationship edges, the fuzzy rule
// base, the four-phase inference cycle, and missing-evidence prediction.
package network

import (
	"github.com/molfuse/molfuse/internal/fuzzy"
)

// Relationship is the kind of a typed edge between two evidence nodes.
type Relationship int

const (
	Supports Relationship = iota
	Contradicts
	Corroborates
	Implies
	Requires
)

func (r Relationship) String() string {
	switch r {
	case Supports:
		return "supports"
	case Contradicts:
		return "contradicts"
	case Corroborates:
		return "corroborates"
	case Implies:
		return "implies"
	case Requires:
		return "requires"
	}
	return "unknown"
}

// Neutral prior for freshly added evidence nodes.
const neutralPrior = 0.5

// Node is one evidence item in the network. Evidence may be nil for
// placeholder nodes that exist only to receive predictions.
type Node struct {
	ID           string
	EvidenceType string
	Evidence     *fuzzy.Evidence

	Prior     float64
	Posterior float64
	// Influence is the accumulated, edge-weighted effect of neighboring
	// nodes. Reset and recomputed on every inference cycle.
	Influence float64
}

// Edge is a directed, typed, weighted relationship between two nodes.
// FuzzyStrength holds the weak/moderate/strong qualitative breakdown.
type Edge struct {
	From          string
	To            string
	Rel           Relationship
	Strength      float64
	FuzzyStrength map[string]float64
}

// Graph holds the nodes and edges for one fusion operation. Graphs are
// scoped to a single integration call and never shared across calls.
type Graph struct {
	Nodes map[string]*Node
	Edges []Edge
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddEvidence inserts a node for the given evidence with neutral prior
// and posterior. Re-adding an id overwrites the previous node.
func (g *Graph) AddEvidence(e *fuzzy.Evidence) {
	g.Nodes[e.ID] = &Node{
		ID:           e.ID,
		EvidenceType: e.EvidenceType,
		Evidence:     e,
		Prior:        neutralPrior,
		Posterior:    neutralPrior,
	}
}

// AddNode inserts a bare node without fuzzy evidence, e.g. a slot that
// only exists to be predicted.
func (g *Graph) AddNode(id, evidenceType string) {
	g.Nodes[id] = &Node{
		ID:           id,
		EvidenceType: evidenceType,
		Prior:        neutralPrior,
		Posterior:    neutralPrior,
	}
}

// AddEdge appends an edge. Endpoints are not validated here; edges whose
// endpoints are missing are skipped during propagation, per the graph-
// consistency error policy.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Neighbors returns the nodes connected to id, treating edges as
// undirected for lookup purposes.
func (g *Graph) Neighbors(id string) []*Node {
	var out []*Node
	for _, e := range g.Edges {
		var otherID string
		switch id {
		case e.From:
			otherID = e.To
		case e.To:
			otherID = e.From
		default:
			continue
		}
		if other, ok := g.Nodes[otherID]; ok {
			out = append(out, other)
		}
	}
	return out
}

// ConflictCount returns the number of Contradicts edges.
func (g *Graph) ConflictCount() int {
	n := 0
	for _, e := range g.Edges {
		if e.Rel == Contradicts {
			n++
		}
	}
	return n
}
