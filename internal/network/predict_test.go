package network

import (
	"testing"
	"time"

	"github.com/molfuse/molfuse/internal/fuzzy"
)

func TestPredictMissingFromNeighbor(t *testing.T) {
	e := NewEngine()
	addEvidence(e, "known", 0.8)
	e.Graph.AddNode("missing", "proteomics")
	e.Graph.AddEdge(Edge{From: "known", To: "missing", Rel: Implies, Strength: 0.6})

	predictions := e.PredictMissing([]string{"known"})

	if len(predictions) != 1 {
		t.Fatalf("prediction count = %d, want 1", len(predictions))
	}
	p := predictions[0]
	if p.NodeID != "missing" {
		t.Errorf("node id = %s, want missing", p.NodeID)
	}

	neighbor := e.Graph.Nodes["known"].Evidence
	if p.Confidence > neighbor.DefuzzifiedConfidence() {
		t.Errorf("prediction confidence %v exceeds neighbor confidence %v",
			p.Confidence, neighbor.DefuzzifiedConfidence())
	}
	if p.PredictedValue != neighbor.RawValue {
		t.Errorf("predicted value = %v, want neighbor raw %v", p.PredictedValue, neighbor.RawValue)
	}
	if len(p.SupportingEvidence) != 1 || p.SupportingEvidence[0] != "known" {
		t.Errorf("supporting evidence = %v, want [known]", p.SupportingEvidence)
	}
}

func TestPredictMissingUndirectedLookup(t *testing.T) {
	e := NewEngine()
	addEvidence(e, "known", 0.7)
	e.Graph.AddNode("upstream", "genomics")
	// Edge points from the missing node toward the known node; lookup
	// must still find the neighbor.
	e.Graph.AddEdge(Edge{From: "upstream", To: "known", Rel: Implies, Strength: 0.6})

	predictions := e.PredictMissing([]string{"known"})
	if len(predictions) != 1 || predictions[0].NodeID != "upstream" {
		t.Fatalf("predictions = %+v, want one for upstream", predictions)
	}
}

func TestPredictMissingSkipsIsolatedNodes(t *testing.T) {
	e := NewEngine()
	addEvidence(e, "known", 0.7)
	e.Graph.AddNode("island", "metabolomics")

	predictions := e.PredictMissing([]string{"known"})
	if len(predictions) != 0 {
		t.Errorf("isolated node predicted: %+v", predictions)
	}
}

func TestPredictMissingWeightedAverage(t *testing.T) {
	e := NewEngine()
	addEvidence(e, "strong", 0.9)
	addEvidence(e, "weak", 0.3)
	e.Graph.AddNode("gap", "proteomics")
	e.Graph.AddEdge(Edge{From: "strong", To: "gap", Rel: Supports, Strength: 0.8})
	e.Graph.AddEdge(Edge{From: "weak", To: "gap", Rel: Supports, Strength: 0.8})

	predictions := e.PredictMissing([]string{"strong", "weak"})
	if len(predictions) != 1 {
		t.Fatalf("prediction count = %d, want 1", len(predictions))
	}

	// Confidence weighting pulls the predicted value toward the strong
	// neighbor's raw value.
	mid := (0.9 + 0.3) / 2
	if predictions[0].PredictedValue <= mid {
		t.Errorf("predicted value = %v, want above unweighted mean %v",
			predictions[0].PredictedValue, mid)
	}
}

func TestPredictMissingSortedByConfidence(t *testing.T) {
	e := NewEngine()
	addEvidence(e, "confident", 0.9)
	addEvidence(e, "unsure", 0.3)
	e.Graph.AddNode("gap1", "proteomics")
	e.Graph.AddNode("gap2", "proteomics")
	e.Graph.AddEdge(Edge{From: "confident", To: "gap1", Rel: Supports, Strength: 0.8})
	e.Graph.AddEdge(Edge{From: "unsure", To: "gap2", Rel: Supports, Strength: 0.8})

	predictions := e.PredictMissing([]string{"confident", "unsure"})
	if len(predictions) != 2 {
		t.Fatalf("prediction count = %d, want 2", len(predictions))
	}
	if predictions[0].Confidence < predictions[1].Confidence {
		t.Error("predictions not sorted by descending confidence")
	}
	if predictions[0].NodeID != "gap1" {
		t.Errorf("first prediction = %s, want gap1", predictions[0].NodeID)
	}
}

func TestPredictMissingDeterministicTiebreak(t *testing.T) {
	e := NewEngine()
	shared := fuzzy.FromRaw("hub", "mass_spec", "mass_spec", 0.8, time.Now())
	e.Graph.AddEvidence(shared)
	e.Graph.AddNode("zeta", "genomics")
	e.Graph.AddNode("alpha", "genomics")
	e.Graph.AddEdge(Edge{From: "hub", To: "zeta", Rel: Supports, Strength: 0.5})
	e.Graph.AddEdge(Edge{From: "hub", To: "alpha", Rel: Supports, Strength: 0.5})

	for i := 0; i < 5; i++ {
		predictions := e.PredictMissing([]string{"hub"})
		if len(predictions) != 2 {
			t.Fatalf("prediction count = %d, want 2", len(predictions))
		}
		if predictions[0].NodeID != "alpha" || predictions[1].NodeID != "zeta" {
			t.Fatalf("tie order unstable: %s, %s", predictions[0].NodeID, predictions[1].NodeID)
		}
	}
}
