// Package fusion bridges raw evidence records into the fuzzy-Bayesian
// network and reads back enhanced per-item confidences, network
// coherence, and missing-evidence predictions.
package fusion

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/molfuse/molfuse/internal/fuzzy"
	"github.com/molfuse/molfuse/internal/network"
)

// RawEvidence is one externally supplied evidence record. Confidence is
// the upstream score in [0,1]; Data is an opaque payload carried through
// for persistence; Timestamp is optional and defaults to now.
type RawEvidence struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	EvidenceType string          `json:"evidence_type"`
	Confidence   float64         `json:"confidence"`
	Data         json.RawMessage `json:"data,omitempty"`
	Timestamp    *time.Time      `json:"timestamp,omitempty"`
}

// Config holds the integration knobs.
type Config struct {
	ConfidenceThreshold     float64 `toml:"confidence_threshold"`
	PredictionThreshold     float64 `toml:"prediction_threshold"`
	MaxPredictionIterations int     `toml:"max_prediction_iterations"` // reserved for iterative refinement
	EnableTemporalDecay     bool    `toml:"enable_temporal_decay"`
	EnableNetworkLearning   bool    `toml:"enable_network_learning"`
}

// DefaultConfig returns the standard integration configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:     0.5,
		PredictionThreshold:     0.7,
		MaxPredictionIterations: 10,
		EnableTemporalDecay:     true,
		EnableNetworkLearning:   true,
	}
}

// EnhancedConfidence blends the fuzzy, Bayesian, and network views of
// one evidence item into a final score.
type EnhancedConfidence struct {
	Original          float64 `json:"original_confidence"`
	Fuzzy             float64 `json:"fuzzy_confidence"`
	BayesianPosterior float64 `json:"bayesian_posterior"`
	NetworkInfluence  float64 `json:"network_influence"`
	Final             float64 `json:"final_confidence"`
	UncertaintyLow    float64 `json:"uncertainty_low"`
	UncertaintyHi     float64 `json:"uncertainty_high"`
}

// Statistics summarizes the fused network for analysis.
type Statistics struct {
	NodeCount      int     `json:"node_count"`
	EdgeCount      int     `json:"edge_count"`
	AvgConfidence  float64 `json:"avg_confidence"`
	ConflictCount  int     `json:"conflict_count"`
	CoherenceScore float64 `json:"coherence_score"`
}

// Result is the outcome of one fusion operation.
type Result struct {
	OriginalEvidenceCount   int                           `json:"original_evidence_count"`
	IntegratedEvidenceCount int                           `json:"integrated_evidence_count"`
	Predictions             []network.Prediction          `json:"predictions"`
	EnhancedConfidences     map[string]EnhancedConfidence `json:"enhanced_confidences"`
	IntegrationErrors       []string                      `json:"integration_errors"`
	NetworkCoherenceScore   float64                       `json:"network_coherence_score"`
	Stats                   Statistics                    `json:"stats"`
}

// Final-confidence blend weights.
const (
	fuzzyWeight    = 0.4
	bayesianWeight = 0.4
	networkWeight  = 0.2
)

// Coherence blend weights.
const (
	coherenceConfidenceWeight  = 0.6
	coherenceConsistencyWeight = 0.4
)

// Integrator converts raw evidence into fuzzy network state and back.
// It is safe for concurrent use: each IntegrateEvidence call owns a
// fresh engine and graph.
type Integrator struct {
	cfg Config
}

func NewIntegrator(cfg Config) *Integrator {
	return &Integrator{cfg: cfg}
}

// IntegrateEvidence runs one full fusion pass: fuzzification, pairwise
// relationship inference, the four-phase network update, prediction, and
// per-item enhancement. It never fails outright; malformed items are
// skipped and reported in IntegrationErrors.
func (in *Integrator) IntegrateEvidence(evidence []RawEvidence) *Result {
	eng := network.NewEngine()
	result := &Result{
		OriginalEvidenceCount: len(evidence),
		EnhancedConfidences:   map[string]EnhancedConfidence{},
	}

	// Convert and add. Conversion failures are warnings, not aborts.
	var integrated []RawEvidence
	for _, ev := range evidence {
		fe, err := in.convert(ev)
		if err != nil {
			log.Printf("fusion: skipping evidence %q: %v", ev.ID, err)
			result.IntegrationErrors = append(result.IntegrationErrors,
				fmt.Sprintf("evidence %s: %v", ev.ID, err))
			continue
		}
		eng.Graph.AddEvidence(fe)
		integrated = append(integrated, ev)
	}

	buildRelationships(eng.Graph, integrated)
	populateAgreement(eng.Graph, integrated)

	eng.UpdateNetwork()

	if in.cfg.EnableNetworkLearning {
		known := make([]string, len(integrated))
		for i, ev := range integrated {
			known[i] = ev.ID
		}
		for _, p := range eng.PredictMissing(known) {
			if p.Confidence >= in.cfg.PredictionThreshold {
				result.Predictions = append(result.Predictions, p)
			}
		}
	}

	for _, ev := range integrated {
		node, ok := eng.Graph.Nodes[ev.ID]
		if !ok {
			continue
		}
		result.EnhancedConfidences[ev.ID] = enhance(ev, node)
	}

	result.IntegratedEvidenceCount = len(eng.Graph.Nodes)
	result.NetworkCoherenceScore = networkCoherence(eng.Graph)
	result.Stats = statistics(eng.Graph)
	return result
}

// convert validates one record and fuzzifies it.
func (in *Integrator) convert(ev RawEvidence) (*fuzzy.Evidence, error) {
	if ev.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if math.IsNaN(ev.Confidence) || ev.Confidence < 0 || ev.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v out of [0,1]", ev.Confidence)
	}

	ts := time.Now().UTC()
	if ev.Timestamp != nil {
		ts = *ev.Timestamp
	}

	fe := fuzzy.FromRaw(ev.ID, ev.Source, ev.EvidenceType, ev.Confidence, ts)
	if !in.cfg.EnableTemporalDecay {
		fe.TemporalDecay = 1.0
	}
	return fe, nil
}

// populateAgreement fills each node's agreement memberships from its
// mean pairwise confidence similarity with the rest of the batch.
func populateAgreement(g *network.Graph, evidence []RawEvidence) {
	if len(evidence) < 2 {
		return
	}
	agreement := fuzzy.AgreementVariable()

	for _, ev := range evidence {
		node, ok := g.Nodes[ev.ID]
		if !ok || node.Evidence == nil {
			continue
		}
		sum, n := 0.0, 0
		for _, other := range evidence {
			if other.ID == ev.ID {
				continue
			}
			sum += 1 - math.Abs(ev.Confidence-other.Confidence)
			n++
		}
		node.Evidence.AgreementMemberships = agreement.Fuzzify(sum / float64(n))
	}
}

// enhance combines the fuzzy, Bayesian, and network signals for one
// node into a final confidence: 0.4·fuzzy + 0.4·posterior +
// 0.2·|influence|, clamped to [0,1].
func enhance(ev RawEvidence, node *network.Node) EnhancedConfidence {
	fuzzyConf := ev.Confidence
	low, hi := ev.Confidence*0.9, ev.Confidence*1.1
	if node.Evidence != nil {
		fuzzyConf = node.Evidence.DefuzzifiedConfidence()
		low, hi = node.Evidence.UncertaintyLow, node.Evidence.UncertaintyHi
	}

	final := fuzzyConf*fuzzyWeight +
		node.Posterior*bayesianWeight +
		math.Abs(node.Influence)*networkWeight

	return EnhancedConfidence{
		Original:          ev.Confidence,
		Fuzzy:             fuzzyConf,
		BayesianPosterior: node.Posterior,
		NetworkInfluence:  node.Influence,
		Final:             clamp01(final),
		UncertaintyLow:    low,
		UncertaintyHi:     hi,
	}
}

// networkCoherence scores the whole graph: 0.6·mean defuzzified
// confidence + 0.4·strength-weighted mean edge consistency. Empty
// graphs score 0.
func networkCoherence(g *network.Graph) float64 {
	if len(g.Nodes) == 0 {
		return 0
	}

	confSum, confN := 0.0, 0
	for _, node := range g.Nodes {
		if node.Evidence == nil {
			continue
		}
		confSum += node.Evidence.DefuzzifiedConfidence()
		confN++
	}
	avgConfidence := 0.0
	if confN > 0 {
		avgConfidence = confSum / float64(confN)
	}

	consSum, consN := 0.0, 0
	for _, edge := range g.Edges {
		from, okFrom := g.Nodes[edge.From]
		to, okTo := g.Nodes[edge.To]
		if !okFrom || !okTo {
			continue
		}
		var consistency float64
		switch edge.Rel {
		case network.Supports, network.Corroborates:
			consistency = 1 - math.Abs(from.Posterior-to.Posterior)
		case network.Contradicts:
			consistency = math.Abs(from.Posterior - to.Posterior)
		default:
			consistency = 0.5
		}
		consSum += consistency * edge.Strength
		consN++
	}
	avgConsistency := 0.5
	if consN > 0 {
		avgConsistency = consSum / float64(consN)
	}

	return clamp01(coherenceConfidenceWeight*avgConfidence +
		coherenceConsistencyWeight*avgConsistency)
}

// statistics summarizes the fused graph.
func statistics(g *network.Graph) Statistics {
	avg := 0.0
	n := 0
	for _, node := range g.Nodes {
		if node.Evidence == nil {
			continue
		}
		avg += node.Evidence.DefuzzifiedConfidence()
		n++
	}
	if n > 0 {
		avg /= float64(n)
	}

	return Statistics{
		NodeCount:      len(g.Nodes),
		EdgeCount:      len(g.Edges),
		AvgConfidence:  avg,
		ConflictCount:  g.ConflictCount(),
		CoherenceScore: networkCoherence(g),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
