package fuzzy

import (
	"math"
	"time"
)

// Temporal decay: evidence confidence decays exponentially with age,
// with an e-folding time of ~30 days.
const decayEFoldHours = 24.0 * 30.0

// Uncertainty half-widths per evidence type, as fractions of the raw
// value. Empirically chosen — keep the numbers, not the reasoning, here.
const (
	bandMassSpec   = 0.05
	bandGenomics   = 0.10
	bandLiterature = 0.15
	bandDefault    = 0.10
)

// Evidence is one fuzzified evidence observation: the raw scalar plus
// its confidence-term memberships, temporal decay, and uncertainty band.
type Evidence struct {
	ID           string
	Source       string
	EvidenceType string
	RawValue     float64

	ConfidenceMemberships map[string]float64
	// AgreementMemberships is populated during integration, once the
	// evidence has peers to agree or conflict with.
	AgreementMemberships map[string]float64

	TemporalDecay  float64 // in (0,1], 1.0 for brand-new evidence
	UncertaintyLow float64
	UncertaintyHi  float64
}

// uncertaintyBand returns the half-width fraction for an evidence type.
func uncertaintyBand(evidenceType string) float64 {
	switch evidenceType {
	case "mass_spec":
		return bandMassSpec
	case "genomics":
		return bandGenomics
	case "literature":
		return bandLiterature
	default:
		return bandDefault
	}
}

// FromRaw fuzzifies one raw evidence observation. rawValue is the
// upstream confidence in [0,1]; timestamp is when the evidence was
// produced (age drives temporal decay).
func FromRaw(id, source, evidenceType string, rawValue float64, timestamp time.Time) *Evidence {
	ageHours := time.Since(timestamp).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	band := uncertaintyBand(evidenceType)

	return &Evidence{
		ID:                    id,
		Source:                source,
		EvidenceType:          evidenceType,
		RawValue:              rawValue,
		ConfidenceMemberships: ConfidenceVariable().Fuzzify(rawValue),
		AgreementMemberships:  map[string]float64{},
		TemporalDecay:         math.Exp(-ageHours / decayEFoldHours),
		UncertaintyLow:        rawValue * (1 - band),
		UncertaintyHi:         rawValue * (1 + band),
	}
}

// DefuzzifiedConfidence collapses the confidence memberships back to a
// single scalar via a decay-weighted centroid. Decay scales only the
// numerator: it pulls the blend toward neutral without shrinking the
// normalization mass, so the result never divides by a near-zero
// denominator for old evidence. Returns 0.5 when total membership is 0.
func (e *Evidence) DefuzzifiedConfidence() float64 {
	var num, den float64
	for term, membership := range e.ConfidenceMemberships {
		value, ok := TermValues[term]
		if !ok {
			value = 0.5
		}
		num += value * membership * e.TemporalDecay
		den += membership
	}
	if den <= 0 {
		return 0.5
	}
	return num / den
}
