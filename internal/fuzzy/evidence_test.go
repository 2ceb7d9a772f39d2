package fuzzy

import (
	"math"
	"testing"
	"time"
)

func TestFromRawFreshEvidence(t *testing.T) {
	e := FromRaw("ev-1", "mass_spec", "mass_spec", 0.8, time.Now())

	if e.ID != "ev-1" || e.Source != "mass_spec" {
		t.Fatalf("identity fields not carried: %+v", e)
	}
	if len(e.ConfidenceMemberships) != 5 {
		t.Errorf("confidence memberships = %d terms, want 5", len(e.ConfidenceMemberships))
	}
	if e.ConfidenceMemberships[TermHigh] != 1.0 {
		t.Errorf("high membership = %v, want 1.0", e.ConfidenceMemberships[TermHigh])
	}
	// Fresh evidence decays by a hair at most.
	if e.TemporalDecay < 0.999 || e.TemporalDecay > 1.0 {
		t.Errorf("fresh decay = %v, want ~1.0", e.TemporalDecay)
	}
	if len(e.AgreementMemberships) != 0 {
		t.Error("agreement memberships should start empty")
	}
}

func TestFromRawUncertaintyBands(t *testing.T) {
	tests := []struct {
		evidenceType string
		band         float64
	}{
		{"mass_spec", 0.05},
		{"genomics", 0.10},
		{"literature", 0.15},
		{"proteomics", 0.10}, // unknown type gets the default band
	}

	for _, tt := range tests {
		e := FromRaw("ev", "src", tt.evidenceType, 0.6, time.Now())
		wantLow := 0.6 * (1 - tt.band)
		wantHi := 0.6 * (1 + tt.band)
		if math.Abs(e.UncertaintyLow-wantLow) > 1e-9 || math.Abs(e.UncertaintyHi-wantHi) > 1e-9 {
			t.Errorf("%s bounds = (%v, %v), want (%v, %v)",
				tt.evidenceType, e.UncertaintyLow, e.UncertaintyHi, wantLow, wantHi)
		}
	}
}

func TestTemporalDecay(t *testing.T) {
	// 30 days old: one e-folding time, decay ≈ 1/e.
	e := FromRaw("ev", "src", "genomics", 0.5, time.Now().Add(-30*24*time.Hour))
	if math.Abs(e.TemporalDecay-math.Exp(-1)) > 1e-3 {
		t.Errorf("30-day decay = %v, want ~%v", e.TemporalDecay, math.Exp(-1))
	}

	// Future timestamps are clamped, not amplified.
	e = FromRaw("ev", "src", "genomics", 0.5, time.Now().Add(time.Hour))
	if e.TemporalDecay > 1.0 {
		t.Errorf("future evidence decay = %v, want ≤ 1.0", e.TemporalDecay)
	}
}

func TestDefuzzifiedConfidenceRange(t *testing.T) {
	for _, raw := range []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		e := FromRaw("ev", "src", "mass_spec", raw, time.Now())
		got := e.DefuzzifiedConfidence()
		if got < 0 || got > 1 {
			t.Errorf("DefuzzifiedConfidence(raw=%v) = %v, want in [0,1]", raw, got)
		}
	}
}

func TestDefuzzifiedConfidenceTracksRawValue(t *testing.T) {
	low := FromRaw("a", "src", "mass_spec", 0.2, time.Now())
	high := FromRaw("b", "src", "mass_spec", 0.9, time.Now())

	if low.DefuzzifiedConfidence() >= high.DefuzzifiedConfidence() {
		t.Errorf("defuzzified ordering broken: low=%v high=%v",
			low.DefuzzifiedConfidence(), high.DefuzzifiedConfidence())
	}
}

func TestDefuzzifiedConfidenceZeroMass(t *testing.T) {
	e := &Evidence{
		ConfidenceMemberships: map[string]float64{TermLow: 0, TermHigh: 0},
		TemporalDecay:         1.0,
	}
	if got := e.DefuzzifiedConfidence(); got != 0.5 {
		t.Errorf("zero-mass defuzzification = %v, want neutral 0.5", got)
	}
}

func TestDecayWeightsNumeratorOnly(t *testing.T) {
	fresh := FromRaw("a", "src", "mass_spec", 0.8, time.Now())
	old := FromRaw("b", "src", "mass_spec", 0.8, time.Now().Add(-60*24*time.Hour))

	// Same memberships, decayed numerator: old evidence scores lower but
	// still well-defined (denominator is undecayed membership mass).
	if old.DefuzzifiedConfidence() >= fresh.DefuzzifiedConfidence() {
		t.Errorf("decay should lower confidence: old=%v fresh=%v",
			old.DefuzzifiedConfidence(), fresh.DefuzzifiedConfidence())
	}
	if old.DefuzzifiedConfidence() <= 0 {
		t.Error("decayed confidence should stay positive")
	}
}
