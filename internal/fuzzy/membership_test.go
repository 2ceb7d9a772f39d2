package fuzzy

import (
	"math"
	"testing"
)

func TestTriangularMembership(t *testing.T) {
	tri := Triangular{Low: 0.0, Peak: 0.5, High: 1.0}

	tests := []struct {
		value float64
		want  float64
	}{
		{0.0, 0.0},
		{0.25, 0.5},
		{0.5, 1.0},
		{0.75, 0.5},
		{1.0, 0.0},
		{-0.5, 0.0}, // out of universe
		{1.5, 0.0},
	}

	for _, tt := range tests {
		got := tri.Membership(tt.value)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Membership(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestTriangularPiecewiseLinear(t *testing.T) {
	tri := Triangular{Low: 0.2, Peak: 0.5, High: 0.8}

	// Midpoints of each leg should be exactly half the peak degree.
	if got := tri.Membership(0.35); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("rising midpoint = %v, want 0.5", got)
	}
	if got := tri.Membership(0.65); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("falling midpoint = %v, want 0.5", got)
	}
}

func TestTriangularEdgePeak(t *testing.T) {
	// Shapes whose peak sits on the universe edge still reach 1.0 there.
	low := Triangular{Low: 0.0, Peak: 0.0, High: 0.2}
	if got := low.Membership(0.0); got != 1.0 {
		t.Errorf("edge peak at 0.0 = %v, want 1.0", got)
	}
	high := Triangular{Low: 0.8, Peak: 1.0, High: 1.0}
	if got := high.Membership(1.0); got != 1.0 {
		t.Errorf("edge peak at 1.0 = %v, want 1.0", got)
	}
}

func TestTrapezoidalMembership(t *testing.T) {
	trap := Trapezoidal{Low: 0.0, LowPeak: 0.2, HighPeak: 0.6, High: 0.8}

	tests := []struct {
		value float64
		want  float64
	}{
		{0.0, 0.0},
		{0.1, 0.5},
		{0.2, 1.0},
		{0.4, 1.0}, // plateau
		{0.6, 1.0},
		{0.7, 0.5},
		{0.8, 0.0},
	}

	for _, tt := range tests {
		got := trap.Membership(tt.value)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Membership(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGaussianMembership(t *testing.T) {
	g := Gaussian{Center: 0.5, Sigma: 0.1}

	if got := g.Membership(0.5); got != 1.0 {
		t.Errorf("center membership = %v, want 1.0", got)
	}
	// Total function: never zero, symmetric.
	left, right := g.Membership(0.3), g.Membership(0.7)
	if left <= 0 || right <= 0 {
		t.Error("gaussian should be positive everywhere")
	}
	if math.Abs(left-right) > 1e-9 {
		t.Errorf("gaussian not symmetric: %v vs %v", left, right)
	}
}

func TestSigmoidMembership(t *testing.T) {
	s := Sigmoid{Center: 0.5, Slope: 10}

	if got := s.Membership(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("center membership = %v, want 0.5", got)
	}
	if s.Membership(0.9) <= s.Membership(0.1) {
		t.Error("sigmoid should increase with positive slope")
	}
	for _, v := range []float64{-10, 0, 0.5, 1, 10} {
		got := s.Membership(v)
		if got <= 0 || got >= 1 {
			t.Errorf("Membership(%v) = %v, want in (0,1)", v, got)
		}
	}
}

func TestFuzzifyReturnsAllTerms(t *testing.T) {
	conf := ConfidenceVariable()

	for _, v := range []float64{0.0, 0.3, 0.55, 0.9, 1.0, -1.0, 2.0} {
		degrees := conf.Fuzzify(v)
		if len(degrees) != len(conf.Terms) {
			t.Errorf("Fuzzify(%v) returned %d terms, want %d", v, len(degrees), len(conf.Terms))
		}
		for term, d := range degrees {
			if d < 0 || d > 1 {
				t.Errorf("Fuzzify(%v)[%s] = %v, want in [0,1]", v, term, d)
			}
		}
	}
}

func TestFuzzifyOverlap(t *testing.T) {
	// Interior values should generally activate two adjacent terms.
	degrees := ConfidenceVariable().Fuzzify(0.7)
	if degrees[TermMedium] <= 0 {
		t.Error("0.7 should partially belong to medium")
	}
	if degrees[TermHigh] <= 0 {
		t.Error("0.7 should partially belong to high")
	}
}

func TestAgreementVariable(t *testing.T) {
	agr := AgreementVariable()

	degrees := agr.Fuzzify(0.1)
	if degrees[TermConflicting] != 1.0 {
		t.Errorf("0.1 conflicting = %v, want 1.0", degrees[TermConflicting])
	}

	degrees = agr.Fuzzify(0.9)
	if degrees[TermSupporting] != 1.0 {
		t.Errorf("0.9 supporting = %v, want 1.0", degrees[TermSupporting])
	}

	degrees = agr.Fuzzify(0.5)
	if degrees[TermNeutral] != 1.0 {
		t.Errorf("0.5 neutral = %v, want 1.0", degrees[TermNeutral])
	}
}
