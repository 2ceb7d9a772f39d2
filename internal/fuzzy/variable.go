package fuzzy

// Variable is a named fuzzy linguistic variable over a bounded universe,
// mapping term names to membership shapes.
type Variable struct {
	Name     string
	Min, Max float64
	Terms    map[string]Shape
}

// Fuzzify returns the membership degree of value for every term of the
// variable. Every defined term appears in the result, even at degree 0.
func (v *Variable) Fuzzify(value float64) map[string]float64 {
	degrees := make(map[string]float64, len(v.Terms))
	for term, shape := range v.Terms {
		degrees[term] = shape.Membership(value)
	}
	return degrees
}

// Confidence terms and their representative (centroid) values, used by
// defuzzification. The shapes overlap so interior points generally
// activate two adjacent terms.
const (
	TermVeryLow  = "very_low"
	TermLow      = "low"
	TermMedium   = "medium"
	TermHigh     = "high"
	TermVeryHigh = "very_high"
)

// TermValues maps each confidence term to the scalar it represents when
// defuzzifying. Recalibrate here, not in the centroid loop.
var TermValues = map[string]float64{
	TermVeryLow:  0.1,
	TermLow:      0.3,
	TermMedium:   0.5,
	TermHigh:     0.8,
	TermVeryHigh: 0.95,
}

// ConfidenceVariable builds the built-in "confidence" variable over [0,1].
func ConfidenceVariable() *Variable {
	return &Variable{
		Name: "confidence",
		Min:  0.0,
		Max:  1.0,
		Terms: map[string]Shape{
			TermVeryLow:  Triangular{Low: 0.0, Peak: 0.0, High: 0.2},
			TermLow:      Triangular{Low: 0.0, Peak: 0.2, High: 0.4},
			TermMedium:   Triangular{Low: 0.2, Peak: 0.5, High: 0.8},
			TermHigh:     Triangular{Low: 0.6, Peak: 0.8, High: 1.0},
			TermVeryHigh: Triangular{Low: 0.8, Peak: 1.0, High: 1.0},
		},
	}
}

// Agreement terms for the built-in "agreement" variable.
const (
	TermConflicting = "conflicting"
	TermNeutral     = "neutral"
	TermSupporting  = "supporting"
)

// AgreementVariable builds the built-in "agreement" variable over [0,1].
func AgreementVariable() *Variable {
	return &Variable{
		Name: "agreement",
		Min:  0.0,
		Max:  1.0,
		Terms: map[string]Shape{
			TermConflicting: Trapezoidal{Low: 0.0, LowPeak: 0.0, HighPeak: 0.3, High: 0.5},
			TermNeutral:     Triangular{Low: 0.3, Peak: 0.5, High: 0.7},
			TermSupporting:  Trapezoidal{Low: 0.5, LowPeak: 0.7, HighPeak: 1.0, High: 1.0},
		},
	}
}
