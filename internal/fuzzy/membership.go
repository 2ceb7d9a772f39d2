// Package fuzzy implements the linguistic-variable layer of the fusion
// engine: membership function shapes, named fuzzy variables, and the
// fuzzified evidence representation built on top of them.
package fuzzy

import "math"

// Shape is a membership function: a pure mapping from a scalar to a
// degree in [0,1].
type Shape interface {
	Membership(value float64) float64
}

// Triangular is a triangular membership function. Degree rises linearly
// from Low to 1.0 at Peak, then falls linearly to High. Zero outside
// (Low, High).
type Triangular struct {
	Low, Peak, High float64
}

func (t Triangular) Membership(value float64) float64 {
	switch {
	case value <= t.Low || value >= t.High:
		// Degenerate shapes anchor a peak at the universe edge
		// (e.g. very_high peaks at 1.0 with High == Peak).
		if value == t.Peak {
			return 1.0
		}
		return 0.0
	case value <= t.Peak:
		return (value - t.Low) / (t.Peak - t.Low)
	default:
		return (t.High - value) / (t.High - t.Peak)
	}
}

// Trapezoidal is a trapezoidal membership function with a plateau of 1.0
// between LowPeak and HighPeak.
type Trapezoidal struct {
	Low, LowPeak, HighPeak, High float64
}

func (t Trapezoidal) Membership(value float64) float64 {
	switch {
	case value <= t.Low || value >= t.High:
		if value >= t.LowPeak && value <= t.HighPeak {
			return 1.0
		}
		return 0.0
	case value <= t.LowPeak:
		return (value - t.Low) / (t.LowPeak - t.Low)
	case value <= t.HighPeak:
		return 1.0
	default:
		return (t.High - value) / (t.High - t.HighPeak)
	}
}

// Gaussian is a gaussian membership function centered at Center. Total:
// always positive, 1.0 only at the center.
type Gaussian struct {
	Center, Sigma float64
}

func (g Gaussian) Membership(value float64) float64 {
	diff := (value - g.Center) / g.Sigma
	return math.Exp(-0.5 * diff * diff)
}

// Sigmoid is a sigmoid membership function. Slope > 0 rises toward 1.0
// past Center.
type Sigmoid struct {
	Center, Slope float64
}

func (s Sigmoid) Membership(value float64) float64 {
	return 1.0 / (1.0 + math.Exp(-s.Slope*(value-s.Center)))
}
