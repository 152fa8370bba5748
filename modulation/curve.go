package modulation

import (
	"math"

	"github.com/tonefold/modkit/internal/dsputil"
)

// Curve selects the shape applied to a normalized segment position.
type Curve uint8

const (
	// CurveLinear leaves the position unchanged.
	CurveLinear Curve = iota

	// CurveExponential bows the segment toward a slow start (x^2).
	CurveExponential

	// CurveLogarithmic bows the segment toward a fast start (sqrt x).
	CurveLogarithmic

	// CurveSCurve eases both ends with a smoothstep.
	CurveSCurve
)

// String returns the configuration name of the curve.
func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveExponential:
		return "exponential"
	case CurveLogarithmic:
		return "logarithmic"
	case CurveSCurve:
		return "sCurve"
	default:
		return "unknown"
	}
}

// ApplyCurve maps a normalized position through the curve shape.
// The input is clamped to [0, 1] first.
func ApplyCurve(x float64, c Curve) float64 {
	x = dsputil.Clamp(x, 0, 1)
	switch c {
	case CurveExponential:
		return x * x
	case CurveLogarithmic:
		return math.Sqrt(x)
	case CurveSCurve:
		return x * x * (3 - 2*x)
	default:
		return x
	}
}
