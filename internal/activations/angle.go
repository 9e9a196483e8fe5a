package activations

import "math"

// ClipMargin keeps expectations strictly inside (-1, 1) so arccos stays finite
// and differentiable.
const ClipMargin = 1e-5

// ClipExpectation clips x to [-1+ClipMargin, 1-ClipMargin]. NaN maps to the
// lower bound.
func ClipExpectation(x float64) float64 {
	const lo, hi = -1 + ClipMargin, 1 - ClipMargin
	switch {
	case x > hi:
		return hi
	case x >= lo:
		return x
	}
	return lo
}

// ExpectationAngle maps an expectation value to arccos(x)/π in [0, 1].
type ExpectationAngle struct{}

// Activate computes arccos(clip(x)) / π.
func (ExpectationAngle) Activate(x float64) float64 {
	return math.Acos(ClipExpectation(x)) / math.Pi
}

// Derivative is -1/(π·sqrt(1-x²)) inside the clip range and 0 outside it.
func (ExpectationAngle) Derivative(x float64) float64 {
	if x != ClipExpectation(x) {
		return 0
	}
	return -1 / (math.Pi * math.Sqrt(1-x*x))
}

// PostProcess applies the expectation angle then act, Linear when act is nil.
func PostProcess(x float64, act Activation) float64 {
	y := ExpectationAngle{}.Activate(x)
	if act == nil {
		return y
	}
	return act.Activate(y)
}

// PostProcessDerivative returns d PostProcess(x, act) / dx.
func PostProcessDerivative(x float64, act Activation) float64 {
	d := ExpectationAngle{}.Derivative(x)
	if act == nil || d == 0 {
		return d
	}
	return act.Derivative(ExpectationAngle{}.Activate(x)) * d
}
