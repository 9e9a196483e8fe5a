// Package activations provides the element-wise and vector activations used by
// the quantum and classical layers.
package activations

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// VectorActivation couples all outputs of a layer, as softmax does.
type VectorActivation interface {
	// ActivateVector computes f(x) into a new slice.
	ActivateVector(x []float64) []float64

	// BackwardVector returns J(y)^T grad, where y = f(x).
	BackwardVector(y, grad []float64) []float64
}

// Linear is the identity.
type Linear struct{}

// Activate returns x.
func (Linear) Activate(x float64) float64 { return x }

// Derivative returns 1.
func (Linear) Derivative(float64) float64 { return 1 }

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// LeakyReLU keeps a small slope for x <= 0.
type LeakyReLU struct {
	Alpha float64
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	tanhX := math.Tanh(x)
	return 1 - tanhX*tanhX
}

// Softmax activation function for output layer.
type Softmax struct{}

// Activate panics: softmax is defined on vectors only.
func (s Softmax) Activate(x float64) float64 {
	panic("Softmax.Activate: use ActivateVector for Softmax")
}

// Derivative panics: softmax is defined on vectors only.
func (s Softmax) Derivative(x float64) float64 {
	panic("Softmax.Derivative: use BackwardVector for Softmax")
}

// ActivateVector computes exp(x) / sum(exp(x)), shifted by max(x) for stability.
func (s Softmax) ActivateVector(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	maxVal := floats.Max(x)
	for i, v := range x {
		out[i] = math.Exp(v - maxVal)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// BackwardVector computes y_i * (grad_i - <grad, y>).
func (s Softmax) BackwardVector(y, grad []float64) []float64 {
	dot := floats.Dot(y, grad)
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] * (grad[i] - dot)
	}
	return out
}

// ByName resolves the activation names accepted by layers and configuration.
// The empty string and "linear" both mean identity.
func ByName(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear", "identity":
		return Linear{}, nil
	case "relu":
		return ReLU{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "leaky_relu", "leakyrelu":
		return NewLeakyReLU(0.01), nil
	case "softmax":
		return Softmax{}, nil
	}
	return nil, fmt.Errorf("activations: unknown activation %q", name)
}

// Name returns the configuration name of a.
func Name(a Activation) string {
	switch a.(type) {
	case nil, Linear:
		return "linear"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case *LeakyReLU:
		return "leaky_relu"
	case Softmax:
		return "softmax"
	case ExpectationAngle:
		return "expectation_angle"
	}
	return fmt.Sprintf("%T", a)
}
