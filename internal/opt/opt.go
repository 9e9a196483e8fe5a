// Package opt provides optimization algorithms.
package opt

import (
	"fmt"
	"math"
	"strings"
)

// Optimizer updates parameters in place from their gradients.
// key identifies the parameter group (the layer index) so that stateful
// optimizers keep separate moments per layer.
type Optimizer interface {
	Step(key int, params, gradients []float64)
	LearningRate() float64
	SetLearningRate(lr float64)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LR float64
}

// NewSGD creates an SGD optimizer.
func NewSGD(lr float64) *SGD {
	return &SGD{LR: lr}
}

// Step updates params in-place: params = params - lr * gradients
func (s *SGD) Step(_ int, params, gradients []float64) {
	for i := range params {
		params[i] -= s.LR * gradients[i]
	}
}

// LearningRate returns the current learning rate.
func (s *SGD) LearningRate() float64 { return s.LR }

// SetLearningRate replaces the learning rate.
func (s *SGD) SetLearningRate(lr float64) { s.LR = lr }

// Adam keeps bias-corrected first and second moment estimates per parameter.
type Adam struct {
	LR      float64
	Beta1   float64
	Beta2   float64
	Epsilon float64

	state map[int]*adamState
}

type adamState struct {
	m, v []float64
	t    int
}

// NewAdam creates an Adam optimizer with the usual defaults (0.9, 0.999, 1e-7).
func NewAdam(lr float64) *Adam {
	return &Adam{
		LR:      lr,
		Beta1:   0.9,
		Beta2:   0.999,
		Epsilon: 1e-7,
		state:   make(map[int]*adamState),
	}
}

// Step applies one Adam update to the parameter group key.
func (a *Adam) Step(key int, params, gradients []float64) {
	if a.state == nil {
		a.state = make(map[int]*adamState)
	}
	st, ok := a.state[key]
	if !ok || len(st.m) != len(params) {
		st = &adamState{m: make([]float64, len(params)), v: make([]float64, len(params))}
		a.state[key] = st
	}
	st.t++

	// lr_t = lr * sqrt(1 - beta2^t) / (1 - beta1^t)
	lrT := a.LR * math.Sqrt(1-math.Pow(a.Beta2, float64(st.t))) / (1 - math.Pow(a.Beta1, float64(st.t)))
	for i, g := range gradients {
		st.m[i] = a.Beta1*st.m[i] + (1-a.Beta1)*g
		st.v[i] = a.Beta2*st.v[i] + (1-a.Beta2)*g*g
		params[i] -= lrT * st.m[i] / (math.Sqrt(st.v[i]) + a.Epsilon)
	}
}

// LearningRate returns the current learning rate.
func (a *Adam) LearningRate() float64 { return a.LR }

// SetLearningRate replaces the learning rate.
func (a *Adam) SetLearningRate(lr float64) { a.LR = lr }

// Reset drops all moment estimates.
func (a *Adam) Reset() {
	a.state = make(map[int]*adamState)
}

// ByName resolves the optimizer names accepted by configuration.
func ByName(name string, lr float64) (Optimizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "adam":
		return NewAdam(lr), nil
	case "sgd":
		return NewSGD(lr), nil
	}
	return nil, fmt.Errorf("opt: unknown optimizer %q", name)
}
