// Package expectation binds patch batches and kernel weights to a circuit
// template and evaluates them in one batched backend call.
package expectation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
)

// ErrBindingMismatch signals that a binding does not match the template's symbol list.
var ErrBindingMismatch = errors.New("expectation: binding mismatch")

// Shift is the parameter-shift offset for gates of the form exp(-i v π G/2)
// with G having eigenvalues ±1 (RX(π·a), CX^t, CZ^t).
const Shift = 0.5

// Backend computes one expectation value per binding row.
type Backend interface {
	Expectations(tpl *circuit.Template, obs circuit.Observable, bindings *mat.Dense) ([]float64, error)
}

// Evaluator evaluates a fixed template.
type Evaluator struct {
	backend Backend
	tpl     *circuit.Template
}

// New returns an evaluator of tpl over backend.
func New(backend Backend, tpl *circuit.Template) *Evaluator {
	return &Evaluator{backend: backend, tpl: tpl}
}

// Template returns the evaluated template.
func (e *Evaluator) Template() *circuit.Template {
	return e.tpl
}

// Bind concatenates each patch row with a weight row. Row r takes weights row
// r mod weights.rows, so a single row is broadcast and G rows are tiled.
func (e *Evaluator) Bind(patches, weights *mat.Dense) (*mat.Dense, error) {
	rows, nIn := patches.Dims()
	wRows, nP := weights.Dims()
	if nIn != e.tpl.NumInputs() {
		return nil, fmt.Errorf("%w: %d patch columns, template has %d inputs", ErrBindingMismatch, nIn, e.tpl.NumInputs())
	}
	if nP != e.tpl.NumLearnable() {
		return nil, fmt.Errorf("%w: %d weight columns, template has %d learnable parameters", ErrBindingMismatch, nP, e.tpl.NumLearnable())
	}
	if rows%wRows != 0 {
		return nil, fmt.Errorf("%w: %d rows cannot tile %d weight rows", ErrBindingMismatch, rows, wRows)
	}

	out := mat.NewDense(rows, nIn+nP, nil)
	for r := 0; r < rows; r++ {
		dst := out.RawRowView(r)
		copy(dst, patches.RawRowView(r))
		copy(dst[nIn:], weights.RawRowView(r%wRows))
	}
	return out, nil
}

// Kernel returns the expectation of every patch row under one kernel's weights.
func (e *Evaluator) Kernel(patches, weights *mat.Dense) ([]float64, error) {
	b, err := e.Bind(patches, weights)
	if err != nil {
		return nil, err
	}
	return e.eval(b)
}

func (e *Evaluator) eval(b *mat.Dense) ([]float64, error) {
	out, err := e.backend.Expectations(e.tpl, e.tpl.Observable(), b)
	if err != nil {
		return nil, err
	}
	if rows, _ := b.Dims(); len(out) != rows {
		return nil, fmt.Errorf("%w: backend returned %d values for %d rows", ErrBindingMismatch, len(out), rows)
	}
	return out, nil
}

// Gradient holds the reduced weight gradient and, optionally, per-row input gradients.
type Gradient struct {
	// Weights has the shape of the weights passed to Gradients.
	Weights *mat.Dense
	// Inputs has the shape of patches; nil unless requested.
	Inputs *mat.Dense
}

// Gradients back-propagates upstream (dL/dexpectation, one per row) through
// the circuit using the parameter-shift rule
//
//	d<O>/dv = π/2 * (<O>(v + 1/2) - <O>(v - 1/2))
//
// evaluated column by column with the same batched backend call as Kernel.
func (e *Evaluator) Gradients(patches, weights *mat.Dense, upstream []float64, wantInputs bool) (Gradient, error) {
	b, err := e.Bind(patches, weights)
	if err != nil {
		return Gradient{}, err
	}
	rows, cols := b.Dims()
	if len(upstream) != rows {
		return Gradient{}, fmt.Errorf("%w: %d upstream values for %d rows", ErrBindingMismatch, len(upstream), rows)
	}
	nIn := e.tpl.NumInputs()
	wRows, nP := weights.Dims()

	g := Gradient{Weights: mat.NewDense(wRows, nP, nil)}
	first := nIn
	if wantInputs {
		g.Inputs = mat.NewDense(rows, nIn, nil)
		first = 0
	}

	for j := first; j < cols; j++ {
		d, err := e.shifted(b, j)
		if err != nil {
			return Gradient{}, err
		}
		for r := 0; r < rows; r++ {
			v := upstream[r] * d[r]
			if j < nIn {
				g.Inputs.Set(r, j, v)
				continue
			}
			wr := r % wRows
			g.Weights.Set(wr, j-nIn, g.Weights.At(wr, j-nIn)+v)
		}
	}
	return g, nil
}

// shifted returns d<O>/d(column j) for every row; b is restored before returning.
func (e *Evaluator) shifted(b *mat.Dense, j int) ([]float64, error) {
	col := mat.Col(nil, j, b)
	rows := len(col)

	setCol := func(delta float64) {
		for r := 0; r < rows; r++ {
			b.Set(r, j, col[r]+delta)
		}
	}

	setCol(Shift)
	plus, err := e.eval(b)
	if err != nil {
		return nil, err
	}
	setCol(-Shift)
	minus, err := e.eval(b)
	if err != nil {
		return nil, err
	}
	b.SetCol(j, col)

	d := make([]float64, rows)
	for r := range d {
		d[r] = math.Pi / 2 * (plus[r] - minus[r])
	}
	return d, nil
}
