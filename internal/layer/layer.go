// Package layer provides the classical layers of the hybrid network and the
// interfaces every layer, quantum or classical, implements.
package layer

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
)

// Layer is a neural network layer operating on one flattened sample.
// Backward accumulates parameter gradients until ClearGradients is called.
type Layer interface {
	Forward(x []float64) []float64
	Backward(grad []float64) []float64
	Params() []float64
	SetParams([]float64)
	Gradients() []float64
	ClearGradients()
	InSize() int
	OutSize() int
}

// BatchLayer is a layer that is cheaper to evaluate on a whole batch at once.
// BackwardBatch must follow the ForwardBatch call whose outputs it differentiates.
type BatchLayer interface {
	Layer
	ForwardBatch(x [][]float64) [][]float64
	BackwardBatch(grad [][]float64) [][]float64
}

// DefaultSeed seeds layer initialisation when no seed is given.
const DefaultSeed = 42

// Dense is a fully connected layer.
// Weights are stored row-major: weight for output o, input i is at weights[o*in + i].
type Dense struct {
	weights []float64
	biases  []float64
	act     activations.Activation
	outSize int
	inSize  int

	inputBuf  []float64
	outputBuf []float64
	preActBuf []float64
	gradWBuf  []float64
	gradBBuf  []float64
	gradInBuf []float64
	dzBuf     []float64
}

// NewDense creates a dense layer with Glorot-uniform weights and zero biases.
func NewDense(in, out int, act activations.Activation) *Dense {
	return NewDenseSeeded(in, out, act, DefaultSeed)
}

// NewDenseSeeded is NewDense with an explicit initialisation seed.
func NewDenseSeeded(in, out int, act activations.Activation, seed uint64) *Dense {
	if act == nil {
		act = activations.Linear{}
	}
	limit := math.Sqrt(6.0 / (float64(in) + float64(out)))
	dist := distuv.Uniform{Min: -limit, Max: limit, Src: rand.NewPCG(seed, seed)}

	weights := make([]float64, out*in)
	for i := range weights {
		weights[i] = dist.Rand()
	}

	return &Dense{
		weights:   weights,
		biases:    make([]float64, out),
		act:       act,
		outSize:   out,
		inSize:    in,
		inputBuf:  make([]float64, in),
		outputBuf: make([]float64, out),
		preActBuf: make([]float64, out),
		gradWBuf:  make([]float64, out*in),
		gradBBuf:  make([]float64, out),
		gradInBuf: make([]float64, in),
		dzBuf:     make([]float64, out),
	}
}

// Forward computes act(Wx + b). The returned slice is reused by the next call.
func (d *Dense) Forward(x []float64) []float64 {
	if len(x) != d.inSize {
		panic("layer: Dense input size mismatch")
	}
	copy(d.inputBuf, x)

	for o := 0; o < d.outSize; o++ {
		sum := d.biases[o]
		w := d.weights[o*d.inSize : (o+1)*d.inSize]
		for i, v := range d.inputBuf {
			sum += w[i] * v
		}
		d.preActBuf[o] = sum
	}

	if va, ok := d.act.(activations.VectorActivation); ok {
		copy(d.outputBuf, va.ActivateVector(d.preActBuf))
	} else {
		for o, z := range d.preActBuf {
			d.outputBuf[o] = d.act.Activate(z)
		}
	}
	return d.outputBuf
}

// Backward accumulates weight and bias gradients for the last Forward input and
// returns dL/dx.
func (d *Dense) Backward(grad []float64) []float64 {
	dz := d.dzBuf
	if va, ok := d.act.(activations.VectorActivation); ok {
		copy(dz, va.BackwardVector(d.outputBuf, grad))
	} else {
		for o := range dz {
			dz[o] = grad[o] * d.act.Derivative(d.preActBuf[o])
		}
	}

	for o, g := range dz {
		d.gradBBuf[o] += g
		gw := d.gradWBuf[o*d.inSize : (o+1)*d.inSize]
		for i, v := range d.inputBuf {
			gw[i] += g * v
		}
	}

	for i := range d.gradInBuf {
		sum := 0.0
		for o, g := range dz {
			sum += g * d.weights[o*d.inSize+i]
		}
		d.gradInBuf[i] = sum
	}
	return d.gradInBuf
}

// Params returns weights then biases.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, len(d.weights)+len(d.biases))
	params = append(params, d.weights...)
	return append(params, d.biases...)
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) {
	copy(d.weights, params[:len(d.weights)])
	copy(d.biases, params[len(d.weights):])
}

// Gradients returns the accumulated gradients in Params order.
func (d *Dense) Gradients() []float64 {
	gradients := make([]float64, 0, len(d.gradWBuf)+len(d.gradBBuf))
	gradients = append(gradients, d.gradWBuf...)
	return append(gradients, d.gradBBuf...)
}

// ClearGradients zeroes the accumulated gradients.
func (d *Dense) ClearGradients() {
	clear(d.gradWBuf)
	clear(d.gradBBuf)
}

// SetWeight sets a single weight at (row, col).
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights[row*d.inSize+col] = val
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases[idx] = val
}

// GetWeight gets a single weight at (row, col).
func (d *Dense) GetWeight(row, col int) float64 {
	return d.weights[row*d.inSize+col]
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation {
	return d.act
}
