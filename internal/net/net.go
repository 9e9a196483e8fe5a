// Package net provides the network container, its training loop and checkpoints.
package net

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/loss"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
)

// ErrEmptyDataset is returned when training or evaluating on no samples.
var ErrEmptyDataset = errors.New("net: empty dataset")

// Network is a collection of layers that can be forwarded and backwarded.
// Leading layers that implement layer.BatchLayer run once per batch; the rest
// run per sample.
type Network struct {
	layers []layer.Layer
	loss   loss.Loss
	opt    opt.Optimizer
	log    zerolog.Logger

	// number of leading batch layers
	front int
}

// Option configures New.
type Option func(*Network)

// WithLogger sets the logger used for training diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Network) { n.log = log }
}

// New creates a new neural network with the given layers.
func New(layers []layer.Layer, lossFn loss.Loss, optimizer opt.Optimizer, opts ...Option) *Network {
	n := &Network{
		layers: layers,
		loss:   lossFn,
		opt:    optimizer,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(n)
	}
	for _, l := range layers {
		if _, ok := l.(layer.BatchLayer); !ok {
			break
		}
		n.front++
	}
	return n
}

// Forward performs a forward pass of one sample. The result is a fresh slice.
func (n *Network) Forward(x []float64) []float64 {
	curr := x
	for _, l := range n.layers {
		curr = l.Forward(curr)
	}
	return append([]float64(nil), curr...)
}

// ForwardBatch runs a batch through the network and returns one prediction per sample.
func (n *Network) ForwardBatch(x [][]float64) [][]float64 {
	curr := x
	for _, l := range n.layers[:n.front] {
		curr = l.(layer.BatchLayer).ForwardBatch(curr)
	}
	out := make([][]float64, len(curr))
	for i, s := range curr {
		for _, l := range n.layers[n.front:] {
			s = l.Forward(s)
		}
		out[i] = append([]float64(nil), s...)
	}
	return out
}

// Backward performs a backward pass of one sample through all layers.
func (n *Network) Backward(grad []float64) []float64 {
	curr := grad
	for i := len(n.layers) - 1; i >= 0; i-- {
		curr = n.layers[i].Backward(curr)
	}
	return curr
}

// ClearGradients zeroes every layer's accumulated gradients.
func (n *Network) ClearGradients() {
	for _, l := range n.layers {
		l.ClearGradients()
	}
}

// Step applies one optimizer update with the accumulated gradients scaled by
// 1/batchSize, then clears them.
func (n *Network) Step(batchSize int) {
	scale := 1.0
	if batchSize > 1 {
		scale = 1 / float64(batchSize)
	}
	for i, l := range n.layers {
		params := l.Params()
		if len(params) == 0 {
			continue
		}
		grads := l.Gradients()
		floats.Scale(scale, grads)
		n.opt.Step(i, params, grads)
		l.SetParams(params)
	}
	n.ClearGradients()
}

// TrainBatch performs one optimization step on a batch and returns its mean loss.
func (n *Network) TrainBatch(batchX, batchY [][]float64) float64 {
	if len(batchX) == 0 {
		return 0
	}
	n.ClearGradients()

	curr := batchX
	for _, l := range n.layers[:n.front] {
		curr = l.(layer.BatchLayer).ForwardBatch(curr)
	}

	var total float64
	frontGrad := make([][]float64, len(curr))
	for i, s := range curr {
		for _, l := range n.layers[n.front:] {
			s = l.Forward(s)
		}
		total += n.loss.Forward(s, batchY[i])
		g := n.loss.Backward(s, batchY[i])
		for j := len(n.layers) - 1; j >= n.front; j-- {
			g = n.layers[j].Backward(g)
		}
		frontGrad[i] = append([]float64(nil), g...)
	}

	for j := n.front - 1; j >= 0; j-- {
		frontGrad = n.layers[j].(layer.BatchLayer).BackwardBatch(frontGrad)
	}

	n.Step(len(batchX))
	return total / float64(len(batchX))
}

// Train performs a training step on a single sample.
func (n *Network) Train(x, y []float64) float64 {
	return n.TrainBatch([][]float64{x}, [][]float64{y})
}

// FitConfig controls Fit.
type FitConfig struct {
	Epochs    int
	BatchSize int
	// Shuffle reorders samples every epoch with a generator seeded by Seed.
	Shuffle   bool
	Seed      uint64
	Callbacks []Callback

	// ValX and ValY, when set, are evaluated after every epoch.
	ValX, ValY [][]float64
}

// History holds per-epoch training results.
type History struct {
	Loss     []float64
	Accuracy []float64

	ValLoss     []float64
	ValAccuracy []float64
}

// Fit trains on (x, y) for cfg.Epochs epochs of mini-batches.
func (n *Network) Fit(x, y [][]float64, cfg FitConfig) (History, error) {
	if len(x) == 0 {
		return History{}, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return History{}, fmt.Errorf("net: %d samples but %d targets", len(x), len(y))
	}
	if len(cfg.ValX) != len(cfg.ValY) {
		return History{}, fmt.Errorf("net: %d validation samples but %d targets", len(cfg.ValX), len(cfg.ValY))
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = len(x)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}

	var hist History
	for _, c := range cfg.Callbacks {
		c.OnTrainBegin(n)
	}
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		for _, c := range cfg.Callbacks {
			c.OnEpochBegin(epoch, n)
		}
		if cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var sum float64
		batch := 0
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, len(order))
			bx := make([][]float64, 0, end-start)
			by := make([][]float64, 0, end-start)
			for _, idx := range order[start:end] {
				bx = append(bx, x[idx])
				by = append(by, y[idx])
			}
			for _, c := range cfg.Callbacks {
				c.OnBatchBegin(batch, n)
			}
			l := n.TrainBatch(bx, by)
			sum += l * float64(end-start)
			for _, c := range cfg.Callbacks {
				c.OnBatchEnd(batch, l, n)
			}
			batch++
		}

		epochLoss := sum / float64(len(x))
		_, acc := n.Evaluate(x, y)
		hist.Loss = append(hist.Loss, epochLoss)
		hist.Accuracy = append(hist.Accuracy, acc)

		ev := n.log.Debug().Int("epoch", epoch).Float64("loss", epochLoss).Float64("accuracy", acc)
		if len(cfg.ValX) > 0 {
			vl, va := n.Evaluate(cfg.ValX, cfg.ValY)
			hist.ValLoss = append(hist.ValLoss, vl)
			hist.ValAccuracy = append(hist.ValAccuracy, va)
			ev = ev.Float64("val_loss", vl).Float64("val_accuracy", va)
		}
		ev.Msg("Epoch finished")

		stop := false
		for _, c := range cfg.Callbacks {
			c.OnEpochEnd(epoch, Metrics{Loss: epochLoss, Accuracy: acc}, n)
			if s, ok := c.(Stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if stop {
			break
		}
	}
	for _, c := range cfg.Callbacks {
		c.OnTrainEnd(n)
	}
	return hist, nil
}

// Predict returns the argmax class of every sample.
func (n *Network) Predict(x [][]float64) []int {
	preds := n.ForwardBatch(x)
	out := make([]int, len(preds))
	for i, p := range preds {
		out[i] = floats.MaxIdx(p)
	}
	return out
}

// Evaluate returns the mean loss and the accuracy on (x, y). Targets are
// either class indices (length 1) or one-hot vectors.
func (n *Network) Evaluate(x, y [][]float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	preds := n.ForwardBatch(x)
	var total float64
	correct := 0
	for i, p := range preds {
		total += n.loss.Forward(p, y[i])
		if floats.MaxIdx(p) == Label(y[i]) {
			correct++
		}
	}
	return total / float64(len(x)), float64(correct) / float64(len(x))
}

// Label returns the class of a target: the index itself for a length-1 target,
// the argmax for a one-hot vector.
func Label(y []float64) int {
	if len(y) == 1 {
		return int(y[0])
	}
	return floats.MaxIdx(y)
}

// Params returns all network parameters flattened (copy).
func (n *Network) Params() []float64 {
	var params []float64
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// Gradients returns all network gradients flattened (copy).
func (n *Network) Gradients() []float64 {
	var gradients []float64
	for _, l := range n.layers {
		gradients = append(gradients, l.Gradients()...)
	}
	return gradients
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// Optimizer returns the optimizer used by Step.
func (n *Network) Optimizer() opt.Optimizer {
	return n.opt
}

// Loss returns the training loss.
func (n *Network) Loss() loss.Loss {
	return n.loss
}
