// Package qconv implements the quantum convolution layer: a parametrized circuit
// slid as a 2x2 kernel over image batches.
package qconv

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/expectation"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/patch"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/sim"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/tensor"
)

// Config describes a quantum convolution layer.
type Config struct {
	Kernels  int
	Datatype Datatype
	// Height and Width of the input images.
	Height, Width int

	Variant             circuit.Variant
	Registers           int
	RegistersPerAncilla int
	InterEntangle       bool

	// ClassicalWeights adds per-position, per-channel weights and biases to the
	// control variant before its channel sum, and turns on input normalization.
	ClassicalWeights bool

	// InputGradients makes Backward return dL/dinput instead of zeros.
	InputGradients bool

	Activation activations.Activation
	Seed       uint64
}

// Geometry returns the circuit geometry of c.
func (c Config) Geometry() circuit.Geometry {
	return circuit.Geometry{
		Channels:            c.Datatype.Channels(),
		Registers:           c.Registers,
		RegistersPerAncilla: c.RegistersPerAncilla,
		InterEntangle:       c.InterEntangle,
		Variant:             c.Variant,
	}
}

// Option configures New.
type Option func(*options)

type options struct {
	backend expectation.Backend
	log     zerolog.Logger
}

// WithBackend replaces the default state-vector simulator.
func WithBackend(b expectation.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// QConv is a quantum convolution layer. It implements layer.BatchLayer.
type QConv struct {
	cfg  Config
	act  activations.Activation
	tpl  *circuit.Template
	rt   Runtime
	eval *expectation.Evaluator

	// kernel row k*Group+g holds kernel k's parameters for channel g.
	kernel     *mat.Dense
	kernelGrad *mat.Dense

	// channelW and channelB are (NumX, NumY, Channels) row-major; nil unless ClassicalWeights.
	channelW, channelB []float64
	gradW, gradB       []float64

	// forward-pass state consumed by BackwardBatch
	batch   int
	patches *mat.Dense
	raw     [][]float64 // per kernel, one expectation per evaluator row
	pre     []float64   // (batch, NumX, NumY, Kernels) before post-processing
}

// New builds the circuit template and the shape-dependent runtime, and
// initialises the kernel weights.
func New(cfg Config, opts ...Option) (*QConv, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = sim.New(sim.WithLogger(o.log))
	}
	if err := cfg.Datatype.Validate(); err != nil {
		return nil, err
	}
	if cfg.Kernels <= 0 {
		return nil, fmt.Errorf("%w: kernel count must be positive, got %d", circuit.ErrInvalidGeometry, cfg.Kernels)
	}
	if cfg.ClassicalWeights && cfg.Variant != circuit.Control {
		return nil, fmt.Errorf("%w: classical weights need the control variant", circuit.ErrInvalidGeometry)
	}

	tpl, err := circuit.Build(cfg.Geometry(), circuit.WithLogger(o.log))
	if err != nil {
		return nil, err
	}
	rt, err := NewRuntime(tpl, cfg.Height, cfg.Width, cfg.Datatype.Channels())
	if err != nil {
		return nil, err
	}

	act := cfg.Activation
	if act == nil {
		act = activations.Linear{}
	}
	l := &QConv{
		cfg:        cfg,
		act:        act,
		tpl:        tpl,
		rt:         rt,
		eval:       expectation.New(o.backend, tpl),
		kernel:     glorotNormal(cfg.Kernels, rt.Group, tpl.NumLearnable(), cfg.Seed),
		kernelGrad: mat.NewDense(cfg.Kernels*rt.Group, tpl.NumLearnable(), nil),
	}
	if cfg.ClassicalWeights {
		size := rt.Positions * rt.Channels
		l.channelW = randomNormal(size, 1, 0.1, cfg.Seed)
		l.channelB = randomNormal(size, 0, 0.1, cfg.Seed+1)
		l.gradW = make([]float64, size)
		l.gradB = make([]float64, size)
	}

	o.log.Debug().
		Str("variant", cfg.Variant.String()).
		Str("datatype", string(cfg.Datatype)).
		Int("kernels", cfg.Kernels).
		Int("learnable_params", tpl.NumLearnable()).
		Int("depth", tpl.Depth()).
		Int("num_x", rt.NumX).
		Int("num_y", rt.NumY).
		Msg("Quantum convolution built")

	return l, nil
}

// Template returns the layer's circuit template.
func (l *QConv) Template() *circuit.Template { return l.tpl }

// Runtime returns the layer's shape descriptor.
func (l *QConv) Runtime() Runtime { return l.rt }

// Config returns the configuration the layer was built with.
func (l *QConv) Config() Config { return l.cfg }

// Kernel returns a copy of the kernel weights, shape (Kernels*Group, learnable).
func (l *QConv) Kernel() *mat.Dense { return mat.DenseCopyOf(l.kernel) }

func (l *QConv) kernelView(k int) *mat.Dense {
	g := l.rt.Group
	return l.kernel.Slice(k*g, (k+1)*g, 0, l.tpl.NumLearnable()).(*mat.Dense)
}

func (l *QConv) normalizes() bool {
	return l.cfg.Variant != circuit.Control || l.cfg.ClassicalWeights
}

// Apply runs the layer on an image batch and returns (batch, NumX, NumY, Kernels).
func (l *QConv) Apply(t tensor.Tensor4) (tensor.Tensor4, error) {
	if t.H != l.rt.Height || t.W != l.rt.Width {
		return tensor.Tensor4{}, fmt.Errorf("%w: input %dx%d, layer built for %dx%d",
			patch.ErrChannelMismatch, t.H, t.W, l.rt.Height, l.rt.Width)
	}
	if t.C != l.rt.Channels {
		return tensor.Tensor4{}, fmt.Errorf("%w: image has %d channels, %s expects %d",
			patch.ErrChannelMismatch, t.C, l.cfg.Datatype, l.rt.Channels)
	}
	if l.normalizes() {
		t = l.cfg.Datatype.Normalize(t)
	}
	patches, err := patch.Extract(t, l.rt.Channels)
	if err != nil {
		return tensor.Tensor4{}, err
	}
	if l.rt.Group > 1 {
		// (B*P, C*4) is channel-major, so it is already (B*P*C, 4) in row-major order.
		patches = mat.NewDense(l.rt.Rows(t.N), circuit.PatchPixels, patches.RawMatrix().Data)
	}

	k := l.cfg.Kernels
	pre := tensor.New(t.N, l.rt.NumX, l.rt.NumY, k)
	raw := make([][]float64, k)
	for i := 0; i < k; i++ {
		vals, err := l.eval.Kernel(patches, l.kernelView(i))
		if err != nil {
			return tensor.Tensor4{}, err
		}
		raw[i] = vals
		if l.rt.Group > 1 {
			vals = l.channelSum(vals)
		}
		if err := expectation.Stack(pre, i, vals); err != nil {
			return tensor.Tensor4{}, err
		}
	}

	out := tensor.New(t.N, l.rt.NumX, l.rt.NumY, k)
	for i, v := range pre.Data {
		out.Data[i] = activations.PostProcess(v, l.act)
	}

	l.batch = t.N
	l.patches = patches
	l.raw = raw
	l.pre = pre.Data
	return out, nil
}

// channelSum reduces (B*P*C) per-channel expectations to (B*P), applying the
// classical weights when configured.
func (l *QConv) channelSum(vals []float64) []float64 {
	c := l.rt.Channels
	out := make([]float64, len(vals)/c)
	for row := range out {
		pos := row % l.rt.Positions
		var s float64
		for ch := 0; ch < c; ch++ {
			v := vals[row*c+ch]
			if l.channelW != nil {
				v = v*l.channelW[pos*c+ch] + l.channelB[pos*c+ch]
			}
			s += v
		}
		out[row] = s
	}
	return out
}

// Forward runs a single sample.
func (l *QConv) Forward(x []float64) []float64 {
	return l.ForwardBatch([][]float64{x})[0]
}

// ForwardBatch runs flattened (H, W, C) samples and returns flattened
// (NumX, NumY, Kernels) outputs. It panics on malformed input.
func (l *QConv) ForwardBatch(x [][]float64) [][]float64 {
	t, err := tensor.FromSamples(x, l.rt.Height, l.rt.Width, l.rt.Channels)
	if err != nil {
		panic(fmt.Sprintf("qconv: %v", err))
	}
	out, err := l.Apply(t)
	if err != nil {
		panic(fmt.Sprintf("qconv: %v", err))
	}
	return out.Samples()
}

// Backward differentiates the last single-sample Forward.
func (l *QConv) Backward(grad []float64) []float64 {
	return l.BackwardBatch([][]float64{grad})[0]
}

// BackwardBatch accumulates kernel (and classical weight) gradients for the last
// ForwardBatch and returns dL/dinput per sample.
func (l *QConv) BackwardBatch(grad [][]float64) [][]float64 {
	g, err := l.backward(grad)
	if err != nil {
		panic(fmt.Sprintf("qconv: %v", err))
	}
	return g
}

func (l *QConv) backward(grad [][]float64) ([][]float64, error) {
	if l.patches == nil || len(grad) != l.batch {
		return nil, fmt.Errorf("%w: backward of %d samples without a matching forward", expectation.ErrBindingMismatch, len(grad))
	}
	k := l.cfg.Kernels
	outSize := l.rt.OutSize(k)

	// dL/dpre over (batch, NumX, NumY, Kernels)
	dpre := make([]float64, len(l.pre))
	for b, g := range grad {
		if len(g) != outSize {
			return nil, fmt.Errorf("%w: gradient of size %d, want %d", expectation.ErrBindingMismatch, len(g), outSize)
		}
		for i, v := range g {
			j := b*outSize + i
			dpre[j] = v * activations.PostProcessDerivative(l.pre[j], l.act)
		}
	}

	var patchGrad *mat.Dense
	if l.cfg.InputGradients {
		r, c := l.patches.Dims()
		patchGrad = mat.NewDense(r, c, nil)
	}

	c := l.rt.Channels
	for i := 0; i < k; i++ {
		rows := l.rt.Rows(l.batch)
		upstream := make([]float64, rows)
		for r := range upstream {
			if l.rt.Group == 1 {
				upstream[r] = dpre[r*k+i]
				continue
			}
			row, ch := r/c, r%c
			d := dpre[row*k+i]
			if l.channelW != nil {
				at := (row%l.rt.Positions)*c + ch
				l.gradW[at] += d * l.raw[i][r]
				l.gradB[at] += d
				d *= l.channelW[at]
			}
			upstream[r] = d
		}

		gr, err := l.eval.Gradients(l.patches, l.kernelView(i), upstream, l.cfg.InputGradients)
		if err != nil {
			return nil, err
		}
		g := l.rt.Group
		dst := l.kernelGrad.Slice(i*g, (i+1)*g, 0, l.tpl.NumLearnable()).(*mat.Dense)
		dst.Add(dst, gr.Weights)
		if patchGrad != nil {
			patchGrad.Add(patchGrad, gr.Inputs)
		}
	}

	out := make([][]float64, l.batch)
	if patchGrad == nil {
		for b := range out {
			out[b] = make([]float64, l.rt.InSize())
		}
		return out, nil
	}

	if l.rt.Group > 1 {
		patchGrad = mat.NewDense(l.batch*l.rt.Positions, c*circuit.PatchPixels, patchGrad.RawMatrix().Data)
	}
	img, err := patch.Scatter(patchGrad, l.batch, l.rt.Height, l.rt.Width, c)
	if err != nil {
		return nil, err
	}
	if l.normalizes() {
		scale := l.cfg.Datatype.Scale()
		for j := range img.Data {
			img.Data[j] *= scale[j%c]
		}
	}
	return img.Samples(), nil
}

// Params returns the kernel weights followed by the classical channel weights and biases.
func (l *QConv) Params() []float64 {
	params := append([]float64(nil), l.kernel.RawMatrix().Data...)
	params = append(params, l.channelW...)
	return append(params, l.channelB...)
}

// SetParams updates the parameters in Params order.
func (l *QConv) SetParams(params []float64) {
	n := copy(l.kernel.RawMatrix().Data, params)
	n += copy(l.channelW, params[n:])
	copy(l.channelB, params[n:])
}

// Gradients returns the accumulated gradients in Params order.
func (l *QConv) Gradients() []float64 {
	grads := append([]float64(nil), l.kernelGrad.RawMatrix().Data...)
	grads = append(grads, l.gradW...)
	return append(grads, l.gradB...)
}

// ClearGradients zeroes the accumulated gradients.
func (l *QConv) ClearGradients() {
	l.kernelGrad.Zero()
	clear(l.gradW)
	clear(l.gradB)
}

// InSize returns Height*Width*Channels.
func (l *QConv) InSize() int { return l.rt.InSize() }

// OutSize returns NumX*NumY*Kernels.
func (l *QConv) OutSize() int { return l.rt.OutSize(l.cfg.Kernels) }

// OutputShape is the (x, y, kernels) shape of one output map.
func (l *QConv) OutputShape() []int {
	return []int{l.rt.NumX, l.rt.NumY, l.cfg.Kernels}
}
