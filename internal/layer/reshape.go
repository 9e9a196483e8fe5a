package layer

// Flatten turns a per-sample feature map into a vector. Samples are already
// stored flat and row-major, so it only fixes the size and passes data through.
type Flatten struct {
	shape []int
	size  int

	outputBuf []float64
}

// NewFlatten creates a flatten layer for samples of the given shape, e.g. (H, W, C).
func NewFlatten(shape ...int) *Flatten {
	size := 1
	for _, d := range shape {
		size *= d
	}
	return &Flatten{
		shape:     append([]int(nil), shape...),
		size:      size,
		outputBuf: make([]float64, size),
	}
}

// Forward copies x into the output buffer.
func (f *Flatten) Forward(x []float64) []float64 {
	if len(x) != f.size {
		panic("layer: Flatten input size mismatch")
	}
	copy(f.outputBuf, x)
	return f.outputBuf
}

// Backward passes the gradient through unchanged.
func (f *Flatten) Backward(grad []float64) []float64 {
	return grad
}

// Params returns layer parameters (empty for Flatten).
func (f *Flatten) Params() []float64 {
	return nil
}

// SetParams is a no-op.
func (f *Flatten) SetParams([]float64) {}

// Gradients returns layer gradients (empty for Flatten).
func (f *Flatten) Gradients() []float64 {
	return nil
}

// ClearGradients is a no-op.
func (f *Flatten) ClearGradients() {}

// InSize returns the flattened input size.
func (f *Flatten) InSize() int {
	return f.size
}

// OutSize returns the flattened output size.
func (f *Flatten) OutSize() int {
	return f.size
}

// InputShape returns the per-sample shape being flattened.
func (f *Flatten) InputShape() []int {
	return append([]int(nil), f.shape...)
}
