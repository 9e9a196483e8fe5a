// Package tensor holds the dense 4D image/feature-map layout shared by the
// quantum convolution pipeline.
package tensor

import "fmt"

// Tensor4 is a row-major (N, H, W, C) tensor. H is the first spatial axis (x),
// W the second (y).
type Tensor4 struct {
	N, H, W, C int
	Data       []float64
}

// New allocates a zero tensor.
func New(n, h, w, c int) Tensor4 {
	return Tensor4{N: n, H: h, W: w, C: c, Data: make([]float64, n*h*w*c)}
}

// FromSlice wraps data without copying; len(data) must equal n*h*w*c.
func FromSlice(n, h, w, c int, data []float64) (Tensor4, error) {
	if len(data) != n*h*w*c {
		return Tensor4{}, fmt.Errorf("tensor: %d values cannot form (%d, %d, %d, %d)", len(data), n, h, w, c)
	}
	return Tensor4{N: n, H: h, W: w, C: c, Data: data}, nil
}

// FromSamples stacks flattened (H, W, C) samples into a batch.
func FromSamples(samples [][]float64, h, w, c int) (Tensor4, error) {
	size := h * w * c
	t := New(len(samples), h, w, c)
	for i, s := range samples {
		if len(s) != size {
			return Tensor4{}, fmt.Errorf("tensor: sample %d has %d values, want %d", i, len(s), size)
		}
		copy(t.Data[i*size:], s)
	}
	return t, nil
}

// Index returns the flat offset of (n, h, w, c).
func (t Tensor4) Index(n, h, w, c int) int {
	return ((n*t.H+h)*t.W+w)*t.C + c
}

// At returns the element at (n, h, w, c).
func (t Tensor4) At(n, h, w, c int) float64 {
	return t.Data[t.Index(n, h, w, c)]
}

// Set stores v at (n, h, w, c).
func (t Tensor4) Set(n, h, w, c int, v float64) {
	t.Data[t.Index(n, h, w, c)] = v
}

// Sample returns the flattened (H, W, C) view of batch element n.
func (t Tensor4) Sample(n int) []float64 {
	size := t.H * t.W * t.C
	return t.Data[n*size : (n+1)*size]
}

// Samples splits the batch into per-sample views.
func (t Tensor4) Samples() [][]float64 {
	out := make([][]float64, t.N)
	for i := range out {
		out[i] = t.Sample(i)
	}
	return out
}

// Shape returns (N, H, W, C).
func (t Tensor4) Shape() [4]int {
	return [4]int{t.N, t.H, t.W, t.C}
}

// Clone deep-copies the tensor.
func (t Tensor4) Clone() Tensor4 {
	c := t
	c.Data = append([]float64(nil), t.Data...)
	return c
}
