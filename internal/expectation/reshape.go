package expectation

import (
	"fmt"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/tensor"
)

// Reshape turns one value per patch row into a (n, numX, numY, 1) map.
func Reshape(values []float64, n, numX, numY int) (tensor.Tensor4, error) {
	return tensor.FromSlice(n, numX, numY, 1, append([]float64(nil), values...))
}

// ReshapeChannels turns n*numX*numY*channels row values, ordered with the
// channel varying fastest, into a (n, numX, numY, channels) map.
func ReshapeChannels(values []float64, n, numX, numY, channels int) (tensor.Tensor4, error) {
	return tensor.FromSlice(n, numX, numY, channels, append([]float64(nil), values...))
}

// Stack writes a single-kernel output into channel k of dst.
func Stack(dst tensor.Tensor4, k int, values []float64) error {
	if k < 0 || k >= dst.C {
		return fmt.Errorf("%w: kernel %d outside %d output channels", ErrBindingMismatch, k, dst.C)
	}
	if len(values) != dst.N*dst.H*dst.W {
		return fmt.Errorf("%w: %d values for a %dx%dx%d map", ErrBindingMismatch, len(values), dst.N, dst.H, dst.W)
	}
	for i, v := range values {
		dst.Data[i*dst.C+k] = v
	}
	return nil
}

// Unstack returns channel k of src, one value per patch row.
func Unstack(src tensor.Tensor4, k int) []float64 {
	out := make([]float64, src.N*src.H*src.W)
	for i := range out {
		out[i] = src.Data[i*src.C+k]
	}
	return out
}
