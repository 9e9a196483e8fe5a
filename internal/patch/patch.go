// Package patch slides the 2x2 stride-1 window over image batches.
package patch

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/tensor"
)

// Size is the fixed window edge.
const Size = 2

var (
	// ErrChannelMismatch is returned when the image channel count differs from the kernel's.
	ErrChannelMismatch = errors.New("patch: channel mismatch")
	// ErrTooSmall is returned for images narrower than the window.
	ErrTooSmall = errors.New("patch: image smaller than window")
)

// Grid is the number of window positions along each spatial axis.
type Grid struct {
	NumX, NumY int
}

// Positions returns NumX * NumY.
func (g Grid) Positions() int {
	return g.NumX * g.NumY
}

// GridFor returns the window grid of an h x w image.
func GridFor(h, w int) (Grid, error) {
	if h < Size || w < Size {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrTooSmall, h, w)
	}
	return Grid{NumX: h - Size + 1, NumY: w - Size + 1}, nil
}

// Column returns the patch column of channel c at window offset (dx, dy).
// It matches the pixel index the circuit embedding binds: 4*c + 2*dx + dy.
func Column(c, dx, dy int) int {
	return c*Size*Size + dx*Size + dy
}

// Extract returns a (N*P, C*4) matrix. Row b*P + x*NumY + y holds the window at
// (x, y) of image b, channel-major then raster order inside the window.
func Extract(t tensor.Tensor4, channels int) (*mat.Dense, error) {
	if t.C != channels {
		return nil, fmt.Errorf("%w: image has %d channels, kernel expects %d", ErrChannelMismatch, t.C, channels)
	}
	g, err := GridFor(t.H, t.W)
	if err != nil {
		return nil, err
	}
	width := channels * Size * Size
	out := mat.NewDense(t.N*g.Positions(), width, nil)
	for b := 0; b < t.N; b++ {
		for x := 0; x < g.NumX; x++ {
			for y := 0; y < g.NumY; y++ {
				row := out.RawRowView(b*g.Positions() + x*g.NumY + y)
				for c := 0; c < channels; c++ {
					for dx := 0; dx < Size; dx++ {
						for dy := 0; dy < Size; dy++ {
							row[Column(c, dx, dy)] = t.At(b, x+dx, y+dy, c)
						}
					}
				}
			}
		}
	}
	return out, nil
}

// Scatter is the adjoint of Extract: it accumulates patch-space values back
// into an (n, h, w, channels) tensor.
func Scatter(patches *mat.Dense, n, h, w, channels int) (tensor.Tensor4, error) {
	g, err := GridFor(h, w)
	if err != nil {
		return tensor.Tensor4{}, err
	}
	rows, cols := patches.Dims()
	if rows != n*g.Positions() || cols != channels*Size*Size {
		return tensor.Tensor4{}, fmt.Errorf("%w: patches %dx%d do not match (%d, %d, %d, %d)",
			ErrChannelMismatch, rows, cols, n, h, w, channels)
	}
	out := tensor.New(n, h, w, channels)
	for b := 0; b < n; b++ {
		for x := 0; x < g.NumX; x++ {
			for y := 0; y < g.NumY; y++ {
				row := patches.RawRowView(b*g.Positions() + x*g.NumY + y)
				for c := 0; c < channels; c++ {
					for dx := 0; dx < Size; dx++ {
						for dy := 0; dy < Size; dy++ {
							out.Data[out.Index(b, x+dx, y+dy, c)] += row[Column(c, dx, dy)]
						}
					}
				}
			}
		}
	}
	return out, nil
}
