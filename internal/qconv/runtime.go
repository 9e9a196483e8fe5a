package qconv

import (
	"fmt"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/patch"
)

// Runtime is the shape-dependent half of a layer, derived once from a template
// and an input shape.
type Runtime struct {
	Height, Width, Channels int
	NumX, NumY              int
	Positions               int
	// Group is the number of circuit evaluations per position and kernel:
	// 1 for register templates, Channels for the control template.
	Group int
}

// NewRuntime checks that tpl can consume (height, width, channels) images and
// returns the resulting descriptor.
func NewRuntime(tpl *circuit.Template, height, width, channels int) (Runtime, error) {
	g, err := patch.GridFor(height, width)
	if err != nil {
		return Runtime{}, err
	}
	rt := Runtime{
		Height:    height,
		Width:     width,
		Channels:  channels,
		NumX:      g.NumX,
		NumY:      g.NumY,
		Positions: g.Positions(),
		Group:     1,
	}

	want := channels * circuit.PatchPixels
	if tpl.Geometry().Variant == circuit.Control {
		rt.Group = channels
		want = circuit.PatchPixels
	}
	if tpl.NumInputs() != want {
		return Runtime{}, fmt.Errorf("%w: template binds %d pixels, %d-channel patches need %d",
			patch.ErrChannelMismatch, tpl.NumInputs(), channels, want)
	}
	return rt, nil
}

// Rows returns the number of circuit evaluations per kernel for a batch.
func (rt Runtime) Rows(batch int) int {
	return batch * rt.Positions * rt.Group
}

// InSize is the flattened size of one input sample.
func (rt Runtime) InSize() int {
	return rt.Height * rt.Width * rt.Channels
}

// OutSize is the flattened size of one output sample for k kernels.
func (rt Runtime) OutSize(k int) int {
	return rt.Positions * k
}
