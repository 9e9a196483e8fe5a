// Package models builds the four hybrid classifiers: a quantum convolution
// followed by Flatten, Dense(32, ReLU) and a softmax head.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/expectation"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/loss"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/net"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
)

// ErrUnknownModel is returned for a model name outside Kinds.
var ErrUnknownModel = errors.New("models: unknown model")

// Kind names a model family.
type Kind string

const (
	CO         Kind = "co"
	ModifiedCO Kind = "modified_co"
	Control    Kind = "control"
	WEV        Kind = "wev"
)

// Kinds lists every model in training order.
var Kinds = []Kind{CO, WEV, Control, ModifiedCO}

// ParseKind accepts a model name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Title is the display name used in logs and run directories.
func (k Kind) Title() string {
	switch k {
	case CO:
		return "CO_U1_QCNN"
	case ModifiedCO:
		return "MODIFIED_CO_U1_QCNN"
	case Control:
		return "Control_U1_QCNN"
	case WEV:
		return "WEV_U1_QCNN"
	}
	return string(k)
}

// Variant is the circuit variant behind k.
func (k Kind) Variant() circuit.Variant {
	switch k {
	case ModifiedCO:
		return circuit.ModifiedDeposit
	case Control, WEV:
		return circuit.Control
	}
	return circuit.Basic
}

const (
	DefaultKernels = 3
	DefaultSize    = 10
	DefaultHidden  = 32
	DefaultLR      = 0.001
)

// Spec holds everything needed to build one model.
type Spec struct {
	Kind     Kind
	Datatype qconv.Datatype
	// Classes is used only for datatypes without a fixed class count.
	Classes int

	Kernels             int
	Height, Width       int
	Hidden              int
	Registers           int
	RegistersPerAncilla int
	InterEntangle       bool
	Activation          activations.Activation
	InputGradients      bool
	Seed                uint64

	Optimizer opt.Optimizer
	// Backend overrides the default simulator when set.
	Backend expectation.Backend
	Log     zerolog.Logger
}

// Classes returns the output width for datatype d: 9 for COLORS, 24 for
// COLORS_SHAPE and the configured count otherwise.
func Classes(d qconv.Datatype, configured int) int {
	switch d {
	case qconv.Colors:
		return 9
	case qconv.ColorsShape:
		return 24
	}
	return configured
}

func (s Spec) withDefaults() Spec {
	if s.Kernels == 0 {
		s.Kernels = DefaultKernels
	}
	if s.Height == 0 {
		s.Height = DefaultSize
	}
	if s.Width == 0 {
		s.Width = DefaultSize
	}
	if s.Hidden == 0 {
		s.Hidden = DefaultHidden
	}
	if s.Registers == 0 {
		s.Registers = 1
	}
	if s.RegistersPerAncilla == 0 {
		s.RegistersPerAncilla = 1
	}
	if s.Activation == nil {
		s.Activation = activations.ReLU{}
	}
	if s.Seed == 0 {
		s.Seed = layer.DefaultSeed
	}
	if s.Optimizer == nil {
		s.Optimizer = opt.NewAdam(DefaultLR)
	}
	return s
}

// Build returns the network for s, compiled with sparse categorical
// cross-entropy.
func Build(s Spec) (*net.Network, error) {
	s = s.withDefaults()
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return nil, err
	}
	if err := s.Datatype.Validate(); err != nil {
		return nil, err
	}
	classes := Classes(s.Datatype, s.Classes)
	if classes < 2 {
		return nil, fmt.Errorf("models: %s needs at least 2 classes, got %d", s.Datatype, classes)
	}

	opts := []qconv.Option{qconv.WithLogger(s.Log)}
	if s.Backend != nil {
		opts = append(opts, qconv.WithBackend(s.Backend))
	}
	q, err := qconv.New(qconv.Config{
		Kernels:             s.Kernels,
		Datatype:            s.Datatype,
		Height:              s.Height,
		Width:               s.Width,
		Variant:             s.Kind.Variant(),
		Registers:           s.Registers,
		RegistersPerAncilla: s.RegistersPerAncilla,
		InterEntangle:       s.InterEntangle,
		ClassicalWeights:    s.Kind == WEV,
		InputGradients:      s.InputGradients,
		Activation:          s.Activation,
		Seed:                s.Seed,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", s.Kind.Title(), err)
	}

	flat := layer.NewFlatten(q.OutputShape()...)
	hidden := layer.NewDenseSeeded(flat.OutSize(), s.Hidden, activations.ReLU{}, s.Seed+1)
	head := layer.NewDenseSeeded(s.Hidden, classes, activations.Softmax{}, s.Seed+2)

	s.Log.Debug().
		Str("model", s.Kind.Title()).
		Int("classes", classes).
		Int("flatten", flat.OutSize()).
		Msg("Model built")

	return net.New(
		[]layer.Layer{q, flat, hidden, head},
		loss.SparseCategoricalCrossEntropy{},
		s.Optimizer,
		net.WithLogger(s.Log),
	), nil
}
