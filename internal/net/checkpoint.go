package net

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
)

// ErrCheckpointMismatch is returned when a checkpoint does not fit the network's architecture.
var ErrCheckpointMismatch = errors.New("net: checkpoint does not match network")

const checkpointFormat = 1

// LayerState is the persisted form of one layer.
type LayerState struct {
	Type    string    `msgpack:"type"`
	InSize  int       `msgpack:"in"`
	OutSize int       `msgpack:"out"`
	Params  []float64 `msgpack:"params"`
}

// Checkpoint is the msgpack document written by Save. The architecture itself
// is rebuilt by the model factory; the checkpoint only has to agree with it.
type Checkpoint struct {
	Format       int          `msgpack:"format"`
	Optimizer    string       `msgpack:"optimizer"`
	LearningRate float64      `msgpack:"lr"`
	Layers       []LayerState `msgpack:"layers"`
}

// layerName is the bare type name of l, e.g. "Dense".
func layerName(l layer.Layer) string {
	name := fmt.Sprintf("%T", l)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Checkpoint captures the current weights.
func (n *Network) Checkpoint() Checkpoint {
	cp := Checkpoint{
		Format:       checkpointFormat,
		Optimizer:    strings.TrimPrefix(fmt.Sprintf("%T", n.opt), "*opt."),
		LearningRate: n.opt.LearningRate(),
	}
	for _, l := range n.layers {
		cp.Layers = append(cp.Layers, LayerState{
			Type:    layerName(l),
			InSize:  l.InSize(),
			OutSize: l.OutSize(),
			Params:  l.Params(),
		})
	}
	return cp
}

// Restore loads weights from cp after checking that every layer agrees in type and size.
func (n *Network) Restore(cp Checkpoint) error {
	if cp.Format != checkpointFormat {
		return fmt.Errorf("%w: format %d, want %d", ErrCheckpointMismatch, cp.Format, checkpointFormat)
	}
	if len(cp.Layers) != len(n.layers) {
		return fmt.Errorf("%w: %d layers, network has %d", ErrCheckpointMismatch, len(cp.Layers), len(n.layers))
	}
	for i, l := range n.layers {
		s := cp.Layers[i]
		if s.Type != layerName(l) || s.InSize != l.InSize() || s.OutSize != l.OutSize() || len(s.Params) != len(l.Params()) {
			return fmt.Errorf("%w: layer %d is %s(%d->%d, %d params), checkpoint has %s(%d->%d, %d params)",
				ErrCheckpointMismatch, i, layerName(l), l.InSize(), l.OutSize(), len(l.Params()),
				s.Type, s.InSize, s.OutSize, len(s.Params))
		}
	}
	for i, l := range n.layers {
		l.SetParams(cp.Layers[i].Params)
	}
	return nil
}

// Encode writes the weights to w as msgpack.
func (n *Network) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(n.Checkpoint()); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return nil
}

// Decode reads msgpack weights written by Encode.
func (n *Network) Decode(r io.Reader) error {
	var cp Checkpoint
	if err := msgpack.NewDecoder(r).Decode(&cp); err != nil {
		return fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return n.Restore(cp)
}

// Save writes the weights to filename.
func (n *Network) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := n.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Load reads weights saved by Save into the network.
func (n *Network) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return n.Decode(file)
}
