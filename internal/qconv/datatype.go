package qconv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/tensor"
)

// ErrUnsupportedDatatype is returned for an unknown dataset label.
var ErrUnsupportedDatatype = errors.New("qconv: unsupported datatype")

// Datatype labels the dataset family a layer is built for. It fixes the input
// channel count and the normalization applied before patch extraction.
type Datatype string

const (
	Colors      Datatype = "COLORS"
	ColorsShape Datatype = "COLORS_SHAPE"
	CIFAR10     Datatype = "CIFAR10"
	Channels    Datatype = "CHANNELS"
)

// Datatypes lists every supported label.
var Datatypes = []Datatype{Colors, ColorsShape, CIFAR10, Channels}

// ParseDatatype resolves a label case-insensitively.
func ParseDatatype(s string) (Datatype, error) {
	d := Datatype(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Datatypes {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDatatype, s)
}

// Validate reports whether d is a supported label.
func (d Datatype) Validate() error {
	_, err := ParseDatatype(string(d))
	return err
}

// Channels returns the image channel count of the datatype.
func (d Datatype) Channels() int {
	if d == Channels {
		return 12
	}
	return 3
}

// Scale returns the per-channel factor mapping raw intensities to [0, 1].
// Synthetic datasets are generated in [0, 1] already.
func (d Datatype) Scale() []float64 {
	s := make([]float64, d.Channels())
	for i := range s {
		s[i] = 1
		if d == CIFAR10 {
			s[i] = 1.0 / 255
		}
	}
	return s
}

// Normalize returns a scaled copy of t.
func (d Datatype) Normalize(t tensor.Tensor4) tensor.Tensor4 {
	out := t.Clone()
	scale := d.Scale()
	for i := range out.Data {
		out.Data[i] *= scale[i%out.C]
	}
	return out
}
