// Package dataset generates the synthetic noisy image sets used to train the
// hybrid classifiers.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/tensor"
)

// ErrInvalidOptions is returned by Generate for unusable options.
var ErrInvalidOptions = errors.New("dataset: invalid options")

// Dataset is a labelled set of flattened (Height, Width, Channels) images.
// Targets are class indices of length 1.
type Dataset struct {
	X [][]float64
	Y [][]float64

	Height, Width, Channels int
	Names                   []string
}

// Options controls Generate.
type Options struct {
	Datatype qconv.Datatype
	// Classes is used by CIFAR10 and CHANNELS; the others have fixed palettes.
	Classes int
	// Samples per class.
	Samples int
	Size    int
	Noise   float64
	Seed    uint64
}

type rgb [3]float64

var palette = []struct {
	name string
	c    rgb
}{
	{"red", rgb{1, 0, 0}},
	{"green", rgb{0, 1, 0}},
	{"blue", rgb{0, 0, 1}},
	{"yellow", rgb{1, 1, 0}},
	{"cyan", rgb{0, 1, 1}},
	{"magenta", rgb{1, 0, 1}},
	{"white", rgb{1, 1, 1}},
	{"gray", rgb{0.5, 0.5, 0.5}},
	{"orange", rgb{1, 0.5, 0}},
}

// shapes drawn by COLORS_SHAPE; 8 colors x 3 shapes gives 24 classes.
var shapes = []string{"square", "cross", "diagonal"}

func inShape(shape string, h, w, size int) bool {
	lo, hi := size/4, size-1-size/4
	switch shape {
	case "square":
		return h >= lo && h <= hi && w >= lo && w <= hi
	case "cross":
		mid := size / 2
		return h == mid || w == mid || h == mid-1 || w == mid-1
	case "diagonal":
		return h == w || h == w+1
	}
	return false
}

// Generate builds Samples images per class for o.Datatype.
func Generate(o Options) (*Dataset, error) {
	if err := o.Datatype.Validate(); err != nil {
		return nil, err
	}
	if o.Samples <= 0 || o.Size < 2 || o.Noise < 0 {
		return nil, fmt.Errorf("%w: samples=%d size=%d noise=%g", ErrInvalidOptions, o.Samples, o.Size, o.Noise)
	}

	d := &Dataset{Height: o.Size, Width: o.Size, Channels: o.Datatype.Channels()}
	noise := distuv.Normal{Mu: 0, Sigma: o.Noise, Src: rand.NewPCG(o.Seed, o.Seed+1)}

	var draw func(class int, img []float64)
	switch o.Datatype {
	case qconv.Colors:
		for _, p := range palette {
			d.Names = append(d.Names, p.name)
		}
		draw = func(class int, img []float64) {
			c := palette[class].c
			for i := range img {
				img[i] = c[i%3]
			}
		}
	case qconv.ColorsShape:
		for _, s := range shapes {
			for _, p := range palette[:8] {
				d.Names = append(d.Names, p.name+"_"+s)
			}
		}
		draw = func(class int, img []float64) {
			shape, c := shapes[class/8], palette[class%8].c
			for h := 0; h < o.Size; h++ {
				for w := 0; w < o.Size; w++ {
					if !inShape(shape, h, w, o.Size) {
						continue
					}
					for ch := 0; ch < 3; ch++ {
						img[(h*o.Size+w)*3+ch] = c[ch]
					}
				}
			}
		}
	default:
		if o.Classes < 2 {
			return nil, fmt.Errorf("%w: %s needs at least 2 classes, got %d", ErrInvalidOptions, o.Datatype, o.Classes)
		}
		protos := prototypes(o.Classes, d.Channels, o.Seed)
		for k := 0; k < o.Classes; k++ {
			d.Names = append(d.Names, fmt.Sprintf("class_%d", k))
		}
		draw = func(class int, img []float64) {
			p := protos[class]
			for i := range img {
				img[i] = p[i%len(p)]
			}
		}
	}

	// CIFAR10 stand-ins keep the 8-bit range so that normalization applies.
	scale := 1 / o.Datatype.Scale()[0]
	size := o.Size * o.Size * d.Channels
	for class := range d.Names {
		for s := 0; s < o.Samples; s++ {
			img := make([]float64, size)
			draw(class, img)
			for i := range img {
				v := img[i]
				if o.Noise > 0 {
					v += noise.Rand()
				}
				img[i] = math.Min(1, math.Max(0, v)) * scale
			}
			d.X = append(d.X, img)
			d.Y = append(d.Y, []float64{float64(class)})
		}
	}
	return d, nil
}

// prototypes returns a per-channel mean intensity for every class.
func prototypes(classes, channels int, seed uint64) [][]float64 {
	u := distuv.Uniform{Min: 0.1, Max: 0.9, Src: rand.NewPCG(seed^0x5bd1e995, seed)}
	out := make([][]float64, classes)
	for k := range out {
		out[k] = make([]float64, channels)
		for c := range out[k] {
			out[k][c] = u.Rand()
		}
	}
	return out
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.X) }

// Classes returns the number of class names.
func (d *Dataset) Classes() int { return len(d.Names) }

// Labels returns the class index of every sample.
func (d *Dataset) Labels() []int {
	out := make([]int, len(d.Y))
	for i, y := range d.Y {
		out[i] = int(y[0])
	}
	return out
}

// Tensor stacks the images into a (N, Height, Width, Channels) batch.
func (d *Dataset) Tensor() (tensor.Tensor4, error) {
	return tensor.FromSamples(d.X, d.Height, d.Width, d.Channels)
}

func (d *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{Height: d.Height, Width: d.Width, Channels: d.Channels, Names: d.Names}
	for _, i := range idx {
		out.X = append(out.X, d.X[i])
		out.Y = append(out.Y, d.Y[i])
	}
	return out
}

// Split shuffles the samples and holds out round(testFraction*Len) of them.
func (d *Dataset) Split(testFraction float64, seed uint64) (train, test *Dataset) {
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(d.Len())
	n := int(math.Round(testFraction * float64(d.Len())))
	n = max(0, min(n, d.Len()))
	return d.subset(perm[n:]), d.subset(perm[:n])
}
