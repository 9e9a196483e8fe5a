package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
)

func TestGenerateColors(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.Colors, Samples: 4, Size: 10, Noise: 0.1, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 9, d.Classes())
	assert.Equal(t, 36, d.Len())
	assert.Len(t, d.X[0], 300)
	for _, img := range d.X {
		for _, v := range img {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
	labels := d.Labels()
	assert.Equal(t, 0, labels[0])
	assert.Equal(t, 8, labels[35])
}

func TestGenerateWithoutNoise(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.Colors, Samples: 1, Size: 3})
	require.NoError(t, err)
	// red
	assert.Equal(t, []float64{1, 0, 0}, d.X[0][:3])
	// gray
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, d.X[7][:3])
}

func TestGenerateColorsShape(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.ColorsShape, Samples: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 24, d.Classes())
	assert.Equal(t, "red_square", d.Names[0])
	assert.Equal(t, "blue_diagonal", d.Names[18])

	// red square: corner is background, centre is red
	img := d.X[0]
	assert.Equal(t, []float64{0, 0, 0}, img[:3])
	centre := (5*10 + 5) * 3
	assert.Equal(t, []float64{1, 0, 0}, img[centre:centre+3])
}

func TestGenerateChannelsAndCIFAR(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.Channels, Classes: 3, Samples: 2, Size: 4, Noise: 0.05, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 12, d.Channels)
	assert.Len(t, d.X[0], 4*4*12)
	assert.Equal(t, 6, d.Len())

	c, err := Generate(Options{Datatype: qconv.CIFAR10, Classes: 2, Samples: 1, Size: 4, Seed: 7})
	require.NoError(t, err)
	maxVal := 0.0
	for _, v := range c.X[0] {
		maxVal = max(maxVal, v)
	}
	assert.Greater(t, maxVal, 1.0, "CIFAR10 stand-ins use the 8-bit range")
	assert.LessOrEqual(t, maxVal, 255.0)
}

func TestGenerateDeterministic(t *testing.T) {
	o := Options{Datatype: qconv.Channels, Classes: 2, Samples: 2, Size: 3, Noise: 0.2, Seed: 3}
	a, err := Generate(o)
	require.NoError(t, err)
	b, err := Generate(o)
	require.NoError(t, err)
	assert.Equal(t, a.X, b.X)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(Options{Datatype: "MNIST", Samples: 1, Size: 4})
	assert.ErrorIs(t, err, qconv.ErrUnsupportedDatatype)

	_, err = Generate(Options{Datatype: qconv.Colors, Samples: 0, Size: 4})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Generate(Options{Datatype: qconv.Colors, Samples: 1, Size: 1})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Generate(Options{Datatype: qconv.CIFAR10, Classes: 1, Samples: 1, Size: 4})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestSplit(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.Colors, Samples: 10, Size: 2, Seed: 1})
	require.NoError(t, err)

	train, test := d.Split(0.2, 5)
	assert.Equal(t, 72, train.Len())
	assert.Equal(t, 18, test.Len())
	assert.Equal(t, d.Names, test.Names)

	seen := map[*float64]bool{}
	for _, x := range append(train.X, test.X...) {
		seen[&x[0]] = true
	}
	assert.Len(t, seen, d.Len(), "every sample lands in exactly one side")

	again, _ := d.Split(0.2, 5)
	assert.Equal(t, train.Labels(), again.Labels())
}

func TestTensor(t *testing.T) {
	d, err := Generate(Options{Datatype: qconv.Colors, Samples: 1, Size: 2})
	require.NoError(t, err)
	tt, err := d.Tensor()
	require.NoError(t, err)
	assert.Equal(t, [4]int{9, 2, 2, 3}, tt.Shape())
	assert.Equal(t, 1.0, tt.At(0, 1, 1, 0))
}
