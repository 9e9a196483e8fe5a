package expectation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/sim"
)

// rowSum is a backend whose expectation is the sum of each binding row.
type rowSum struct {
	calls int
}

func (b *rowSum) Expectations(_ *circuit.Template, _ circuit.Observable, bindings *mat.Dense) ([]float64, error) {
	b.calls++
	rows, _ := bindings.Dims()
	out := make([]float64, rows)
	for r := range out {
		for _, v := range bindings.RawRowView(r) {
			out[r] += v
		}
	}
	return out, nil
}

func template(t *testing.T, geom circuit.Geometry) *circuit.Template {
	t.Helper()
	tpl, err := circuit.Build(geom)
	require.NoError(t, err)
	return tpl
}

func random(rng *rand.Rand, r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, rng.Float64()*2-1)
		}
	}
	return m
}

func TestBindTilesWeights(t *testing.T) {
	tpl := template(t, circuit.Geometry{Variant: circuit.Control})
	e := New(&rowSum{}, tpl)

	patches := mat.NewDense(6, 4, nil)
	for r := 0; r < 6; r++ {
		patches.Set(r, 0, float64(r))
	}
	weights := mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
	})
	b, err := e.Bind(patches, weights)
	require.NoError(t, err)

	rows, cols := b.Dims()
	require.Equal(t, 6, rows)
	require.Equal(t, 8, cols)
	for r := 0; r < 6; r++ {
		assert.Equal(t, float64(r), b.At(r, 0))
		assert.Equal(t, float64(r%3+1), b.At(r, 4), "row %d", r)
	}
}

func TestBindMismatch(t *testing.T) {
	tpl := template(t, circuit.Geometry{Variant: circuit.Control})
	e := New(&rowSum{}, tpl)

	_, err := e.Bind(mat.NewDense(2, 5, nil), mat.NewDense(1, 4, nil))
	assert.ErrorIs(t, err, ErrBindingMismatch)

	_, err = e.Bind(mat.NewDense(2, 4, nil), mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, ErrBindingMismatch)

	_, err = e.Bind(mat.NewDense(4, 4, nil), mat.NewDense(3, 4, nil))
	assert.ErrorIs(t, err, ErrBindingMismatch)
}

func TestKernelSingleBackendCall(t *testing.T) {
	tpl := template(t, circuit.Geometry{Variant: circuit.Control})
	backend := &rowSum{}
	e := New(backend, tpl)

	out, err := e.Kernel(mat.NewDense(9, 4, nil), mat.NewDense(1, 4, []float64{1, 1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)
	require.Len(t, out, 9)
	for _, v := range out {
		assert.Equal(t, 4.0, v)
	}
}

func TestZeroWeightsAreDeterministic(t *testing.T) {
	tpl := template(t, circuit.Geometry{Channels: 3, Registers: 1, RegistersPerAncilla: 1})
	e := New(sim.New(), tpl)
	rng := rand.New(rand.NewSource(11))
	patches := random(rng, 8, tpl.NumInputs())
	weights := mat.NewDense(1, tpl.NumLearnable(), nil)

	first, err := e.Kernel(patches, weights)
	require.NoError(t, err)
	second, err := e.Kernel(patches, weights)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	geoms := map[string]circuit.Geometry{
		"control": {Variant: circuit.Control},
		"basic":   {Channels: 2, Registers: 1, RegistersPerAncilla: 1},
		"modified": {
			Channels: 2, Registers: 2, RegistersPerAncilla: 1, InterEntangle: true, Variant: circuit.ModifiedDeposit,
		},
	}
	for name, geom := range geoms {
		t.Run(name, func(t *testing.T) {
			tpl := template(t, geom)
			e := New(sim.New(), tpl)
			rng := rand.New(rand.NewSource(5))
			patches := random(rng, 3, tpl.NumInputs())
			weights := random(rng, 1, tpl.NumLearnable())
			upstream := []float64{1, -0.5, 2}

			g, err := e.Gradients(patches, weights, upstream, true)
			require.NoError(t, err)

			loss := func(p, w *mat.Dense) float64 {
				out, err := e.Kernel(p, w)
				require.NoError(t, err)
				var s float64
				for r, v := range out {
					s += upstream[r] * v
				}
				return s
			}

			const h = 1e-6
			for j := 0; j < tpl.NumLearnable(); j++ {
				wp, wm := mat.DenseCopyOf(weights), mat.DenseCopyOf(weights)
				wp.Set(0, j, weights.At(0, j)+h)
				wm.Set(0, j, weights.At(0, j)-h)
				fd := (loss(patches, wp) - loss(patches, wm)) / (2 * h)
				assert.InDelta(t, fd, g.Weights.At(0, j), 1e-5, "weight %d", j)
			}
			for r := 0; r < 3; r++ {
				for j := 0; j < tpl.NumInputs(); j++ {
					pp, pm := mat.DenseCopyOf(patches), mat.DenseCopyOf(patches)
					pp.Set(r, j, patches.At(r, j)+h)
					pm.Set(r, j, patches.At(r, j)-h)
					fd := (loss(pp, weights) - loss(pm, weights)) / (2 * h)
					assert.InDelta(t, fd, g.Inputs.At(r, j), 1e-5, "input (%d, %d)", r, j)
				}
			}
		})
	}
}

func TestGradientsLeaveBindingsUntouched(t *testing.T) {
	tpl := template(t, circuit.Geometry{Variant: circuit.Control})
	e := New(sim.New(), tpl)
	rng := rand.New(rand.NewSource(9))
	patches := random(rng, 4, 4)
	weights := random(rng, 2, 4)
	before, err := e.Kernel(patches, weights)
	require.NoError(t, err)

	g, err := e.Gradients(patches, weights, []float64{1, 1, 1, 1}, false)
	require.NoError(t, err)
	assert.Nil(t, g.Inputs)
	r, c := g.Weights.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)

	after, err := e.Kernel(patches, weights)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = e.Gradients(patches, weights, []float64{1}, false)
	assert.ErrorIs(t, err, ErrBindingMismatch)
}
