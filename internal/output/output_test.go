package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/loss"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/net"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
)

func TestNewRun(t *testing.T) {
	root := t.TempDir()
	a, err := NewRun(root, "CO_U1_QCNN")
	require.NoError(t, err)
	b, err := NewRun(root, "CO_U1_QCNN")
	require.NoError(t, err)

	assert.NotEqual(t, a.Dir, b.Dir)
	assert.Contains(t, filepath.Base(a.Dir), "_CO_U1_QCNN_"+a.ID[:8])
	info, err := os.Stat(a.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(a.Dir, CheckpointFile), a.Path(CheckpointFile))
}

func TestWriteSummaryAndConfusion(t *testing.T) {
	run, err := NewRun(t.TempDir(), "test")
	require.NoError(t, err)

	n := net.New([]layer.Layer{layer.NewDense(2, 2, activations.Softmax{})}, loss.SparseCategoricalCrossEntropy{}, opt.NewSGD(0.1))
	require.NoError(t, run.WriteSummary(n))
	data, err := os.ReadFile(run.Path(SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dense_0")

	cm := mat.NewDense(2, 2, []float64{3, 1, 0, 2})
	require.NoError(t, run.WriteConfusion(cm, []string{"red", "green"}))
	data, err = os.ReadFile(run.Path(ConfusionFile))
	require.NoError(t, err)
	for _, want := range []string{"red", "green", "0.75", "0.25", "1.00"} {
		assert.Contains(t, string(data), want)
	}
}

func TestRenderConfusionMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := RenderConfusion(&buf, mat.NewDense(2, 2, nil), []string{"only"})
	assert.Error(t, err)
}
