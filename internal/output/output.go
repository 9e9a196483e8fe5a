// Package output manages the per-run result directories.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/net"
)

// File names inside a run directory.
const (
	ConfigFile     = "config.yaml"
	SummaryFile    = "summary.txt"
	ConfusionFile  = "confusion_matrix.txt"
	CheckpointFile = "weights.msgpack"
	LogFile        = "training_log.csv"
)

// Run is one model's result directory, named <time>_<model>_<id>.
type Run struct {
	ID    string
	Model string
	Dir   string
}

// NewRun creates a fresh run directory under root.
func NewRun(root, model string) (*Run, error) {
	id := uuid.New().String()
	name := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102-150405"), model, id[:8])
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &Run{ID: id, Model: model, Dir: dir}, nil
}

// Path joins name onto the run directory.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

func (r *Run) write(name string, fn func(io.Writer) error) error {
	f, err := os.Create(r.Path(name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSummary stores the network's layer table.
func (r *Run) WriteSummary(n *net.Network) error {
	return r.write(SummaryFile, func(w io.Writer) error {
		n.Summary(w)
		return nil
	})
}

// WriteConfusion stores the row-normalised confusion matrix as a text table.
func (r *Run) WriteConfusion(cm *mat.Dense, names []string) error {
	return r.write(ConfusionFile, func(w io.Writer) error {
		return RenderConfusion(w, net.NormalizeRows(cm), names)
	})
}

// RenderConfusion writes cm with true labels as rows and predicted labels as
// columns.
func RenderConfusion(w io.Writer, cm *mat.Dense, names []string) error {
	rows, cols := cm.Dims()
	if rows != len(names) || cols != len(names) {
		return fmt.Errorf("output: %dx%d matrix for %d class names", rows, cols, len(names))
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"true \\ pred"}, names...))
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i := 0; i < rows; i++ {
		row := []string{names[i]}
		for j := 0; j < cols; j++ {
			row = append(row, strconv.FormatFloat(cm.At(i, j), 'f', 2, 64))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}
