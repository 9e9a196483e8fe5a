package net

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Accuracy returns the fraction of predictions equal to their label.
func Accuracy(pred, labels []int) float64 {
	if len(pred) == 0 {
		return 0
	}
	correct := 0
	for i := range pred {
		if pred[i] == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred))
}

// ConfusionMatrix counts (true label, predicted label) pairs into a classes x classes matrix.
func ConfusionMatrix(pred, labels []int, classes int) (*mat.Dense, error) {
	if len(pred) != len(labels) {
		return nil, fmt.Errorf("net: %d predictions for %d labels", len(pred), len(labels))
	}
	cm := mat.NewDense(classes, classes, nil)
	for i := range pred {
		t, p := labels[i], pred[i]
		if t < 0 || t >= classes || p < 0 || p >= classes {
			return nil, fmt.Errorf("net: pair (%d, %d) outside %d classes", t, p, classes)
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// NormalizeRows divides each row by its sum, so row i holds the prediction
// distribution of true class i. Empty rows stay zero.
func NormalizeRows(cm *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(cm)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		if s := floats.Sum(row); s > 0 {
			floats.Scale(1/s, row)
		}
	}
	return out
}
