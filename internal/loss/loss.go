// Package loss provides the training losses.
package loss

import (
	"fmt"
	"math"
	"strings"
)

// epsilon keeps log and division away from zero probabilities.
const epsilon = 1e-7

// Loss is a loss function with derivative.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. prediction.
	Backward(yPred, yTrue []float64) []float64
}

// MSE (Mean Squared Error) loss.
type MSE struct{}

// Forward computes mean squared error: (1/n) * sum((y_pred - y_true)^2)
func (m MSE) Forward(yPred, yTrue []float64) float64 {
	sum := 0.0
	for i := range yPred {
		diff := yPred[i] - yTrue[i]
		sum += diff * diff
	}
	return sum / float64(len(yPred))
}

// Backward computes gradient: dL/dy_pred = (2/n) * (y_pred - y_true)
func (m MSE) Backward(yPred, yTrue []float64) []float64 {
	grad := make([]float64, len(yPred))
	scale := 2.0 / float64(len(yPred))
	for i := range yPred {
		grad[i] = scale * (yPred[i] - yTrue[i])
	}
	return grad
}

// CrossEntropy is categorical cross-entropy over one-hot targets and
// probability predictions.
type CrossEntropy struct{}

// Forward computes -sum(y_true * log(y_pred + eps))
func (c CrossEntropy) Forward(yPred, yTrue []float64) float64 {
	loss := 0.0
	for i := range yPred {
		if yTrue[i] != 0 {
			loss -= yTrue[i] * math.Log(yPred[i]+epsilon)
		}
	}
	return loss
}

// Backward computes -y_true / (y_pred + eps). The softmax Jacobian is applied by
// the output layer.
func (c CrossEntropy) Backward(yPred, yTrue []float64) []float64 {
	grad := make([]float64, len(yPred))
	for i := range yPred {
		grad[i] = -yTrue[i] / (yPred[i] + epsilon)
	}
	return grad
}

// SparseCategoricalCrossEntropy is CrossEntropy with the target given as a
// single class index: yTrue = []float64{class}.
type SparseCategoricalCrossEntropy struct{}

func sparseClass(yPred, yTrue []float64) int {
	c := int(yTrue[0])
	if c < 0 || c >= len(yPred) {
		panic(fmt.Sprintf("loss: class %d outside %d outputs", c, len(yPred)))
	}
	return c
}

// Forward computes -log(y_pred[class] + eps).
func (s SparseCategoricalCrossEntropy) Forward(yPred, yTrue []float64) float64 {
	return -math.Log(yPred[sparseClass(yPred, yTrue)] + epsilon)
}

// Backward is -1/(y_pred[class] + eps) at the target class and zero elsewhere.
func (s SparseCategoricalCrossEntropy) Backward(yPred, yTrue []float64) []float64 {
	grad := make([]float64, len(yPred))
	c := sparseClass(yPred, yTrue)
	grad[c] = -1 / (yPred[c] + epsilon)
	return grad
}

// ByName resolves the loss names accepted by configuration.
func ByName(name string) (Loss, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mse":
		return MSE{}, nil
	case "cross_entropy", "categorical_crossentropy":
		return CrossEntropy{}, nil
	case "", "sparse_categorical_crossentropy", "sparse_cross_entropy":
		return SparseCategoricalCrossEntropy{}, nil
	}
	return nil, fmt.Errorf("loss: unknown loss %q", name)
}
