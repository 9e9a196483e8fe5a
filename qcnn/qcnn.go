// Package qcnn is the public entry point for building and training hybrid
// quantum-classical convolutional networks.
package qcnn

import (
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/dataset"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/layer"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/loss"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/models"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/net"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
)

// Re-export common types and functions for easier access
type (
	Model       = net.Network
	Layer       = layer.Layer
	Optimizer   = opt.Optimizer
	Loss        = loss.Loss
	Activation  = activations.Activation
	Datatype    = qconv.Datatype
	Kind        = models.Kind
	Spec        = models.Spec
	Geometry    = circuit.Geometry
	Template    = circuit.Template
	QConvConfig = qconv.Config
	FitConfig   = net.FitConfig
	History     = net.History
	Dataset     = dataset.Dataset
)

// Datatypes
const (
	Colors      = qconv.Colors
	ColorsShape = qconv.ColorsShape
	CIFAR10     = qconv.CIFAR10
	Channels    = qconv.Channels
)

// Model kinds
const (
	CO         = models.CO
	ModifiedCO = models.ModifiedCO
	Control    = models.Control
	WEV        = models.WEV
)

// Circuit variants
const (
	Basic           = circuit.Basic
	ModifiedDeposit = circuit.ModifiedDeposit
	ControlVariant  = circuit.Control
)

// Activations
var (
	ReLU             = activations.ReLU{}
	Sigmoid          = activations.Sigmoid{}
	Tanh             = activations.Tanh{}
	Softmax          = activations.Softmax{}
	Linear           = activations.Linear{}
	ExpectationAngle = activations.ExpectationAngle{}
)

// Losses
var (
	MSE                           = loss.MSE{}
	CrossEntropy                  = loss.CrossEntropy{}
	SparseCategoricalCrossEntropy = loss.SparseCategoricalCrossEntropy{}
)

// NewModel builds one of the four hybrid classifiers.
func NewModel(s Spec) (*Model, error) {
	return models.Build(s)
}

// New assembles a custom network.
func New(layers []Layer, l Loss, o Optimizer) *Model {
	return net.New(layers, l, o)
}

// BuildCircuit builds the circuit template for g.
func BuildCircuit(g Geometry) (*Template, error) {
	return circuit.Build(g)
}

// Layers
func QConv(cfg QConvConfig) (*qconv.QConv, error) {
	return qconv.New(cfg)
}

func Dense(in, out int, act Activation) Layer {
	return layer.NewDense(in, out, act)
}

func Flatten(shape ...int) Layer {
	return layer.NewFlatten(shape...)
}

// Optimizers
func Adam(lr float64) Optimizer {
	return opt.NewAdam(lr)
}

func SGD(lr float64) Optimizer {
	return opt.NewSGD(lr)
}

func ReduceLROnPlateau(optimizer Optimizer, factor float64, patience int, threshold, minLR float64) *opt.ReduceLROnPlateau {
	return opt.NewReduceLROnPlateau(optimizer, factor, patience, threshold, minLR)
}

// Callbacks
type Callback = net.Callback

func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func ModelCheckpoint(filename string) net.Callback {
	return net.NewModelCheckpoint(filename)
}

func EarlyStopping(patience int, minDelta float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, minDelta)
}

func SchedulerCallback(scheduler opt.Scheduler) net.Callback {
	return net.NewSchedulerCallback(scheduler)
}

// Data
func Generate(o dataset.Options) (*Dataset, error) {
	return dataset.Generate(o)
}
