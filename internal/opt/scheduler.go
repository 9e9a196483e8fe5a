package opt

import (
	"fmt"
	"math"
	"strings"
)

// Scheduler adjusts an optimizer's learning rate once per epoch.
type Scheduler interface {
	// Step is called at the end of every epoch with that epoch's mean loss.
	Step(loss float64)
	LearningRate() float64
}

// Constant leaves the learning rate unchanged.
type Constant struct {
	optimizer Optimizer
}

// NewConstant wraps optimizer without changing its learning rate.
func NewConstant(optimizer Optimizer) *Constant {
	return &Constant{optimizer: optimizer}
}

func (s *Constant) Step(float64)          {}
func (s *Constant) LearningRate() float64 { return s.optimizer.LearningRate() }

// StepLR decays the learning rate by gamma every stepSize epochs.
type StepLR struct {
	optimizer Optimizer
	stepSize  int
	gamma     float64
	lastEpoch int
}

func NewStepLR(optimizer Optimizer, stepSize int, gamma float64) *StepLR {
	return &StepLR{
		optimizer: optimizer,
		stepSize:  stepSize,
		gamma:     gamma,
	}
}

func (s *StepLR) Step(float64) {
	s.lastEpoch++
	if s.stepSize > 0 && s.lastEpoch%s.stepSize == 0 {
		s.optimizer.SetLearningRate(s.optimizer.LearningRate() * s.gamma)
	}
}

func (s *StepLR) LearningRate() float64 { return s.optimizer.LearningRate() }

// ExponentialLR decays the learning rate by gamma every epoch.
type ExponentialLR struct {
	optimizer Optimizer
	gamma     float64
}

func NewExponentialLR(optimizer Optimizer, gamma float64) *ExponentialLR {
	return &ExponentialLR{optimizer: optimizer, gamma: gamma}
}

func (s *ExponentialLR) Step(float64) {
	s.optimizer.SetLearningRate(s.optimizer.LearningRate() * s.gamma)
}

func (s *ExponentialLR) LearningRate() float64 { return s.optimizer.LearningRate() }

// ReduceLROnPlateau reduces the learning rate when the loss has stopped improving.
type ReduceLROnPlateau struct {
	optimizer Optimizer
	factor    float64
	patience  int
	threshold float64
	minLR     float64

	bestLoss     float64
	numBadEpochs int
}

func NewReduceLROnPlateau(optimizer Optimizer, factor float64, patience int, threshold, minLR float64) *ReduceLROnPlateau {
	return &ReduceLROnPlateau{
		optimizer: optimizer,
		factor:    factor,
		patience:  patience,
		threshold: threshold,
		minLR:     minLR,
		bestLoss:  math.Inf(1),
	}
}

func (s *ReduceLROnPlateau) Step(loss float64) {
	if loss < s.bestLoss-s.threshold {
		s.bestLoss = loss
		s.numBadEpochs = 0
		return
	}
	s.numBadEpochs++
	if s.numBadEpochs >= s.patience {
		s.optimizer.SetLearningRate(math.Max(s.optimizer.LearningRate()*s.factor, s.minLR))
		s.numBadEpochs = 0
	}
}

func (s *ReduceLROnPlateau) LearningRate() float64 { return s.optimizer.LearningRate() }

// SchedulerByName builds the schedulers accepted by configuration, with gamma
// as the decay factor.
func SchedulerByName(name string, optimizer Optimizer, gamma float64) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "constant":
		return NewConstant(optimizer), nil
	case "step":
		return NewStepLR(optimizer, 5, gamma), nil
	case "exponential":
		return NewExponentialLR(optimizer, gamma), nil
	case "plateau":
		return NewReduceLROnPlateau(optimizer, gamma, 2, 1e-4, 1e-6), nil
	}
	return nil, fmt.Errorf("opt: unknown scheduler %q", name)
}
