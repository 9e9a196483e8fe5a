package net

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
)

// Metrics are the end-of-epoch training results passed to callbacks.
type Metrics struct {
	Loss     float64
	Accuracy float64
}

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, m Metrics, n *Network)
	OnBatchBegin(batch int, n *Network)
	OnBatchEnd(batch int, loss float64, n *Network)
}

// Stopper is implemented by callbacks that can end training early.
type Stopper interface {
	ShouldStop() bool
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                       {}
func (c BaseCallback) OnTrainEnd(n *Network)                         {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network)            {}
func (c BaseCallback) OnEpochEnd(epoch int, m Metrics, n *Network)   {}
func (c BaseCallback) OnBatchBegin(batch int, n *Network)            {}
func (c BaseCallback) OnBatchEnd(batch int, loss float64, n *Network) {}

// SchedulerCallback steps a learning rate scheduler at the end of every epoch.
type SchedulerCallback struct {
	BaseCallback
	scheduler opt.Scheduler
}

func NewSchedulerCallback(scheduler opt.Scheduler) *SchedulerCallback {
	return &SchedulerCallback{scheduler: scheduler}
}

func (c *SchedulerCallback) OnEpochEnd(epoch int, m Metrics, n *Network) {
	c.scheduler.Step(m.Loss)
}

// EarlyStopping stops training when the loss has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64
	Log       zerolog.Logger

	bestLoss     float64
	numBadEpochs int
	stopped      bool
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		Log:       zerolog.Nop(),
		bestLoss:  math.Inf(1),
	}
}

func (c *EarlyStopping) OnEpochEnd(epoch int, m Metrics, n *Network) {
	if m.Loss < c.bestLoss-c.Threshold {
		c.bestLoss = m.Loss
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		c.Log.Info().Int("epoch", epoch).Float64("loss", m.Loss).Int("patience", c.Patience).Msg("Early stopping")
		c.stopped = true
	}
}

// ShouldStop reports whether the patience ran out.
func (c *EarlyStopping) ShouldStop() bool { return c.stopped }

// ModelCheckpoint saves the weights after every epoch that improves the loss.
type ModelCheckpoint struct {
	BaseCallback
	Filename string
	Log      zerolog.Logger

	bestLoss float64
}

func NewModelCheckpoint(filename string) *ModelCheckpoint {
	return &ModelCheckpoint{
		Filename: filename,
		Log:      zerolog.Nop(),
		bestLoss: math.Inf(1),
	}
}

func (c *ModelCheckpoint) OnEpochEnd(epoch int, m Metrics, n *Network) {
	if m.Loss >= c.bestLoss {
		return
	}
	c.bestLoss = m.Loss
	if err := n.Save(c.Filename); err != nil {
		c.Log.Error().Err(err).Str("file", c.Filename).Msg("Failed to save checkpoint")
		return
	}
	c.Log.Info().Int("epoch", epoch).Float64("loss", m.Loss).Str("file", c.Filename).Msg("Checkpoint saved")
}

// Logger logs training progress.
type Logger struct {
	BaseCallback
	Log      zerolog.Logger
	Interval int
}

func (c Logger) OnEpochEnd(epoch int, m Metrics, n *Network) {
	if c.Interval > 0 && epoch%c.Interval == 0 {
		c.Log.Info().
			Int("epoch", epoch).
			Float64("loss", m.Loss).
			Float64("accuracy", m.Accuracy).
			Float64("lr", n.Optimizer().LearningRate()).
			Msg("Epoch")
	}
}
