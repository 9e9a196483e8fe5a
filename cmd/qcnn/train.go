package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/config"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/dataset"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/models"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/net"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/output"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/sim"
)

type result struct {
	Model    string
	Dir      string
	Loss     float64
	Accuracy float64
	Epochs   int
}

// train runs every configured model on one shared dataset split.
func train(cfg *config.Config, log zerolog.Logger) ([]result, error) {
	d, err := qconv.ParseDatatype(cfg.Datatype)
	if err != nil {
		return nil, err
	}
	act, err := activations.ByName(cfg.Activation)
	if err != nil {
		return nil, err
	}

	data, err := dataset.Generate(dataset.Options{
		Datatype: d,
		Classes:  cfg.Classes,
		Samples:  cfg.Samples,
		Size:     cfg.ImageSize,
		Noise:    cfg.Noise,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, err
	}
	trainSet, testSet := data.Split(cfg.TestFraction, cfg.Seed)
	if testSet.Len() == 0 {
		testSet = trainSet
	}
	log.Info().
		Str("datatype", string(d)).
		Int("classes", data.Classes()).
		Int("train", trainSet.Len()).
		Int("test", testSet.Len()).
		Msg("Dataset generated")

	var results []result
	for _, name := range cfg.Models {
		kind, err := models.ParseKind(name)
		if err != nil {
			return nil, err
		}
		r, err := trainModel(cfg, kind, d, act, trainSet, testSet, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Title(), err)
		}
		results = append(results, r)
	}
	return results, nil
}

func trainModel(cfg *config.Config, kind models.Kind, d qconv.Datatype, act activations.Activation,
	trainSet, testSet *dataset.Dataset, log zerolog.Logger) (result, error) {
	log = log.With().Str("model", kind.Title()).Logger()

	optimizer, err := opt.ByName(cfg.Optimizer, cfg.LearningRate)
	if err != nil {
		return result{}, err
	}
	scheduler, err := opt.SchedulerByName(cfg.Scheduler, optimizer, cfg.Gamma)
	if err != nil {
		return result{}, err
	}

	spec := models.Spec{
		Kind:                kind,
		Datatype:            d,
		Classes:             cfg.Classes,
		Kernels:             cfg.Kernels,
		Height:              cfg.ImageSize,
		Width:               cfg.ImageSize,
		Registers:           cfg.Registers,
		RegistersPerAncilla: cfg.RegistersPerAncilla,
		InterEntangle:       cfg.InterEntangle,
		Activation:          act,
		Seed:                cfg.Seed,
		Optimizer:           optimizer,
		Log:                 log,
	}
	if cfg.Workers > 0 {
		spec.Backend = sim.New(sim.WithWorkers(cfg.Workers), sim.WithLogger(log))
	}
	n, err := models.Build(spec)
	if err != nil {
		return result{}, err
	}

	run, err := output.NewRun(cfg.OutputDir, kind.Title())
	if err != nil {
		return result{}, err
	}
	if err := cfg.Save(run.Path(output.ConfigFile)); err != nil {
		return result{}, err
	}
	if err := run.WriteSummary(n); err != nil {
		return result{}, err
	}

	csvLog := net.NewCSVLogger(run.Path(output.LogFile), false)
	csvLog.Log = log
	checkpoint := net.NewModelCheckpoint(run.Path(output.CheckpointFile))
	checkpoint.Log = log
	callbacks := []net.Callback{
		net.Logger{Log: log, Interval: 1},
		csvLog,
		checkpoint,
		net.NewSchedulerCallback(scheduler),
	}
	if cfg.Patience > 0 {
		es := net.NewEarlyStopping(cfg.Patience, 0)
		es.Log = log
		callbacks = append(callbacks, es)
	}

	log.Info().Str("dir", run.Dir).Int("params", len(n.Params())).Msg("Training started")
	hist, err := n.Fit(trainSet.X, trainSet.Y, net.FitConfig{
		Epochs:    cfg.Epochs,
		BatchSize: cfg.BatchSize,
		Shuffle:   true,
		Seed:      cfg.Seed,
		Callbacks: callbacks,
		ValX:      testSet.X,
		ValY:      testSet.Y,
	})
	if err != nil {
		return result{}, err
	}

	testLoss, testAcc := n.Evaluate(testSet.X, testSet.Y)
	cm, err := net.ConfusionMatrix(n.Predict(testSet.X), testSet.Labels(), testSet.Classes())
	if err != nil {
		return result{}, err
	}
	if err := run.WriteConfusion(cm, testSet.Names); err != nil {
		return result{}, err
	}
	log.Info().Float64("loss", testLoss).Float64("accuracy", testAcc).Msg("Training finished")

	return result{
		Model:    kind.Title(),
		Dir:      run.Dir,
		Loss:     testLoss,
		Accuracy: testAcc,
		Epochs:   len(hist.Loss),
	}, nil
}

func printResults(w io.Writer, results []result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Model", "Epochs", "Test loss", "Test accuracy", "Output"})
	for _, r := range results {
		table.Append([]string{
			r.Model,
			strconv.Itoa(r.Epochs),
			strconv.FormatFloat(r.Loss, 'f', 4, 64),
			strconv.FormatFloat(r.Accuracy, 'f', 4, 64),
			r.Dir,
		})
	}
	table.Render()
}
