// Command qcnn trains hybrid quantum-classical convolutional networks on
// synthetic image sets and prints their circuit templates.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/config"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/logger"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qcnn",
		Usage: "hybrid quantum-classical convolutional networks",
		Commands: []*cli.Command{
			trainCommand(),
			circuitCommand(),
		},
	}
}

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "train one or more models on a synthetic dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringSliceFlag{Name: "env", Usage: "dotenv files to load (default .env)"},
			&cli.StringSliceFlag{Name: "model", Aliases: []string{"m"}, Usage: "co, wev, control or modified_co; repeatable"},
			&cli.StringFlag{Name: "datatype", Aliases: []string{"d"}, Usage: "COLORS, COLORS_SHAPE, CIFAR10 or CHANNELS"},
			&cli.IntFlag{Name: "classes", Usage: "class count for CIFAR10 and CHANNELS"},
			&cli.IntFlag{Name: "kernels"},
			&cli.IntFlag{Name: "image-size"},
			&cli.IntFlag{Name: "epochs"},
			&cli.IntFlag{Name: "batch-size"},
			&cli.Float64Flag{Name: "lr", Usage: "learning rate"},
			&cli.IntFlag{Name: "samples", Usage: "samples per class"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "root directory for run outputs"},
			&cli.StringFlag{Name: "log-level"},
			&cli.BoolFlag{Name: "pretty", Value: true, Usage: "console log output"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"), c.StringSlice("env")...)
			if err != nil {
				return err
			}
			if err := applyFlags(c, cfg); err != nil {
				return err
			}
			log := logger.New(logger.Config{Level: cfg.Level(), Pretty: c.Bool("pretty"), Out: c.App.ErrWriter})

			results, err := train(cfg, log)
			if err != nil {
				return err
			}
			printResults(c.App.Writer, results)
			return nil
		},
	}
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("model") {
		cfg.Models = c.StringSlice("model")
	}
	if c.IsSet("datatype") {
		cfg.Datatype = c.String("datatype")
	}
	if c.IsSet("classes") {
		cfg.Classes = c.Int("classes")
	}
	if c.IsSet("kernels") {
		cfg.Kernels = c.Int("kernels")
	}
	if c.IsSet("image-size") {
		cfg.ImageSize = c.Int("image-size")
	}
	if c.IsSet("epochs") {
		cfg.Epochs = c.Int("epochs")
	}
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("lr") {
		cfg.LearningRate = c.Float64("lr")
	}
	if c.IsSet("samples") {
		cfg.Samples = c.Int("samples")
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg.Validate()
}

func circuitCommand() *cli.Command {
	return &cli.Command{
		Name:  "circuit",
		Usage: "print the circuit template of a kernel geometry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Value: "basic", Usage: "basic, modified or control"},
			&cli.StringFlag{Name: "datatype", Aliases: []string{"d"}, Value: string(qconv.Colors)},
			&cli.IntFlag{Name: "registers", Value: 1},
			&cli.IntFlag{Name: "ratio", Value: 1, Usage: "registers per ancilla"},
			&cli.BoolFlag{Name: "inter", Usage: "entangle registers with each other"},
			&cli.BoolFlag{Name: "gates", Usage: "list gates instead of drawing the diagram"},
		},
		Action: func(c *cli.Context) error {
			variant, err := circuit.ParseVariant(c.String("variant"))
			if err != nil {
				return err
			}
			d, err := qconv.ParseDatatype(c.String("datatype"))
			if err != nil {
				return err
			}
			tpl, err := circuit.Build(circuit.Geometry{
				Channels:            d.Channels(),
				Registers:           c.Int("registers"),
				RegistersPerAncilla: c.Int("ratio"),
				InterEntangle:       c.Bool("inter"),
				Variant:             variant,
			})
			if err != nil {
				return err
			}

			w := c.App.Writer
			if c.Bool("gates") {
				fmt.Fprint(w, tpl.String())
				return nil
			}
			fmt.Fprintln(w, "Quantum Circuit:")
			fmt.Fprint(w, tpl.Diagram())
			fmt.Fprintf(w, "qubits: %d, gates: %d, inputs: %d, learnable: %d, depth: %d\n",
				tpl.NumQubits(), tpl.NumGates(), tpl.NumInputs(), tpl.NumLearnable(), tpl.Depth())
			return nil
		},
	}
}
