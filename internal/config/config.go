// Package config provides configuration management for training runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/activations"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/models"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/opt"
	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/qconv"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QCNN_"

// Config holds the settings of one training run.
type Config struct {
	Models   []string `yaml:"models"`
	Datatype string   `yaml:"datatype"`
	Classes  int      `yaml:"classes"` // CIFAR10 and CHANNELS only

	Kernels             int    `yaml:"kernels"`
	ImageSize           int    `yaml:"image_size"`
	Registers           int    `yaml:"registers"`
	RegistersPerAncilla int    `yaml:"registers_per_ancilla"`
	InterEntangle       bool   `yaml:"inter_entangle"`
	Activation          string `yaml:"activation"`

	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Optimizer    string  `yaml:"optimizer"`
	Scheduler    string  `yaml:"scheduler"`
	Gamma        float64 `yaml:"gamma"`
	Patience     int     `yaml:"patience"` // early stopping, 0 disables
	Seed         uint64  `yaml:"seed"`

	// Samples per class of the synthetic dataset; TestFraction of them are held out.
	Samples      int     `yaml:"samples"`
	TestFraction float64 `yaml:"test_fraction"`
	Noise        float64 `yaml:"noise"`

	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	Workers   int    `yaml:"workers"` // simulator goroutines, 0 means GOMAXPROCS
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Models:              []string{string(models.CO)},
		Datatype:            string(qconv.Colors),
		Classes:             10,
		Kernels:             models.DefaultKernels,
		ImageSize:           models.DefaultSize,
		Registers:           1,
		RegistersPerAncilla: 1,
		Activation:          "relu",
		Epochs:              10,
		BatchSize:           50,
		LearningRate:        models.DefaultLR,
		Optimizer:           "adam",
		Scheduler:           "none",
		Gamma:               0.5,
		Seed:                42,
		Samples:             50,
		TestFraction:        0.2,
		Noise:               0.1,
		OutputDir:           "output",
		LogLevel:            "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if
// not empty), then .env files, then QCNN_* environment variables.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load(envFiles...)

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, key, v)
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" && err == nil {
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				err = fmt.Errorf("%w: %s%s=%q is not a number", ErrInvalidConfig, EnvPrefix, key, v)
				return
			}
			*dst = f
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" && err == nil {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalidConfig, EnvPrefix, key, v)
				return
			}
			*dst = b
		}
	}

	if v := os.Getenv(EnvPrefix + "MODELS"); v != "" {
		c.Models = strings.Split(v, ",")
	}
	setString("DATATYPE", &c.Datatype)
	setInt("CLASSES", &c.Classes)
	setInt("KERNELS", &c.Kernels)
	setInt("IMAGE_SIZE", &c.ImageSize)
	setInt("REGISTERS", &c.Registers)
	setInt("REGISTERS_PER_ANCILLA", &c.RegistersPerAncilla)
	setBool("INTER_ENTANGLE", &c.InterEntangle)
	setString("ACTIVATION", &c.Activation)
	setInt("EPOCHS", &c.Epochs)
	setInt("BATCH_SIZE", &c.BatchSize)
	setFloat("LEARNING_RATE", &c.LearningRate)
	setString("OPTIMIZER", &c.Optimizer)
	setString("SCHEDULER", &c.Scheduler)
	setFloat("GAMMA", &c.Gamma)
	setInt("PATIENCE", &c.Patience)
	setInt("SAMPLES", &c.Samples)
	setFloat("TEST_FRACTION", &c.TestFraction)
	setFloat("NOISE", &c.Noise)
	setString("OUTPUT_DIR", &c.OutputDir)
	setString("LOG_LEVEL", &c.LogLevel)
	setInt("WORKERS", &c.Workers)
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" && err == nil {
		s, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return fmt.Errorf("%w: %sSEED=%q is not an unsigned integer", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Seed = s
	}
	return err
}

// Validate checks every field and names the first offending one.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("%w: no models selected", ErrInvalidConfig)
	}
	for _, m := range c.Models {
		if _, err := models.ParseKind(m); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	d, err := qconv.ParseDatatype(c.Datatype)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if models.Classes(d, c.Classes) < 2 {
		return fmt.Errorf("%w: classes must be at least 2, got %d", ErrInvalidConfig, c.Classes)
	}
	if c.Kernels <= 0 {
		return fmt.Errorf("%w: kernels must be positive, got %d", ErrInvalidConfig, c.Kernels)
	}
	if c.ImageSize < 2 {
		return fmt.Errorf("%w: image size must be at least 2, got %d", ErrInvalidConfig, c.ImageSize)
	}
	if c.Registers <= 0 || c.RegistersPerAncilla <= 0 || c.Registers%c.RegistersPerAncilla != 0 {
		return fmt.Errorf("%w: %d registers cannot be split into groups of %d", ErrInvalidConfig, c.Registers, c.RegistersPerAncilla)
	}
	if _, err := activations.ByName(c.Activation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	}
	o, err := opt.ByName(c.Optimizer, c.LearningRate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := opt.SchedulerByName(c.Scheduler, o, c.Gamma); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Patience < 0 {
		return fmt.Errorf("%w: patience must not be negative, got %d", ErrInvalidConfig, c.Patience)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		return fmt.Errorf("%w: test fraction must be in [0, 1), got %g", ErrInvalidConfig, c.TestFraction)
	}
	if c.Noise < 0 {
		return fmt.Errorf("%w: noise must not be negative, got %g", ErrInvalidConfig, c.Noise)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
