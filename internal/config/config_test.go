package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Epochs)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 0.001, cfg.LearningRate)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
models: [co, wev]
datatype: CHANNELS
classes: 4
registers: 4
registers_per_ancilla: 2
inter_entangle: true
epochs: 2
learning_rate: 0.01
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"co", "wev"}, cfg.Models)
	assert.Equal(t, "CHANNELS", cfg.Datatype)
	assert.Equal(t, 4, cfg.Registers)
	assert.True(t, cfg.InterEntangle)
	assert.Equal(t, 2, cfg.Epochs)
	assert.Equal(t, 0.01, cfg.LearningRate)
	// untouched fields keep their defaults
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "epochs: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "epochs: 0"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "run.yaml", "epochs: 2\nbatch_size: 8\n")
	t.Setenv("QCNN_EPOCHS", "7")
	t.Setenv("QCNN_MODELS", "control,modified_co")
	t.Setenv("QCNN_LEARNING_RATE", "0.05")
	t.Setenv("QCNN_SEED", "9")
	t.Setenv("QCNN_INTER_ENTANGLE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Epochs)
	assert.Equal(t, 8, cfg.BatchSize)
	assert.Equal(t, []string{"control", "modified_co"}, cfg.Models)
	assert.Equal(t, 0.05, cfg.LearningRate)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.True(t, cfg.InterEntangle)
}

func TestEnvOverrideErrors(t *testing.T) {
	for key, value := range map[string]string{
		"QCNN_EPOCHS":         "ten",
		"QCNN_LEARNING_RATE":  "fast",
		"QCNN_INTER_ENTANGLE": "maybe",
		"QCNN_SEED":           "-1",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDotEnvFile(t *testing.T) {
	env := writeFile(t, ".env", "QCNN_KERNELS=5\n")
	t.Cleanup(func() { os.Unsetenv("QCNN_KERNELS") })

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Kernels)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no models", func(c *Config) { c.Models = nil }},
		{"unknown model", func(c *Config) { c.Models = []string{"vgg"} }},
		{"unknown datatype", func(c *Config) { c.Datatype = "MNIST" }},
		{"too few classes", func(c *Config) { c.Datatype = "CIFAR10"; c.Classes = 1 }},
		{"kernels", func(c *Config) { c.Kernels = 0 }},
		{"image size", func(c *Config) { c.ImageSize = 1 }},
		{"registers", func(c *Config) { c.Registers = 3; c.RegistersPerAncilla = 2 }},
		{"activation", func(c *Config) { c.Activation = "gelu" }},
		{"batch size", func(c *Config) { c.BatchSize = 0 }},
		{"learning rate", func(c *Config) { c.LearningRate = 0 }},
		{"optimizer", func(c *Config) { c.Optimizer = "lbfgs" }},
		{"scheduler", func(c *Config) { c.Scheduler = "cosine" }},
		{"patience", func(c *Config) { c.Patience = -1 }},
		{"samples", func(c *Config) { c.Samples = 0 }},
		{"test fraction", func(c *Config) { c.TestFraction = 1 }},
		{"noise", func(c *Config) { c.Noise = -0.1 }},
		{"workers", func(c *Config) { c.Workers = -2 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Datatype = "COLORS"
	cfg.Classes = 0
	assert.NoError(t, cfg.Validate(), "COLORS has a fixed class count")
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Models = []string{"wev"}
	cfg.Epochs = 3
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
