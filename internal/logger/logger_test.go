package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.InfoLevel, Out: &buf})

	log.Debug().Msg("hidden")
	log.Info().Int("epoch", 3).Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"epoch":3`)
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.DebugLevel, Pretty: true, Out: &buf})

	log.Debug().Str("model", "co").Msg("built")

	out := buf.String()
	assert.Contains(t, out, "built")
	assert.Contains(t, out, "model=")
	assert.NotContains(t, out, `"message"`)
}
