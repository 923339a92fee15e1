package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_LevelFiltersAndComponentTag(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(WithWriter(&buf), WithLevel(zerolog.WarnLevel))
	require.NoError(t, err)

	log := l.Component("layout")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=layout")
}

func TestWithFile_AppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wm.log")
	var buf bytes.Buffer
	l, err := New(WithWriter(&buf), WithFile(path))
	require.NoError(t, err)

	l.Z().Info().Str("window", "0x400001").Msg("managed")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "managed")
	assert.Contains(t, buf.String(), "managed")
}
