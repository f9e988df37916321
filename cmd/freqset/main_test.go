package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
	"github.com/RyanBlaney/sonido-freqset/dataset"
	"github.com/RyanBlaney/sonido-freqset/logging"
)

func restoreGlobalLogger(t *testing.T) {
	previous := logging.GetGlobalLogger()
	t.Cleanup(func() { logging.SetGlobalLogger(previous) })
}

func TestParseFlagsTracksExplicitFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-mode", "v0", "-offsets", "3"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "v0", opts.mode)
	assert.Equal(t, 3, opts.offsets)
	assert.True(t, opts.set["offsets"])
	assert.False(t, opts.set["duration"])
}

func TestParseFlagsErrors(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-bogus"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "bogus")

	_, err = parseFlags([]string{"-h"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, flag.ErrHelp))

	_, err = parseFlags([]string{"extra"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	opts, err := parseFlags([]string{"-shapes", "chirp, square", "-duration", "0.05", "-seed", "9"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, []waveform.Shape{waveform.Chirp, waveform.Square}, cfg.Test.Shapes)
	assert.Equal(t, []waveform.Shape{waveform.Chirp, waveform.Square}, cfg.Train.Shapes)
	assert.Equal(t, 0.05, cfg.TrainV0.Duration)
	assert.Equal(t, int64(9), cfg.Test.Seed)
	assert.Equal(t, 10, cfg.Test.NOffset, "offsets not given")
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freqset.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"test": {"n_offset": 4, "noise_ratio": 0.1}}`), 0o644))

	opts, err := parseFlags([]string{"-config", path, "-noise", "0.3"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Test.NOffset)
	assert.Equal(t, 0.3, cfg.Test.NoiseRatio)
}

func TestLoadConfigErrors(t *testing.T) {
	opts, err := parseFlags([]string{"-shapes", "sine"}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = loadConfig(opts)
	assert.True(t, errors.Is(err, dataset.ErrUnsupportedShape))

	opts, err = parseFlags([]string{"-noise", "-1"}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = loadConfig(opts)
	assert.True(t, errors.Is(err, dataset.ErrInvalidParameter))
}

func TestBuildUnknownMode(t *testing.T) {
	opts, err := parseFlags([]string{"-mode", "v1"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := loadConfig(opts)
	require.NoError(t, err)

	_, _, err = build(opts, cfg)
	assert.True(t, errors.Is(err, dataset.ErrInvalidParameter))
}

func TestBuildV0(t *testing.T) {
	opts, err := parseFlags([]string{"-mode", "V0", "-lower", "100", "-upper", "120", "-step", "10", "-offsets", "2", "-shapes", "square"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := loadConfig(opts)
	require.NoError(t, err)

	ds, framerate, err := build(opts, cfg)
	require.NoError(t, err)
	assert.Equal(t, 40000.0, framerate)
	assert.Equal(t, []float64{100, 100, 110, 110, 120, 120}, ds.Labels())

	fields := summarize(ds)
	assert.Equal(t, 6, fields["rows"])
	assert.Equal(t, 3, fields["frequencies"])
	assert.Equal(t, 100.0, fields["min_hz"])
	assert.Equal(t, 120.0, fields["max_hz"])
	assert.Equal(t, map[string]int{"square": 6}, fields["shapes"])
}

func TestRun(t *testing.T) {
	restoreGlobalLogger(t)

	err := run([]string{"-freq", "500", "-offsets", "2", "-smooth", "-verify", "-log-level", "error"}, &bytes.Buffer{})
	assert.NoError(t, err)

	err = run([]string{"-log-level", "loud"}, &bytes.Buffer{})
	assert.Error(t, err)

	err = run([]string{"-mode", "v0", "-lower", "50", "-upper", "10", "-log-level", "fatal"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, dataset.ErrInvalidParameter))
}
