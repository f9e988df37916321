package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
	"github.com/RyanBlaney/sonido-freqset/algorithms/filters"
	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
)

// GenerationConfig describes how every (frequency, offset) pair is rendered
type GenerationConfig struct {
	Duration  float64          `json:"duration"`  // seconds
	Framerate float64          `json:"framerate"` // samples per second
	NOffset   int              `json:"n_offset"`  // phase offsets per frequency
	Shapes    []waveform.Shape `json:"shapes"`
}

// TestConfig adds the randomness used by held-out test sets
type TestConfig struct {
	GenerationConfig
	Seed       int64   `json:"seed"`
	NoiseRatio float64 `json:"noise_ratio"` // 0 disables noise
}

// Config groups everything the freqset command can be configured with
type Config struct {
	Test    TestConfig       `json:"test"`
	TrainV0 GenerationConfig `json:"train_v0"`
	Train   GenerationConfig `json:"train"` // v2 and v3 sweeps
	Filter  filters.Config   `json:"filter"`
}

const (
	defaultDuration  = 0.1
	defaultFramerate = 40000
	defaultNOffset   = 10
	defaultSeed      = 42
)

// DefaultTestConfig returns the held-out test set defaults: five shapes
// (no mix), ten random offsets, seed 42, no noise.
func DefaultTestConfig() TestConfig {
	return TestConfig{
		GenerationConfig: GenerationConfig{
			Duration:  defaultDuration,
			Framerate: defaultFramerate,
			NOffset:   defaultNOffset,
			Shapes:    []waveform.Shape{waveform.Sawtooth, waveform.Square, waveform.Triangle, waveform.Cosine, waveform.Chirp},
		},
		Seed:       defaultSeed,
		NoiseRatio: 0,
	}
}

// DefaultTrainV0Config returns the defaults for linear sweeps
func DefaultTrainV0Config() GenerationConfig {
	return GenerationConfig{
		Duration:  defaultDuration,
		Framerate: defaultFramerate,
		NOffset:   defaultNOffset,
		Shapes:    []waveform.Shape{waveform.Sawtooth, waveform.Square, waveform.Triangle},
	}
}

// DefaultTrainConfig returns the defaults for the v2 and v3 sweeps
func DefaultTrainConfig() GenerationConfig {
	return GenerationConfig{
		Duration:  defaultDuration,
		Framerate: defaultFramerate,
		NOffset:   defaultNOffset,
		Shapes:    []waveform.Shape{waveform.Sawtooth, waveform.Square, waveform.Triangle, waveform.Cosine},
	}
}

// DefaultConfig returns every default together
func DefaultConfig() Config {
	return Config{
		Test:    DefaultTestConfig(),
		TrainV0: DefaultTrainV0Config(),
		Train:   DefaultTrainConfig(),
		Filter:  filters.DefaultConfig(),
	}
}

// Clone returns a copy that shares no memory with c
func (c GenerationConfig) Clone() GenerationConfig {
	c.Shapes = slices.Clone(c.Shapes)
	return c
}

// Validate checks the offset count and the rendering parameters
func (c GenerationConfig) Validate() error {
	if c.NOffset < 1 {
		return fmt.Errorf("n_offset %d: %w", c.NOffset, common.ErrInvalidParameter)
	}
	return c.ValidateRendering()
}

// ValidateRendering checks everything except NOffset. It does not check that
// Duration*Framerate yields at least one sample; synthesis reports that.
func (c GenerationConfig) ValidateRendering() error {
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration %v: %w", c.Duration, common.ErrInvalidParameter)
	}
	if !(c.Framerate > 0) || math.IsInf(c.Framerate, 0) {
		return fmt.Errorf("framerate %v: %w", c.Framerate, common.ErrInvalidParameter)
	}
	if len(c.Shapes) == 0 {
		return fmt.Errorf("no shapes selected: %w", common.ErrInvalidParameter)
	}
	if _, err := waveform.CanonicalOrder(c.Shapes); err != nil {
		return err
	}
	return nil
}

// Clone returns a copy that shares no memory with c
func (c TestConfig) Clone() TestConfig {
	c.GenerationConfig = c.GenerationConfig.Clone()
	return c
}

// Validate checks the generation parameters and the noise ratio
func (c TestConfig) Validate() error {
	if err := c.GenerationConfig.Validate(); err != nil {
		return err
	}
	if !(c.NoiseRatio >= 0) || math.IsInf(c.NoiseRatio, 0) {
		return fmt.Errorf("noise_ratio %v: %w", c.NoiseRatio, common.ErrInvalidParameter)
	}
	return nil
}

// Validate checks every section
func (c Config) Validate() error {
	if err := c.Test.Validate(); err != nil {
		return fmt.Errorf("test: %w", err)
	}
	if err := c.TrainV0.Validate(); err != nil {
		return fmt.Errorf("train_v0: %w", err)
	}
	if err := c.Train.Validate(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if _, err := filters.NewSmoother(c.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}

// Load reads a JSON config file. Sections and fields missing from the file
// keep their defaults; unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
