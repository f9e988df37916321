package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
	"github.com/RyanBlaney/sonido-freqset/dataset/config"
	"github.com/RyanBlaney/sonido-freqset/logging"
)

// NewSource returns the deterministic random source used for a seed
func NewSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), 0)
}

// EvenOffsets returns n phase offsets spaced evenly over [0, 2pi)
func EvenOffsets(n int) []float64 {
	offsets := make([]float64, max(n, 0))
	for i := range offsets {
		offsets[i] = 2 * math.Pi * (float64(i) / float64(n))
	}
	return offsets
}

// RandomOffsets draws n phase offsets uniformly from [0, 2pi)
func RandomOffsets(n int, src rand.Source) []float64 {
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}
	offsets := make([]float64, max(n, 0))
	for i := range offsets {
		offsets[i] = 2 * math.Pi * uniform.Rand()
	}
	return offsets
}

// TestData builds a held-out set for a single frequency.
//
// Offsets are drawn from a source seeded with cfg.Seed, so equal configs
// give identical datasets. When cfg.NoiseRatio is non-zero, NoiseRatio *
// N(0, 1) is added to every sample of the assembled X, drawn from the same
// source after the offsets.
func TestData(freq float64, cfg config.TestConfig) (*Dataset, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "dataset_builder",
		"function":  "TestData",
	})

	src := NewSource(cfg.Seed)
	offsets := RandomOffsets(cfg.NOffset, src)

	ds, err := buildFrequencies([]float64{freq}, offsets, cfg.GenerationConfig)
	if err != nil {
		return nil, err
	}

	if cfg.NoiseRatio != 0 {
		waveform.AddNoise(ds.X.RawMatrix().Data, cfg.NoiseRatio, src)
	}

	logger.Debug("Test dataset built", logging.Fields{
		"frequency":   freq,
		"rows":        ds.Len(),
		"seed":        cfg.Seed,
		"noise_ratio": cfg.NoiseRatio,
	})

	return ds, nil
}

// TrainDataV0 sweeps [lower, upper] inclusive with a fixed step, using
// cfg.NOffset evenly spaced offsets.
func TrainDataV0(lower, upper, step int, cfg config.GenerationConfig) (*Dataset, error) {
	sweep, err := LinearSweep(lower, upper, step)
	if err != nil {
		return nil, err
	}
	return BuildSweep(sweep, cfg)
}

// TrainDataV2 renders SweepV2 with evenly spaced offsets
func TrainDataV2(cfg config.GenerationConfig) (*Dataset, error) {
	return BuildSweep(SweepV2(), cfg)
}

// TrainDataV3 renders SweepV3 with evenly spaced offsets
func TrainDataV3(cfg config.GenerationConfig) (*Dataset, error) {
	return BuildSweep(SweepV3(), cfg)
}

// BuildSweep renders every frequency of sweep at cfg.NOffset evenly spaced
// offsets. Rows are grouped by frequency, then offset, then shape.
func BuildSweep(sweep Sweep, cfg config.GenerationConfig) (*Dataset, error) {
	cfg = cfg.Clone()
	if err := sweep.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "dataset_builder",
		"function":  "BuildSweep",
	})

	start := time.Now()
	freqs := sweep.Frequencies()

	ds, err := buildFrequencies(freqs, EvenOffsets(cfg.NOffset), cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Sweep dataset built", logging.Fields{
		"frequencies": len(freqs),
		"rows":        ds.Len(),
		"samples":     ds.Samples(),
		"elapsed":     time.Since(start).String(),
	})

	return ds, nil
}

func buildFrequencies(freqs, offsets []float64, cfg config.GenerationConfig) (*Dataset, error) {
	shapes, err := waveform.CanonicalOrder(cfg.Shapes)
	if err != nil {
		return nil, err
	}

	cols, err := waveform.SampleCount(cfg.Duration, cfg.Framerate)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator(cols)
	acc.grow(len(freqs) * len(offsets) * len(shapes))

	for _, freq := range freqs {
		err := renderFrequency(freq, offsets, shapes, cfg, func(signal []float64, shape waveform.Shape) error {
			return acc.add(signal, freq, shape)
		})
		if err != nil {
			return nil, fmt.Errorf("building dataset: %w", err)
		}
	}

	return acc.finalize()
}
