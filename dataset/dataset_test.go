package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-freqset/algorithms/filters"
	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
	"github.com/RyanBlaney/sonido-freqset/dataset/config"
	"github.com/RyanBlaney/sonido-freqset/logging"
)

func smallConfig(shapes ...waveform.Shape) config.GenerationConfig {
	return config.GenerationConfig{
		Duration:  0.01,
		Framerate: 8000,
		NOffset:   2,
		Shapes:    shapes,
	}
}

func TestWaveDataSingleShape(t *testing.T) {
	offsets := []float64{0, 1, 2.5}
	for _, shape := range waveform.AllShapes() {
		signals, labels, kinds, err := WaveData(250, offsets, smallConfig(shape))
		require.NoError(t, err, "%s", shape)

		assert.Len(t, signals, len(offsets))
		assert.Len(t, labels, len(offsets))
		assert.Len(t, kinds, len(offsets))
		for i := range signals {
			assert.Len(t, signals[i], 80)
			assert.Equal(t, 250.0, labels[i])
			assert.Equal(t, shape, kinds[i])
		}
	}
}

func TestWaveDataOrder(t *testing.T) {
	cfg := smallConfig(waveform.Chirp, waveform.Sawtooth, waveform.Chirp)
	offsets := []float64{0, math.Pi}

	signals, _, kinds, err := WaveData(100, offsets, cfg)
	require.NoError(t, err)
	assert.Equal(t, []waveform.Shape{waveform.Sawtooth, waveform.Chirp, waveform.Sawtooth, waveform.Chirp}, kinds)

	saw, err := waveform.SawtoothWave(waveform.Params{Frequency: 100, Offset: math.Pi, Duration: 0.01, Framerate: 8000})
	require.NoError(t, err)
	assert.Equal(t, saw, signals[2])
}

func TestWaveDataEmptyOffsets(t *testing.T) {
	signals, labels, kinds, err := WaveData(100, nil, smallConfig(waveform.Square))
	require.NoError(t, err)
	assert.Empty(t, signals)
	assert.Empty(t, labels)
	assert.Empty(t, kinds)
}

func TestWaveDataErrors(t *testing.T) {
	_, _, _, err := WaveData(100, []float64{0}, smallConfig())
	assert.True(t, errors.Is(err, ErrInvalidParameter), "no shapes")

	_, _, _, err = WaveData(100, []float64{0}, smallConfig(waveform.Shape(99)))
	assert.True(t, errors.Is(err, ErrUnsupportedShape))

	_, _, _, err = WaveData(0, []float64{0}, smallConfig(waveform.Cosine))
	assert.True(t, errors.Is(err, ErrInvalidParameter), "zero frequency")

	cfg := smallConfig(waveform.Cosine)
	cfg.Framerate = 0
	_, _, _, err = WaveData(100, []float64{0}, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestTrainDataV0Grouping(t *testing.T) {
	cfg := config.DefaultTrainV0Config()
	cfg.NOffset = 2
	cfg.Shapes = []waveform.Shape{waveform.Square}

	ds, err := TrainDataV0(10, 20, 5, cfg)
	require.NoError(t, err)

	require.Equal(t, 6, ds.Len())
	rows, cols := ds.X.Dims()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 4000, cols)
	yr, yc := ds.Y.Dims()
	assert.Equal(t, 6, yr)
	assert.Equal(t, 1, yc)

	assert.Equal(t, []float64{10, 10, 15, 15, 20, 20}, ds.Labels())
	assert.Equal(t, []float64{10, 15, 20}, ds.Frequencies())

	// row 3 is 15 Hz at the second offset (pi)
	want, err := waveform.SquareWave(waveform.Params{Frequency: 15, Offset: math.Pi, Duration: 0.1, Framerate: 40000})
	require.NoError(t, err)
	assert.Equal(t, want, ds.Signal(3))
}

func TestTrainDataV0Errors(t *testing.T) {
	cfg := smallConfig(waveform.Square)

	_, err := TrainDataV0(20, 10, 5, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter), "reversed range")

	_, err = TrainDataV0(10, 20, 0, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter), "zero step")

	_, err = TrainDataV0(0, 20, 5, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter), "zero frequency")

	cfg.NOffset = 0
	_, err = TrainDataV0(10, 20, 5, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	cfg = smallConfig(waveform.Square)
	cfg.Duration = 0.00001
	ds, err := TrainDataV0(10, 20, 5, cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter), "no samples")
	assert.Nil(t, ds, "no partial dataset")
}

func TestTrainDataV0SingleFrequency(t *testing.T) {
	ds, err := TrainDataV0(440, 440, 7, smallConfig(waveform.Cosine, waveform.Triangle))
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []waveform.Shape{waveform.Triangle, waveform.Cosine, waveform.Triangle, waveform.Cosine}, ds.Shapes)
}

func TestTestDataReproducible(t *testing.T) {
	cfg := config.DefaultTestConfig()
	cfg.NOffset = 3
	cfg.Seed = 42

	a, err := TestData(100, cfg)
	require.NoError(t, err)
	b, err := TestData(100, cfg)
	require.NoError(t, err)

	assert.Equal(t, 15, a.Len())
	assert.True(t, mat.Equal(a.X, b.X))
	assert.True(t, mat.Equal(a.Y, b.Y))
	assert.Equal(t, a.Shapes, b.Shapes)

	cfg.Seed = 43
	c, err := TestData(100, cfg)
	require.NoError(t, err)
	assert.False(t, mat.Equal(a.X, c.X), "different seed, different offsets")
}

func TestTestDataNoise(t *testing.T) {
	cfg := config.DefaultTestConfig()
	cfg.NOffset = 2
	cfg.Shapes = []waveform.Shape{waveform.Cosine}

	clean, err := TestData(300, cfg)
	require.NoError(t, err)

	cfg.NoiseRatio = 0.2
	noisyA, err := TestData(300, cfg)
	require.NoError(t, err)
	noisyB, err := TestData(300, cfg)
	require.NoError(t, err)

	assert.True(t, mat.Equal(noisyA.X, noisyB.X))
	assert.False(t, mat.Equal(clean.X, noisyA.X))
	assert.True(t, mat.Equal(clean.Y, noisyA.Y), "labels carry no noise")

	var diff mat.Dense
	diff.Sub(noisyA.X, clean.X)
	rows, cols := diff.Dims()
	rms := mat.Norm(&diff, 2) / math.Sqrt(float64(rows*cols))
	assert.InDelta(t, 0.2, rms, 0.02)
}

func TestTestDataOffsetsInRange(t *testing.T) {
	offsets := RandomOffsets(1000, NewSource(7))
	require.Len(t, offsets, 1000)
	for _, o := range offsets {
		assert.GreaterOrEqual(t, o, 0.0)
		assert.Less(t, o, 2*math.Pi)
	}
	assert.Equal(t, offsets, RandomOffsets(1000, NewSource(7)))
}

func TestEvenOffsets(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}, EvenOffsets(4), 1e-15)
	assert.Empty(t, EvenOffsets(0))
}

func TestSweepV2(t *testing.T) {
	s := SweepV2()
	freqs := s.Frequencies()

	assert.Equal(t, 1990+1001, s.Len())
	assert.Len(t, freqs, s.Len())
	assert.Equal(t, 10.0, freqs[0])
	assert.Equal(t, 1999.0, freqs[1989])
	assert.Equal(t, 2000.0, freqs[1990])
	assert.Equal(t, 2002.0, freqs[1991])
	assert.Equal(t, 4000.0, freqs[len(freqs)-1])
}

func TestSweepV3StepPolicy(t *testing.T) {
	s := SweepV3()
	require.Len(t, s, 11)

	for _, b := range s[1:] {
		assert.Equal(t, b.Start/500, b.Step, "band %d", b.Start)
		assert.Equal(t, b.Start+500, b.End)
	}

	var band []float64
	for _, f := range s.Frequencies() {
		if f >= 1500 && f < 2000 {
			band = append(band, f)
		}
	}
	require.Len(t, band, 167)
	assert.Equal(t, 1500.0, band[0])
	assert.Equal(t, 1998.0, band[len(band)-1])
	for i := 1; i < len(band); i++ {
		assert.Equal(t, 3.0, band[i]-band[i-1])
	}

	assert.Equal(t, 990+1013, s.Len())
	assert.Equal(t, 5995.0, s.Frequencies()[s.Len()-1])
}

func TestTrainDataV2AndV3(t *testing.T) {
	cfg := config.GenerationConfig{
		Duration:  0.001,
		Framerate: 1000,
		NOffset:   1,
		Shapes:    []waveform.Shape{waveform.Cosine},
	}

	v2, err := TrainDataV2(cfg)
	require.NoError(t, err)
	assert.Equal(t, SweepV2().Frequencies(), v2.Labels())
	assert.Equal(t, 1, v2.Samples())

	v3, err := TrainDataV3(cfg)
	require.NoError(t, err)
	assert.Equal(t, SweepV3().Frequencies(), v3.Labels())

	// one sample at t=0 with offset 0
	for i := range v3.Len() {
		require.Equal(t, 1.0, v3.X.At(i, 0))
	}
}

func TestBandValidation(t *testing.T) {
	assert.Equal(t, 0, Band{Start: 10, End: 10, Step: 1}.Len())
	assert.Equal(t, 0, Band{Start: 10, End: 20, Step: 0}.Len())
	assert.Empty(t, Band{Start: 10, End: 20, Step: 0}.Frequencies())
	assert.Equal(t, []float64{10, 13, 16, 19}, Band{Start: 10, End: 20, Step: 3}.Frequencies())

	_, err := BuildSweep(Sweep{}, smallConfig(waveform.Cosine))
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = BuildSweep(Sweep{{Start: 10, End: 5, Step: 1}}, smallConfig(waveform.Cosine))
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestBuildSweepDoesNotMutateConfig(t *testing.T) {
	cfg := smallConfig(waveform.Chirp, waveform.Square)
	_, err := BuildSweep(Sweep{{Start: 100, End: 102, Step: 1}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []waveform.Shape{waveform.Chirp, waveform.Square}, cfg.Shapes)
}

func TestBuildSweepLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logging.GetGlobalLogger()
	logging.SetGlobalLogger(logging.NewZapLoggerFromCore(core, logging.DebugLevel))
	t.Cleanup(func() { logging.SetGlobalLogger(previous) })

	_, err := BuildSweep(Sweep{{Start: 100, End: 103, Step: 1}}, smallConfig(waveform.Square))
	require.NoError(t, err)

	entries := logs.FilterMessage("Sweep dataset built").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "dataset_builder", ctx["component"])
	assert.EqualValues(t, 3, ctx["frequencies"])
	assert.EqualValues(t, 6, ctx["rows"])
}

func TestSmooth(t *testing.T) {
	ds, err := TrainDataV0(200, 300, 100, smallConfig(waveform.Square))
	require.NoError(t, err)

	cfg := filters.DefaultConfig()
	smoothed, err := ds.Smooth(cfg)
	require.NoError(t, err)

	r, c := smoothed.X.Dims()
	assert.Equal(t, ds.Len(), r)
	assert.Equal(t, ds.Samples(), c)
	assert.Equal(t, ds.Labels(), smoothed.Labels())
	assert.Equal(t, ds.Shapes, smoothed.Shapes)

	want, err := filters.Filter(ds.Signal(1), cfg)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, smoothed.Signal(1), 1e-15)

	_, err = ds.Smooth(filters.Config{Kernel: filters.KernelGaussian, WindowSize: 0, Std: 1})
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestConcat(t *testing.T) {
	a, err := TrainDataV0(100, 100, 1, smallConfig(waveform.Cosine))
	require.NoError(t, err)
	b, err := TrainDataV0(200, 200, 1, smallConfig(waveform.Square))
	require.NoError(t, err)

	both, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100, 200, 200}, both.Labels())
	assert.Equal(t, []waveform.Shape{waveform.Cosine, waveform.Cosine, waveform.Square, waveform.Square}, both.Shapes)
	assert.Equal(t, b.Signal(1), both.Signal(3))

	other := smallConfig(waveform.Cosine)
	other.Duration = 0.02
	c, err := TrainDataV0(100, 100, 1, other)
	require.NoError(t, err)
	_, err = Concat(a, c)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Concat()
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestConcatRejectsNil(t *testing.T) {
	a, err := TrainDataV0(100, 100, 1, smallConfig(waveform.Cosine))
	require.NoError(t, err)

	for name, args := range map[string][]*Dataset{
		"nil first": {nil, a},
		"nil later": {a, nil},
		"no matrix": {a, {}},
	} {
		var out *Dataset
		require.NotPanics(t, func() { out, err = Concat(args...) }, name)
		assert.True(t, errors.Is(err, ErrInvalidParameter), name)
		assert.Nil(t, out, name)
	}
}
