package waveform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
)

const twoPi = 2 * math.Pi

// Signal is a continuous-time function that can be evaluated at arbitrary
// sample times (seconds).
type Signal interface {
	Evaluate(ts []float64) []float64
}

// cycleFractions returns the fractional cycle position of freq*t + offset/2pi
// for every t.
func cycleFractions(freq, offset float64, ts []float64) []float64 {
	frac := make([]float64, len(ts))
	for i, t := range ts {
		frac[i] = common.Frac(freq*t + offset/twoPi)
	}
	return frac
}

// SawtoothSignal ramps linearly once per period, centered on zero and
// scaled so its largest excursion equals Amp.
type SawtoothSignal struct {
	Freq   float64
	Amp    float64
	Offset float64
}

func (s SawtoothSignal) Evaluate(ts []float64) []float64 {
	frac := cycleFractions(s.Freq, s.Offset, ts)
	return common.PeakNormalize(common.Unbias(frac), s.Amp)
}

// SquareSignal is the sign of the centered sawtooth ramp, so it alternates
// between -Amp and +Amp.
type SquareSignal struct {
	Freq   float64
	Amp    float64
	Offset float64
}

func (s SquareSignal) Evaluate(ts []float64) []float64 {
	ys := common.Unbias(cycleFractions(s.Freq, s.Offset, ts))
	for i, y := range ys {
		ys[i] = s.Amp * common.Sign(y)
	}
	return ys
}

// TriangleSignal rises and falls linearly once per period
type TriangleSignal struct {
	Freq   float64
	Amp    float64
	Offset float64
}

func (s TriangleSignal) Evaluate(ts []float64) []float64 {
	ys := cycleFractions(s.Freq, s.Offset, ts)
	for i, f := range ys {
		ys[i] = math.Abs(f - 0.5)
	}
	return common.PeakNormalize(common.Unbias(ys), s.Amp)
}

// CosineSignal is Amp*cos(2pi*Freq*t + Offset)
type CosineSignal struct {
	Freq   float64
	Amp    float64
	Offset float64
}

func (s CosineSignal) Evaluate(ts []float64) []float64 {
	ys := make([]float64, len(ts))
	for i, t := range ts {
		ys[i] = s.Amp * math.Cos(twoPi*s.Freq*t+s.Offset)
	}
	return ys
}

// SumSignal adds its components sample by sample
type SumSignal []Signal

func (s SumSignal) Evaluate(ts []float64) []float64 {
	ys := make([]float64, len(ts))
	for _, component := range s {
		floats.Add(ys, component.Evaluate(ts))
	}
	return ys
}

// ChirpSignal sweeps its instantaneous frequency linearly from Start to End.
// The n-1 steps between n samples take the n-1 sweep frequencies in turn,
// so the step from t[k-1] to t[k] advances the phase by
// 2pi*f[k-1]*(t[k]-t[k-1]). Phase starts at zero.
type ChirpSignal struct {
	Start float64
	End   float64
	Amp   float64
}

func (s ChirpSignal) Evaluate(ts []float64) []float64 {
	ys := make([]float64, len(ts))
	if len(ts) == 0 {
		return ys
	}

	freqs := common.Linspace(s.Start, s.End, len(ts)-1)
	ys[0] = s.Amp

	phase := 0.0
	for k := 1; k < len(ts); k++ {
		phase += twoPi * freqs[k-1] * (ts[k] - ts[k-1])
		ys[k] = s.Amp * math.Cos(phase)
	}
	return ys
}

// SampleCount returns round(duration*framerate), rounding halves to even
func SampleCount(duration, framerate float64) (int, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("duration %v: %w", duration, common.ErrInvalidParameter)
	}
	if !(framerate > 0) || math.IsInf(framerate, 0) {
		return 0, fmt.Errorf("framerate %v: %w", framerate, common.ErrInvalidParameter)
	}

	n := math.RoundToEven(duration * framerate)
	if n < 1 {
		return 0, fmt.Errorf("duration %v at framerate %v yields no samples: %w", duration, framerate, common.ErrInvalidParameter)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("duration %v at framerate %v yields too many samples: %w", duration, framerate, common.ErrInvalidParameter)
	}
	return int(n), nil
}

// SampleTimes returns t[i] = i/framerate for i in [0, n)
func SampleTimes(n int, framerate float64) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) / framerate
	}
	return ts
}

// MakeWave samples sig from t=0 for duration seconds at framerate samples
// per second.
func MakeWave(sig Signal, duration, framerate float64) ([]float64, error) {
	n, err := SampleCount(duration, framerate)
	if err != nil {
		return nil, err
	}

	ys := sig.Evaluate(SampleTimes(n, framerate))
	if len(ys) != n {
		return nil, fmt.Errorf("signal returned %d samples, want %d: %w", len(ys), n, common.ErrUpstreamSynthesis)
	}
	if !common.AllFinite(ys) {
		return nil, fmt.Errorf("signal produced non-finite samples: %w", common.ErrUpstreamSynthesis)
	}
	return ys, nil
}
