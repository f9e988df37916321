package spectral

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
)

// minEstimatorSamples is the shortest signal with at least one non-DC bin
// that has two neighbours.
const minEstimatorSamples = 4

// FrequencyEstimator finds the strongest spectral component of a signal.
// It is used to sanity check dataset labels and as a reference baseline
// for learned estimators.
type FrequencyEstimator struct {
	sampleRate float64
	fft        *FFT
}

// NewFrequencyEstimator creates an estimator for signals sampled at sampleRate
func NewFrequencyEstimator(sampleRate float64) (*FrequencyEstimator, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate %v: %w", sampleRate, common.ErrInvalidParameter)
	}
	return &FrequencyEstimator{
		sampleRate: sampleRate,
		fft:        NewFFT(),
	}, nil
}

// Estimate returns the dominant frequency in Hz.
//
// The mean is removed, a Hann window applied, and the largest magnitude bin
// above DC is refined by parabolic interpolation over its neighbours.
func (e *FrequencyEstimator) Estimate(signal []float64) (float64, error) {
	n := len(signal)
	if n < minEstimatorSamples {
		return 0, fmt.Errorf("need at least %d samples, got %d: %w", minEstimatorSamples, n, common.ErrInvalidParameter)
	}
	if !common.AllFinite(signal) {
		return 0, fmt.Errorf("signal has non-finite samples: %w", common.ErrInvalidParameter)
	}

	x := common.Unbias(signal)
	window.Apply(x, window.Hann)

	mags := e.fft.MagnitudeSpectrum(x)
	peak := floats.MaxIdx(mags[1:]) + 1
	if mags[peak] == 0 {
		return 0, fmt.Errorf("signal has no spectral content: %w", common.ErrInvalidParameter)
	}

	delta := 0.0
	if peak+1 < len(mags) {
		a, b, c := mags[peak-1], mags[peak], mags[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			delta = common.Clamp(0.5*(a-c)/denom, -0.5, 0.5)
		}
	}

	return (float64(peak) + delta) * e.sampleRate / float64(n), nil
}

// BinWidth returns the spectral resolution in Hz for an n-sample signal
func (e *FrequencyEstimator) BinWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return e.sampleRate / float64(n)
}

// DominantFrequency is a convenience wrapper around FrequencyEstimator
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	e, err := NewFrequencyEstimator(sampleRate)
	if err != nil {
		return 0, err
	}
	return e.Estimate(signal)
}
