package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real signal using mjibson/go-dsp.
// Any length is accepted, not only powers of two.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// MagnitudeSpectrum returns |X[k]| for k in [0, len(x)/2]
func (f *FFT) MagnitudeSpectrum(x []float64) []float64 {
	spectrum := f.Compute(x)
	if len(spectrum) == 0 {
		return []float64{}
	}

	mags := make([]float64, len(spectrum)/2+1)
	for k := range mags {
		mags[k] = cmplx.Abs(spectrum[k])
	}
	return mags
}
