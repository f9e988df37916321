package windowing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
)

// Gaussian represents a symmetric Gaussian window of a given tap count and
// standard deviation (in samples).
//
//	w[i] = exp(-(i - (size-1)/2)^2 / (2 std^2))
//
// A size of 1 yields a single tap of 1.
type Gaussian struct {
	size         int
	std          float64
	coefficients []float64
}

// NewGaussian creates a new Gaussian window
func NewGaussian(size int, std float64) (*Gaussian, error) {
	if size < 1 {
		return nil, fmt.Errorf("gaussian window size %d: %w", size, common.ErrInvalidParameter)
	}
	if !(std > 0) || math.IsInf(std, 0) {
		return nil, fmt.Errorf("gaussian window std %v: %w", std, common.ErrInvalidParameter)
	}

	g := &Gaussian{
		size: size,
		std:  std,
	}
	g.generate()
	return g, nil
}

func (g *Gaussian) generate() {
	g.coefficients = make([]float64, g.size)

	center := float64(g.size-1) / 2
	twoVar := 2 * g.std * g.std
	for i := range g.size {
		d := float64(i) - center
		g.coefficients[i] = math.Exp(-d * d / twoVar)
	}
}

// Normalized returns a copy of the coefficients scaled to sum to 1, ready
// to be used as a smoothing kernel.
func (g *Gaussian) Normalized() []float64 {
	taps := g.GetCoefficients()
	floats.Scale(1/floats.Sum(taps), taps)
	return taps
}

// GetCoefficients returns a copy of the window coefficients
func (g *Gaussian) GetCoefficients() []float64 {
	coeffs := make([]float64, len(g.coefficients))
	copy(coeffs, g.coefficients)
	return coeffs
}

// GetSize returns the window size
func (g *Gaussian) GetSize() int {
	return g.size
}

// GetStd returns the standard deviation in samples
func (g *Gaussian) GetStd() float64 {
	return g.std
}

// GetType returns the window type
func (g *Gaussian) GetType() string {
	return "gaussian"
}
