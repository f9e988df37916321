package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers used by the waveform primitives and the smoothing filter.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Unbias returns a copy of data with its mean removed
func Unbias(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	copy(out, data)
	floats.AddConst(-Mean(data), out)
	return out
}

// PeakNormalize scales data so that its largest absolute value equals amp.
// All-zero input yields all zeros.
func PeakNormalize(data []float64, amp float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	high := math.Abs(floats.Max(data))
	low := math.Abs(floats.Min(data))
	peak := math.Max(high, low)
	if peak == 0 {
		return out
	}

	for i, val := range data {
		out[i] = amp * val / peak
	}
	return out
}

// Sign returns -1, 0 or 1 according to the sign of x. NaN maps to NaN.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

// Frac returns the fractional part of x, carrying the sign of x
func Frac(x float64) float64 {
	_, frac := math.Modf(x)
	return frac
}

// Linspace returns n evenly spaced values over [start, end]. The last value
// is exactly end when n > 1.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}

	step := (end - start) / float64(n-1)
	for i := range n {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// ConvolveSame convolves data with kernel and returns the centered part of
// the full convolution with the same length as data. Samples beyond either
// edge of data count as zero.
func ConvolveSame(data, kernel []float64) []float64 {
	n, m := len(data), len(kernel)
	out := make([]float64, n)
	if n == 0 || m == 0 {
		return out
	}

	shift := (m - 1) / 2
	for i := range n {
		k := i + shift
		lo := max(0, k-n+1)
		hi := min(m-1, k)

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += data[k-j] * kernel[j]
		}
		out[i] = sum
	}

	return out
}

// AllFinite reports whether data holds neither NaN nor Inf
func AllFinite(data []float64) bool {
	if floats.HasNaN(data) {
		return false
	}
	for _, val := range data {
		if math.IsInf(val, 0) {
			return false
		}
	}
	return true
}

// Clamp restricts value to [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
