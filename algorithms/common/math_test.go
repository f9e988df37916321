package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnbias(t *testing.T) {
	in := []float64{1, 2, 3, 6}
	out := Unbias(in)

	assert.InDeltaSlice(t, []float64{-2, -1, 0, 3}, out, 1e-12)
	assert.Equal(t, []float64{1, 2, 3, 6}, in, "input must not be modified")
	assert.Empty(t, Unbias(nil))
}

func TestPeakNormalize(t *testing.T) {
	out := PeakNormalize([]float64{-4, 1, 2}, 1)
	assert.InDeltaSlice(t, []float64{-1, 0.25, 0.5}, out, 1e-12)

	out = PeakNormalize([]float64{1, 2}, 0.5)
	assert.InDeltaSlice(t, []float64{0.25, 0.5}, out, 1e-12)

	assert.Equal(t, []float64{0, 0, 0}, PeakNormalize([]float64{0, 0, 0}, 1))
}

func TestSignAndFrac(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0.3))
	assert.Equal(t, -1.0, Sign(-2))
	assert.Equal(t, 0.0, Sign(0))
	assert.True(t, math.IsNaN(Sign(math.NaN())))

	assert.InDelta(t, 0.25, Frac(3.25), 1e-12)
	assert.InDelta(t, -0.25, Frac(-3.25), 1e-12)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{50}, Linspace(50, 1.5, 1))
	assert.Empty(t, Linspace(0, 1, 0))

	down := Linspace(50, 1.5, 3)
	require.Len(t, down, 3)
	assert.Equal(t, 1.5, down[2])
	assert.InDelta(t, 25.75, down[1], 1e-12)
}

func TestConvolveSame(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	// identity kernel
	assert.Equal(t, data, ConvolveSame(data, []float64{0, 1, 0}))

	// box kernel, zero padded at both ends
	out := ConvolveSame(data, []float64{1, 1, 1})
	assert.Equal(t, []float64{3, 6, 9, 12, 9}, out)

	// even length kernel keeps the (m-1)/2 alignment
	out = ConvolveSame([]float64{1, 2, 3}, []float64{1, 10})
	assert.Equal(t, []float64{1, 12, 23}, out)

	// kernel longer than data still returns len(data) samples
	out = ConvolveSame([]float64{1, 1}, []float64{1, 1, 1, 1, 1})
	assert.Equal(t, []float64{2, 2}, out)

	assert.Empty(t, ConvolveSame(nil, []float64{1}))
}

func TestAllFinite(t *testing.T) {
	assert.True(t, AllFinite([]float64{0, -1, 1e300}))
	assert.False(t, AllFinite([]float64{0, math.NaN()}))
	assert.False(t, AllFinite([]float64{math.Inf(-1)}))
	assert.True(t, AllFinite(nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.7, -0.5, 0.5))
	assert.Equal(t, -0.5, Clamp(-3, -0.5, 0.5))
	assert.Equal(t, 0.1, Clamp(0.1, -0.5, 0.5))
}
