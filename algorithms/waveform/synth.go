package waveform

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
)

const (
	// ChirpStartRatio scales the requested frequency into the chirp start frequency
	ChirpStartRatio = 0.5

	// ChirpEnd is the fixed end frequency of every chirp, independent of the
	// requested frequency.
	ChirpEnd = 1.5

	// MixedSquarePhase is the extra phase of the square component in a
	// sawtooth+square mix.
	MixedSquarePhase = twoPi * 0.2
)

// Params describes one synthesized waveform. Amplitude is always 1.
type Params struct {
	Frequency float64 // Hz
	Offset    float64 // initial phase, radians
	Duration  float64 // seconds
	Framerate float64 // samples per second

	// NoiseRatio scales additive i.i.d. standard normal noise. Zero disables
	// noise; non-zero values need Src.
	NoiseRatio float64
	Src        rand.Source
}

func (p Params) validate(shape Shape) error {
	if !(p.Frequency > 0) || math.IsInf(p.Frequency, 0) {
		return fmt.Errorf("frequency %v: %w", p.Frequency, common.ErrInvalidParameter)
	}
	if math.IsNaN(p.Offset) || math.IsInf(p.Offset, 0) {
		return fmt.Errorf("offset %v: %w", p.Offset, common.ErrInvalidParameter)
	}
	if !(p.NoiseRatio >= 0) || math.IsInf(p.NoiseRatio, 0) {
		return fmt.Errorf("noise ratio %v: %w", p.NoiseRatio, common.ErrInvalidParameter)
	}
	if p.NoiseRatio > 0 {
		if !shape.AcceptsNoise() {
			return fmt.Errorf("%s does not take noise: %w", shape, common.ErrInvalidParameter)
		}
		if p.Src == nil {
			return fmt.Errorf("noise ratio %v without random source: %w", p.NoiseRatio, common.ErrInvalidParameter)
		}
	}
	return nil
}

func render(shape Shape, sig Signal, p Params) ([]float64, error) {
	if err := p.validate(shape); err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}

	ys, err := MakeWave(sig, p.Duration, p.Framerate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape, err)
	}

	if p.NoiseRatio > 0 {
		AddNoise(ys, p.NoiseRatio, p.Src)
	}
	return ys, nil
}

// AddNoise adds ratio * N(0, 1) to every sample of ys in place
func AddNoise(ys []float64, ratio float64, src rand.Source) {
	if ratio == 0 {
		return
	}

	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	for i := range ys {
		ys[i] += noise.Rand() * ratio
	}
}

// SawtoothWave synthesizes a unit sawtooth
func SawtoothWave(p Params) ([]float64, error) {
	return render(Sawtooth, SawtoothSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset}, p)
}

// SquareWave synthesizes a unit square wave
func SquareWave(p Params) ([]float64, error) {
	return render(Square, SquareSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset}, p)
}

// TriangleWave synthesizes a unit triangle wave
func TriangleWave(p Params) ([]float64, error) {
	return render(Triangle, TriangleSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset}, p)
}

// CosineWave synthesizes a unit cosine
func CosineWave(p Params) ([]float64, error) {
	return render(Cosine, CosineSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset}, p)
}

// SawtoothSquareWave mixes a sawtooth at Offset with a square wave at
// Offset+MixedSquarePhase and halves the sum, keeping |y| <= 1.
func SawtoothSquareWave(p Params) ([]float64, error) {
	sig := SumSignal{
		SawtoothSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset},
		SquareSignal{Freq: p.Frequency, Amp: 1, Offset: p.Offset + MixedSquarePhase},
	}

	ys, err := render(SawtoothSquare, sig, p)
	if err != nil {
		return nil, err
	}
	floats.Scale(1/float64(len(sig)), ys)
	return ys, nil
}

// ChirpWave synthesizes a chirp sweeping from ChirpStartRatio*Frequency to
// ChirpEnd. Offset does not affect the chirp.
func ChirpWave(p Params) ([]float64, error) {
	sig := ChirpSignal{Start: ChirpStartRatio * p.Frequency, End: ChirpEnd, Amp: 1}
	return render(Chirp, sig, p)
}

// Synthesize dispatches to the synthesizer for shape
func Synthesize(shape Shape, p Params) ([]float64, error) {
	switch shape {
	case Sawtooth:
		return SawtoothWave(p)
	case Square:
		return SquareWave(p)
	case Triangle:
		return TriangleWave(p)
	case Cosine:
		return CosineWave(p)
	case SawtoothSquare:
		return SawtoothSquareWave(p)
	case Chirp:
		return ChirpWave(p)
	default:
		return nil, fmt.Errorf("shape %d: %w", int(shape), common.ErrUnsupportedShape)
	}
}
