package dataset

import (
	"fmt"
)

// Band is an arithmetic run of integer frequencies [Start, End) with stride
// Step.
type Band struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Step  int `json:"step"`
}

// Len returns how many frequencies the band yields
func (b Band) Len() int {
	if b.Step < 1 || b.End <= b.Start {
		return 0
	}
	return (b.End - b.Start + b.Step - 1) / b.Step
}

// Frequencies lists the band's frequencies in ascending order
func (b Band) Frequencies() []float64 {
	freqs := make([]float64, 0, b.Len())
	for f := b.Start; f < b.End && b.Step > 0; f += b.Step {
		freqs = append(freqs, float64(f))
	}
	return freqs
}

// Validate requires a positive start, a positive step and a non-empty range
func (b Band) Validate() error {
	if b.Start < 1 {
		return fmt.Errorf("band start %d: %w", b.Start, ErrInvalidParameter)
	}
	if b.Step < 1 {
		return fmt.Errorf("band step %d: %w", b.Step, ErrInvalidParameter)
	}
	if b.End <= b.Start {
		return fmt.Errorf("band [%d, %d) is empty: %w", b.Start, b.End, ErrInvalidParameter)
	}
	return nil
}

// Sweep is an ordered list of bands
type Sweep []Band

// Len returns the total number of frequencies
func (s Sweep) Len() int {
	n := 0
	for _, b := range s {
		n += b.Len()
	}
	return n
}

// Frequencies concatenates the frequencies of every band
func (s Sweep) Frequencies() []float64 {
	freqs := make([]float64, 0, s.Len())
	for _, b := range s {
		freqs = append(freqs, b.Frequencies()...)
	}
	return freqs
}

// Validate checks every band
func (s Sweep) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("empty sweep: %w", ErrInvalidParameter)
	}
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("band %d: %w", i, err)
		}
	}
	return nil
}

// LinearSweep covers [lower, upper] inclusive with a fixed step
func LinearSweep(lower, upper, step int) (Sweep, error) {
	if lower > upper {
		return nil, fmt.Errorf("frequency range [%d, %d] is reversed: %w", lower, upper, ErrInvalidParameter)
	}

	s := Sweep{{Start: lower, End: upper + 1, Step: step}}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SweepV2 samples 10-1999 Hz every hertz and 2000-4000 Hz every other hertz
func SweepV2() Sweep {
	return Sweep{
		{Start: 10, End: 2000, Step: 1},
		{Start: 2000, End: 4001, Step: 2},
	}
}

const (
	v3BandWidth = 500
	v3HighStart = 1000
	v3HighEnd   = 6000
)

// SweepV3 samples 10-999 Hz every hertz, then splits 1000-5999 Hz into
// 500 Hz bands whose step is start/500 (integer division), so the stride
// grows with frequency.
func SweepV3() Sweep {
	s := Sweep{{Start: 10, End: v3HighStart, Step: 1}}
	for start := v3HighStart; start < v3HighEnd; start += v3BandWidth {
		s = append(s, Band{Start: start, End: start + v3BandWidth, Step: start / v3BandWidth})
	}
	return s
}
