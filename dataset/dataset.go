package dataset

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-freqset/algorithms/filters"
	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
)

// Dataset holds labeled waveforms. Row i of X is a sample sequence, row i of
// the single-column Y is its frequency in Hz and Shapes[i] the shape that
// produced it. All three always have the same number of rows.
type Dataset struct {
	X      *mat.Dense
	Y      *mat.Dense
	Shapes []waveform.Shape
}

// Len returns the number of examples
func (d *Dataset) Len() int {
	return len(d.Shapes)
}

// Samples returns the number of samples per example
func (d *Dataset) Samples() int {
	_, c := d.X.Dims()
	return c
}

// Signal returns a copy of row i of X
func (d *Dataset) Signal(i int) []float64 {
	return mat.Row(nil, i, d.X)
}

// Label returns the frequency label of row i
func (d *Dataset) Label(i int) float64 {
	return d.Y.At(i, 0)
}

// Labels returns a copy of every label in row order
func (d *Dataset) Labels() []float64 {
	return mat.Col(nil, 0, d.Y)
}

// Frequencies returns the distinct labels in order of first appearance
func (d *Dataset) Frequencies() []float64 {
	seen := make(map[float64]bool)
	var freqs []float64
	for _, f := range d.Labels() {
		if !seen[f] {
			seen[f] = true
			freqs = append(freqs, f)
		}
	}
	return freqs
}

// Smooth returns a new dataset whose signals went through the smoothing
// filter described by cfg. Labels and shapes are copied unchanged.
func (d *Dataset) Smooth(cfg filters.Config) (*Dataset, error) {
	smoother, err := filters.NewSmoother(cfg)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		X:      smoother.ProcessMatrix(d.X),
		Y:      mat.DenseCopyOf(d.Y),
		Shapes: slices.Clone(d.Shapes),
	}, nil
}

// Concat stacks datasets in the order given. Every dataset must have the
// same number of samples per example; nil datasets are rejected.
func Concat(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("nothing to concatenate: %w", ErrInvalidParameter)
	}
	for i, d := range datasets {
		if d == nil || d.X == nil || d.Y == nil {
			return nil, fmt.Errorf("dataset %d is nil: %w", i, ErrInvalidParameter)
		}
	}

	acc := newAccumulator(datasets[0].Samples())
	for _, d := range datasets {
		for i := range d.Len() {
			if err := acc.add(d.Signal(i), d.Label(i), d.Shapes[i]); err != nil {
				return nil, err
			}
		}
	}
	return acc.finalize()
}

// accumulator collects rows before they are frozen into a Dataset
type accumulator struct {
	cols   int
	data   []float64
	labels []float64
	shapes []waveform.Shape
}

// newAccumulator expects rows of cols samples. cols < 1 means the width is
// taken from the first row.
func newAccumulator(cols int) *accumulator {
	return &accumulator{cols: cols}
}

func (a *accumulator) grow(rows int) {
	if a.cols > 0 {
		a.data = slices.Grow(a.data, rows*a.cols)
	}
	a.labels = slices.Grow(a.labels, rows)
	a.shapes = slices.Grow(a.shapes, rows)
}

func (a *accumulator) add(signal []float64, label float64, shape waveform.Shape) error {
	if a.cols < 1 {
		a.cols = len(signal)
	}
	if len(signal) != a.cols {
		return fmt.Errorf("row %d has %d samples, want %d: %w", len(a.labels), len(signal), a.cols, ErrInvalidParameter)
	}

	a.data = append(a.data, signal...)
	a.labels = append(a.labels, label)
	a.shapes = append(a.shapes, shape)
	return nil
}

func (a *accumulator) rows() int {
	return len(a.labels)
}

func (a *accumulator) finalize() (*Dataset, error) {
	if a.rows() == 0 || a.cols < 1 {
		return nil, fmt.Errorf("dataset would be empty: %w", ErrInvalidParameter)
	}

	return &Dataset{
		X:      mat.NewDense(a.rows(), a.cols, a.data),
		Y:      mat.NewDense(a.rows(), 1, a.labels),
		Shapes: a.shapes,
	}, nil
}
