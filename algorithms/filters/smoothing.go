package filters

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
	"github.com/RyanBlaney/sonido-freqset/algorithms/windowing"
)

// KernelType names the smoothing kernel shape
type KernelType string

const (
	// KernelGaussian is a normalized Gaussian window
	KernelGaussian KernelType = "gaussian"
)

// Config configures a smoothing filter
type Config struct {
	Kernel     KernelType `json:"kernel"`
	WindowSize int        `json:"window_size"`
	Std        float64    `json:"std"`
}

// DefaultConfig returns an 11-tap Gaussian kernel with a deviation of one sample
func DefaultConfig() Config {
	return Config{
		Kernel:     KernelGaussian,
		WindowSize: 11,
		Std:        1,
	}
}

// Smoother convolves sequences with a fixed, unit-sum kernel.
//
// Output has the same length as the input. Edges are zero padded, so the
// first and last (WindowSize-1)/2 samples are partial-overlap averages.
type Smoother struct {
	window *windowing.Gaussian
	kernel []float64
}

// NewSmoother builds the kernel described by cfg. An empty Kernel means
// gaussian; any other kernel name is rejected.
func NewSmoother(cfg Config) (*Smoother, error) {
	kind := KernelType(strings.ToLower(string(cfg.Kernel)))
	if kind == "" {
		kind = KernelGaussian
	}

	switch kind {
	case KernelGaussian:
		window, err := windowing.NewGaussian(cfg.WindowSize, cfg.Std)
		if err != nil {
			return nil, fmt.Errorf("smoothing kernel: %w", err)
		}
		return &Smoother{window: window, kernel: window.Normalized()}, nil
	default:
		return nil, fmt.Errorf("smoothing kernel %q: %w", cfg.Kernel, common.ErrInvalidParameter)
	}
}

// Process smooths a single sequence
func (s *Smoother) Process(data []float64) []float64 {
	return common.ConvolveSame(data, s.kernel)
}

// ProcessBatch smooths every row independently. All rows must share one
// length.
func (s *Smoother) ProcessBatch(batch [][]float64) (*mat.Dense, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty batch: %w", common.ErrInvalidParameter)
	}

	cols := len(batch[0])
	if cols == 0 {
		return nil, fmt.Errorf("empty rows: %w", common.ErrInvalidParameter)
	}

	data := make([]float64, 0, len(batch)*cols)
	for i, row := range batch {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d samples, want %d: %w", i, len(row), cols, common.ErrInvalidParameter)
		}
		data = append(data, s.Process(row)...)
	}

	return mat.NewDense(len(batch), cols, data), nil
}

// ProcessMatrix smooths each row of m into a new matrix
func (s *Smoother) ProcessMatrix(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)

	row := make([]float64, cols)
	for i := range rows {
		mat.Row(row, i, m)
		out.SetRow(i, s.Process(row))
	}
	return out
}

// Kernel returns a copy of the unit-sum kernel taps
func (s *Smoother) Kernel() []float64 {
	taps := make([]float64, len(s.kernel))
	copy(taps, s.kernel)
	return taps
}

// GetConfig returns the resolved configuration, read back from the window
func (s *Smoother) GetConfig() Config {
	return Config{
		Kernel:     KernelType(s.window.GetType()),
		WindowSize: s.window.GetSize(),
		Std:        s.window.GetStd(),
	}
}

// Filter smooths one sequence with the kernel described by cfg
func Filter(data []float64, cfg Config) ([]float64, error) {
	s, err := NewSmoother(cfg)
	if err != nil {
		return nil, err
	}
	return s.Process(data), nil
}

// FilterBatch smooths each sequence of batch independently
func FilterBatch(batch [][]float64, cfg Config) (*mat.Dense, error) {
	s, err := NewSmoother(cfg)
	if err != nil {
		return nil, err
	}
	return s.ProcessBatch(batch)
}
