package dataset

import (
	"fmt"

	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
	"github.com/RyanBlaney/sonido-freqset/dataset/config"
)

// WaveData renders every selected shape at every offset for one frequency.
//
// Rows come out offset by offset; within an offset the shapes follow
// waveform expansion order (sawtooth, square, triangle, cosine,
// sawtooth+square, chirp) regardless of the order in cfg.Shapes. Every label
// equals freq. cfg.NOffset is ignored in favor of len(offsets). No noise is
// added. The first synthesis error aborts the call.
func WaveData(freq float64, offsets []float64, cfg config.GenerationConfig) ([][]float64, []float64, []waveform.Shape, error) {
	if err := cfg.ValidateRendering(); err != nil {
		return nil, nil, nil, err
	}
	shapes, err := waveform.CanonicalOrder(cfg.Shapes)
	if err != nil {
		return nil, nil, nil, err
	}

	rows := len(offsets) * len(shapes)
	signals := make([][]float64, 0, rows)
	labels := make([]float64, 0, rows)
	kinds := make([]waveform.Shape, 0, rows)

	err = renderFrequency(freq, offsets, shapes, cfg, func(signal []float64, shape waveform.Shape) error {
		signals = append(signals, signal)
		labels = append(labels, freq)
		kinds = append(kinds, shape)
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return signals, labels, kinds, nil
}

// renderFrequency synthesizes the (offset, shape) grid for freq and passes
// each waveform to emit. shapes must already be in expansion order.
func renderFrequency(freq float64, offsets []float64, shapes []waveform.Shape, cfg config.GenerationConfig, emit func([]float64, waveform.Shape) error) error {
	for _, offset := range offsets {
		for _, shape := range shapes {
			signal, err := waveform.Synthesize(shape, waveform.Params{
				Frequency: freq,
				Offset:    offset,
				Duration:  cfg.Duration,
				Framerate: cfg.Framerate,
			})
			if err != nil {
				return fmt.Errorf("frequency %v offset %v: %w", freq, offset, err)
			}
			if err := emit(signal, shape); err != nil {
				return err
			}
		}
	}
	return nil
}
