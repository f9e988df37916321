package common

import "errors"

// Error classes shared by the synthesis, filtering and dataset packages.
// Callers branch with errors.Is; implementations wrap them with %w.
var (
	// ErrInvalidParameter covers non-positive durations, framerates, window
	// sizes and deviations, empty shape lists and reversed frequency ranges.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedShape is returned for waveform shape tags outside the
	// recognized set.
	ErrUnsupportedShape = errors.New("unsupported waveform shape")

	// ErrUpstreamSynthesis marks a signal primitive that produced unusable
	// output (NaN or Inf samples).
	ErrUpstreamSynthesis = errors.New("waveform synthesis failed")
)
