package dataset

import "github.com/RyanBlaney/sonido-freqset/algorithms/common"

// Re-exported so callers of this package need not import algorithms/common.
var (
	ErrInvalidParameter  = common.ErrInvalidParameter
	ErrUnsupportedShape  = common.ErrUnsupportedShape
	ErrUpstreamSynthesis = common.ErrUpstreamSynthesis
)
