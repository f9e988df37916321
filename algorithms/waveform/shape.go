package waveform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RyanBlaney/sonido-freqset/algorithms/common"
)

// Shape enumerates the waveform families the synthesizers can produce.
// The declaration order is the order in which a shape set is expanded into
// dataset rows.
type Shape int

const (
	Sawtooth Shape = iota
	Square
	Triangle
	Cosine
	SawtoothSquare
	Chirp

	numShapes
)

var shapeTags = [numShapes]string{
	Sawtooth:       "sawtooth",
	Square:         "square",
	Triangle:       "triangle",
	Cosine:         "cosine",
	SawtoothSquare: "sawtooth+square",
	Chirp:          "chirp",
}

// String returns the shape tag, e.g. "sawtooth+square"
func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeTags[s]
}

// Valid reports whether s is one of the declared shapes
func (s Shape) Valid() bool {
	return s >= Sawtooth && s < numShapes
}

// AcceptsNoise reports whether the synthesizer for s takes a noise ratio
func (s Shape) AcceptsNoise() bool {
	switch s {
	case Sawtooth, Square, Chirp:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("shape %d: %w", int(s), common.ErrUnsupportedShape)
	}
	return []byte(shapeTags[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllShapes returns every shape in expansion order
func AllShapes() []Shape {
	shapes := make([]Shape, 0, numShapes)
	for s := Sawtooth; s < numShapes; s++ {
		shapes = append(shapes, s)
	}
	return shapes
}

// ParseShape maps a tag to its Shape. Matching ignores case and surrounding
// whitespace; unknown tags fail with ErrUnsupportedShape.
func ParseShape(tag string) (Shape, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	for s, known := range shapeTags {
		if normalized == known {
			return Shape(s), nil
		}
	}
	return 0, fmt.Errorf("shape tag %q: %w", tag, common.ErrUnsupportedShape)
}

// ParseShapes parses every tag, failing on the first unknown one
func ParseShapes(tags []string) ([]Shape, error) {
	shapes := make([]Shape, 0, len(tags))
	for _, tag := range tags {
		s, err := ParseShape(tag)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// CanonicalOrder returns the distinct members of shapes in expansion order.
// Membership is all that matters: duplicates collapse and input order is
// ignored.
func CanonicalOrder(shapes []Shape) ([]Shape, error) {
	var present [numShapes]bool
	for _, s := range shapes {
		if !s.Valid() {
			return nil, fmt.Errorf("shape %d: %w", int(s), common.ErrUnsupportedShape)
		}
		present[s] = true
	}

	ordered := make([]Shape, 0, len(shapes))
	for s := Sawtooth; s < numShapes; s++ {
		if present[s] {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// Tags converts shapes to their tags
func Tags(shapes []Shape) []string {
	tags := make([]string, len(shapes))
	for i, s := range shapes {
		tags[i] = s.String()
	}
	return tags
}

// ContainsShape reports whether shapes includes s
func ContainsShape(shapes []Shape, s Shape) bool {
	return slices.Contains(shapes, s)
}
