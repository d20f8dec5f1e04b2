// Package snap builds the snap candidate index over drawing primitives and
// resolves the best snap target for a cursor position at a given zoom.
package snap

import (
	"planview/pkg/geometry"
)

// Kind classifies a snap candidate.
type Kind int

const (
	// KindEndpoint is a segment or polyline endpoint, or a mesh vertex.
	KindEndpoint Kind = iota
	// KindMidpoint is the arithmetic mean of a segment's endpoints.
	KindMidpoint
)

// Priority orders kinds for tie-breaking: endpoints beat midpoints when two
// candidates are near-equidistant from the cursor.
func (k Kind) Priority() int {
	switch k {
	case KindEndpoint:
		return 2
	case KindMidpoint:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEndpoint:
		return "endpoint"
	case KindMidpoint:
		return "midpoint"
	default:
		return "unknown"
	}
}

// Candidate is a point of interest eligible to be snapped to. Candidates are
// derived deterministically from primitives and never mutated per frame.
type Candidate struct {
	Position geometry.Point2D
	Kind     Kind
	SourceID string
}
