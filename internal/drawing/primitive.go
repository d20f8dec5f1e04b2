// Package drawing holds the normalized drawing document: the entity tree
// produced by format-specific converters and the flattened world-space
// primitives consumed by the snap index and the canvas.
package drawing

import (
	"planview/pkg/geometry"
)

// PrimitiveKind identifies the closed set of primitive variants. The kind is
// resolved once during flattening and never re-derived downstream.
type PrimitiveKind int

const (
	// PrimitiveSegment is a single straight segment between two points.
	PrimitiveSegment PrimitiveKind = iota
	// PrimitivePolySegment is a chain of connected points, optionally closed.
	PrimitivePolySegment
	// PrimitiveMeshVertices is a bag of vertices without edge information.
	PrimitiveMeshVertices
)

// String returns a human-readable name for the kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveSegment:
		return "segment"
	case PrimitivePolySegment:
		return "polysegment"
	case PrimitiveMeshVertices:
		return "mesh"
	default:
		return "unknown"
	}
}

// Primitive is a world-space geometry unit, independent of the source file
// format. All coordinates are post block-transform. Primitives are built once
// per drawing load and never mutated afterwards.
type Primitive struct {
	Kind     PrimitiveKind
	SourceID string

	// A and B are the endpoints of a Segment.
	A, B geometry.Point2D

	// Points holds the vertex chain of a PolySegment or the vertices of a
	// MeshVertices primitive.
	Points []geometry.Point2D

	// Closed marks a PolySegment whose last point connects back to the first.
	Closed bool
}

// NewSegment creates a segment primitive.
func NewSegment(sourceID string, a, b geometry.Point2D) Primitive {
	return Primitive{Kind: PrimitiveSegment, SourceID: sourceID, A: a, B: b}
}

// NewPolySegment creates a poly-segment primitive.
func NewPolySegment(sourceID string, points []geometry.Point2D, closed bool) Primitive {
	return Primitive{Kind: PrimitivePolySegment, SourceID: sourceID, Points: points, Closed: closed}
}

// NewMeshVertices creates a mesh-vertex primitive.
func NewMeshVertices(sourceID string, points []geometry.Point2D) Primitive {
	return Primitive{Kind: PrimitiveMeshVertices, SourceID: sourceID, Points: points}
}

// Valid reports whether the primitive carries the coordinate data its kind
// requires, with all coordinates finite.
func (p Primitive) Valid() bool {
	switch p.Kind {
	case PrimitiveSegment:
		return p.A.IsFinite() && p.B.IsFinite()
	case PrimitivePolySegment:
		if len(p.Points) < 2 {
			return false
		}
	case PrimitiveMeshVertices:
		if len(p.Points) == 0 {
			return false
		}
	default:
		return false
	}
	for _, pt := range p.Points {
		if !pt.IsFinite() {
			return false
		}
	}
	return true
}

// Vertices returns every vertex of the primitive, in order. For segments this
// is the two endpoints.
func (p Primitive) Vertices() []geometry.Point2D {
	if p.Kind == PrimitiveSegment {
		return []geometry.Point2D{p.A, p.B}
	}
	return p.Points
}

// Bounds computes the bounding box of a primitive set.
func Bounds(primitives []Primitive) geometry.Rect {
	var all []geometry.Point2D
	for _, p := range primitives {
		all = append(all, p.Vertices()...)
	}
	return geometry.BoundingBox(all)
}
