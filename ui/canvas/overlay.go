// Package canvas provides overlay types for the plan canvas.
package canvas

import (
	"image/color"

	"planview/pkg/geometry"
)

// MarkerShape selects the glyph drawn at an overlay marker.
type MarkerShape int

const (
	MarkerDot      MarkerShape = iota
	MarkerSquare               // endpoint snap indicator
	MarkerDiamond              // midpoint snap indicator
	MarkerCross                // session vertex
)

// Overlay is a set of drawable items in world coordinates.
type Overlay struct {
	Lines    []OverlayLine
	Polygons []OverlayPolygon
	Markers  []OverlayMarker
	Labels   []OverlayLabel
	Color    color.RGBA
}

// OverlayLine is a line between two world points, optionally dashed for
// in-progress previews.
type OverlayLine struct {
	A, B   geometry.Point2D
	Dashed bool
}

// OverlayPolygon is a closed polygon outline.
type OverlayPolygon struct {
	Points []geometry.Point2D
	Closed bool
}

// OverlayMarker is a point glyph.
type OverlayMarker struct {
	At    geometry.Point2D
	Shape MarkerShape
}

// OverlayLabel is text anchored at a world point.
type OverlayLabel struct {
	At   geometry.Point2D
	Text string
}
