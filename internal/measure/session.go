package measure

import (
	"planview/pkg/geometry"
)

// PointSession is the two-point collector shared by the measure, calibrate,
// and dimension tools. Each tool owns its own session parameterized by an
// on-complete callback instead of branching on tool identity inside one
// handler. States: empty → one point → (complete) → empty, or, for a holding
// session, empty → one point → pair held until the next point restarts it.
type PointSession struct {
	points     []geometry.Point2D
	hold       bool
	onComplete func(a, b geometry.Point2D)
}

// NewPointSession creates a collector. When hold is true a completed pair
// stays visible until the next point starts a fresh pair (the measure tool);
// otherwise the session resets immediately on completion (calibrate,
// dimension). onComplete fires once per completed pair and may be nil.
func NewPointSession(hold bool, onComplete func(a, b geometry.Point2D)) *PointSession {
	return &PointSession{hold: hold, onComplete: onComplete}
}

// Add feeds the next effective point (snap-resolved when a snap was hit,
// otherwise the raw cursor position) into the session.
func (s *PointSession) Add(p geometry.Point2D) {
	switch len(s.points) {
	case 0:
		s.points = []geometry.Point2D{p}
	case 1:
		a := s.points[0]
		if s.hold {
			s.points = []geometry.Point2D{a, p}
		} else {
			s.points = nil
		}
		if s.onComplete != nil {
			s.onComplete(a, p)
		}
	default:
		// A held pair restarts with the new point as the first of a new pair.
		s.points = []geometry.Point2D{p}
	}
}

// Points returns the collected points: zero, one, or (held) two.
func (s *PointSession) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.points))
	copy(out, s.points)
	return out
}

// Pending reports whether a first point is waiting for its pair.
func (s *PointSession) Pending() bool {
	return len(s.points) == 1
}

// Clear drops any collected points. Used for implicit cancellation: Escape,
// tool switches, and geometry reloads, which all invalidate pending points.
func (s *PointSession) Clear() {
	s.points = nil
}

// AreaSession collects polygon vertices for the area tool. Vertices grow one
// per pointer-down; a double-click closes the polygon once at least three
// vertices exist.
type AreaSession struct {
	vertices   []geometry.Point2D
	onComplete func(polygon []geometry.Point2D, rawArea float64)
}

// NewAreaSession creates an area collector. onComplete receives the closed
// polygon and its raw shoelace area in squared drawing units.
func NewAreaSession(onComplete func(polygon []geometry.Point2D, rawArea float64)) *AreaSession {
	return &AreaSession{onComplete: onComplete}
}

// Add appends the next vertex.
func (s *AreaSession) Add(p geometry.Point2D) {
	s.vertices = append(s.vertices, p)
}

// Close completes the polygon. With fewer than three vertices it is a no-op
// and returns false, leaving the session untouched so the user can keep
// adding points. On success the vertex list is cleared.
func (s *AreaSession) Close() bool {
	if len(s.vertices) < 3 {
		return false
	}
	polygon := s.vertices
	s.vertices = nil
	if s.onComplete != nil {
		s.onComplete(polygon, geometry.PolygonArea(polygon))
	}
	return true
}

// Vertices returns a snapshot of the collected vertices.
func (s *AreaSession) Vertices() []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Clear drops all collected vertices.
func (s *AreaSession) Clear() {
	s.vertices = nil
}
