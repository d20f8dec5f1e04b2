package measure

import (
	"sync"

	"planview/pkg/geometry"
)

// Dimension is a completed two-point dimension annotation.
type Dimension struct {
	A     geometry.Point2D `json:"a"`
	B     geometry.Point2D `json:"b"`
	Label string           `json:"label"`
}

// Area is a completed polygon area annotation. The polygon has at least
// three vertices in insertion order.
type Area struct {
	Polygon []geometry.Point2D `json:"polygon"`
	Label   string             `json:"label"`
}

// AnnotationStore holds completed annotations, partitioned by kind so
// dimensions and areas can be cleared independently. Annotations are
// append-only; there is no per-item mutation, only bulk clear. Render order
// is insertion order.
type AnnotationStore struct {
	mu         sync.RWMutex
	dimensions []Dimension
	areas      []Area
}

// NewAnnotationStore creates an empty store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{}
}

// AddDimension appends a dimension annotation.
func (s *AnnotationStore) AddDimension(d Dimension) {
	s.mu.Lock()
	s.dimensions = append(s.dimensions, d)
	s.mu.Unlock()
}

// AddArea appends an area annotation.
func (s *AnnotationStore) AddArea(a Area) {
	s.mu.Lock()
	s.areas = append(s.areas, a)
	s.mu.Unlock()
}

// Dimensions returns a snapshot of all dimension annotations in insertion
// order.
func (s *AnnotationStore) Dimensions() []Dimension {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Dimension, len(s.dimensions))
	copy(out, s.dimensions)
	return out
}

// Areas returns a snapshot of all area annotations in insertion order.
func (s *AnnotationStore) Areas() []Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Area, len(s.areas))
	copy(out, s.areas)
	return out
}

// ClearDimensions removes all dimension annotations, leaving areas intact.
func (s *AnnotationStore) ClearDimensions() {
	s.mu.Lock()
	s.dimensions = nil
	s.mu.Unlock()
}

// ClearAreas removes all area annotations, leaving dimensions intact.
func (s *AnnotationStore) ClearAreas() {
	s.mu.Lock()
	s.areas = nil
	s.mu.Unlock()
}

// Restore replaces the store contents wholesale, used when loading a project.
func (s *AnnotationStore) Restore(dimensions []Dimension, areas []Area) {
	s.mu.Lock()
	s.dimensions = append([]Dimension(nil), dimensions...)
	s.areas = append([]Area(nil), areas...)
	s.mu.Unlock()
}
