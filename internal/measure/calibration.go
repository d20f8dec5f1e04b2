// Package measure provides the point-collection sessions for distance
// measurement, scale calibration, dimension annotation, and polygon area, plus
// the stores holding the calibration scale and completed annotations.
package measure

import (
	"errors"
	"math"
	"sync"
)

// DefaultUnit is the real-world unit assigned by the calibrate tool.
const DefaultUnit = "m"

// ErrInvalidCalibration is returned when a calibration is rejected: a
// non-positive real-world value or a zero-length calibration segment.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Scale converts generic drawing units into real-world units. At most one
// scale is active at a time; it is replaced in full, never patched.
type Scale struct {
	WorldDistance float64 `json:"world_distance"`
	RealValue     float64 `json:"real_value"`
	Unit          string  `json:"unit"`
}

// Factor returns the calibration factor realValue / worldDistance.
func (s Scale) Factor() float64 {
	return s.RealValue / s.WorldDistance
}

// CalibrationStore owns the single active calibration scale. It is an
// explicit store handed to whoever needs conversions, so tests can construct
// isolated instances.
type CalibrationStore struct {
	mu    sync.RWMutex
	scale *Scale
}

// NewCalibrationStore creates a store with no active scale.
func NewCalibrationStore() *CalibrationStore {
	return &CalibrationStore{}
}

// Set replaces the active scale. The world distance must be strictly
// positive (a zero-length calibration segment is rejected) and so must the
// real-world value; on rejection the prior scale is left untouched.
func (c *CalibrationStore) Set(worldDistance, realValue float64) (Scale, error) {
	if worldDistance <= 0 || math.IsNaN(worldDistance) || math.IsInf(worldDistance, 0) {
		return Scale{}, ErrInvalidCalibration
	}
	if realValue <= 0 || math.IsNaN(realValue) || math.IsInf(realValue, 0) {
		return Scale{}, ErrInvalidCalibration
	}

	s := Scale{WorldDistance: worldDistance, RealValue: realValue, Unit: DefaultUnit}
	c.mu.Lock()
	c.scale = &s
	c.mu.Unlock()
	return s, nil
}

// Active returns the current scale, if any.
func (c *CalibrationStore) Active() (Scale, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scale == nil {
		return Scale{}, false
	}
	return *c.scale, true
}

// Clear removes the active scale.
func (c *CalibrationStore) Clear() {
	c.mu.Lock()
	c.scale = nil
	c.mu.Unlock()
}

// Distance converts a raw drawing-unit distance for display. Without an
// active scale the raw value passes through unchanged.
func (c *CalibrationStore) Distance(raw float64) float64 {
	if s, ok := c.Active(); ok {
		return raw / s.WorldDistance * s.RealValue
	}
	return raw
}

// Area converts a raw squared-drawing-unit area for display, scaling by the
// squared calibration factor.
func (c *CalibrationStore) Area(raw float64) float64 {
	if s, ok := c.Active(); ok {
		f := s.Factor()
		return raw * f * f
	}
	return raw
}
