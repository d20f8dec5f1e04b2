// Package app provides application state, events, and the tool orchestration
// that routes pointer events into measurement sessions.
package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"planview/internal/drawing"
	"planview/internal/measure"
	"planview/internal/snap"
	"planview/internal/underlay"
	"planview/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventDrawingLoaded EventType = iota
	EventProjectLoaded
	EventProjectSaved
	EventToolChanged
	EventSnapSettingsChanged
	EventUnderlayChanged
	EventCalibrationChanged
	EventAnnotationsChanged
	EventSessionChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the loaded drawing, the snap index, the calibration and
// annotation stores, and the per-tool measurement sessions.
//
// Drawing data and the snap index are guarded by a mutex and replaced by
// whole-reference swap: a resolver query sees either the previous complete
// index or the new one, never a partial build. The sessions themselves run
// on the UI event loop only.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Drawing
	drawingPath string
	drawingName string
	primitives  []drawing.Primitive
	bounds      geometry.Rect
	snapIndex   *snap.Index

	// Underlay
	underlay *underlay.Underlay

	// Interaction
	tool         Tool
	snapSettings snap.Settings

	// Stores
	calibration *measure.CalibrationStore
	annotations *measure.AnnotationStore

	// Sessions (UI event loop only)
	measureSession   *measure.PointSession
	calibrateSession *measure.PointSession
	dimensionSession *measure.PointSession
	areaSession      *measure.AreaSession

	// A completed calibrate pair awaiting the user's real-world value.
	pendingCalibration    float64
	hasPendingCalibration bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new application state with default snap settings and
// the hand tool active.
func NewState() *State {
	s := &State{
		tool:         ToolHand,
		snapSettings: snap.DefaultSettings(),
		calibration:  measure.NewCalibrationStore(),
		annotations:  measure.NewAnnotationStore(),
		listeners:    make(map[EventType][]EventListener),
	}

	s.measureSession = measure.NewPointSession(true, nil)
	s.calibrateSession = measure.NewPointSession(false, s.calibratePairDone)
	s.dimensionSession = measure.NewPointSession(false, s.dimensionPairDone)
	s.areaSession = measure.NewAreaSession(s.areaDone)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadDrawing loads a normalized drawing document from a JSON file, flattens
// it, and rebuilds the snap index.
func (s *State) LoadDrawing(path string) error {
	doc, err := drawing.LoadDocument(path)
	if err != nil {
		return fmt.Errorf("load drawing: %w", err)
	}
	s.SetDrawing(path, doc)
	return nil
}

// SetDrawing replaces the current drawing with a flattened document. The new
// snap index is built in full before the old reference is discarded, so a
// concurrent resolver query never observes a torn index. Any in-progress
// session points reference pre-reload coordinates and are cleared.
func (s *State) SetDrawing(path string, doc *drawing.Document) {
	primitives, stats := drawing.Flatten(doc)
	index := snap.Build(primitives)
	bounds := drawing.Bounds(primitives)

	s.mu.Lock()
	s.drawingPath = path
	s.drawingName = doc.Name
	s.primitives = primitives
	s.bounds = bounds
	s.snapIndex = index
	s.mu.Unlock()

	s.clearSessions()

	slog.Info("drawing loaded",
		"path", path,
		"entities", stats.Entities,
		"primitives", stats.Emitted,
		"skipped", stats.Skipped,
		"candidates", index.Len())

	s.SetModified(true)
	s.Emit(EventDrawingLoaded, path)
}

// SnapIndex returns the current snap index (possibly nil before any load).
func (s *State) SnapIndex() *snap.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapIndex
}

// Primitives returns the flattened world-space primitives for rendering.
func (s *State) Primitives() []drawing.Primitive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primitives
}

// Bounds returns the bounding box of the loaded drawing.
func (s *State) Bounds() geometry.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// DrawingPath returns the path of the loaded drawing file, if any.
func (s *State) DrawingPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawingPath
}

// Tool returns the active tool.
func (s *State) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool activates a tool. Switching clears in-progress sessions (implicit
// cancellation) and any calibration prompt left unanswered.
func (s *State) SetTool(tool Tool) {
	s.mu.Lock()
	if s.tool == tool {
		s.mu.Unlock()
		return
	}
	s.tool = tool
	s.mu.Unlock()

	s.clearSessions()
	s.Emit(EventToolChanged, tool)
}

// SnapSettings returns the active snap settings.
func (s *State) SnapSettings() snap.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapSettings
}

// SetSnapSettings replaces the snap settings.
func (s *State) SetSnapSettings(settings snap.Settings) {
	s.mu.Lock()
	s.snapSettings = settings
	s.mu.Unlock()
	s.Emit(EventSnapSettingsChanged, settings)
}

// Underlay returns the raster underlay, if one is loaded.
func (s *State) Underlay() *underlay.Underlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.underlay
}

// LoadUnderlay loads a raster plan image to render behind the drawing.
func (s *State) LoadUnderlay(path string) error {
	u, err := underlay.Load(path)
	if err != nil {
		return fmt.Errorf("load underlay: %w", err)
	}

	s.mu.Lock()
	s.underlay = u
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventUnderlayChanged, u)
	return nil
}

// SetUnderlayOpacity adjusts the underlay's render opacity.
func (s *State) SetUnderlayOpacity(opacity float64) {
	s.mu.Lock()
	if s.underlay == nil {
		s.mu.Unlock()
		return
	}
	s.underlay.Opacity = opacity
	s.mu.Unlock()
	s.Emit(EventUnderlayChanged, nil)
}

// Calibration returns the calibration store.
func (s *State) Calibration() *measure.CalibrationStore {
	return s.calibration
}

// Annotations returns the annotation store.
func (s *State) Annotations() *measure.AnnotationStore {
	return s.annotations
}

// PointerDown feeds an effective point (snap-resolved when a snap was hit,
// else the raw cursor world position) into the session of the active tool.
func (s *State) PointerDown(p geometry.Point2D) {
	switch s.Tool() {
	case ToolMeasure:
		s.measureSession.Add(p)
	case ToolCalibrate:
		s.calibrateSession.Add(p)
	case ToolDimension:
		s.dimensionSession.Add(p)
	case ToolArea:
		s.areaSession.Add(p)
	}
	s.Emit(EventSessionChanged, nil)
}

// DoubleClick closes the area polygon when the area tool is active. With
// fewer than three vertices it is ignored and the session is preserved.
func (s *State) DoubleClick() {
	if s.Tool() != ToolArea {
		return
	}
	if s.areaSession.Close() {
		s.Emit(EventSessionChanged, nil)
	}
}

// Escape clears any in-progress session points, as does a tool switch or a
// drawing reload.
func (s *State) Escape() {
	s.clearSessions()
	s.Emit(EventSessionChanged, nil)
}

// MeasurePoints returns the measure tool's current points (live pair).
func (s *State) MeasurePoints() []geometry.Point2D {
	return s.measureSession.Points()
}

// SessionPoints returns the pending points of the active tool's session, for
// preview rendering.
func (s *State) SessionPoints() []geometry.Point2D {
	switch s.Tool() {
	case ToolMeasure:
		return s.measureSession.Points()
	case ToolCalibrate:
		return s.calibrateSession.Points()
	case ToolDimension:
		return s.dimensionSession.Points()
	case ToolArea:
		return s.areaSession.Vertices()
	default:
		return nil
	}
}

// LiveDistanceLabel formats the distance from the session's pending first
// point to the cursor, for the dashed preview label. ok is false when no
// point is pending.
func (s *State) LiveDistanceLabel(cursor geometry.Point2D) (string, bool) {
	pts := s.SessionPoints()
	if len(pts) != 1 {
		return "", false
	}
	return s.calibration.DistanceLabel(pts[0].Distance(cursor)), true
}

// HasPendingCalibration reports whether a calibrate pair is waiting for the
// user's real-world value.
func (s *State) HasPendingCalibration() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPendingCalibration
}

// PendingCalibrationDistance returns the world length of the calibrate pair
// awaiting a value, or 0 when none is pending.
func (s *State) PendingCalibrationDistance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasPendingCalibration {
		return 0
	}
	return s.pendingCalibration
}

// CompleteCalibration parses the user's real-world value and installs the
// new scale. On success the active tool switches to Measure. A value that
// does not parse or is not positive is rejected and the prompt state is kept
// so the user can be asked again.
func (s *State) CompleteCalibration(input string) error {
	s.mu.RLock()
	world, pending := s.pendingCalibration, s.hasPendingCalibration
	s.mu.RUnlock()
	if !pending {
		return fmt.Errorf("no calibration in progress")
	}

	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", measure.ErrInvalidCalibration, input)
	}

	scale, err := s.calibration.Set(world, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hasPendingCalibration = false
	s.pendingCalibration = 0
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventCalibrationChanged, scale)
	s.SetTool(ToolMeasure)
	return nil
}

// CancelCalibration discards a pending calibration prompt, keeping any prior
// scale unchanged.
func (s *State) CancelCalibration() {
	s.mu.Lock()
	s.hasPendingCalibration = false
	s.pendingCalibration = 0
	s.mu.Unlock()
}

// ClearDimensions removes all dimension annotations.
func (s *State) ClearDimensions() {
	s.annotations.ClearDimensions()
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, nil)
}

// ClearAreas removes all area annotations.
func (s *State) ClearAreas() {
	s.annotations.ClearAreas()
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, nil)
}

// calibratePairDone runs when the calibrate session completes a pair. A
// zero-length segment cannot define a scale and is dropped outright.
func (s *State) calibratePairDone(a, b geometry.Point2D) {
	world := a.Distance(b)
	if world <= 0 {
		slog.Warn("calibration segment has zero length, ignoring")
		return
	}
	s.mu.Lock()
	s.pendingCalibration = world
	s.hasPendingCalibration = true
	s.mu.Unlock()
}

// dimensionPairDone persists a completed dimension annotation. The session
// resets itself, so the next dimension can start immediately.
func (s *State) dimensionPairDone(a, b geometry.Point2D) {
	label := s.calibration.DistanceLabel(a.Distance(b))
	s.annotations.AddDimension(measure.Dimension{A: a, B: b, Label: label})
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, nil)
}

// areaDone persists a completed area annotation.
func (s *State) areaDone(polygon []geometry.Point2D, rawArea float64) {
	label := s.calibration.AreaLabel(rawArea)
	s.annotations.AddArea(measure.Area{Polygon: polygon, Label: label})
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, nil)
}

// clearSessions drops all in-progress points and any unanswered calibration
// prompt. Persisted annotations and the calibration scale are unaffected.
func (s *State) clearSessions() {
	s.measureSession.Clear()
	s.calibrateSession.Clear()
	s.dimensionSession.Clear()
	s.areaSession.Clear()
	s.CancelCalibration()
}
