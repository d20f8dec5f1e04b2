package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"planview/internal/drawing"
	"planview/internal/snap"
	"planview/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func lineDoc(name string) *drawing.Document {
	a, b := pt(0, 0), pt(10, 0)
	return &drawing.Document{
		Name: name,
		Entities: []drawing.Entity{
			{Kind: drawing.EntityLine, Start: &a, End: &b},
		},
	}
}

func TestSetDrawingBuildsIndex(t *testing.T) {
	s := NewState()
	if s.SnapIndex() != nil {
		t.Fatal("index present before any drawing loaded")
	}

	s.SetDrawing("plan.plandwg.json", lineDoc("plan"))

	idx := s.SnapIndex()
	if idx == nil {
		t.Fatal("SnapIndex() = nil after SetDrawing")
	}
	if got := idx.Len(); got != 3 {
		t.Errorf("candidate count = %d, want 3", got)
	}
	if got := len(s.Primitives()); got != 1 {
		t.Errorf("primitive count = %d, want 1", got)
	}
}

func TestReloadClearsSessionAndSwapsIndex(t *testing.T) {
	s := NewState()
	s.SetDrawing("plan.plandwg.json", lineDoc("plan"))
	s.SetTool(ToolMeasure)

	s.PointerDown(pt(0, 0))
	if got := len(s.SessionPoints()); got != 1 {
		t.Fatalf("pending points = %d, want 1", got)
	}
	old := s.SnapIndex()

	// A reload invalidates the pending first point.
	s.SetDrawing("plan.plandwg.json", lineDoc("plan"))

	if got := s.SessionPoints(); len(got) != 0 {
		t.Errorf("pending points after reload = %v, want none", got)
	}
	if s.SnapIndex() == old {
		t.Error("index not replaced on reload")
	}

	// The next click starts a fresh pair rather than completing the old one.
	s.PointerDown(pt(3, 0))
	if diff := cmp.Diff([]geometry.Point2D{pt(3, 0)}, s.SessionPoints()); diff != "" {
		t.Errorf("points after post-reload click (-want +got):\n%s", diff)
	}
}

func TestToolSwitchClearsSessions(t *testing.T) {
	s := NewState()
	s.SetTool(ToolDimension)
	s.PointerDown(pt(1, 1))

	s.SetTool(ToolArea)
	s.PointerDown(pt(0, 0))
	s.PointerDown(pt(4, 0))

	s.SetTool(ToolDimension)
	if got := s.SessionPoints(); len(got) != 0 {
		t.Errorf("dimension points after switching away and back = %v, want none", got)
	}

	s.SetTool(ToolArea)
	if got := s.SessionPoints(); len(got) != 0 {
		t.Errorf("area vertices survived tool switch: %v", got)
	}
}

func TestEscapeClearsSession(t *testing.T) {
	s := NewState()
	s.SetTool(ToolMeasure)
	s.PointerDown(pt(1, 1))

	s.Escape()
	if got := s.SessionPoints(); len(got) != 0 {
		t.Errorf("points after escape = %v, want none", got)
	}
}

func TestCalibrationFlow(t *testing.T) {
	s := NewState()
	s.SetTool(ToolCalibrate)

	s.PointerDown(pt(0, 0))
	s.PointerDown(pt(10, 0))
	if !s.HasPendingCalibration() {
		t.Fatal("no pending calibration after two calibrate clicks")
	}

	// Unparseable input keeps the prompt alive for a retry.
	if err := s.CompleteCalibration("abc"); err == nil {
		t.Error("CompleteCalibration(abc) succeeded, want error")
	}
	if !s.HasPendingCalibration() {
		t.Fatal("pending calibration dropped after invalid input")
	}
	if err := s.CompleteCalibration("-2"); err == nil {
		t.Error("CompleteCalibration(-2) succeeded, want error")
	}

	if err := s.CompleteCalibration("5"); err != nil {
		t.Fatalf("CompleteCalibration(5): %v", err)
	}
	if got := s.Calibration().Distance(10); got != 5 {
		t.Errorf("Distance(10) = %v, want 5", got)
	}
	if got := s.Tool(); got != ToolMeasure {
		t.Errorf("tool after calibration = %v, want Measure", got)
	}
}

func TestCalibrationZeroLengthIgnored(t *testing.T) {
	s := NewState()
	s.SetTool(ToolCalibrate)

	s.PointerDown(pt(3, 3))
	s.PointerDown(pt(3, 3))
	if s.HasPendingCalibration() {
		t.Error("zero-length segment produced a calibration prompt")
	}
}

func TestCancelCalibrationKeepsPriorScale(t *testing.T) {
	s := NewState()
	if _, err := s.Calibration().Set(10, 5); err != nil {
		t.Fatal(err)
	}

	s.SetTool(ToolCalibrate)
	s.PointerDown(pt(0, 0))
	s.PointerDown(pt(4, 0))
	s.CancelCalibration()

	if s.HasPendingCalibration() {
		t.Error("prompt still pending after cancel")
	}
	if got := s.Calibration().Distance(10); got != 5 {
		t.Errorf("Distance(10) = %v, want prior scale preserved", got)
	}
}

func TestDimensionCompletionPersists(t *testing.T) {
	s := NewState()
	s.SetTool(ToolDimension)

	s.PointerDown(pt(0, 0))
	s.PointerDown(pt(3, 4))

	dims := s.Annotations().Dimensions()
	if len(dims) != 1 {
		t.Fatalf("dimension count = %d, want 1", len(dims))
	}
	if dims[0].Label != "5.000" {
		t.Errorf("label = %q, want %q", dims[0].Label, "5.000")
	}
	if got := s.SessionPoints(); len(got) != 0 {
		t.Errorf("session not reset after completing a dimension: %v", got)
	}
}

func TestAreaCompletionPersists(t *testing.T) {
	s := NewState()
	s.SetTool(ToolArea)

	for _, p := range []geometry.Point2D{pt(0, 0), pt(4, 0), pt(4, 4), pt(0, 4)} {
		s.PointerDown(p)
	}
	s.DoubleClick()

	areas := s.Annotations().Areas()
	if len(areas) != 1 {
		t.Fatalf("area count = %d, want 1", len(areas))
	}
	if areas[0].Label != "16.000" {
		t.Errorf("label = %q, want %q", areas[0].Label, "16.000")
	}
}

func TestDoubleClickIgnoredOutsideAreaTool(t *testing.T) {
	s := NewState()
	s.SetTool(ToolMeasure)
	s.PointerDown(pt(1, 1))
	s.DoubleClick()

	if got := len(s.SessionPoints()); got != 1 {
		t.Errorf("pending points = %d, want 1 (double click should not disturb measure)", got)
	}
}

func TestLiveDistanceLabel(t *testing.T) {
	s := NewState()
	s.SetTool(ToolMeasure)

	if _, ok := s.LiveDistanceLabel(pt(1, 1)); ok {
		t.Error("live label offered with no pending point")
	}

	s.PointerDown(pt(0, 0))
	label, ok := s.LiveDistanceLabel(pt(3, 4))
	if !ok || label != "5.000" {
		t.Errorf("live label = %q, %v; want %q, true", label, ok, "5.000")
	}
}

func TestSnapSettingsEvent(t *testing.T) {
	s := NewState()

	var got snap.Settings
	fired := false
	s.On(EventSnapSettingsChanged, func(data interface{}) {
		got = data.(snap.Settings)
		fired = true
	})

	want := snap.Settings{EnableEndpoint: true, EnableMidpoint: false, ThresholdPx: 20}
	s.SetSnapSettings(want)

	if !fired {
		t.Fatal("EventSnapSettingsChanged not emitted")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.SnapSettings()); diff != "" {
		t.Errorf("stored settings (-want +got):\n%s", diff)
	}
}
