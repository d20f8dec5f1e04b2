package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"planview/internal/measure"
	"planview/pkg/geometry"
)

func writeDrawingFile(t *testing.T, dir string) string {
	t.Helper()
	doc := lineDoc("floor1")
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "floor1.plandwg.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	drawingPath := writeDrawingFile(t, dir)
	projPath := filepath.Join(dir, "site.planproj")

	s := NewState()
	if err := s.LoadDrawing(drawingPath); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Calibration().Set(10, 2.5); err != nil {
		t.Fatal(err)
	}
	s.Annotations().AddDimension(measure.Dimension{
		A: pt(0, 0), B: pt(10, 0), Label: "2.500 m",
	})
	s.Annotations().AddArea(measure.Area{
		Polygon: []geometry.Point2D{pt(0, 0), pt(4, 0), pt(4, 4)},
		Label:   "0.500 m²",
	})

	if err := s.SaveProject(projPath); err != nil {
		t.Fatal(err)
	}
	if s.Modified {
		t.Error("state still modified after save")
	}

	loaded := NewState()
	if err := loaded.LoadProject(projPath); err != nil {
		t.Fatal(err)
	}

	if got := loaded.SnapIndex(); got == nil || got.Len() != 3 {
		t.Error("drawing not reloaded through project reference")
	}
	scale, ok := loaded.Calibration().Active()
	if !ok || scale.WorldDistance != 10 || scale.RealValue != 2.5 {
		t.Errorf("calibration = %+v, %v; want {10 2.5 m}, true", scale, ok)
	}
	if diff := cmp.Diff(s.Annotations().Dimensions(), loaded.Annotations().Dimensions()); diff != "" {
		t.Errorf("dimensions (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(s.Annotations().Areas(), loaded.Annotations().Areas()); diff != "" {
		t.Errorf("areas (-saved +loaded):\n%s", diff)
	}
}

func TestProjectWithoutCalibration(t *testing.T) {
	dir := t.TempDir()
	projPath := filepath.Join(dir, "empty.planproj")

	s := NewState()
	if err := s.SaveProject(projPath); err != nil {
		t.Fatal(err)
	}

	loaded := NewState()
	if _, err := loaded.Calibration().Set(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := loaded.LoadProject(projPath); err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded.Calibration().Active(); ok {
		t.Error("stale calibration survived loading an uncalibrated project")
	}
}

func TestWatchDrawingNilWithoutDrawing(t *testing.T) {
	s := NewState()
	if w := s.WatchDrawing(0); w != nil {
		t.Error("watcher created with no drawing loaded")
	}
}

func TestLoadDrawingMissingFile(t *testing.T) {
	s := NewState()
	if err := s.LoadDrawing(filepath.Join(t.TempDir(), "nope.plandwg.json")); err == nil {
		t.Error("LoadDrawing on missing file succeeded")
	}
}
