package canvas

import (
	"math"
	"os"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"planview/pkg/geometry"
)

func TestMain(m *testing.M) {
	test.NewApp()
	os.Exit(m.Run())
}

func sizedCanvas(w, h int) *PlanCanvas {
	pc := NewPlanCanvas()
	pc.draw(w, h)
	return pc
}

func TestViewportMatchesCamera(t *testing.T) {
	pc := sizedCanvas(800, 500)
	pc.zoom = 2

	vp := pc.Viewport()
	if vp.ZoomFactor != 2 || vp.PixelHeight != 500 || vp.WorldFrustumHeight != defaultFrustumHeight {
		t.Errorf("viewport = %+v", vp)
	}

	upp, ok := vp.UnitsPerPixel()
	if !ok {
		t.Fatal("degenerate viewport")
	}
	if want := defaultFrustumHeight / (2 * 500); upp != want {
		t.Errorf("upp = %v, want %v", upp, want)
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	pc := sizedCanvas(800, 500)
	pc.center = geometry.Point2D{X: 30, Y: -12}
	pc.zoom = 1.6

	world := pc.ScreenToWorld(fyne.Position{X: 613, Y: 77})
	x, y := pc.worldToScreen(world)
	if x != 613 || y != 77 {
		t.Errorf("round trip gave (%d, %d), want (613, 77)", x, y)
	}
}

func TestScreenToWorldYAxisUp(t *testing.T) {
	pc := sizedCanvas(800, 500)

	top := pc.ScreenToWorld(fyne.Position{X: 400, Y: 0})
	bottom := pc.ScreenToWorld(fyne.Position{X: 400, Y: 500})
	if top.Y <= bottom.Y {
		t.Errorf("top.Y = %v, bottom.Y = %v; want top above bottom", top.Y, bottom.Y)
	}
	if top.X != bottom.X {
		t.Errorf("vertical screen line not vertical in world: %v vs %v", top.X, bottom.X)
	}
}

func TestCenterMapsToScreenCenter(t *testing.T) {
	pc := sizedCanvas(800, 500)
	pc.center = geometry.Point2D{X: 7, Y: 9}

	x, y := pc.worldToScreen(pc.center)
	if x != 400 || y != 250 {
		t.Errorf("center at (%d, %d), want (400, 250)", x, y)
	}
}

func TestFitToBoundsCentersAndCovers(t *testing.T) {
	pc := sizedCanvas(800, 500)
	bounds := geometry.NewRect(0, 0, 400, 100)
	pc.FitToBounds(bounds)

	if got := pc.center; got != bounds.Center() {
		t.Errorf("center = %v, want %v", got, bounds.Center())
	}
	if pc.zoom != 1 {
		t.Errorf("zoom = %v, want 1 after fit", pc.zoom)
	}

	// The whole rect must be inside the frustum.
	upp := pc.UnitsPerPixel()
	visibleW := upp * 800
	visibleH := upp * 500
	if visibleW < 400 || visibleH < 100 {
		t.Errorf("visible area %vx%v does not cover 400x100", visibleW, visibleH)
	}
}

func TestSetZoomClamps(t *testing.T) {
	pc := sizedCanvas(800, 500)

	pc.SetZoom(1e6)
	if pc.Zoom() != maxZoom {
		t.Errorf("zoom = %v, want clamped to %v", pc.Zoom(), maxZoom)
	}
	pc.SetZoom(0)
	if pc.Zoom() != minZoom {
		t.Errorf("zoom = %v, want clamped to %v", pc.Zoom(), minZoom)
	}
}

func TestUnitsPerPixelZeroBeforeFirstDraw(t *testing.T) {
	pc := NewPlanCanvas()
	if got := pc.UnitsPerPixel(); got != 0 {
		t.Errorf("upp before first draw = %v, want 0", got)
	}
}

func TestZoomHalvesUnitsPerPixel(t *testing.T) {
	pc := sizedCanvas(800, 500)
	before := pc.UnitsPerPixel()
	pc.SetZoom(pc.Zoom() * 2)
	after := pc.UnitsPerPixel()
	if math.Abs(after-before/2) > 1e-12 {
		t.Errorf("upp after doubling zoom = %v, want %v", after, before/2)
	}
}
