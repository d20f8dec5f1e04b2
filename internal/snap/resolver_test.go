package snap

import (
	"math"
	"testing"

	"planview/internal/drawing"
	"planview/pkg/geometry"
)

// testViewport yields unitsPerPixel = 0.2: 100 world units over 500 pixels.
var testViewport = Viewport{ZoomFactor: 1, PixelHeight: 500, WorldFrustumHeight: 100}

func TestResolveEndToEnd(t *testing.T) {
	// Segment (0,0)-(10,0); cursor near the midpoint. thresholdWorld =
	// 10px * 0.2 * 1.5 = 3, so the midpoint at distance ~0.224 snaps.
	ix := Build([]drawing.Primitive{
		drawing.NewSegment("s1", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
	})

	res, ok := Resolve(geometry.NewPoint2D(5.2, 0.1), ix, testViewport, DefaultSettings())
	if !ok {
		t.Fatal("expected a snap result")
	}
	if res.Kind != KindMidpoint {
		t.Errorf("kind = %v, want midpoint", res.Kind)
	}
	if res.Position != geometry.NewPoint2D(5, 0) {
		t.Errorf("position = %v, want (5,0)", res.Position)
	}
}

func TestResolveRespectsThreshold(t *testing.T) {
	ix := Build([]drawing.Primitive{
		drawing.NewSegment("s1", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
	})

	// Nearest candidate is the midpoint at distance 4, threshold is 3.
	if _, ok := Resolve(geometry.NewPoint2D(5, 4), ix, testViewport, DefaultSettings()); ok {
		t.Error("candidate beyond thresholdWorld must not snap")
	}

	// Exactly at the threshold is also out (strict inequality).
	if _, ok := Resolve(geometry.NewPoint2D(5, 3), ix, testViewport, DefaultSettings()); ok {
		t.Error("candidate at exactly thresholdWorld must not snap")
	}
}

func TestResolveTieBreakPrefersEndpoint(t *testing.T) {
	// Endpoint at distance 1.00, midpoint at 0.95: within the near-tie
	// window the endpoint wins even though the midpoint is closer.
	ix := newIndex([]Candidate{
		{Position: geometry.NewPoint2D(1.00, 0), Kind: KindEndpoint, SourceID: "e"},
		{Position: geometry.NewPoint2D(-0.95, 0), Kind: KindMidpoint, SourceID: "m"},
	})

	// thresholdWorld = 33.33px * 0.2 * 1.5 = 10, tie window 1.
	st := Settings{EnableEndpoint: true, EnableMidpoint: true, ThresholdPx: 100.0 / 3.0}
	res, ok := Resolve(geometry.Point2D{}, ix, testViewport, st)
	if !ok {
		t.Fatal("expected a snap result")
	}
	if res.Kind != KindEndpoint {
		t.Errorf("near-tie resolved to %v, want endpoint", res.Kind)
	}
}

func TestResolveClosestWinsOutsideTieWindow(t *testing.T) {
	ix := newIndex([]Candidate{
		{Position: geometry.NewPoint2D(2.5, 0), Kind: KindEndpoint, SourceID: "e"},
		{Position: geometry.NewPoint2D(-0.5, 0), Kind: KindMidpoint, SourceID: "m"},
	})

	// thresholdWorld = 3, tie window 0.3; distance gap is 2.
	res, ok := Resolve(geometry.Point2D{}, ix, testViewport, DefaultSettings())
	if !ok {
		t.Fatal("expected a snap result")
	}
	if res.Kind != KindMidpoint {
		t.Errorf("resolved to %v, want the clearly closer midpoint", res.Kind)
	}
}

func TestResolveKindFilters(t *testing.T) {
	ix := Build([]drawing.Primitive{
		drawing.NewSegment("s1", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
	})
	cursor := geometry.NewPoint2D(5, 0.1)

	st := DefaultSettings()
	st.EnableMidpoint = false
	if res, ok := Resolve(cursor, ix, testViewport, st); ok {
		// Endpoints are at distance ~5, outside threshold 3.
		t.Errorf("midpoints disabled: unexpected snap to %v", res.Kind)
	}

	st = DefaultSettings()
	st.EnableEndpoint = false
	res, ok := Resolve(cursor, ix, testViewport, st)
	if !ok || res.Kind != KindMidpoint {
		t.Errorf("endpoints disabled: expected midpoint snap, got ok=%v kind=%v", ok, res.Kind)
	}

	st.EnableMidpoint = false
	if _, ok := Resolve(cursor, ix, testViewport, st); ok {
		t.Error("both kinds disabled must resolve to none")
	}
}

func TestResolveDegenerateViewport(t *testing.T) {
	ix := Build([]drawing.Primitive{
		drawing.NewSegment("s1", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
	})
	cursor := geometry.NewPoint2D(5, 0)

	cases := []struct {
		name string
		vp   Viewport
	}{
		{"zero pixel height", Viewport{ZoomFactor: 1, PixelHeight: 0, WorldFrustumHeight: 100}},
		{"zero zoom", Viewport{ZoomFactor: 0, PixelHeight: 500, WorldFrustumHeight: 100}},
		{"negative zoom", Viewport{ZoomFactor: -2, PixelHeight: 500, WorldFrustumHeight: 100}},
		{"zero frustum", Viewport{ZoomFactor: 1, PixelHeight: 500, WorldFrustumHeight: 0}},
	}
	for _, tc := range cases {
		if _, ok := Resolve(cursor, ix, tc.vp, DefaultSettings()); ok {
			t.Errorf("%s: degenerate viewport must resolve to none", tc.name)
		}
	}
}

func TestResolveEmptyIndex(t *testing.T) {
	if _, ok := Resolve(geometry.Point2D{}, Build(nil), testViewport, DefaultSettings()); ok {
		t.Error("empty index must resolve to none")
	}
	var nilIndex *Index
	if _, ok := Resolve(geometry.Point2D{}, nilIndex, testViewport, DefaultSettings()); ok {
		t.Error("nil index must resolve to none")
	}
}

func TestResolveNeverExceedsThreshold(t *testing.T) {
	// A returned candidate is always strictly inside thresholdWorld.
	ix := Build([]drawing.Primitive{
		drawing.NewSegment("a", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(7, 3)),
		drawing.NewSegment("b", geometry.NewPoint2D(-4, 2), geometry.NewPoint2D(5, -6)),
		drawing.NewMeshVertices("c", []geometry.Point2D{{X: 2, Y: 2}, {X: -1, Y: -1}}),
	})

	upp, _ := testViewport.UnitsPerPixel()
	thresholdWorld := DefaultSettings().ThresholdPx * upp * 1.5

	for _, cursor := range []geometry.Point2D{
		{X: 0, Y: 0}, {X: 3.5, Y: 1.5}, {X: -4, Y: 2}, {X: 100, Y: 100}, {X: 2.1, Y: 1.9},
	} {
		res, ok := Resolve(cursor, ix, testViewport, DefaultSettings())
		if !ok {
			continue
		}
		if d := cursor.Distance(res.Position); d >= thresholdWorld {
			t.Errorf("cursor %v: snap at distance %v >= threshold %v", cursor, d, thresholdWorld)
		}
	}
}

func TestUnitsPerPixel(t *testing.T) {
	upp, ok := testViewport.UnitsPerPixel()
	if !ok || math.Abs(upp-0.2) > 1e-12 {
		t.Errorf("UnitsPerPixel = %v, %v; want 0.2, true", upp, ok)
	}
}
