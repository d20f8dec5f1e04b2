package snap

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"planview/internal/drawing"
	"planview/pkg/geometry"
)

func TestBuildSegmentCandidates(t *testing.T) {
	prims := []drawing.Primitive{
		drawing.NewSegment("s1", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0)),
	}

	ix := Build(prims)
	want := []Candidate{
		{Position: geometry.NewPoint2D(0, 0), Kind: KindEndpoint, SourceID: "s1"},
		{Position: geometry.NewPoint2D(10, 0), Kind: KindEndpoint, SourceID: "s1"},
		{Position: geometry.NewPoint2D(5, 0), Kind: KindMidpoint, SourceID: "s1"},
	}
	if diff := cmp.Diff(want, ix.Candidates()); diff != "" {
		t.Errorf("candidates (-want +got):\n%s", diff)
	}
}

func TestBuildOpenPolySegment(t *testing.T) {
	prims := []drawing.Primitive{
		drawing.NewPolySegment("p1", []geometry.Point2D{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4},
		}, false),
	}

	ix := Build(prims)
	// Two segments, three candidates each
	if ix.Len() != 6 {
		t.Fatalf("candidate count = %d, want 6", ix.Len())
	}
	if !hasCandidate(ix, KindMidpoint, geometry.NewPoint2D(2, 0)) {
		t.Error("missing midpoint (2,0)")
	}
	if !hasCandidate(ix, KindMidpoint, geometry.NewPoint2D(4, 2)) {
		t.Error("missing midpoint (4,2)")
	}
	// No wrap-around candidates on an open chain
	if hasCandidate(ix, KindMidpoint, geometry.NewPoint2D(2, 2)) {
		t.Error("open polysegment must not close the wrap-around pair")
	}
}

func TestBuildClosedPolySegment(t *testing.T) {
	prims := []drawing.Primitive{
		drawing.NewPolySegment("p1", []geometry.Point2D{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4},
		}, true),
	}

	ix := Build(prims)
	if ix.Len() != 9 {
		t.Fatalf("candidate count = %d, want 9 (three segments)", ix.Len())
	}
	if !hasCandidate(ix, KindMidpoint, geometry.NewPoint2D(2, 2)) {
		t.Error("closed polysegment must emit the wrap-around midpoint (2,2)")
	}
}

func TestBuildMeshVertices(t *testing.T) {
	prims := []drawing.Primitive{
		drawing.NewMeshVertices("m1", []geometry.Point2D{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		}),
	}

	ix := Build(prims)
	if ix.Len() != 3 {
		t.Fatalf("candidate count = %d, want 3", ix.Len())
	}
	for _, c := range ix.Candidates() {
		if c.Kind != KindEndpoint {
			t.Errorf("mesh vertex produced %v, meshes snap at vertex level only", c.Kind)
		}
	}
}

func TestBuildSkipsInvalidPrimitive(t *testing.T) {
	prims := []drawing.Primitive{
		drawing.NewSegment("bad", geometry.Point2D{X: math.NaN()}, geometry.NewPoint2D(1, 1)),
		drawing.NewSegment("good", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(2, 0)),
	}

	ix := Build(prims)
	if ix.Len() != 3 {
		t.Fatalf("candidate count = %d, want 3 (bad primitive skipped, build continues)", ix.Len())
	}
	for _, c := range ix.Candidates() {
		if c.SourceID != "good" {
			t.Errorf("unexpected candidate from %q", c.SourceID)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	ix := Build(nil)
	if ix.Len() != 0 {
		t.Errorf("empty build should yield empty index")
	}
	if got := ix.within(geometry.Point2D{}, 10); got != nil {
		t.Errorf("within on empty index = %v, want nil", got)
	}
}

func TestWithinRadius(t *testing.T) {
	candidates := []Candidate{
		{Position: geometry.NewPoint2D(0, 0), Kind: KindEndpoint},
		{Position: geometry.NewPoint2D(1, 0), Kind: KindEndpoint},
		{Position: geometry.NewPoint2D(5, 0), Kind: KindEndpoint},
		{Position: geometry.NewPoint2D(0, 3), Kind: KindMidpoint},
	}
	ix := newIndex(candidates)

	got := ix.within(geometry.NewPoint2D(0, 0), 3.5)
	sort.Ints(got)
	if diff := cmp.Diff([]int{0, 1, 3}, got); diff != "" {
		t.Errorf("within (-want +got):\n%s", diff)
	}

	// Strictly-below semantics: a candidate exactly at the radius is out.
	got = ix.within(geometry.NewPoint2D(0, 0), 3)
	sort.Ints(got)
	if diff := cmp.Diff([]int{0, 1}, got); diff != "" {
		t.Errorf("within at exact radius (-want +got):\n%s", diff)
	}
}

func hasCandidate(ix *Index, kind Kind, pos geometry.Point2D) bool {
	for _, c := range ix.Candidates() {
		if c.Kind == kind && math.Abs(c.Position.X-pos.X) < 1e-9 && math.Abs(c.Position.Y-pos.Y) < 1e-9 {
			return true
		}
	}
	return false
}
