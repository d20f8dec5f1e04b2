package geometry

import (
	"math"
	"testing"
)

var square = []Point2D{
	{X: 0, Y: 0},
	{X: 4, Y: 0},
	{X: 4, Y: 4},
	{X: 0, Y: 4},
}

func TestPolygonAreaSquare(t *testing.T) {
	if got := PolygonArea(square); math.Abs(got-16) > 1e-10 {
		t.Errorf("area of 4x4 square: expected 16, got %v", got)
	}
}

func TestPolygonAreaWindingInvariant(t *testing.T) {
	reversed := make([]Point2D, len(square))
	for i, p := range square {
		reversed[len(square)-1-i] = p
	}

	cw := PolygonArea(reversed)
	ccw := PolygonArea(square)
	if math.Abs(cw-ccw) > 1e-10 {
		t.Errorf("winding changed area: ccw=%v cw=%v", ccw, cw)
	}

	// Signed areas must have opposite signs
	if SignedPolygonArea(square)*SignedPolygonArea(reversed) >= 0 {
		t.Error("expected opposite signs for opposite windings")
	}
}

func TestPolygonAreaStartVertexInvariant(t *testing.T) {
	for shift := 0; shift < len(square); shift++ {
		rotated := append(append([]Point2D{}, square[shift:]...), square[:shift]...)
		if got := PolygonArea(rotated); math.Abs(got-16) > 1e-10 {
			t.Errorf("start vertex %d: expected 16, got %v", shift, got)
		}
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	triangle := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	if got := PolygonArea(triangle); math.Abs(got-50) > 1e-10 {
		t.Errorf("triangle area: expected 50, got %v", got)
	}
}

func TestPolygonAreaDegenerate(t *testing.T) {
	if got := PolygonArea([]Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}); got != 0 {
		t.Errorf("two-vertex polygon: expected 0, got %v", got)
	}
	if got := PolygonArea(nil); got != 0 {
		t.Errorf("nil polygon: expected 0, got %v", got)
	}
}

func TestPolygonPerimeter(t *testing.T) {
	if got := PolygonPerimeter(square); math.Abs(got-16) > 1e-10 {
		t.Errorf("perimeter of 4x4 square: expected 16, got %v", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	cases := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{X: 2, Y: 2}, true},
		{"outside right", Point2D{X: 5, Y: 2}, false},
		{"outside above", Point2D{X: 2, Y: 5}, false},
	}
	for _, tc := range cases {
		if got := PointInPolygon(tc.p, square); got != tc.want {
			t.Errorf("%s: PointInPolygon = %v, want %v", tc.name, got, tc.want)
		}
	}
}
