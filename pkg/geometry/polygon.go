package geometry

import "math"

// SignedPolygonArea computes the signed area of a polygon using the shoelace
// formula. The sign depends on winding: positive for counter-clockwise,
// negative for clockwise (y up). Indices wrap modulo the vertex count.
func SignedPolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}

// PolygonArea computes the absolute area of a polygon. The absolute value
// makes the result invariant to winding direction and starting vertex.
func PolygonArea(polygon []Point2D) float64 {
	return math.Abs(SignedPolygonArea(polygon))
}

// PolygonPerimeter computes the perimeter of a closed polygon, including the
// wrap-around edge from the last vertex back to the first.
func PolygonPerimeter(polygon []Point2D) float64 {
	if len(polygon) < 2 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		sum += polygon[i].Distance(polygon[(i+1)%n])
	}
	return sum
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}
