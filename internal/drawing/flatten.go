package drawing

import (
	"fmt"
	"log/slog"
	"math"

	"planview/pkg/geometry"
)

// arcStepDeg is the angular step used when tessellating arcs and circles.
const arcStepDeg = 15.0

// maxInsertDepth bounds block nesting to guard against recursive inserts.
const maxInsertDepth = 16

// FlattenStats summarizes one flattening pass.
type FlattenStats struct {
	Entities int
	Emitted  int
	Skipped  int
	MaxDepth int
}

// Flatten resolves the entity tree of a document into world-space primitives.
// Block inserts are instantiated by composing their affine transforms through
// nested references. Entities with missing or non-finite coordinate data are
// skipped and logged; a bad entity never aborts the rest of the drawing.
func Flatten(doc *Document) ([]Primitive, FlattenStats) {
	f := &flattener{doc: doc}
	f.walk(doc.Entities, geometry.Identity(), "", 0)
	return f.out, f.stats
}

type flattener struct {
	doc   *Document
	out   []Primitive
	stats FlattenStats
	seq   int
}

func (f *flattener) walk(entities []Entity, tr geometry.AffineTransform, idPrefix string, depth int) {
	if depth > maxInsertDepth {
		slog.Warn("drawing: insert nesting too deep, pruning", "depth", depth)
		return
	}
	if depth > f.stats.MaxDepth {
		f.stats.MaxDepth = depth
	}

	for i := range entities {
		e := &entities[i]
		f.stats.Entities++
		id := f.sourceID(e, idPrefix, i)

		switch e.Kind {
		case EntityLine:
			if e.Start == nil || e.End == nil {
				f.skip(id, "line missing endpoint")
				continue
			}
			p := NewSegment(id, tr.Apply(*e.Start), tr.Apply(*e.End))
			f.emit(p, id)

		case EntityPolyline:
			if len(e.Points) < 2 {
				f.skip(id, "polyline needs at least 2 points")
				continue
			}
			p := NewPolySegment(id, applyAll(tr, e.Points), e.Closed)
			f.emit(p, id)

		case EntityArc:
			if e.Center == nil || e.Radius <= 0 {
				f.skip(id, "arc missing center or radius")
				continue
			}
			pts := tessellateArc(*e.Center, e.Radius, e.StartAngle, e.EndAngle)
			p := NewPolySegment(id, applyAll(tr, pts), false)
			f.emit(p, id)

		case EntityCircle:
			if e.Center == nil || e.Radius <= 0 {
				f.skip(id, "circle missing center or radius")
				continue
			}
			pts := tessellateArc(*e.Center, e.Radius, 0, 360)
			// Drop the duplicated closing point; Closed supplies the wrap edge.
			p := NewPolySegment(id, applyAll(tr, pts[:len(pts)-1]), true)
			f.emit(p, id)

		case EntityMesh:
			if len(e.Points) == 0 {
				f.skip(id, "mesh has no vertices")
				continue
			}
			p := NewMeshVertices(id, applyAll(tr, e.Points))
			f.emit(p, id)

		case EntityInsert:
			block, ok := f.doc.Blocks[e.Block]
			if !ok {
				f.skip(id, fmt.Sprintf("insert references unknown block %q", e.Block))
				continue
			}
			f.walk(block, tr.Compose(insertTransform(e)), id+"/", depth+1)

		default:
			f.skip(id, ErrUnknownEntity.Error())
		}
	}
}

func (f *flattener) emit(p Primitive, id string) {
	if !p.Valid() {
		f.skip(id, "non-finite or incomplete coordinates")
		return
	}
	f.out = append(f.out, p)
	f.stats.Emitted++
}

func (f *flattener) skip(id, reason string) {
	f.stats.Skipped++
	slog.Warn("drawing: skipping entity", "id", id, "reason", reason)
}

func (f *flattener) sourceID(e *Entity, prefix string, idx int) string {
	if e.ID != "" {
		return prefix + e.ID
	}
	f.seq++
	return fmt.Sprintf("%s%s-%d", prefix, e.Kind, idx)
}

// insertTransform builds the affine transform of an insert entity:
// translate to the insertion point, rotate, then scale.
func insertTransform(e *Entity) geometry.AffineTransform {
	sx, sy := e.ScaleX, e.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	tr := geometry.Identity()
	if e.At != nil {
		tr = geometry.Translation(e.At.X, e.At.Y)
	}
	if e.Rotation != 0 {
		tr = tr.Compose(geometry.Rotation(e.Rotation * math.Pi / 180))
	}
	if sx != 1 || sy != 1 {
		tr = tr.Compose(geometry.Scaling(sx, sy))
	}
	return tr
}

// tessellateArc approximates a circular arc with chords of at most arcStepDeg
// degrees. Angles are degrees counter-clockwise from the positive x axis; an
// end angle at or below the start angle wraps once around.
func tessellateArc(center geometry.Point2D, radius, startDeg, endDeg float64) []geometry.Point2D {
	if endDeg <= startDeg {
		endDeg += 360
	}
	sweep := endDeg - startDeg
	steps := int(math.Ceil(sweep / arcStepDeg))
	if steps < 1 {
		steps = 1
	}

	pts := make([]geometry.Point2D, 0, steps+1)
	for i := 0; i <= steps; i++ {
		angle := (startDeg + sweep*float64(i)/float64(steps)) * math.Pi / 180
		pts = append(pts, geometry.Point2D{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return pts
}

func applyAll(tr geometry.AffineTransform, pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = tr.Apply(p)
	}
	return out
}
