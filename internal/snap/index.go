package snap

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/kdtree"

	"planview/internal/drawing"
	"planview/pkg/geometry"
)

// Index is an immutable set of snap candidates with a k-d tree over their
// positions. An Index is built wholesale on every drawing load and replaced
// atomically; it is never mutated after Build returns.
type Index struct {
	candidates []Candidate
	tree       *kdtree.Tree
}

// Build derives the snap candidate set from world-space primitives:
//
//   - Segment: both endpoints plus the midpoint.
//   - PolySegment: endpoint/midpoint per consecutive point pair; a closed
//     chain also contributes the wrap-around pair. Duplicates across shared
//     vertices are fine, the resolver does not rely on uniqueness.
//   - MeshVertices: one endpoint per vertex, no midpoints, to keep candidate
//     density sane on dense meshes.
//
// Invalid primitives are skipped and logged; they never abort the build.
func Build(primitives []drawing.Primitive) *Index {
	var candidates []Candidate

	for _, p := range primitives {
		if !p.Valid() {
			slog.Warn("snap: skipping invalid primitive", "source", p.SourceID, "kind", p.Kind.String())
			continue
		}

		switch p.Kind {
		case drawing.PrimitiveSegment:
			candidates = appendSegment(candidates, p.SourceID, p.A, p.B)

		case drawing.PrimitivePolySegment:
			for i := 0; i+1 < len(p.Points); i++ {
				candidates = appendSegment(candidates, p.SourceID, p.Points[i], p.Points[i+1])
			}
			if p.Closed && len(p.Points) > 2 {
				candidates = appendSegment(candidates, p.SourceID, p.Points[len(p.Points)-1], p.Points[0])
			}

		case drawing.PrimitiveMeshVertices:
			for _, v := range p.Points {
				candidates = append(candidates, Candidate{Position: v, Kind: KindEndpoint, SourceID: p.SourceID})
			}
		}
	}

	return newIndex(candidates)
}

// appendSegment emits the three candidates of a single straight segment.
func appendSegment(dst []Candidate, sourceID string, a, b geometry.Point2D) []Candidate {
	return append(dst,
		Candidate{Position: a, Kind: KindEndpoint, SourceID: sourceID},
		Candidate{Position: b, Kind: KindEndpoint, SourceID: sourceID},
		Candidate{Position: geometry.Midpoint(a, b), Kind: KindMidpoint, SourceID: sourceID},
	)
}

func newIndex(candidates []Candidate) *Index {
	ix := &Index{candidates: candidates}
	if len(candidates) > 0 {
		pts := make(treePoints, len(candidates))
		for i, c := range candidates {
			pts[i] = treePoint{pos: c.Position, idx: i}
		}
		ix.tree = kdtree.New(pts, false)
	}
	return ix
}

// Len returns the number of candidates in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.candidates)
}

// Candidates returns the candidate set. Callers must treat it as read-only.
func (ix *Index) Candidates() []Candidate {
	if ix == nil {
		return nil
	}
	return ix.candidates
}

// within returns the indices of all candidates whose Euclidean distance to
// pos is strictly below radius.
func (ix *Index) within(pos geometry.Point2D, radius float64) []int {
	if ix == nil || ix.tree == nil || radius <= 0 {
		return nil
	}

	keeper := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keeper, treePoint{pos: pos, idx: -1})

	var out []int
	for _, cd := range keeper.Heap {
		tp, ok := cd.Comparable.(treePoint)
		if !ok {
			continue // the keeper's initial sentinel has a nil Comparable
		}
		if cd.Dist < radius*radius {
			out = append(out, tp.idx)
		}
	}
	return out
}

// treePoint adapts a candidate position to the kdtree element interface.
type treePoint struct {
	pos geometry.Point2D
	idx int
}

func (p treePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(treePoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	default:
		return p.pos.Y - q.pos.Y
	}
}

func (p treePoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance; only relative order and
// the keeper radius (also squared) matter to the tree.
func (p treePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(treePoint)
	return p.pos.DistanceSq(q.pos)
}

type treePoints []treePoint

func (p treePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p treePoints) Len() int                      { return len(p) }
func (p treePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p treePoints) Pivot(d kdtree.Dim) int {
	return treePlane{Dim: d, treePoints: p}.Pivot()
}

// treePlane sorts treePoints along one dimension for tree construction.
type treePlane struct {
	kdtree.Dim
	treePoints
}

func (p treePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.treePoints[i].pos.X < p.treePoints[j].pos.X
	default:
		return p.treePoints[i].pos.Y < p.treePoints[j].pos.Y
	}
}

func (p treePlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p treePlane) Slice(start, end int) kdtree.SortSlicer {
	p.treePoints = p.treePoints[start:end]
	return p
}

func (p treePlane) Swap(i, j int) {
	p.treePoints[i], p.treePoints[j] = p.treePoints[j], p.treePoints[i]
}
