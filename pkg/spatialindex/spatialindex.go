// Package spatialindex answers pkg/graph.RoadGraph's FindClosestEdges query
// (§6) for graphs too large to scan edge-by-edge (osmgraph.Build's output),
// grounded on pkg/snap/snap.go's RoadSnapper (a growing-bounding-box nearest
// search over an R-tree of edge geometry) generalized from lat/lon degree
// boxes to the router core's planar meters.
package spatialindex

import (
	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// leaf is the rtreego.Spatial the tree actually stores: a real edge plus its
// precomputed bounding box.
type leaf struct {
	edge model.RawEdge
	rect rtreego.Rect
}

func (l *leaf) Bounds() rtreego.Rect {
	return l.rect
}

// Index is a spatial nearest-edge index built once over a fixed set of real
// edges, separate from the router's fake-edge churn (§4.4 -- fakes are the
// router's own concern, never indexed here).
type Index struct {
	tree *rtreego.Rtree
}

// edgeBBRadiusM mirrors the teacher's edgeBBRadius (there expressed in
// degrees against a lat/lon rtree) as a plain meters margin now that the
// index works in the local plane.
const edgeBBRadiusM = 25.0

// New builds an Index over edges.
func New(edges []model.RawEdge) (*Index, error) {
	tree := rtreego.NewTree(2, 25, 50)

	for _, e := range edges {
		minX := min(e.Start.Point.X, e.End.Point.X) - edgeBBRadiusM
		minY := min(e.Start.Point.Y, e.End.Point.Y) - edgeBBRadiusM
		maxX := max(e.Start.Point.X, e.End.Point.X) + edgeBBRadiusM
		maxY := max(e.Start.Point.Y, e.End.Point.Y) + edgeBBRadiusM

		rect, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{maxX - minX, maxY - minY})
		if err != nil {
			return nil, err
		}
		tree.Insert(&leaf{edge: e, rect: rect})
	}

	return &Index{tree: tree}, nil
}

// FindClosestEdges implements pkg/graph.RoadGraph's method of the same name:
// the k real edges nearest point, each paired with the closest point on that
// edge to point (§6's "the projection of the query point onto the edge").
func (idx *Index) FindClosestEdges(point geo.Point, k int) []graph.ClosestEdge {
	results := idx.tree.NearestNeighbors(k, rtreego.Point{point.X, point.Y})

	out := make([]graph.ClosestEdge, 0, len(results))
	for _, r := range results {
		l := r.(*leaf)
		t, _ := geo.ProjectParam(l.edge.Start.Point, l.edge.End.Point, point)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		proj := geo.Interpolate(l.edge.Start.Point, l.edge.End.Point, t*l.edge.Length)
		out = append(out, graph.ClosestEdge{Edge: l.edge, Projection: proj})
	}
	return out
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
