package spatialindex

import (
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/memgraph"
)

// Graph is a memgraph.Graph whose FindClosestEdges is answered by an
// R-tree Index instead of memgraph's own linear scan -- the graph a
// production deployment actually wants once the real-edge set is large
// enough that scanning it per nearest-edge query (every router init, once
// per way-point, §4.5 steps 2 and 4) would dominate request latency.
//
// Every other RoadGraph/RoadInfo method -- fakes, regular adjacency, road
// class lookup -- is promoted straight through to the embedded
// *memgraph.Graph, which still stores the fake edges the router injects and
// resets (§4.4's "fakes are always re-fetched" caching rule lives in
// pkg/router's edge cache, not here).
type Graph struct {
	*memgraph.Graph
	idx *Index
}

// NewGraph builds a Graph over mg's current real edges.
func NewGraph(mg *memgraph.Graph) (*Graph, error) {
	idx, err := New(mg.RealEdges())
	if err != nil {
		return nil, err
	}
	return &Graph{Graph: mg, idx: idx}, nil
}

// FindClosestEdges overrides memgraph.Graph's linear scan with the R-tree
// kNN query of §6.
func (g *Graph) FindClosestEdges(point geo.Point, k int) []graph.ClosestEdge {
	return g.idx.FindClosestEdges(point, k)
}

var _ graph.RoadGraph = (*Graph)(nil)
