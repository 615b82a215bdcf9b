// Package memgraph is a small in-memory implementation of the router's
// RoadGraph/RoadInfo collaborator contracts (§6), built by adding real
// edges up front and letting the router inject/reset fake edges around it.
// It backs the unit tests and doubles as the graph behind small demo
// deployments that don't need pkg/osmgraph's PBF import or
// pkg/spatialindex's R-tree.
//
// Grounded on the teacher's habit of hand-building a small fixture graph
// for tests (pkg/engine/routingalgorithm/a_star2_test.go's NewGraph()),
// generalized into a package of its own since this repo's router core
// treats the graph purely as an external collaborator rather than owning
// one.
package memgraph

import (
	"sort"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// Graph is a plain adjacency-list road graph over model.Junction nodes.
type Graph struct {
	real  []model.RawEdge
	fakes map[model.Junction][]model.RawEdge // outgoing fakes
	fakesIn map[model.Junction][]model.RawEdge

	outAdj map[model.Junction][]model.RawEdge
	inAdj  map[model.Junction][]model.RawEdge

	frc map[int64]int
}

// New builds an empty graph.
func New() *Graph {
	return &Graph{
		fakes:   make(map[model.Junction][]model.RawEdge),
		fakesIn: make(map[model.Junction][]model.RawEdge),
		outAdj:  make(map[model.Junction][]model.RawEdge),
		inAdj:   make(map[model.Junction][]model.RawEdge),
		frc:     make(map[int64]int),
	}
}

// AddRealEdge adds a directed real edge with the given functional road
// class, and returns it (with its length computed from the junctions).
func (g *Graph) AddRealEdge(start, end model.Junction, featureID int64, frc int) model.RawEdge {
	e := model.RawEdge{
		Start:     start,
		End:       end,
		Length:    geo.Distance(start.Point, end.Point),
		FeatureID: featureID,
	}
	g.real = append(g.real, e)
	g.outAdj[start] = append(g.outAdj[start], e)
	g.inAdj[end] = append(g.inAdj[end], e)
	g.frc[featureID] = frc
	return e
}

// AddBidirectionalRealEdge adds the edge and its reverse.
func (g *Graph) AddBidirectionalRealEdge(a, b model.Junction, featureID int64, frc int) {
	g.AddRealEdge(a, b, featureID, frc)
	g.AddRealEdge(b, a, featureID, frc)
}

// RealEdges returns every real edge added so far, for callers that persist
// the graph (pkg/graphstore) rather than rebuild it from source each run.
func (g *Graph) RealEdges() []model.RawEdge {
	return g.real
}

// LoadRealEdges replaces the graph's real edges with edges, as read back
// from pkg/graphstore. Functional road class metadata isn't part of
// model.RawEdge's wire shape, so reloaded edges default to the most
// permissive class (0) -- a demo-deployment simplification, not something
// a full graphstore round-trip would accept.
func (g *Graph) LoadRealEdges(edges []model.RawEdge) {
	g.real = nil
	g.outAdj = make(map[model.Junction][]model.RawEdge)
	g.inAdj = make(map[model.Junction][]model.RawEdge)
	g.frc = make(map[int64]int)
	for _, e := range edges {
		g.real = append(g.real, e)
		g.outAdj[e.Start] = append(g.outAdj[e.Start], e)
		g.inAdj[e.End] = append(g.inAdj[e.End], e)
		g.frc[e.FeatureID] = 0
	}
}

func (g *Graph) ResetFakes() {
	g.fakes = make(map[model.Junction][]model.RawEdge)
	g.fakesIn = make(map[model.Junction][]model.RawEdge)
}

func (g *Graph) AddFakeEdges(junction model.Junction, vicinity []model.Junction) {
	for _, v := range vicinity {
		if v == junction {
			continue
		}
		out := model.RawEdge{Start: junction, End: v, Length: geo.Distance(junction.Point, v.Point), IsFake: true}
		in := model.RawEdge{Start: v, End: junction, Length: geo.Distance(v.Point, junction.Point), IsFake: true}
		g.fakes[junction] = append(g.fakes[junction], out)
		g.fakesIn[junction] = append(g.fakesIn[junction], in)
		g.fakes[v] = append(g.fakes[v], in)
		g.fakesIn[v] = append(g.fakesIn[v], out)
	}
}

func (g *Graph) FindClosestEdges(point geo.Point, k int) []graph.ClosestEdge {
	type scored struct {
		edge graph.ClosestEdge
		dist float64
	}
	scoredEdges := make([]scored, 0, len(g.real))
	for _, e := range g.real {
		t, _ := geo.ProjectParam(e.Start.Point, e.End.Point, point)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		proj := geo.Interpolate(e.Start.Point, e.End.Point, t*e.Length)
		scoredEdges = append(scoredEdges, scored{
			edge: graph.ClosestEdge{Edge: e, Projection: proj},
			dist: geo.Distance(point, proj),
		})
	}
	sort.Slice(scoredEdges, func(i, j int) bool { return scoredEdges[i].dist < scoredEdges[j].dist })
	if k > len(scoredEdges) {
		k = len(scoredEdges)
	}
	out := make([]graph.ClosestEdge, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, scoredEdges[i].edge)
	}
	return out
}

func (g *Graph) GetRegularOutgoingEdges(junction model.Junction) []model.RawEdge {
	return g.outAdj[junction]
}

func (g *Graph) GetRegularIngoingEdges(junction model.Junction) []model.RawEdge {
	return g.inAdj[junction]
}

func (g *Graph) GetFakeOutgoingEdges(junction model.Junction) []model.RawEdge {
	return g.fakes[junction]
}

func (g *Graph) GetFakeIngoingEdges(junction model.Junction) []model.RawEdge {
	return g.fakesIn[junction]
}

// RoadInfo is the road-metadata lookup half of the fixture, keyed by the
// same feature IDs AddRealEdge assigns.
type RoadInfo struct {
	frc map[int64]int
}

func (g *Graph) RoadInfo() *RoadInfo {
	return &RoadInfo{frc: g.frc}
}

func (r *RoadInfo) Get(featureID int64) (graph.RoadMeta, bool) {
	frc, ok := r.frc[featureID]
	if !ok {
		return graph.RoadMeta{}, false
	}
	return graph.RoadMeta{FunctionalRoadClass: frc}, true
}

var _ graph.RoadGraph = (*Graph)(nil)
var _ graph.RoadInfo = (*RoadInfo)(nil)
