package router

import (
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// potential implements π(u) of §4.3: an admissible per-stage heuristic
// built from one pivot set per travel stage, plus the final way-point
// itself as the last, single-point pivot set.
//
// Grounded on pkg/engine/routingalgorithm/a_star2.go's pathEstimatedCostETA,
// generalized from a single straight-line-to-target heuristic to a staged
// one: which pivot set applies depends on the vertex's current stage.
type potential struct {
	pivots       [][]geo.Point
	numWaypoints int
}

// newPotential builds the pivot lists of §4.5 step 2-3. Returns false if
// any intermediate way-point has no nearby real edges (init failure, §7).
func newPotential(g graph.RoadGraph, waypoints []model.Waypoint, cfg model.Config) (*potential, bool) {
	numWaypoints := len(waypoints)
	pivots := make([][]geo.Point, numWaypoints-1)

	for i := 1; i < numWaypoints-1; i++ {
		closest := g.FindClosestEdges(waypoints[i].Point, cfg.MaxRoadCandidates)
		set := make([]geo.Point, 0, len(closest)*2)
		for _, c := range closest {
			set = append(set, c.Edge.Start.Point, c.Edge.End.Point)
		}
		if len(set) == 0 {
			return nil, false
		}
		pivots[i-1] = set
	}
	pivots[numWaypoints-2] = []geo.Point{waypoints[numWaypoints-1].Point}

	return &potential{pivots: pivots, numWaypoints: numWaypoints}, true
}

// at returns π(v).
func (p *potential) at(v model.Vertex) float64 {
	if v.IsFinal(p.numWaypoints) {
		return 0
	}
	set := p.pivots[v.Stage]
	best := geo.Distance(v.Junction.Point, set[0])
	for _, pivot := range set[1:] {
		if d := geo.Distance(v.Junction.Point, pivot); d < best {
			best = d
		}
	}
	return best
}

// atPoint is π evaluated at an arbitrary point against stage's pivot set,
// used to compute π(s) for the source (which is not itself a search
// Vertex until the loop constructs it).
func (p *potential) atPoint(point geo.Point, stage int) float64 {
	set := p.pivots[stage]
	best := geo.Distance(point, set[0])
	for _, pivot := range set[1:] {
		if d := geo.Distance(point, pivot); d < best {
			best = d
		}
	}
	return best
}
