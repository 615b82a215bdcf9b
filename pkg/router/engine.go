// Package router implements the staged shortest-path search of §4: the
// potential function, the edge cache, and the main search loop that drives
// a min-heap over (Score, Vertex) with A*-style reduced costs.
//
// Grounded on pkg/engine/routingalgorithm/a_star2.go's ShortestPathAStar
// (min-heap keyed by priority, costSoFar/distSoFar maps, a cameFrom
// back-link map, stale-pop discard via a visited set), generalized from a
// single-target heuristic and a single edge kind to the staged potential of
// §4.3 and the normal/special edges of §4.5.
package router

import (
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// Tracer receives diagnostic events during the search. Search behavior
// never depends on a Tracer being present -- see pkg/trace for the
// zstd-compressed sink used on search exhaustion, grounded on the
// teacher's handleHMMBreak dump of Viterbi message history.
type Tracer interface {
	RecordPop(v model.Vertex, s model.Score, potential float64)
	Flush(reason string)
}

// Engine runs find_path against one RoadGraph/RoadInfo pair.
type Engine struct {
	graph   graph.RoadGraph
	info    graph.RoadInfo
	cfg     model.Config
	tracer  Tracer
}

// New builds an Engine. tracer may be nil.
func New(g graph.RoadGraph, ri graph.RoadInfo, cfg model.Config, tracer Tracer) *Engine {
	return &Engine{graph: g, info: ri, cfg: cfg, tracer: tracer}
}

type linkEntry struct {
	parent model.Vertex
	edge   model.SearchEdge
	hasParent bool
}

// FindPath implements the search engine of §4.5 end to end: initialization,
// the main loop, and returns the ordered search-edge chain from source to
// the chosen final vertex. Reconstruction (§4.6) is a separate package
// (pkg/reconstruct) that consumes this chain.
func (e *Engine) FindPath(waypoints []model.Waypoint) ([]model.SearchEdge, bool) {
	if len(waypoints) < 2 {
		panic("router: FindPath requires at least 2 way-points")
	}
	numWaypoints := len(waypoints)

	e.graph.ResetFakes()

	pot, ok := newPotential(e.graph, waypoints, e.cfg)
	if !ok {
		return nil, false
	}

	source := model.NewJunction(waypoints[0].Point, 0)
	target := model.NewJunction(waypoints[numWaypoints-1].Point, 0)

	srcVicinity := endpointsOf(e.graph.FindClosestEdges(waypoints[0].Point, e.cfg.MaxRoadCandidates))
	e.graph.AddFakeEdges(source, srcVicinity)
	tgtVicinity := endpointsOf(e.graph.FindClosestEdges(waypoints[numWaypoints-1].Point, e.cfg.MaxRoadCandidates))
	e.graph.AddFakeEdges(target, tgtVicinity)

	s := model.Vertex{Junction: source, StageStart: source, StageStartDistance: 0, Stage: 0, BearingChecked: false}
	piS := pot.atPoint(source.Point, 0)

	cache := newEdgeCache()
	scores := map[model.Vertex]model.Score{s: {}}
	links := map[model.Vertex]linkEntry{}

	pq := newMinHeap()
	var seq uint64
	pq.push(pqEntry{score: model.Score{}, seq: seq, vertex: s})

	push := func(u, v model.Vertex, sv model.Score, edge model.SearchEdge) {
		if u == v {
			return
		}
		if cur, known := scores[v]; known && !(cur.Total() > sv.Total()+e.cfg.Eps) {
			return
		}
		scores[v] = sv
		links[v] = linkEntry{parent: u, edge: edge, hasParent: true}
		seq++
		pq.push(pqEntry{score: sv, seq: seq, vertex: v})
	}

	for {
		entry, ok := pq.pop()
		if !ok {
			if e.tracer != nil {
				e.tracer.Flush("search exhaustion")
			}
			return nil, false
		}
		u := entry.vertex
		sU := entry.score

		known, staleOK := scores[u]
		if !staleOK || known != sU {
			continue
		}

		if e.tracer != nil {
			e.tracer.RecordPop(u, sU, pot.at(u))
		}

		if u.IsFinal(numWaypoints) {
			return backtrack(u, links), true
		}

		distToNext := waypoints[u.Stage].DistanceToNextM
		dSU := sU.Distance + piS - pot.at(u)
		tolerance := e.cfg.DistanceAccuracyM
		if distToNext > tolerance {
			tolerance = distToNext
		}
		if dSU > u.StageStartDistance+distToNext+tolerance {
			continue
		}

		nearNextStage := pot.at(u) < e.cfg.Eps

		if nearNextStage && !u.BearingChecked {
			v := u
			v.BearingChecked = true
			edge := model.SearchEdge{From: u, To: v, IsSpecial: true, Raw: model.RawEdge{Start: u.Junction, End: v.Junction, IsFake: true}}
			sv := sU
			if u.Junction != u.StageStart {
				actual := geo.BearingBucket(u.StageStart.Point, u.Junction.Point, e.cfg.NumBuckets)
				sv.AddBearingPenalty(e.cfg, waypoints[u.Stage].Bearing, actual)
			}
			push(u, v, sv, edge)
		}

		if nearNextStage && u.BearingChecked {
			v := model.Vertex{Junction: u.Junction, StageStart: u.Junction, StageStartDistance: dSU, Stage: u.Stage + 1, BearingChecked: false}
			edge := model.SearchEdge{From: u, To: v, IsSpecial: true, Raw: model.RawEdge{Start: u.Junction, End: v.Junction, IsFake: true}}
			sv := sU
			piV, piU := pot.at(v), pot.at(u)
			sv.AddDistance(maxF(piV-piU, 0))
			sv.AddIntermediateError(e.cfg, geo.Distance(v.Junction.Point, waypoints[v.Stage].Point))
			if v.IsFinal(numWaypoints) {
				b := reverseBearingPoint(u, links, e.cfg)
				actual := geo.BearingBucket(u.Junction.Point, b, e.cfg.NumBuckets)
				sv.AddBearingPenalty(e.cfg, waypoints[v.Stage].Bearing, actual)
			}
			push(u, v, sv, edge)
		}

		cache.forEachEdge(e.graph, e.info, u.Junction, true, waypoints[u.Stage].Lfrcnp, e.cfg, func(raw model.RawEdge) {
			v := model.Vertex{Junction: raw.End, StageStart: u.StageStart, StageStartDistance: u.StageStartDistance, Stage: u.Stage, BearingChecked: u.BearingChecked}
			w := raw.Length
			piV, piU := pot.at(v), pot.at(u)
			sv := sU
			sv.AddDistance(maxF(w+piV-piU, 0))
			vd := dSU + w

			if !v.BearingChecked && vd >= v.StageStartDistance+e.cfg.BearingDistM && !v.IsFinal(numWaypoints) {
				backDist := vd - v.StageStartDistance - e.cfg.BearingDistM
				p := pointBackAlongEdge(raw, backDist)
				if p != v.StageStart.Point {
					actual := geo.BearingBucket(v.StageStart.Point, p, e.cfg.NumBuckets)
					sv.AddBearingPenalty(e.cfg, waypoints[u.Stage].Bearing, actual)
				}
				v.BearingChecked = true
			}

			if vd > v.StageStartDistance+distToNext {
				sv.AddDistanceError(e.cfg, minF(vd-v.StageStartDistance-distToNext, w))
			}
			if raw.IsFake {
				sv.AddFakePenalty(e.cfg, w, raw.IsPartOfReal)
			}

			edge := model.SearchEdge{From: u, To: v, Raw: raw, IsSpecial: false}
			push(u, v, sv, edge)
		})
	}
}

// endpointsOf collects the start/end junctions of a set of closest-edge
// results, for use as fake-edge vicinity or pivot points.
func endpointsOf(closest []graph.ClosestEdge) []model.Junction {
	out := make([]model.Junction, 0, len(closest)*2)
	for _, c := range closest {
		out = append(out, c.Edge.Start, c.Edge.End)
	}
	return out
}

// pointBackAlongEdge interpolates a point at distFromEnd back along raw,
// from raw.End toward raw.Start.
func pointBackAlongEdge(raw model.RawEdge, distFromEnd float64) geo.Point {
	return geo.Interpolate(raw.End.Point, raw.Start.Point, distFromEnd)
}

// reverseBearingPoint implements the reverse-bearing back-walk of §4.5:
// walk the back-links of the current stage, accumulating real edge lengths
// until bearing_dist_m is covered, then interpolate on the edge where that
// happens. If the stage is exhausted first, the earliest junction reached
// is returned.
func reverseBearingPoint(u model.Vertex, links map[model.Vertex]linkEntry, cfg model.Config) geo.Point {
	remaining := cfg.BearingDistM
	earliest := u.Junction.Point
	cur := u
	for {
		le, ok := links[cur]
		if !ok || !le.hasParent {
			break
		}
		parent := le.parent
		if parent.Stage != cur.Stage {
			break
		}
		if !le.edge.IsSpecial {
			length := le.edge.Raw.Length
			if length >= remaining {
				return pointBackAlongEdge(le.edge.Raw, remaining)
			}
			remaining -= length
			earliest = parent.Junction.Point
		}
		cur = parent
	}
	return earliest
}

// backtrack walks the back-link chain from the final vertex to the source
// and returns the search-edge sequence in source-to-target order.
func backtrack(final model.Vertex, links map[model.Vertex]linkEntry) []model.SearchEdge {
	var edges []model.SearchEdge
	cur := final
	for {
		le, ok := links[cur]
		if !ok || !le.hasParent {
			break
		}
		edges = append(edges, le.edge)
		cur = le.parent
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
