// Package reconstruct implements the path reconstruction of §4.6: it turns
// the ordered chain of search edges the engine followed into the final
// edge list a caller gets back, trimming offsets and patching in a
// plausible first/last real edge where the search entered or left through
// fakes.
//
// Grounded on the offset-consuming, edge-trimming shape of
// pkg/engine/matching/hmm_mapmatching.go's splitEdges (walking a sorted
// list of points along an edge and emitting adjusted sub-segments),
// generalized to positive/negative-offset trimming and geometric
// front/back reattachment.
package reconstruct

import (
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// Reconstruct implements §4.6 steps 1-7. waypoints must be the same slice
// the engine searched with. Returns the final edge list and whether it is
// non-empty (find_path's boolean return, per §6).
func Reconstruct(
	edges []model.SearchEdge,
	positiveOffsetM, negativeOffsetM float64,
	waypoints []model.Waypoint,
	g graph.RoadGraph,
	ri graph.RoadInfo,
	cfg model.Config,
) ([]model.RawEdge, bool) {
	real := stripSpecials(edges)
	real = consumeFrontOffset(real, positiveOffsetM)
	real = consumeBackOffset(real, negativeOffsetM)

	path := rawEdgesOf(real)

	if front, ok := frontReattachment(real, waypoints, g, ri, cfg); ok {
		if len(path) == 0 || !sameEdge(front, path[0]) {
			path = append([]model.RawEdge{front}, path...)
		}
	}
	if back, ok := backReattachment(real, waypoints, g, ri, cfg); ok {
		if len(path) == 0 || !sameEdge(back, path[len(path)-1]) {
			path = append(path, back)
		}
	}

	if len(path) == 0 && allFake(real) && len(real) > 0 {
		if edge, ok := singleEdgeFallback(real, waypoints, g, ri, cfg); ok {
			path = []model.RawEdge{edge}
		}
	}

	return path, len(path) > 0
}

func stripSpecials(edges []model.SearchEdge) []model.SearchEdge {
	out := make([]model.SearchEdge, 0, len(edges))
	for _, e := range edges {
		if !e.IsSpecial {
			out = append(out, e)
		}
	}
	return out
}

func consumeFrontOffset(edges []model.SearchEdge, offset float64) []model.SearchEdge {
	remaining := offset
	i := 0
	for i < len(edges) && remaining > 0 {
		length := edges[i].Raw.Length
		if length <= 2*remaining {
			remaining -= length
			i++
		} else {
			break
		}
	}
	return edges[i:]
}

func consumeBackOffset(edges []model.SearchEdge, offset float64) []model.SearchEdge {
	remaining := offset
	j := len(edges)
	for j > 0 && remaining > 0 {
		length := edges[j-1].Raw.Length
		if length <= 2*remaining {
			remaining -= length
			j--
		} else {
			break
		}
	}
	return edges[:j]
}

func rawEdgesOf(edges []model.SearchEdge) []model.RawEdge {
	out := make([]model.RawEdge, 0, len(edges))
	for _, e := range edges {
		if !e.Raw.IsFake {
			out = append(out, e.Raw)
		}
	}
	return out
}

func allFake(edges []model.SearchEdge) bool {
	for _, e := range edges {
		if !e.Raw.IsFake {
			return false
		}
	}
	return true
}

func sameEdge(a, b model.RawEdge) bool {
	return a.Start == b.Start && a.End == b.End && a.FeatureID == b.FeatureID
}

// frontReattachment implements §4.6 step 4.
func frontReattachment(edges []model.SearchEdge, waypoints []model.Waypoint, g graph.RoadGraph, ri graph.RoadInfo, cfg model.Config) (model.RawEdge, bool) {
	prefixEnd := 0
	for prefixEnd < len(edges) && edges[prefixEnd].Raw.IsFake && edges[prefixEnd].From.Stage == 0 && edges[prefixEnd].To.Stage == 0 {
		prefixEnd++
	}
	if prefixEnd >= len(edges) {
		return model.RawEdge{}, false
	}
	startJunction := edges[prefixEnd].From.Junction

	candidates := candidateEdges(g, ri, startJunction, waypoints[0].Lfrcnp, cfg, false)
	// Only the fake-edge run strictly before the boundary edge feeds the
	// matching score -- the boundary edge itself is real and already in
	// the path.
	ref := reversedPairs(edges[:prefixEnd])

	var best model.RawEdge
	bestScore := -1.0
	for _, c := range candidates {
		score := matchingScore(c.End.Point, c.Start.Point, ref, cfg.Eps)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore >= cfg.ReattachScoreThreshold {
		return best.Reverse(), true
	}
	return model.RawEdge{}, false
}

// backReattachment implements §4.6 step 5.
func backReattachment(edges []model.SearchEdge, waypoints []model.Waypoint, g graph.RoadGraph, ri graph.RoadInfo, cfg model.Config) (model.RawEdge, bool) {
	lastStage := len(waypoints) - 2
	suffixStart := len(edges)
	for suffixStart > 0 && edges[suffixStart-1].Raw.IsFake && edges[suffixStart-1].From.Stage == lastStage && edges[suffixStart-1].To.Stage == lastStage {
		suffixStart--
	}
	if suffixStart <= 0 {
		return model.RawEdge{}, false
	}
	endJunction := edges[suffixStart-1].To.Junction

	candidates := candidateEdges(g, ri, endJunction, waypoints[len(waypoints)-2].Lfrcnp, cfg, true)
	// Only the fake-edge run strictly after the boundary edge feeds the
	// matching score -- the boundary edge itself is real and already in
	// the path.
	ref := forwardPairs(edges[suffixStart:])

	var best model.RawEdge
	bestScore := -1.0
	for _, c := range candidates {
		score := matchingScore(c.Start.Point, c.End.Point, ref, cfg.Eps)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore >= cfg.ReattachScoreThreshold {
		return best, true
	}
	return model.RawEdge{}, false
}

// candidateEdges gathers reattachment candidates from both the graph's
// direct ingoing/outgoing edges and its nearest-edge query, per §4.6 step 4
// ("from the graph and from the nearest-edge query"), keeping only those
// permitted by lfrcnp.
func candidateEdges(g graph.RoadGraph, ri graph.RoadInfo, j model.Junction, lfrcnp int, cfg model.Config, outgoing bool) []model.RawEdge {
	var direct []model.RawEdge
	if outgoing {
		direct = g.GetRegularOutgoingEdges(j)
	} else {
		direct = g.GetRegularIngoingEdges(j)
	}

	nearby := g.FindClosestEdges(j.Point, cfg.MaxRoadCandidates)

	seen := make(map[model.RawEdge]bool, len(direct)+len(nearby))
	out := make([]model.RawEdge, 0, len(direct)+len(nearby))
	add := func(e model.RawEdge) {
		if e.IsFake || seen[e] || !passesLfrcnp(e, ri, lfrcnp, cfg.FrcTolerance) {
			return
		}
		seen[e] = true
		out = append(out, e)
	}
	for _, e := range direct {
		add(e)
	}
	for _, c := range nearby {
		add(c.Edge)
	}
	return out
}

// passesLfrcnp mirrors pkg/router's edge-cache filter (§4.4): a real edge
// passes iff its functional class is within lfrcnp+tolerance. Edges with no
// resolvable metadata are permitted, matching the router's own leniency.
func passesLfrcnp(e model.RawEdge, ri graph.RoadInfo, lfrcnp, tolerance int) bool {
	meta, ok := ri.Get(e.FeatureID)
	if !ok {
		return true
	}
	return meta.FunctionalRoadClass <= lfrcnp+tolerance
}

// endpoints is one ref segment's ordered pair of points, oriented the
// direction matchingScore expects to walk it in -- the reversed or forward
// projection of router.cpp's Router::Edge::ToPairRev/ToPair.
type endpoints struct{ s, t geo.Point }

// reversedPairs turns a fake-edge run into the (End, Start) pairs
// matchingScore walks back-to-front, mirroring
// make_transform_iterator(EdgeItRev(e), mem_fn(&Edge::ToPairRev)): the last
// edge of run comes first, each edge reversed.
func reversedPairs(run []model.SearchEdge) []endpoints {
	out := make([]endpoints, 0, len(run))
	for i := len(run) - 1; i >= 0; i-- {
		e := run[i].Raw
		out = append(out, endpoints{s: e.End.Point, t: e.Start.Point})
	}
	return out
}

// forwardPairs turns a fake-edge run into the (Start, End) pairs
// matchingScore walks front-to-back, mirroring
// make_transform_iterator(e.base(), mem_fn(&Edge::ToPair)).
func forwardPairs(run []model.SearchEdge) []endpoints {
	out := make([]endpoints, 0, len(run))
	for _, e := range run {
		out = append(out, endpoints{s: e.Raw.Start.Point, t: e.Raw.End.Point})
	}
	return out
}

// matchingScore implements router.cpp's GetMatchingScore: unlike
// coverageFraction's union-of-disjoint-intervals (step 7's "coverage"),
// this walks ref in order starting from the segment boundary and stops at
// the first entry that isn't on the [u,v] line (within eps) or doesn't
// point the same direction as [u,v], summing raw lengths rather than
// merging intervals. A non-consecutive ref entry that happens to land back
// on the line after an earlier mismatch is never counted.
func matchingScore(u, v geo.Point, ref []endpoints, eps float64) float64 {
	length := geo.Distance(u, v)
	if length == 0 {
		return 0
	}

	cov := 0.0
	for _, p := range ref {
		if _, onLine := geo.OnSegmentWithEps(u, v, p.s, eps); !onLine {
			break
		}
		if _, onLine := geo.OnSegmentWithEps(u, v, p.t, eps); !onLine {
			break
		}
		if geo.Dot(u, v, p.s, p.t) < -eps {
			break
		}
		cov += geo.Distance(p.s, p.t)
	}

	score := cov / length
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// coverageFraction computes the fraction of candidate's length covered by
// the union of intervals induced by ref's endpoints that lie on candidate's
// line within eps and point the same direction along it (non-negative dot
// product) -- router.cpp's GetCoverage, §4.6 step 7's "coverage". Unlike
// matchingScore (step 4/5), order among ref's entries doesn't matter here:
// every on-line, correctly-oriented entry contributes to the union, even
// ones that aren't consecutive.
func coverageFraction(candidate model.RawEdge, ref []model.SearchEdge, eps float64) float64 {
	const lengthThresholdM = 1.0
	if candidate.Length < lengthThresholdM {
		return 0
	}

	type interval struct{ lo, hi float64 }
	var intervals []interval

	for _, e := range ref {
		dir := geo.Dot(e.Raw.Start.Point, e.Raw.End.Point, candidate.Start.Point, candidate.End.Point)
		if dir < 0 {
			continue
		}
		tStart, onStart := geo.OnSegmentWithEps(candidate.Start.Point, candidate.End.Point, e.Raw.Start.Point, eps)
		tEnd, onEnd := geo.OnSegmentWithEps(candidate.Start.Point, candidate.End.Point, e.Raw.End.Point, eps)
		if !onStart || !onEnd {
			continue
		}
		lo, hi := tStart, tEnd
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi < 0 || lo > 1 {
			continue
		}
		if lo < 0 {
			lo = 0
		}
		if hi > 1 {
			hi = 1
		}
		intervals = append(intervals, interval{lo, hi})
	}

	if len(intervals) == 0 {
		return 0
	}

	for i := 1; i < len(intervals); i++ {
		key := intervals[i]
		j := i - 1
		for j >= 0 && intervals[j].lo > key.lo {
			intervals[j+1] = intervals[j]
			j--
		}
		intervals[j+1] = key
	}

	union := 0.0
	curLo, curHi := intervals[0].lo, intervals[0].hi
	for _, iv := range intervals[1:] {
		if iv.lo > curHi {
			union += curHi - curLo
			curLo, curHi = iv.lo, iv.hi
		} else if iv.hi > curHi {
			curHi = iv.hi
		}
	}
	union += curHi - curLo

	return union
}

// singleEdgeFallback implements §4.6 step 7.
func singleEdgeFallback(edges []model.SearchEdge, waypoints []model.Waypoint, g graph.RoadGraph, ri graph.RoadInfo, cfg model.Config) (model.RawEdge, bool) {
	expectedLength := 0.0
	for _, e := range edges {
		expectedLength += e.Raw.Length
	}

	// Candidates are kept in a slice in discovery order, with the map used
	// only to dedupe -- ranging a map directly here would make the
	// max-scan below pick a different edge on a weighted tie depending on
	// Go's randomized map iteration order, breaking §5/§8's determinism
	// guarantee across repeated identical calls.
	seen := map[model.RawEdge]bool{}
	var candidates []model.RawEdge
	for _, e := range edges {
		lfrcnp := waypoints[e.From.Stage].Lfrcnp
		for _, j := range []model.Junction{e.From.Junction, e.To.Junction} {
			for _, c := range g.FindClosestEdges(j.Point, cfg.MaxRoadCandidates) {
				if c.Edge.IsFake || seen[c.Edge] || !passesLfrcnp(c.Edge, ri, lfrcnp, cfg.FrcTolerance) {
					continue
				}
				seen[c.Edge] = true
				candidates = append(candidates, c.Edge)
			}
		}
	}

	var best model.RawEdge
	bestWeighted := -1.0
	for _, c := range candidates {
		fraction := coverageFraction(c, edges, cfg.Eps)
		if fraction < cfg.SingleEdgeFractionMin {
			continue
		}
		weighted := c.Length * fraction
		if weighted > bestWeighted {
			bestWeighted = weighted
			best = c
		}
	}

	if bestWeighted >= cfg.SingleEdgeWeightedMinRatio*expectedLength && bestWeighted >= 0 {
		return best, true
	}
	return model.RawEdge{}, false
}
