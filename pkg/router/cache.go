package router

import (
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// edgeCache is the per-vertex memoization of §4.4: regular outgoing/ingoing
// edges are cached by junction, fake edges are always fetched fresh (see
// DESIGN.md's Open Question decision on why fakes are never cached).
type edgeCache struct {
	out map[model.Junction][]model.RawEdge
	in  map[model.Junction][]model.RawEdge
}

func newEdgeCache() *edgeCache {
	return &edgeCache{
		out: make(map[model.Junction][]model.RawEdge),
		in:  make(map[model.Junction][]model.RawEdge),
	}
}

func (c *edgeCache) regular(g graph.RoadGraph, j model.Junction, outgoing bool) []model.RawEdge {
	cache := c.out
	if !outgoing {
		cache = c.in
	}
	if edges, ok := cache[j]; ok {
		return edges
	}
	var edges []model.RawEdge
	if outgoing {
		edges = g.GetRegularOutgoingEdges(j)
	} else {
		edges = g.GetRegularIngoingEdges(j)
	}
	cache[j] = edges
	return edges
}

// forEachEdge implements for_each_edge(u, outgoing, lfrcnp, fn) of §4.4: it
// invokes fn on every regular edge whose functional class passes the
// lfrcnp+tolerance restriction, and on every fake edge unconditionally.
func (c *edgeCache) forEachEdge(g graph.RoadGraph, ri graph.RoadInfo, j model.Junction, outgoing bool, lfrcnp int, cfg model.Config, fn func(model.RawEdge)) {
	for _, e := range c.regular(g, j, outgoing) {
		if passesLfrcnp(e, ri, lfrcnp, cfg.FrcTolerance) {
			fn(e)
		}
	}

	var fakes []model.RawEdge
	if outgoing {
		fakes = g.GetFakeOutgoingEdges(j)
	} else {
		fakes = g.GetFakeIngoingEdges(j)
	}
	for _, e := range fakes {
		fn(e)
	}
}

// passesLfrcnp reports whether a real edge's functional road class is
// within tolerance of lfrcnp (§4.4). Edges with no resolvable metadata are
// permitted rather than silently excluded, since the core treats road-class
// metadata as an external collaborator's responsibility, not its own.
func passesLfrcnp(e model.RawEdge, ri graph.RoadInfo, lfrcnp, tolerance int) bool {
	meta, ok := ri.Get(e.FeatureID)
	if !ok {
		return true
	}
	return meta.FunctionalRoadClass <= lfrcnp+tolerance
}
