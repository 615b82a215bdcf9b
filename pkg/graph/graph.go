// Package graph declares the collaborator contracts the router core
// depends on (§6): the road graph itself and the road-metadata lookup.
// Neither is implemented here -- concrete instances live in pkg/memgraph
// (which pkg/osmgraph builds) and pkg/spatialindex, grounded on the teacher's own habit of declaring
// small consumer-side interfaces next to the code that calls them
// (pkg/contractor/interface.go's BufferPoolManager, pkg/snap/snap.go's
// Rtree, pkg/server/mm_rest/service/mapmatch.go's RouteAlgorithm/KVDB/
// Matching/RoadSnapper/ContractedGraph).
package graph

import (
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// ClosestEdge is one result of a nearest-edge query: a real edge together
// with the point on it closest to the query point.
type ClosestEdge struct {
	Edge       model.RawEdge
	Projection geo.Point
}

// RoadGraph is the road-graph provider of §6.
type RoadGraph interface {
	// ResetFakes discards every fake edge injected by a previous init.
	ResetFakes()

	// AddFakeEdges injects bidirectional fake edges between junction and
	// each endpoint in vicinity.
	AddFakeEdges(junction model.Junction, vicinity []model.Junction)

	// FindClosestEdges returns up to k nearest real edges to point, by
	// geodesic distance, together with their projected junctions.
	FindClosestEdges(point geo.Point, k int) []ClosestEdge

	GetRegularOutgoingEdges(junction model.Junction) []model.RawEdge
	GetRegularIngoingEdges(junction model.Junction) []model.RawEdge
	GetFakeOutgoingEdges(junction model.Junction) []model.RawEdge
	GetFakeIngoingEdges(junction model.Junction) []model.RawEdge
}

// RoadMeta is what the road-info lookup returns for a real edge.
type RoadMeta struct {
	FunctionalRoadClass int
}

// RoadInfo is the road-metadata lookup of §6.
type RoadInfo interface {
	Get(featureID int64) (RoadMeta, bool)
}
