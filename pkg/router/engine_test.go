package router

import (
	"testing"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/memgraph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
	"github.com/lintang-b-s/olrmatch/pkg/reconstruct"
	"github.com/stretchr/testify/assert"
)

func junction(x, y float64) model.Junction {
	return model.NewJunction(geo.NewPoint(x, y), 0)
}

// scenario 1 of §8: two way-points, one straight real edge between them.
func TestFindPathStraightRealEdge(t *testing.T) {
	g := memgraph.New()
	a := junction(0, 0)
	b := junction(0, 100)
	g.AddRealEdge(a, b, 1, 1)

	waypoints := []model.Waypoint{
		model.NewWaypoint(a.Point, 100, 0, 0),
		model.NewWaypoint(b.Point, 0, 128, 0),
	}

	cfg := model.DefaultConfig()
	eng := New(g, g.RoadInfo(), cfg, nil)

	edges, ok := eng.FindPath(waypoints)
	assert.True(t, ok)

	path, ok := reconstruct.Reconstruct(edges, 0, 0, waypoints, g, g.RoadInfo(), cfg)
	assert.True(t, ok)
	assert.Equal(t, 1, len(path))
	assert.Equal(t, a, path[0].Start)
	assert.Equal(t, b, path[0].End)
	assert.False(t, path[0].IsFake)
}

// scenario 2 of §8: offset trimming consumes the whole path.
func TestFindPathOffsetTrimsWholePath(t *testing.T) {
	g := memgraph.New()
	a := junction(0, 0)
	b := junction(0, 100)
	g.AddRealEdge(a, b, 1, 1)

	waypoints := []model.Waypoint{
		model.NewWaypoint(a.Point, 100, 0, 0),
		model.NewWaypoint(b.Point, 0, 128, 0),
	}

	cfg := model.DefaultConfig()
	eng := New(g, g.RoadInfo(), cfg, nil)

	edges, ok := eng.FindPath(waypoints)
	assert.True(t, ok)

	path, ok := reconstruct.Reconstruct(edges, 100, 0, waypoints, g, g.RoadInfo(), cfg)
	assert.False(t, ok)
	assert.Equal(t, 0, len(path))
}

// scenario 4 of §8: road-class restriction picks the compliant edge.
func TestFindPathRoadClassRestriction(t *testing.T) {
	g := memgraph.New()
	a := junction(0, 0)
	b := junction(0, 100)
	// short edge, functional class too high (above lfrcnp+3)
	g.AddRealEdge(a, b, 1, 10)
	longB := junction(20, 100)
	g.AddRealEdge(a, longB, 2, 1)

	waypoints := []model.Waypoint{
		model.NewWaypoint(a.Point, 100, geo.BearingBucket(a.Point, longB.Point, 256), 0),
		model.NewWaypoint(longB.Point, 0, 0, 0),
	}

	cfg := model.DefaultConfig()
	eng := New(g, g.RoadInfo(), cfg, nil)

	edges, ok := eng.FindPath(waypoints)
	assert.True(t, ok)

	path, ok := reconstruct.Reconstruct(edges, 0, 0, waypoints, g, g.RoadInfo(), cfg)
	assert.True(t, ok)
	assert.Equal(t, 1, len(path))
	assert.Equal(t, int64(2), path[0].FeatureID)
}

// scenario 5 of §8: bearing discrimination picks the edge matching the
// declared departure bearing even though it is not the shortest.
func TestFindPathBearingDiscrimination(t *testing.T) {
	g := memgraph.New()
	a := junction(0, 0)
	north := junction(0, 100)  // bearing 0
	east := junction(100, 10)  // slightly longer, bearing close to east

	g.AddRealEdge(a, north, 1, 1)
	g.AddRealEdge(a, east, 2, 1)

	// declare a bearing matching the "east" edge's departure direction
	expectedBearing := geo.BearingBucket(a.Point, east.Point, 256)

	waypoints := []model.Waypoint{
		model.NewWaypoint(a.Point, 100, expectedBearing, 0),
		model.NewWaypoint(east.Point, 0, 0, 0),
	}

	cfg := model.DefaultConfig()
	eng := New(g, g.RoadInfo(), cfg, nil)

	edges, ok := eng.FindPath(waypoints)
	assert.True(t, ok)

	path, ok := reconstruct.Reconstruct(edges, 0, 0, waypoints, g, g.RoadInfo(), cfg)
	assert.True(t, ok)
	assert.Equal(t, 1, len(path))
	assert.Equal(t, int64(2), path[0].FeatureID)
}

func TestFindPathPanicsOnDegenerateInput(t *testing.T) {
	g := memgraph.New()
	cfg := model.DefaultConfig()
	eng := New(g, g.RoadInfo(), cfg, nil)

	assert.Panics(t, func() {
		eng.FindPath([]model.Waypoint{model.NewWaypoint(geo.NewPoint(0, 0), 0, 0, 0)})
	})
}
