package reconstruct

import (
	"testing"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/memgraph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

func junctionAt(x, y float64) model.Junction {
	return model.NewJunction(geo.NewPoint(x, y), 0)
}

func rawFake(start, end model.Junction) model.RawEdge {
	return model.RawEdge{Start: start, End: end, Length: geo.Distance(start.Point, end.Point), IsFake: true}
}

func TestConsumeFrontOffsetStopsPastHalfLength(t *testing.T) {
	a, b, c, d := junctionAt(0, 0), junctionAt(0, 100), junctionAt(0, 200), junctionAt(0, 300)
	edges := []model.SearchEdge{
		{Raw: model.RawEdge{Start: a, End: b, Length: 100}},
		{Raw: model.RawEdge{Start: b, End: c, Length: 100}},
		{Raw: model.RawEdge{Start: c, End: d, Length: 100}},
	}

	got := consumeFrontOffset(edges, 150)
	if len(got) != 1 || got[0].Raw.Start != c {
		t.Fatalf("expected only the last edge to survive a 150m front offset, got %+v", got)
	}
}

func TestConsumeFrontOffsetCanConsumeEverything(t *testing.T) {
	a, b, c, d := junctionAt(0, 0), junctionAt(0, 100), junctionAt(0, 200), junctionAt(0, 300)
	edges := []model.SearchEdge{
		{Raw: model.RawEdge{Start: a, End: b, Length: 100}},
		{Raw: model.RawEdge{Start: b, End: c, Length: 100}},
		{Raw: model.RawEdge{Start: c, End: d, Length: 100}},
	}

	got := consumeFrontOffset(edges, 250)
	if len(got) != 0 {
		t.Fatalf("expected a 250m front offset to consume all three 100m edges, got %+v", got)
	}
}

func TestConsumeBackOffsetSymmetric(t *testing.T) {
	a, b, c, d := junctionAt(0, 0), junctionAt(0, 100), junctionAt(0, 200), junctionAt(0, 300)
	edges := []model.SearchEdge{
		{Raw: model.RawEdge{Start: a, End: b, Length: 100}},
		{Raw: model.RawEdge{Start: b, End: c, Length: 100}},
		{Raw: model.RawEdge{Start: c, End: d, Length: 100}},
	}

	got := consumeBackOffset(edges, 150)
	if len(got) != 1 || got[0].Raw.Start != a {
		t.Fatalf("expected only the first edge to survive a 150m back offset, got %+v", got)
	}
}

func TestCoverageFractionFullCoverage(t *testing.T) {
	candidate := model.RawEdge{Start: junctionAt(0, 0), End: junctionAt(0, 100), Length: 100}
	ref := []model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},
	}

	got := coverageFraction(candidate, ref, 1e-9)
	if got < 0.999 {
		t.Errorf("expected two colinear halves to fully cover the candidate, got %v", got)
	}
}

func TestCoverageFractionPartialCoverage(t *testing.T) {
	candidate := model.RawEdge{Start: junctionAt(0, 0), End: junctionAt(0, 100), Length: 100}
	ref := []model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
	}

	got := coverageFraction(candidate, ref, 1e-9)
	if got > 0.51 || got < 0.49 {
		t.Errorf("expected half-length ref to cover half the candidate, got %v", got)
	}
}

func TestCoverageFractionIgnoresOffLineEndpoints(t *testing.T) {
	candidate := model.RawEdge{Start: junctionAt(0, 0), End: junctionAt(0, 100), Length: 100}
	ref := []model.SearchEdge{
		{Raw: rawFake(junctionAt(50, 0), junctionAt(50, 100))},
	}

	got := coverageFraction(candidate, ref, 1e-9)
	if got != 0 {
		t.Errorf("expected a parallel but off-line ref to contribute no coverage, got %v", got)
	}
}

func TestMatchingScoreFullCoverage(t *testing.T) {
	ref := forwardPairs([]model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},
	})

	got := matchingScore(junctionAt(0, 0).Point, junctionAt(0, 100).Point, ref, 1e-9)
	if got < 0.999 {
		t.Errorf("expected two consecutive colinear halves to fully cover [u,v], got %v", got)
	}
}

// TestMatchingScoreStopsAtFirstMismatch is the behavior that distinguishes
// matchingScore from coverageFraction: a ref entry that returns to the line
// after an earlier off-line entry must not count, because router.cpp's
// GetMatchingScore walks in order and breaks on the first mismatch instead
// of unioning every on-line entry regardless of position.
func TestMatchingScoreStopsAtFirstMismatch(t *testing.T) {
	ref := forwardPairs([]model.SearchEdge{
		{Raw: rawFake(junctionAt(50, 0), junctionAt(50, 50))},  // off-line, breaks immediately
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},  // on-line, but comes after the break
	})

	got := matchingScore(junctionAt(0, 0).Point, junctionAt(0, 100).Point, ref, 1e-9)
	if got != 0 {
		t.Errorf("expected the off-line first entry to zero out the score despite a later on-line entry, got %v", got)
	}
}

func TestMatchingScorePartialThenMismatchStopsCounting(t *testing.T) {
	ref := forwardPairs([]model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 25))},    // on-line, counts
		{Raw: rawFake(junctionAt(50, 25), junctionAt(50, 75))}, // off-line, breaks
		{Raw: rawFake(junctionAt(0, 75), junctionAt(0, 100))},  // on-line, but never reached
	})

	got := matchingScore(junctionAt(0, 0).Point, junctionAt(0, 100).Point, ref, 1e-9)
	if got > 0.26 || got < 0.24 {
		t.Errorf("expected only the first quarter-length entry to count, got %v", got)
	}
}

func TestMatchingScoreRejectsOppositeDirection(t *testing.T) {
	ref := forwardPairs([]model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 0))}, // on-line but backward
	})

	got := matchingScore(junctionAt(0, 0).Point, junctionAt(0, 100).Point, ref, 1e-9)
	if got != 0 {
		t.Errorf("expected a backward-pointing ref entry to contribute no score, got %v", got)
	}
}

func TestReversedPairsOrdersLastEdgeFirst(t *testing.T) {
	run := []model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},
	}

	got := reversedPairs(run)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got))
	}
	if got[0].s != junctionAt(0, 100).Point || got[0].t != junctionAt(0, 50).Point {
		t.Errorf("expected the last edge reversed first, got %+v", got[0])
	}
	if got[1].s != junctionAt(0, 50).Point || got[1].t != junctionAt(0, 0).Point {
		t.Errorf("expected the first edge reversed second, got %+v", got[1])
	}
}

func TestForwardPairsPreservesOrder(t *testing.T) {
	run := []model.SearchEdge{
		{Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
		{Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},
	}

	got := forwardPairs(run)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got))
	}
	if got[0].s != junctionAt(0, 0).Point || got[0].t != junctionAt(0, 50).Point {
		t.Errorf("expected the first edge first and unreversed, got %+v", got[0])
	}
	if got[1].s != junctionAt(0, 50).Point || got[1].t != junctionAt(0, 100).Point {
		t.Errorf("expected the second edge second and unreversed, got %+v", got[1])
	}
}

func TestSingleEdgeFallbackAcceptsFullyCoveredCandidate(t *testing.T) {
	g := memgraph.New()
	c := g.AddRealEdge(junctionAt(0, 0), junctionAt(0, 100), 1, 1)

	half1 := model.Vertex{Junction: junctionAt(0, 0)}
	mid := model.Vertex{Junction: junctionAt(0, 50)}
	half2end := model.Vertex{Junction: junctionAt(0, 100)}
	edges := []model.SearchEdge{
		{From: half1, To: mid, Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
		{From: mid, To: half2end, Raw: rawFake(junctionAt(0, 50), junctionAt(0, 100))},
	}

	waypoints := []model.Waypoint{model.NewWaypoint(junctionAt(0, 0).Point, 0, 0, 4)}
	got, ok := singleEdgeFallback(edges, waypoints, g, g.RoadInfo(), model.DefaultConfig())
	if !ok {
		t.Fatal("expected the fully-covered real edge to be accepted as the single-edge fallback")
	}
	if got != c {
		t.Errorf("expected fallback to return the candidate edge, got %+v", got)
	}
}

func TestSingleEdgeFallbackRejectsSparseCoverage(t *testing.T) {
	g := memgraph.New()
	g.AddRealEdge(junctionAt(0, 0), junctionAt(0, 100), 1, 1)

	start := model.Vertex{Junction: junctionAt(0, 0)}
	end := model.Vertex{Junction: junctionAt(0, 50)}
	edges := []model.SearchEdge{
		{From: start, To: end, Raw: rawFake(junctionAt(0, 0), junctionAt(0, 50))},
	}

	waypoints := []model.Waypoint{model.NewWaypoint(junctionAt(0, 0).Point, 0, 0, 4)}
	_, ok := singleEdgeFallback(edges, waypoints, g, g.RoadInfo(), model.DefaultConfig())
	if ok {
		t.Fatal("expected half coverage to fall below the single-edge fraction threshold")
	}
}
