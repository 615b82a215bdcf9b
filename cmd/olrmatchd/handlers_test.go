package main

import (
	"testing"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

func TestRenderMatchResponseBuildsOneCoordPerJunction(t *testing.T) {
	a := model.NewJunction(geo.NewPoint(0, 0), 0)
	b := model.NewJunction(geo.NewPoint(100, 0), 0)
	c := model.NewJunction(geo.NewPoint(100, 100), 0)
	path := []model.RawEdge{
		{Start: a, End: b, Length: 100, FeatureID: 1},
		{Start: b, End: c, Length: 100, FeatureID: 2},
	}

	resp := renderMatchResponse(path)

	if len(resp.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(resp.Edges))
	}
	if resp.Edges[0].FeatureID != 1 || resp.Edges[1].FeatureID != 2 {
		t.Fatalf("edges out of order: %+v", resp.Edges)
	}
	if resp.Edges[0].Heading != "East" {
		t.Fatalf("expected the first edge (0,0)->(100,0) to head East, got %q", resp.Edges[0].Heading)
	}
	if resp.Edges[1].Heading != "North" {
		t.Fatalf("expected the second edge (100,0)->(100,100) to head North, got %q", resp.Edges[1].Heading)
	}
	if resp.Polyline == "" {
		t.Fatal("expected a non-empty encoded polyline")
	}
}

func TestBearingToCompassBoundaries(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "North"},
		{45, "North East"},
		{90, "East"},
		{135, "South East"},
		{180, "South"},
		{225, "South West"},
		{270, "West"},
		{315, "North West"},
		{359, "North"},
	}
	for _, c := range cases {
		if got := bearingToCompass(c.deg); got != c.want {
			t.Errorf("bearingToCompass(%v) = %q, want %q", c.deg, got, c.want)
		}
	}
}

func TestRenderMatchResponseEmptyPath(t *testing.T) {
	resp := renderMatchResponse(nil)
	if len(resp.Edges) != 0 {
		t.Fatalf("expected no edges, got %d", len(resp.Edges))
	}
	if resp.Polyline != "" {
		t.Fatalf("expected an empty polyline for an empty path, got %q", resp.Polyline)
	}
}
