package model

// RawEdge is a directed edge produced by the road graph (§3).
type RawEdge struct {
	Start        Junction
	End          Junction
	Length       float64 // geodesic length in meters
	IsFake       bool
	IsPartOfReal bool // only meaningful when IsFake
	FeatureID    int64 // only meaningful for real edges
}

// Reverse returns the same physical edge traversed the other way, keeping
// its fake/feature attributes.
func (e RawEdge) Reverse() RawEdge {
	e.Start, e.End = e.End, e.Start
	return e
}

// SearchEdge is (u, v, raw, is_special) from §3: a step taken by the search
// engine, in one of two flavors. "Polymorphism-free" per the Design Notes --
// a one-bit tag on a product type rather than an interface hierarchy.
type SearchEdge struct {
	From      Vertex
	To        Vertex
	Raw       RawEdge
	IsSpecial bool
}
