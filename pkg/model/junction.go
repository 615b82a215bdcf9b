package model

import "github.com/lintang-b-s/olrmatch/pkg/geo"

// Junction is a graph point with an altitude. Two junctions are equal iff
// point and altitude match exactly (§3) -- Go's == on this struct already
// gives us that, which is why Junction carries no pointer fields and never
// will: it needs to work as a map key untouched.
type Junction struct {
	Point geo.Point
	Alt   float64
}

func NewJunction(point geo.Point, alt float64) Junction {
	return Junction{Point: point, Alt: alt}
}
