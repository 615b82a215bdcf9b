package geo

import "math"

// Interpolate returns the point at distance distFromA from a, along the
// straight line from a toward b (and beyond it, if distFromA exceeds the
// length of ab). This is the "convex interpolation of a point at a given
// distance along a segment" of §6.
func Interpolate(a, b Point, distFromA float64) Point {
	length := Distance(a, b)
	if length < 1e-12 {
		return a
	}
	t := distFromA / length
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Dot is the 2-D dot product of vectors (a1->a2) and (b1->b2), per §6.
func Dot(a1, a2, b1, b2 Point) float64 {
	ax, ay := a2.X-a1.X, a2.Y-a1.Y
	bx, by := b2.X-b1.X, b2.Y-b1.Y
	return ax*bx + ay*by
}

// ProjectParam projects p onto the line through a and b, returning the
// parametric position t (0 at a, 1 at b) and the perpendicular distance
// from p to that line. Replaces the teacher's s2.Project-based
// ProjectPointToLineCoord, which operated on raw lat/lon -- here the plane
// is already flat, so the projection is a plain vector formula.
func ProjectParam(a, b, p Point) (t, perp float64) {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq < 1e-12 {
		return 0, Distance(a, p)
	}
	apx, apy := p.X-a.X, p.Y-a.Y
	t = (apx*abx + apy*aby) / lenSq
	projX, projY := a.X+t*abx, a.Y+t*aby
	dx, dy := p.X-projX, p.Y-projY
	perp = math.Sqrt(dx*dx + dy*dy)
	return t, perp
}

// OnSegmentWithEps reports whether p lies on the segment [a,b] within eps
// perpendicular distance -- the "point-on-segment-with-eps test" of §6 --
// and returns its 0..1 position along the segment (unclamped, so callers
// can tell an on-line-but-past-the-end point from a true interior point).
func OnSegmentWithEps(a, b, p Point, eps float64) (t float64, onLine bool) {
	t, perp := ProjectParam(a, b, p)
	return t, perp <= eps
}
