package geo

import "testing"

func TestBearingDegreesCardinalDirections(t *testing.T) {
	origin := NewPoint(0, 0)
	cases := []struct {
		name string
		to   Point
		want float64
	}{
		{"north", NewPoint(0, 10), 0},
		{"east", NewPoint(10, 0), 90},
		{"south", NewPoint(0, -10), 180},
		{"west", NewPoint(-10, 0), 270},
	}
	for _, c := range cases {
		got := BearingDegrees(origin, c.to)
		if got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBearingDegreesZeroLengthSegment(t *testing.T) {
	p := NewPoint(5, 5)
	if got := BearingDegrees(p, p); got != 0 {
		t.Errorf("expected 0 for a degenerate segment, got %v", got)
	}
}

func TestBearingBucketRange(t *testing.T) {
	origin := NewPoint(0, 0)
	for _, to := range []Point{NewPoint(1, 1), NewPoint(-1, 1), NewPoint(1, -1), NewPoint(-1, -1)} {
		b := BearingBucket(origin, to, 256)
		if b < 0 || b >= 256 {
			t.Errorf("bucket %d out of range for point %v", b, to)
		}
	}
}

func TestBearingBucketAdjacentAnglesAreCloseBuckets(t *testing.T) {
	origin := NewPoint(0, 0)
	b0 := BearingBucket(origin, NewPoint(0, 10), 256)
	b1 := BearingBucket(origin, NewPoint(0.1, 10), 256)
	diff := b1 - b0
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		t.Errorf("expected neighboring directions to land in adjacent buckets, got %d and %d", b0, b1)
	}
}
