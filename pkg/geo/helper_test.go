package geo

import "testing"

func TestSimplifyPolyline(t *testing.T) {
	line := []Point{
		{X: 0, Y: 0},
		{X: 50, Y: 0.5},
		{X: 100, Y: 1},
	}

	simplified := SimplifyPolyline(line)
	if len(simplified) > 2 {
		t.Errorf("expected 2, got %d", len(simplified))
	}
}

func TestSimplifyPolylineKeepsOutliers(t *testing.T) {
	line := []Point{
		{X: 0, Y: 0},
		{X: 50, Y: 50}, // well outside the threshold of the straight line
		{X: 100, Y: 0},
	}

	simplified := SimplifyPolyline(line)
	if len(simplified) != 3 {
		t.Errorf("expected 3, got %d", len(simplified))
	}
}
