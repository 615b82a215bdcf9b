package geo

import "container/list"

const (
	// douglasPeuckerThresholdM is the perpendicular-distance threshold, in
	// meters, below which an intermediate geometry point is considered
	// redundant. Neither the router core nor the HTTP handler calls
	// SimplifyPolyline; the handler polyline-encodes edge endpoints as they
	// are.
	douglasPeuckerThresholdM = 7.0
)

// SimplifyPolyline runs the Ramer-Douglas-Peucker algorithm over a
// polyline's points, keeping only the points needed to stay within
// douglasPeuckerThresholdM of the original shape.
// https://cartography-playground.gitlab.io/playgrounds/douglas-peucker-algorithm/
func SimplifyPolyline(points []Point) []Point {
	size := len(points)
	if size < 2 {
		return points
	}

	kept := make([]bool, size)
	kept[0] = true
	kept[size-1] = true

	stack := list.New()
	stack.PushBack([2]int{0, size - 1})

	for stack.Len() > 0 {
		pair := stack.Remove(stack.Back()).([2]int)
		left, right := pair[0], pair[1]
		var maxDist float64
		farthestIndex := left

		for i := left + 1; i < right; i++ {
			_, perp := ProjectParam(points[left], points[right], points[i])
			if perp > maxDist && perp > douglasPeuckerThresholdM {
				maxDist = perp
				farthestIndex = i
			}
		}

		if maxDist > douglasPeuckerThresholdM {
			kept[farthestIndex] = true
			if left < farthestIndex {
				stack.PushBack([2]int{left, farthestIndex})
			}
			if farthestIndex < right {
				stack.PushBack([2]int{farthestIndex, right})
			}
		}
	}

	simplified := make([]Point, 0, size)
	for i, keep := range kept {
		if keep {
			simplified = append(simplified, points[i])
		}
	}
	return simplified
}
