// Package model holds the plain data types shared by the search engine and
// the path reconstructor: way-points, junctions, raw and search edges, the
// vertex search-state, the accumulated score, and the tunable constants of
// the router.
package model

// Config gathers every tunable constant of the router (§6) into a single
// value passed at construction time. There is no package-level default
// instance and no singleton: callers that want the stock behavior call
// DefaultConfig() and hold onto the result themselves.
type Config struct {
	MaxRoadCandidates int
	DistanceAccuracyM float64
	Eps               float64
	BearingDistM       float64
	NumBuckets         int

	// FrcTolerance is the "+3" of "LFRCNP + 3" surfaced as a named field
	// instead of a bare literal.
	FrcTolerance int

	// Score coefficients.
	TrueFakeCoefficient    float64
	PartOfRealCoefficient  float64
	IntermediateCoefficient float64
	DistanceErrorCoefficient float64
	BearingCoefficient     float64

	// Path-reconstruction thresholds.
	ReattachScoreThreshold   float64
	SingleEdgeFractionMin    float64
	SingleEdgeWeightedMinRatio float64
}

// DefaultConfig returns the stock tunables of §6.
func DefaultConfig() Config {
	return Config{
		MaxRoadCandidates:          10,
		DistanceAccuracyM:          1000,
		Eps:                        1e-9,
		BearingDistM:               25,
		NumBuckets:                 256,
		FrcTolerance:               3,
		TrueFakeCoefficient:        10,
		PartOfRealCoefficient:      0.001,
		IntermediateCoefficient:    3,
		DistanceErrorCoefficient:   3,
		BearingCoefficient:         5,
		ReattachScoreThreshold:     0.5,
		SingleEdgeFractionMin:      0.8,
		SingleEdgeWeightedMinRatio: 0.5,
	}
}
