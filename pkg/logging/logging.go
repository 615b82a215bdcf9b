// Package logging builds the *zap.Logger threaded through this repo's
// services and cmd/olrmatchd handlers, mirroring how the sibling teacher
// repo (lintang-b-s-Navigatorx) threads a *zap.Logger from cmd/engine/main.go
// down into pkg/http/router/controllers rather than reaching for the
// package-level log used by this repo's original teacher's cmd/*/main.go.
package logging

import "go.uber.org/zap"

// New builds a production zap.Logger, or a development one (human-readable,
// caller-annotated) when debug is set -- the two configurations the
// teacher's own services distinguish between local runs and deployments.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
