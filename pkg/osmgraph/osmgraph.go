// Package osmgraph builds a pkg/graph.RoadGraph from an OpenStreetMap PBF
// extract. Grounded on pkg/osmparser/osm_parser2.go's two-pass scan
// (osmpbf.New over the file twice: once to classify way/junction nodes,
// once to build edges) and pkg/osmparser/map.go's highway-tag filtering,
// generalized from building a contraction-hierarchies datastructure.Graph to
// building this repo's RawEdge/Junction graph.
//
// The router core (pkg/router, pkg/geo) works in a flat local plane, per the
// projected coordinate wording of this system's point type -- lat/lon
// geodesy belongs here, at the OSM import boundary, not in the search hot
// path. golang/geo's s2 package (the teacher's own projection dependency,
// pkg/geo/s2_geo.go) does that lat/lon -> local-plane work: every node is
// projected through an s2.LatLng onto an equirectangular tangent plane
// anchored at the extract's first junction node, in meters, which is what
// pkg/geo.Point expects everywhere else in this repo.
package osmgraph

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/memgraph"
	"github.com/lintang-b-s/olrmatch/pkg/model"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

const earthRadiusM = 6371000.0

// skipHighway mirrors the teacher's own filter: values under "highway" that
// don't correspond to a drivable way.
var skipHighway = map[string]struct{}{
	"footway": {}, "construction": {}, "cycleway": {}, "path": {},
	"pedestrian": {}, "busway": {}, "steps": {}, "bridleway": {},
	"corridor": {}, "street_lamp": {}, "bus_stop": {}, "crossing": {},
	"elevator": {}, "emergency_bay": {}, "emergency_access_point": {},
	"give_way": {}, "phone": {}, "ladder": {}, "milestone": {},
	"passing_place": {}, "platform": {}, "speed_camera": {}, "track": {},
	"bus_guideway": {}, "speed_display": {}, "stop": {}, "toll_gantry": {},
	"traffic_mirror": {}, "traffic_signals": {}, "trailhead": {},
}

// frcByHighway maps a highway tag to a functional road class, coarsest
// (motorway, frc 0) to finest (unclassified/residential, frc 4), for
// pkg/graph.RoadInfo's LFRCNP filtering. Anything unrecognized falls back to
// frc 4, the finest class this importer assigns (the first one LFRCNP
// filtering excludes).
var frcByHighway = map[string]int{
	"motorway": 0, "motorway_link": 0,
	"trunk": 1, "trunk_link": 1,
	"primary": 1, "primary_link": 1,
	"secondary": 2, "secondary_link": 2,
	"tertiary": 3, "tertiary_link": 3,
	"unclassified": 4, "residential": 4, "living_street": 4, "service": 4,
}

func acceptWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, skip := skipHighway[highway]; !skip {
			return true
		}
		return false
	}
	if way.Tags.Find("route") == "road" {
		return true
	}
	return junction != ""
}

func isOneWay(way *osm.Way) bool {
	ow := way.Tags.Find("oneway")
	return ow == "yes" || ow == "true" || ow == "1"
}

// projection is the tangent-plane anchor picked from the first junction node
// of an accepted way, in file order, so every point in the extract lands
// close to (0,0) in meters.
type projection struct {
	anchor s2.LatLng
}

func (p projection) project(lat, lon float64) geo.Point {
	ll := s2.LatLngFromDegrees(lat, lon)
	dLat := (ll.Lat - p.anchor.Lat).Radians()
	dLon := (ll.Lng - p.anchor.Lng).Radians()
	y := dLat * earthRadiusM
	x := dLon * earthRadiusM * math.Cos(p.anchor.Lat.Radians())
	return geo.NewPoint(x, y)
}

// Build parses path (an OSM PBF file) into an in-memory RoadGraph. It scans
// the file three times: the first pass finds which nodes terminate or join
// ways (so multi-node ways can be split into one edge per
// intersection-to-intersection segment), the second reads the coordinates
// of those junction nodes, and the third builds the edges themselves now
// that every node's role and position is known.
func Build(path string) (*memgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	junctionNodes := make(map[int64]bool)
	nodeWayCount := make(map[int64]int)

	scanner := osmpbf.New(context.Background(), f, 0)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 || !acceptWay(way) {
			continue
		}
		countWays++
		for i, n := range way.Nodes {
			id := int64(n.ID)
			nodeWayCount[id]++
			if i == 0 || i == len(way.Nodes)-1 || nodeWayCount[id] > 1 {
				junctionNodes[id] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan ways: %w", err)
	}
	scanner.Close()
	log.Printf("osmgraph: %d ways accepted, %d junction nodes", countWays, len(junctionNodes))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	nodeCoords := make(map[int64][2]float64)
	var anchor s2.LatLng
	haveAnchor := false
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		n := o.(*osm.Node)
		if junctionNodes[int64(n.ID)] {
			nodeCoords[int64(n.ID)] = [2]float64{n.Lat, n.Lon}
			if !haveAnchor {
				anchor = s2.LatLngFromDegrees(n.Lat, n.Lon)
				haveAnchor = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes: %w", err)
	}

	proj := projection{anchor: anchor}

	junctionOf := func(id int64) (model.Junction, bool) {
		c, ok := nodeCoords[id]
		if !ok {
			return model.Junction{}, false
		}
		return model.NewJunction(proj.project(c[0], c[1]), 0), true
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}
	g := memgraph.New()

	scanner2 := osmpbf.New(context.Background(), f, 0)
	defer scanner2.Close()
	var featureID int64
	for scanner2.Scan() {
		o := scanner2.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 || !acceptWay(way) {
			continue
		}
		highway := way.Tags.Find("highway")
		frc, ok := frcByHighway[strings.TrimSuffix(highway, "_link")]
		if !ok {
			frc = 4
		}
		oneway := isOneWay(way)
		featureID++

		var segStart model.Junction
		haveStart := false
		for _, n := range way.Nodes {
			j, ok := junctionOf(int64(n.ID))
			if !ok {
				continue
			}
			if !haveStart {
				segStart = j
				haveStart = true
				continue
			}
			if j == segStart {
				continue
			}
			if oneway {
				g.AddRealEdge(segStart, j, featureID, frc)
			} else {
				g.AddBidirectionalRealEdge(segStart, j, featureID, frc)
			}
			segStart = j
		}
	}
	if err := scanner2.Err(); err != nil {
		return nil, fmt.Errorf("scan way geometry: %w", err)
	}

	return g, nil
}
