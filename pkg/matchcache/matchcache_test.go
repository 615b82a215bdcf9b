package matchcache

import (
	"reflect"
	"testing"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

func sampleWaypoints() []model.Waypoint {
	return []model.Waypoint{
		model.NewWaypoint(geo.NewPoint(0, 0), 250, 10, 2),
		model.NewWaypoint(geo.NewPoint(250, 0), 0, 200, 2),
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key(sampleWaypoints())
	b := Key(sampleWaypoints())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Key produced different hashes for identical way-point sequences")
	}
}

func TestKeyDiffersOnBearingChange(t *testing.T) {
	wp := sampleWaypoints()
	base := Key(wp)

	wp[0] = model.NewWaypoint(wp[0].Point, wp[0].DistanceToNextM, wp[0].Bearing+1, wp[0].Lfrcnp)
	changed := Key(wp)

	if reflect.DeepEqual(base, changed) {
		t.Fatal("expected a bearing change to change the cache key")
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	key := Key(sampleWaypoints())
	j1 := model.NewJunction(geo.NewPoint(0, 0), 0)
	j2 := model.NewJunction(geo.NewPoint(250, 0), 0)
	path := []model.RawEdge{{Start: j1, End: j2, Length: 250, FeatureID: 1}}

	if err := cache.Set(key, path); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := cache.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Set")
	}
	if !reflect.DeepEqual(path, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", path, got)
	}
}

func TestGetMissReturnsFalseNotError(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	_, ok, err := cache.Get(Key(sampleWaypoints()))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss on an empty store")
	}
}
