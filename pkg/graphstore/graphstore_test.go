package graphstore

import (
	"reflect"
	"testing"

	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

func sampleEdges() []model.RawEdge {
	a := model.NewJunction(geo.NewPoint(0, 0), 0)
	b := model.NewJunction(geo.NewPoint(100, 0), 0)
	c := model.NewJunction(geo.NewPoint(100, 100), 0)
	return []model.RawEdge{
		{Start: a, End: b, Length: geo.Distance(a.Point, b.Point), FeatureID: 1},
		{Start: b, End: c, Length: geo.Distance(b.Point, c.Point), FeatureID: 2},
	}
}

func TestSaveAndLoadEdgesRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	want := sampleEdges()
	if err := store.SaveEdges(want); err != nil {
		t.Fatalf("SaveEdges: %v", err)
	}

	got, err := store.LoadEdges()
	if err != nil {
		t.Fatalf("LoadEdges: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestLoadEdgesBeforeAnySaveFails(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadEdges(); err == nil {
		t.Fatal("expected an error loading from an empty store")
	}
}
