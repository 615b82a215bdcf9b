// Package graphstore persists a built road graph (osmgraph.Build's output)
// to a local embedded store, so a demo deployment doesn't re-parse the PBF
// extract on every restart. Grounded on pkg/kv/kv_db.go: a badger.DB keyed
// by string, kelindar/binary for the record encoding
// (pkg/kv/zstd_compression.go's encode/decode pair), and DataDog/zstd
// compressing the encoded bytes before they hit the store.
package graphstore

import (
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/dgraph-io/badger/v4"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

const edgesKey = "edges"

// Store wraps a badger.DB holding one compressed, binary-encoded blob of
// every real edge in the graph -- this repo has no per-cell bucketing need
// the way the teacher's KVDB does (pkg/spatialindex owns that concern here),
// so graphstore's whole job is "don't re-parse the PBF file every boot".
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("open graphstore: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveEdges encodes and compresses edges and writes them under a single key.
func (s *Store) SaveEdges(edges []model.RawEdge) error {
	encoded, err := binary.Marshal(edges)
	if err != nil {
		return fmt.Errorf("encode edges: %w", err)
	}
	compressed, err := zstd.Compress(nil, encoded)
	if err != nil {
		return fmt.Errorf("compress edges: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(edgesKey), compressed)
	})
}

// LoadEdges reads back what SaveEdges wrote, or badger.ErrKeyNotFound if
// nothing has been saved yet.
func (s *Store) LoadEdges() ([]model.RawEdge, error) {
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(edgesKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			compressed = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	decoded, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress edges: %w", err)
	}
	var edges []model.RawEdge
	if err := binary.Unmarshal(decoded, &edges); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	return edges, nil
}
