// Package trace implements pkg/router.Tracer: a diagnostic dump written
// when the search exhausts its queue without reaching a final vertex,
// grounded on pkg/engine/matching/hmm_mapmatching.go's handleHMMBreak (which
// dumps the Viterbi message history to output/message_history_%v.txt when
// the HMM chain breaks). Here the "message history" is the sequence of
// popped (vertex, score, potential) triples, zstd-compressed the way
// pkg/kv/zstd_compression.go compresses its own persisted records.
package trace

import (
	"fmt"
	"os"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/lintang-b-s/olrmatch/pkg/model"
)

// Dump accumulates popped search states and writes them out, compressed,
// when Flush is called. Not safe for concurrent use -- one Engine.FindPath
// call owns one Dump for its lifetime, the same one-shot-per-search
// lifecycle handleHMMBreak assumes for a single map-match run.
type Dump struct {
	dir     string
	entries []entry
}

type entry struct {
	vertex    model.Vertex
	score     model.Score
	potential float64
}

// New builds a Dump that writes under dir when flushed.
func New(dir string) *Dump {
	return &Dump{dir: dir}
}

func (d *Dump) RecordPop(v model.Vertex, s model.Score, potential float64) {
	d.entries = append(d.entries, entry{vertex: v, score: s, potential: potential})
}

// Flush writes the accumulated pop history to
// <dir>/search_trace_<reason>.zst, compressed with zstd, replacing any
// earlier dump written for the same reason rather than appending to a
// shared log. Flush satisfies pkg/router.Tracer, which -- like
// handleHMMBreak -- treats a failed diagnostic write as non-fatal to the
// search itself; failures go to stderr instead of aborting the caller.
func (d *Dump) Flush(reason string) {
	if len(d.entries) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "search trace: %s\n\n", reason)
	for i, e := range d.entries {
		fmt.Fprintf(&sb, "pop %d: junction=(%.3f,%.3f) stage=%d stage_start_distance=%.3f bearing_checked=%v "+
			"distance=%.3f penalty=%.3f potential=%.3f\n",
			i, e.vertex.Junction.Point.X, e.vertex.Junction.Point.Y, e.vertex.Stage, e.vertex.StageStartDistance,
			e.vertex.BearingChecked, e.score.Distance, e.score.Penalty, e.potential)
	}

	compressed, err := zstd.Compress(nil, []byte(sb.String()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace: compress search trace: %v\n", err)
		return
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "trace: create trace dir: %v\n", err)
		return
	}
	path := fmt.Sprintf("%s/search_trace_%s.zst", d.dir, sanitize(reason))
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "trace: write search trace: %v\n", err)
	}
}

func sanitize(reason string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return '_'
		}
		return r
	}, reason)
}
