package router

import "github.com/lintang-b-s/olrmatch/pkg/model"

// pqEntry is one item on the search engine's priority queue: a vertex, the
// score it was pushed with, and a monotonically increasing sequence number
// used as the final tie-break (§9's Design Notes: Score equality is
// plausible and the order must still be total and deterministic).
type pqEntry struct {
	score  model.Score
	seq    uint64
	vertex model.Vertex
}

func less(a, b pqEntry) bool {
	if a.score.Total() != b.score.Total() {
		return a.score.Total() < b.score.Total()
	}
	if a.score.Distance != b.score.Distance {
		return a.score.Distance < b.score.Distance
	}
	if a.score.Penalty != b.score.Penalty {
		return a.score.Penalty < b.score.Penalty
	}
	return a.seq < b.seq
}

// minHeap is a small binary min-heap over pqEntry, grounded on the
// teacher's house style of hand-rolling heaps for this exact class of
// problem (pkg/datastructure/fibonacci_heap.go, pkg/datastructure/
// pq_rtree.go's binary MinHeap) rather than reaching for container/heap.
type minHeap struct {
	items []pqEntry
}

func newMinHeap() *minHeap {
	return &minHeap{items: make([]pqEntry, 0, 64)}
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) push(e pqEntry) {
	h.items = append(h.items, e)
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) pop() (pqEntry, bool) {
	if len(h.items) == 0 {
		return pqEntry{}, false
	}
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top, true
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
