package similarity

import "container/heap"

// matchHeap is a min-heap over Match.Priority, backing topKMatches's
// bounded collection of the best pairs in a single kind-bucket, keeping
// memory bounded for huge buckets.
type matchHeap []Match

func (h matchHeap) Len() int            { return len(h) }
func (h matchHeap) Less(i, j int) bool  { return h[i].Priority < h[j].Priority }
func (h matchHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *matchHeap) Push(x interface{}) { *h = append(*h, x.(Match)) }
func (h *matchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topKMatches keeps only the k highest-priority matches out of an
// unbounded stream, using a fixed-capacity min-heap so memory never
// exceeds O(k) regardless of how many pairs a bucket produces. k<=0 means
// unbounded (no truncation, the common case).
type topKMatches struct {
	k        int
	h        matchHeap
	dropped  int
}

func newTopKMatches(k int) *topKMatches {
	h := make(matchHeap, 0, max(k, 0))
	heap.Init(&h)
	return &topKMatches{k: k, h: h}
}

// Add offers m to the collector. If the collector is at capacity and m's
// priority is no better than the current worst kept match, m is dropped
// and Dropped's count increments.
func (t *topKMatches) Add(m Match) {
	if t.k <= 0 {
		t.h = append(t.h, m)
		return
	}
	if t.h.Len() < t.k {
		heap.Push(&t.h, m)
		return
	}
	if len(t.h) > 0 && m.Priority > t.h[0].Priority {
		heap.Pop(&t.h)
		heap.Push(&t.h, m)
		t.dropped++
		return
	}
	t.dropped++
}

// Result drains the collector into a slice; order is unspecified, callers
// sort separately (Orchestrator.Run already sorts the combined output).
func (t *topKMatches) Result() []Match {
	return []Match(t.h)
}

// Dropped reports how many matches were evicted to stay within capacity.
func (t *topKMatches) Dropped() int { return t.dropped }
