package executor

import "container/heap"

// mergeTopK merges per-shard hit lists into the best limit hits in result
// order. A limit of zero or less keeps every hit.
func mergeTopK(shardHits [][]Hit, limit int) []Hit {
	if limit <= 0 {
		var all []Hit
		for _, hits := range shardHits {
			all = append(all, hits...)
		}
		sortHits(all)
		return all
	}
	h := &hitHeap{}
	for _, hits := range shardHits {
		for _, hit := range hits {
			heap.Push(h, hit)
			if h.Len() > limit {
				heap.Pop(h)
			}
		}
	}
	result := make([]Hit, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Hit)
	}
	return result
}

// hitHeap keeps the worst retained hit on top.
type hitHeap []Hit

func (h hitHeap) Len() int { return len(h) }

func (h hitHeap) Less(i, j int) bool {
	if h[i].MatchCount != h[j].MatchCount {
		return h[i].MatchCount < h[j].MatchCount
	}
	return h[i].DocID > h[j].DocID
}

func (h hitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *hitHeap) Push(x interface{}) {
	*h = append(*h, x.(Hit))
}

func (h *hitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
