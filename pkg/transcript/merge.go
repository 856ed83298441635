package transcript

import "container/heap"

// MergeByTime combines the events of multiple parse results into a single
// timeline ordered by timestamp (oldest first). Within one input, relative
// order is preserved, so equal timestamps stay in transcript line order.
func MergeByTime(results ...*Result) []Event {
	h := &eventHeap{}
	heap.Init(h)

	total := 0
	for i, r := range results {
		if r == nil || len(r.Events) == 0 {
			continue
		}
		total += len(r.Events)
		heap.Push(h, &eventCursor{events: r.Events, source: i})
	}

	merged := make([]Event, 0, total)
	for h.Len() > 0 {
		cursor := heap.Pop(h).(*eventCursor)
		merged = append(merged, cursor.events[cursor.pos])
		cursor.pos++
		if cursor.pos < len(cursor.events) {
			heap.Push(h, cursor)
		}
	}

	return merged
}

// eventCursor tracks the read position into one result's events.
type eventCursor struct {
	events []Event
	pos    int
	source int
}

// eventHeap implements heap.Interface for timestamp-ordered merging.
type eventHeap []*eventCursor

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ti := h[i].events[h[i].pos].Timestamp
	tj := h[j].events[h[j].pos].Timestamp
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	// Stable across sources for equal timestamps.
	return h[i].source < h[j].source
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*eventCursor))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
