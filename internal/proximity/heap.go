package proximity

// Heap is a binary min-heap of Locations that also counts, per source, how
// many of its occurrences are pending. The count lets a caller ask whether a
// source still has a candidate without walking the heap.
type Heap struct {
	items   []Location
	pending map[uint32]int
}

func NewHeap(capacity int) *Heap {
	return &Heap{
		items:   make([]Location, 0, capacity),
		pending: make(map[uint32]int, capacity),
	}
}

// Reserve grows the backing array so that n entries fit without
// reallocation.
func (h *Heap) Reserve(n int) {
	if cap(h.items) >= n {
		return
	}
	items := make([]Location, len(h.items), n)
	copy(items, h.items)
	h.items = items
}

func (h *Heap) Len() int      { return len(h.items) }
func (h *Heap) IsEmpty() bool { return len(h.items) == 0 }

// Clear drops every entry and every pending count, keeping the capacity.
func (h *Heap) Clear() {
	h.items = h.items[:0]
	clear(h.pending)
}

func (h *Heap) Add(l Location) {
	h.items = append(h.items, l)
	h.up(len(h.items) - 1)
	h.pending[l.Source]++
}

// PeekMin returns the smallest entry, or None when the heap is empty.
func (h *Heap) PeekMin() Location {
	if len(h.items) == 0 {
		return None()
	}
	return h.items[0]
}

// RemoveMin pops the smallest entry and returns it.
func (h *Heap) RemoveMin() Location {
	if len(h.items) == 0 {
		return None()
	}
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if last > 0 {
		h.down(0)
	}
	if n := h.pending[top.Source]; n <= 1 {
		delete(h.pending, top.Source)
	} else {
		h.pending[top.Source] = n - 1
	}
	return top
}

// Pending returns how many entries of source are in the heap.
func (h *Heap) Pending(source uint32) int {
	return h.pending[source]
}

func (h *Heap) SourceHasPending(source uint32) bool {
	return h.pending[source] > 0
}

// NextForSource returns the smallest pending entry of source that orders
// after the given Location. Pass None to get the smallest pending entry.
// The heap layout is left untouched.
func (h *Heap) NextForSource(source uint32, after Location) (Location, bool) {
	if h.pending[source] == 0 {
		return None(), false
	}
	var best Location
	found := false
	for _, l := range h.items {
		if l.Source != source {
			continue
		}
		if !after.IsNone() && !after.Less(l) {
			continue
		}
		if !found || l.Less(best) {
			best = l
			found = true
		}
	}
	return best, found
}

func (h *Heap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.items[i].Less(h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap) down(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].Less(h.items[smallest]) {
			smallest = left
		}
		if right < n && h.items[right].Less(h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
