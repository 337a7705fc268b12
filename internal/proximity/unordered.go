package proximity

// Unordered matches operands in any order. The heap holds every occurrence
// read from the sources and not yet passed over, so a source can have several
// pending entries while the matcher looks ahead for an occurrence that
// reaches the minimal distance. For each leftmost occurrence the matcher
// reports the smallest covering set whose distance falls inside the window.
//
// Every source that still has occurrences keeps at least one entry in the
// heap, and a source's unread occurrences start after all of its pending
// ones. The heap minimum is therefore the smallest occurrence left.
type Unordered struct {
	window  Window
	min     int64
	max     int64
	sources []Source

	heap *Heap
	// last start position read from each source, -1 before the first read
	reach []int64
	// last occurrence of every source that has run out; it stays pending in
	// the heap until it becomes the minimum
	exhausted []*Location
	assign    []Location

	lo, hi Location
	// spans already reported for the current leftmost position
	seen  []Span
	ended bool
}

func NewUnordered(min, max uint32) (*Unordered, error) {
	w := Window{Mode: ModeUnordered, Min: min, Max: max}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Unordered{
		window: w,
		min:    int64(min),
		max:    int64(max),
		heap:   NewHeap(0),
		ended:  true,
	}, nil
}

func (u *Unordered) Push(sources ...Source) {
	u.sources = append(u.sources, sources...)
}

func (u *Unordered) Reserve(n int) {
	if cap(u.sources) < n {
		sources := make([]Source, len(u.sources), n)
		copy(sources, u.sources)
		u.sources = sources
	}
	u.heap.Reserve(n)
}

func (u *Unordered) Len() int       { return len(u.sources) }
func (u *Unordered) Window() Window { return u.window }
func (u *Unordered) IsEnd() bool    { return u.ended }

func (u *Unordered) Initialize() error {
	u.heap.Clear()
	u.seen = u.seen[:0]
	if len(u.sources) < 2 {
		u.end()
		return ErrTooFewSources
	}
	u.reach = make([]int64, len(u.sources))
	u.exhausted = make([]*Location, len(u.sources))
	u.assign = make([]Location, len(u.sources))
	u.ended = false
	for i, src := range u.sources {
		if src.AtEnd() {
			// an operand with no occurrence at all can never be covered
			u.end()
			return nil
		}
		u.reach[i] = -1
		u.fetch(i)
	}
	u.search()
	return nil
}

func (u *Unordered) Reset() error {
	for _, src := range u.sources {
		src.Restart()
	}
	return u.Initialize()
}

func (u *Unordered) Next() {
	if u.ended {
		return
	}
	u.pop()
	u.search()
}

func (u *Unordered) Current() (Location, Location) {
	return u.lo, u.hi
}

func (u *Unordered) Span() Span {
	if u.ended {
		return Span{}
	}
	return spanOf(u.lo, u.hi)
}

// Assignment reports, per source, the occurrence it contributes to the
// current match.
func (u *Unordered) Assignment() []Location {
	if u.ended {
		return nil
	}
	out := make([]Location, len(u.assign))
	copy(out, u.assign)
	return out
}

func (u *Unordered) search() {
	for !u.heap.IsEmpty() {
		lo := u.heap.PeekMin()
		hi, ok, stop := u.cover(lo)
		if stop {
			break
		}
		if ok && u.fresh(spanOf(lo, hi)) {
			u.lo, u.hi = lo, hi
			return
		}
		u.pop()
	}
	u.end()
}

// cover finds the smallest occurrence that closes a window starting at lo
// and holding every other source. ok is false when no such occurrence lies
// inside [min, max]. stop is set once some other source has nothing left at
// or after lo, which rules out every later match too.
func (u *Unordered) cover(lo Location) (hi Location, ok, stop bool) {
	hi = lo
	for i := range u.sources {
		src := uint32(i + 1)
		if src == lo.Source {
			continue
		}
		first, found := u.heap.NextForSource(src, None())
		if !found {
			// the source ran out and its last occurrence is behind lo
			return None(), false, true
		}
		u.assign[i] = first
		if hi.Less(first) {
			hi = first
		}
	}
	u.assign[lo.Source-1] = lo

	if d := distance(lo, hi, false); d >= u.min {
		return hi, d <= u.max, false
	}

	// every source is covered but too close: the closing occurrence has to
	// start at need or later
	need := int64(lo.End) - 1 + u.min
	best := None()
	for i := range u.sources {
		src := uint32(i + 1)
		if src == lo.Source {
			continue
		}
		u.fetchThrough(i, need)
		if l, found := u.firstFrom(src, need); found && (best.IsNone() || l.Less(best)) {
			best = l
		}
	}
	if best.IsNone() || distance(lo, best, false) > u.max {
		return None(), false, false
	}
	u.assign[best.Source-1] = best
	return best, true, false
}

// firstFrom returns the smallest pending occurrence of source that starts at
// pos or later.
func (u *Unordered) firstFrom(source uint32, pos int64) (Location, bool) {
	l, ok := u.heap.NextForSource(source, None())
	for ok && int64(l.Position) < pos {
		l, ok = u.heap.NextForSource(source, l)
	}
	return l, ok
}

// fresh records span and reports whether it is new for its start position.
func (u *Unordered) fresh(span Span) bool {
	if len(u.seen) > 0 && u.seen[0].Start != span.Start {
		u.seen = u.seen[:0]
	}
	for _, s := range u.seen {
		if s == span {
			return false
		}
	}
	u.seen = append(u.seen, span)
	return true
}

// pop drops the smallest pending occurrence and refills its source when that
// was its last entry.
func (u *Unordered) pop() {
	l := u.heap.RemoveMin()
	if !u.heap.SourceHasPending(l.Source) {
		u.fetch(int(l.Source) - 1)
	}
}

// fetch reads every occurrence of source idx that starts at the cursor's
// position into the heap.
func (u *Unordered) fetch(idx int) bool {
	src := u.sources[idx]
	if u.exhausted[idx] != nil || src.AtEnd() {
		return false
	}
	start := src.Start()
	var last Location
	for !src.AtEnd() && src.Start() == start {
		last = current(src, idx)
		u.heap.Add(last)
		src.Advance()
	}
	u.reach[idx] = int64(start)
	if src.AtEnd() {
		u.exhausted[idx] = &last
	}
	return true
}

// fetchThrough reads source idx until it has read an occurrence starting at
// pos or later, or runs out.
func (u *Unordered) fetchThrough(idx int, pos int64) {
	for u.reach[idx] < pos {
		if !u.fetch(idx) {
			return
		}
	}
}

func (u *Unordered) end() {
	u.ended = true
	u.lo, u.hi = None(), None()
}
