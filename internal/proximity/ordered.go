package proximity

// Ordered matches operands that must occur in push order. The first source
// is the head and the last one the tail; the distance window is checked
// between them, and every interior source must fall strictly between its
// neighbours.
type Ordered struct {
	window    Window
	min       int64
	max       int64
	alignHead bool
	sources   []Source

	lo, hi Location
	ended  bool
}

// NewOrdered builds an ordered matcher. With alignHead the distance is
// measured start to start, otherwise from the end of the head occurrence.
// Head aligned distance is tail.Position - head.Position, so adjacent tokens
// are 1 apart; the end aligned count includes both ends and puts them 2
// apart. NewSimple depends on the head aligned form.
func NewOrdered(min, max uint32, alignHead bool) (*Ordered, error) {
	w := Window{Mode: ModeOrdered, Min: min, Max: max, AlignHead: alignHead}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return newOrdered(w, min, max, alignHead), nil
}

func newOrdered(w Window, min, max uint32, alignHead bool) *Ordered {
	return &Ordered{
		window:    w,
		min:       int64(min),
		max:       int64(max),
		alignHead: alignHead,
		ended:     true,
	}
}

func (o *Ordered) Push(sources ...Source) {
	o.sources = append(o.sources, sources...)
}

func (o *Ordered) Reserve(n int) {
	if cap(o.sources) >= n {
		return
	}
	sources := make([]Source, len(o.sources), n)
	copy(sources, o.sources)
	o.sources = sources
}

func (o *Ordered) Len() int       { return len(o.sources) }
func (o *Ordered) Window() Window { return o.window }
func (o *Ordered) IsEnd() bool    { return o.ended }

func (o *Ordered) Initialize() error {
	if len(o.sources) < 2 {
		o.end()
		return ErrTooFewSources
	}
	o.ended = false
	o.search()
	return nil
}

func (o *Ordered) Reset() error {
	for _, src := range o.sources {
		src.Restart()
	}
	return o.Initialize()
}

func (o *Ordered) Next() {
	if o.ended {
		return
	}
	o.sources[0].Advance()
	o.search()
}

func (o *Ordered) Current() (Location, Location) {
	return o.lo, o.hi
}

func (o *Ordered) Span() Span {
	if o.ended {
		return Span{}
	}
	return spanOf(o.lo, o.hi)
}

// Assignment reports head, interior and tail occurrences of the current
// match. The interior cursors are left on the occurrences verified for it.
func (o *Ordered) Assignment() []Location {
	if o.ended {
		return nil
	}
	out := make([]Location, len(o.sources))
	out[0] = o.lo
	for i := 1; i < len(o.sources)-1; i++ {
		out[i] = current(o.sources[i], i)
	}
	out[len(out)-1] = o.hi
	return out
}

func (o *Ordered) search() {
	last := len(o.sources) - 1
	head, tail := o.sources[0], o.sources[last]
	for {
		if head.AtEnd() || tail.AtEnd() {
			o.end()
			return
		}
		h := current(head, 0)
		t := current(tail, last)
		if h.Position >= t.Position {
			tail.Advance()
			continue
		}
		d := distance(h, t, o.alignHead)
		if d < o.min {
			tail.Advance()
			continue
		}
		if d > o.max {
			head.Advance()
			continue
		}
		switch o.verifyInterior(h, t) {
		case interiorExhausted:
			o.end()
			return
		case interiorBeyondTail:
			// the earliest ordered chain already reaches the tail; no later
			// head can use this tail either
			tail.Advance()
			continue
		}
		o.lo, o.hi = h, t
		return
	}
}

type interiorResult int

const (
	interiorOK interiorResult = iota
	interiorBeyondTail
	interiorExhausted
)

// verifyInterior moves every interior source to its earliest occurrence that
// starts after the previous operand ends, and checks the chain stays before
// the tail.
func (o *Ordered) verifyInterior(h, t Location) interiorResult {
	prev := h.End
	for i := 1; i < len(o.sources)-1; i++ {
		src := o.sources[i]
		for !src.AtEnd() && src.Start() <= prev {
			src.Advance()
		}
		if src.AtEnd() {
			return interiorExhausted
		}
		if src.End() >= t.Position {
			return interiorBeyondTail
		}
		prev = src.End()
	}
	return interiorOK
}

func (o *Ordered) end() {
	o.ended = true
	o.lo, o.hi = None(), None()
}
