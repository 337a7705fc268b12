package proximity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWindowRange = errors.New("invalid distance range")
	ErrTooFewSources      = errors.New("window needs at least two sources")
)

// Mode selects the matching strategy of a window.
type Mode int

const (
	ModeOrdered Mode = iota
	ModeUnordered
	ModeSimple
)

func (m Mode) String() string {
	switch m {
	case ModeOrdered:
		return "ordered"
	case ModeUnordered:
		return "unordered"
	case ModeSimple:
		return "simple"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Window describes a proximity predicate. AlignHead only applies to
// ModeOrdered; the simple mode is always head aligned.
type Window struct {
	Mode      Mode
	Min       uint32
	Max       uint32
	AlignHead bool
}

func (w Window) Validate() error {
	if w.Max < w.Min {
		return fmt.Errorf("%w: max %d < min %d", ErrInvalidWindowRange, w.Max, w.Min)
	}
	return nil
}

// Matcher enumerates the matches of one window over the occurrence sources
// of a single document. A Matcher is not safe for concurrent use.
type Matcher interface {
	// Push registers operands in order.
	Push(sources ...Source)
	// Reserve pre-sizes internal arrays for n sources.
	Reserve(n int)
	// Initialize performs the first search.
	Initialize() error
	// Next moves past the current match and searches for the following one.
	Next()
	IsEnd() bool
	// Current returns the leftmost and rightmost occurrences of the current
	// match, or (None, None) once the matcher has ended.
	Current() (min, max Location)
	Span() Span
	// Assignment returns the occurrence each operand contributes to the
	// current match, indexed by push order.
	Assignment() []Location
	// Reset rewinds every source and searches again from the start.
	Reset() error
	Len() int
	Window() Window
}

// New builds the matcher for w.
func New(w Window) (Matcher, error) {
	switch w.Mode {
	case ModeOrdered:
		return NewOrdered(w.Min, w.Max, w.AlignHead)
	case ModeUnordered:
		return NewUnordered(w.Min, w.Max)
	case ModeSimple:
		return NewSimple(w.Min, w.Max)
	default:
		return nil, fmt.Errorf("unknown window mode %d", int(w.Mode))
	}
}

// NewSimple builds an ordered, head aligned matcher that counts token gaps
// between the first and last operand: Simple(0, 0) accepts adjacent tokens
// only.
func NewSimple(min, max uint32) (*Ordered, error) {
	w := Window{Mode: ModeSimple, Min: min, Max: max}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return newOrdered(w, shift(min), shift(max), true), nil
}

func shift(d uint32) uint32 {
	if d == Unbounded {
		return d
	}
	return d + 1
}

// distance between two occurrences. Head aligned windows count the token
// gap between the starts; otherwise the span from the end of the leading
// occurrence to the start of the trailing one, both inclusive.
func distance(lead, trail Location, alignHead bool) int64 {
	if alignHead {
		return int64(trail.Position) - int64(lead.Position)
	}
	return int64(trail.Position) - int64(lead.End) + 1
}
