// Package proximity implements the in-document position matching used by
// window predicates: given one occurrence stream per operand, it enumerates
// the spans where all operands occur within a [min, max] distance window.
package proximity

import (
	"fmt"
	"math"
)

// Unbounded is the maximal distance meaning "no upper limit".
const Unbounded uint32 = math.MaxUint32

// Location is one occurrence of an operand inside a document. Source is the
// 1-based index of the operand that produced it; 0 marks an unset value.
type Location struct {
	Position uint32
	End      uint32
	Source   uint32
}

// None returns the sentinel Location reported once a matcher has ended.
func None() Location {
	return Location{}
}

// IsNone reports whether l is the unset sentinel.
func (l Location) IsNone() bool {
	return l.Source == 0
}

// Less orders Locations by position, then end, then source index.
func (l Location) Less(o Location) bool {
	if l.Position != o.Position {
		return l.Position < o.Position
	}
	if l.End != o.End {
		return l.End < o.End
	}
	return l.Source < o.Source
}

func (l Location) String() string {
	if l.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:[%d,%d]", l.Source, l.Position, l.End)
}

// Span is the extent of an accepted match: the first position of the
// leftmost occurrence and the end position of the rightmost one.
type Span struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func spanOf(min, max Location) Span {
	return Span{Start: min.Position, End: max.End}
}
