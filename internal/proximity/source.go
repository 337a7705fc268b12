package proximity

// Source is a cursor over the occurrences of one operand in the current
// document. Start positions never decrease as the cursor advances. Start and
// End are only meaningful while AtEnd is false.
type Source interface {
	AtEnd() bool
	Start() uint32
	End() uint32
	Advance()
	Restart()
}

// current reads the occurrence under the cursor of src, tagging it with the
// 1-based operand index.
func current(src Source, idx int) Location {
	return Location{
		Position: src.Start(),
		End:      src.End(),
		Source:   uint32(idx + 1),
	}
}

// SliceSource walks single-token occurrences, as stored in a posting list.
type SliceSource struct {
	positions []uint32
	cur       int
}

func NewSliceSource(positions []uint32) *SliceSource {
	return &SliceSource{positions: positions}
}

func (s *SliceSource) AtEnd() bool   { return s.cur >= len(s.positions) }
func (s *SliceSource) Start() uint32 { return s.positions[s.cur] }
func (s *SliceSource) End() uint32   { return s.positions[s.cur] }
func (s *SliceSource) Restart()      { s.cur = 0 }

func (s *SliceSource) Advance() {
	if s.cur < len(s.positions) {
		s.cur++
	}
}

// SpanSource walks occurrences that cover more than one token.
type SpanSource struct {
	spans []Span
	cur   int
}

func NewSpanSource(spans []Span) *SpanSource {
	return &SpanSource{spans: spans}
}

func (s *SpanSource) AtEnd() bool   { return s.cur >= len(s.spans) }
func (s *SpanSource) Start() uint32 { return s.spans[s.cur].Start }
func (s *SpanSource) End() uint32   { return s.spans[s.cur].End }
func (s *SpanSource) Restart()      { s.cur = 0 }

func (s *SpanSource) Advance() {
	if s.cur < len(s.spans) {
		s.cur++
	}
}

// MatchSource exposes the matches of a Matcher as occurrences, so a window
// or phrase can be an operand of another window. The wrapped matcher must
// already be populated and initialized.
type MatchSource struct {
	m Matcher
}

func NewMatchSource(m Matcher) *MatchSource {
	return &MatchSource{m: m}
}

func (s *MatchSource) AtEnd() bool { return s.m.IsEnd() }

func (s *MatchSource) Start() uint32 {
	min, _ := s.m.Current()
	return min.Position
}

func (s *MatchSource) End() uint32 {
	_, max := s.m.Current()
	return max.End
}

func (s *MatchSource) Advance() { s.m.Next() }

// Restart rewinds the wrapped matcher. Its window was validated when the
// matcher was initialized, so the error can only be a contract violation.
func (s *MatchSource) Restart() {
	if err := s.m.Reset(); err != nil {
		panic("proximity: restarting nested matcher: " + err.Error())
	}
}
