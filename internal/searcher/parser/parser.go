// Package parser turns a raw query string into a QueryPlan. Besides bare
// terms combined with AND/OR and NOT exclusions, a query may contain quoted
// phrases and proximity windows:
//
//	#window[min](a, b)
//	#window[min,max,unordered](a, "b c", #window[2](d, e))
//
// Window options are up to two numbers (min, then max) and an order option:
// o/ordered or u/unordered. Min defaults to 1, max to unbounded and the
// order to ordered.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
)

type QueryType int

const (
	QueryAND QueryType = iota
	QueryOR
)

func (t QueryType) String() string {
	if t == QueryOR {
		return "OR"
	}
	return "AND"
}

// QueryPlan is the parsed form of a query. Terms and Windows are the
// positive predicates, combined according to Type.
type QueryPlan struct {
	Terms        []string
	Windows      []*Node
	Type         QueryType
	ExcludeTerms []string
	RawQuery     string
}

// IsEmpty reports whether the plan has no positive predicate.
func (p *QueryPlan) IsEmpty() bool {
	return len(p.Terms) == 0 && len(p.Windows) == 0
}

// Leaves returns every distinct term the positive predicates reference.
func (p *QueryPlan) Leaves() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(term string) {
		if _, ok := seen[term]; !ok {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	for _, t := range p.Terms {
		add(t)
	}
	for _, w := range p.Windows {
		w.walkTerms(add)
	}
	return out
}

// String renders the plan in a canonical form, used as the cache key.
func (p *QueryPlan) String() string {
	var b strings.Builder
	b.WriteString(p.Type.String())
	b.WriteByte('(')
	parts := make([]string, 0, len(p.Terms)+len(p.Windows))
	parts = append(parts, p.Terms...)
	for _, w := range p.Windows {
		parts = append(parts, w.String())
	}
	b.WriteString(strings.Join(parts, " "))
	b.WriteByte(')')
	if len(p.ExcludeTerms) > 0 {
		b.WriteString(" NOT(")
		b.WriteString(strings.Join(p.ExcludeTerms, " "))
		b.WriteByte(')')
	}
	return b.String()
}

// DefaultWindow supplies the options a #window leaves out.
var DefaultWindow = proximity.Window{
	Mode: proximity.ModeOrdered,
	Min:  1,
	Max:  proximity.Unbounded,
}

// Parse parses query. Malformed window or phrase syntax yields an error
// wrapping errors.ErrInvalidQuery.
func Parse(query string) (*QueryPlan, error) {
	return ParseWith(query, DefaultWindow)
}

// ParseWith parses query, filling omitted window options from defaults.
func ParseWith(query string, defaults proximity.Window) (*QueryPlan, error) {
	plan := &QueryPlan{
		Terms:        make([]string, 0),
		ExcludeTerms: make([]string, 0),
		Type:         QueryAND,
		RawQuery:     query,
	}
	if strings.TrimSpace(query) == "" {
		return plan, nil
	}

	p := &scanner{input: []rune(query), defaults: defaults}
	excludeNext := false
	for {
		p.skipSpace()
		if p.done() {
			break
		}
		switch {
		case p.peek() == '"':
			node, err := p.phrase()
			if err != nil {
				return nil, err
			}
			if excludeNext {
				return nil, invalid(p.pos, "NOT applies to single terms only")
			}
			plan.addNode(node)
		case p.hasPrefix("#window"):
			node, err := p.window()
			if err != nil {
				return nil, err
			}
			if excludeNext {
				return nil, invalid(p.pos, "NOT applies to single terms only")
			}
			plan.addNode(node)
		default:
			word := p.word()
			if word == "" {
				return nil, invalid(p.pos, fmt.Sprintf("unexpected character %q", p.peek()))
			}
			switch strings.ToUpper(word) {
			case "AND":
				plan.Type = QueryAND
				continue
			case "OR":
				plan.Type = QueryOR
				continue
			case "NOT":
				excludeNext = true
				continue
			}
			for _, w := range tokenizer.Words(word) {
				term, ok := tokenizer.Normalize(w)
				if !ok {
					continue
				}
				if excludeNext {
					plan.ExcludeTerms = append(plan.ExcludeTerms, term)
				} else {
					plan.Terms = append(plan.Terms, term)
				}
			}
		}
		excludeNext = false
	}
	if excludeNext {
		return nil, invalid(p.pos, "NOT without a term")
	}
	return plan, nil
}

func (plan *QueryPlan) addNode(n *Node) {
	if n == nil {
		return
	}
	if n.Kind == NodeTerm {
		plan.Terms = append(plan.Terms, n.Term)
		return
	}
	plan.Windows = append(plan.Windows, n)
}

func invalid(pos int, msg string) error {
	return fmt.Errorf("%w: at offset %d: %s", apperrors.ErrInvalidQuery, pos, msg)
}

type scanner struct {
	input    []rune
	pos      int
	defaults proximity.Window
}

func (s *scanner) done() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() rune {
	if s.done() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.done() && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *scanner) hasPrefix(prefix string) bool {
	r := []rune(prefix)
	if len(s.input)-s.pos < len(r) {
		return false
	}
	return strings.EqualFold(string(s.input[s.pos:s.pos+len(r)]), prefix)
}

func (s *scanner) expect(r rune) error {
	s.skipSpace()
	if s.peek() != r {
		if s.done() {
			return invalid(s.pos, fmt.Sprintf("expected %q, got end of query", r))
		}
		return invalid(s.pos, fmt.Sprintf("expected %q, got %q", r, s.peek()))
	}
	s.pos++
	return nil
}

// word reads up to the next space or syntax character.
func (s *scanner) word() string {
	start := s.pos
	for !s.done() {
		r := s.input[s.pos]
		if unicode.IsSpace(r) || strings.ContainsRune(`"(),[]`, r) {
			break
		}
		s.pos++
	}
	return string(s.input[start:s.pos])
}

// phrase reads a quoted phrase. Stop-words inside the quotes keep their
// slot, so "quick the fox" requires exactly one token between quick and fox.
func (s *scanner) phrase() (*Node, error) {
	start := s.pos
	s.pos++
	end := start + 1
	for end < len(s.input) && s.input[end] != '"' {
		end++
	}
	if end >= len(s.input) {
		return nil, invalid(start, "unterminated phrase")
	}
	text := string(s.input[start+1 : end])
	s.pos = end + 1
	return NewPhrase(tokenizer.Words(text))
}

func (s *scanner) window() (*Node, error) {
	start := s.pos
	s.pos += len([]rune("#window"))
	if err := s.expect('['); err != nil {
		return nil, err
	}
	closeAt := s.pos
	for closeAt < len(s.input) && s.input[closeAt] != ']' {
		closeAt++
	}
	if closeAt >= len(s.input) {
		return nil, invalid(start, "unterminated window options")
	}
	w, err := parseWindowOptions(string(s.input[s.pos:closeAt]), s.defaults)
	if err != nil {
		return nil, invalid(s.pos, err.Error())
	}
	s.pos = closeAt + 1
	if err := s.expect('('); err != nil {
		return nil, err
	}

	node := &Node{Kind: NodeWindow, Window: w}
	for {
		s.skipSpace()
		child, err := s.child()
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
		s.skipSpace()
		if s.peek() == ',' {
			s.pos++
			continue
		}
		if err := s.expect(')'); err != nil {
			return nil, err
		}
		break
	}
	if len(node.Children) < 2 {
		return nil, invalid(start, fmt.Sprintf("window needs at least two operands, got %d", len(node.Children)))
	}
	return node, nil
}

// child reads one window operand. Stop-words yield a nil node.
func (s *scanner) child() (*Node, error) {
	switch {
	case s.peek() == '"':
		return s.phrase()
	case s.hasPrefix("#window"):
		return s.window()
	}
	start := s.pos
	word := s.word()
	if word == "" {
		return nil, invalid(start, "empty window operand")
	}
	words := tokenizer.Words(word)
	if len(words) > 1 {
		return NewPhrase(words)
	}
	for _, w := range words {
		if term, ok := tokenizer.Normalize(w); ok {
			return &Node{Kind: NodeTerm, Term: term}, nil
		}
	}
	return nil, nil
}

// parseWindowOptions reads "min[,max][,order]". Numbers are taken as min
// then max wherever the order option appears.
func parseWindowOptions(opts string, defaults proximity.Window) (proximity.Window, error) {
	w := defaults
	var numbers []uint32
	for _, raw := range strings.Split(opts, ",") {
		opt := strings.ToLower(strings.TrimSpace(raw))
		if opt == "" {
			continue
		}
		switch opt {
		case "o", "ordered":
			w.Mode = proximity.ModeOrdered
			continue
		case "u", "unordered":
			w.Mode = proximity.ModeUnordered
			continue
		}
		n, err := strconv.ParseUint(opt, 10, 32)
		if err != nil {
			return w, fmt.Errorf("unknown window option %q", raw)
		}
		numbers = append(numbers, uint32(n))
	}
	switch len(numbers) {
	case 0:
	case 1:
		w.Min = numbers[0]
	case 2:
		w.Min, w.Max = numbers[0], numbers[1]
	default:
		return w, fmt.Errorf("too many window numbers: %d", len(numbers))
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}
