package parser

import (
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
)

type NodeKind int

const (
	NodeTerm NodeKind = iota
	NodePhrase
	NodeWindow
)

// Node is one operand of a proximity predicate. Phrases and windows carry
// the window they evaluate and at least two children.
type Node struct {
	Kind     NodeKind
	Term     string
	Window   proximity.Window
	Children []*Node
}

// NewPhrase builds the node for a quoted phrase from its raw words. Words
// the index does not store still occupy a slot between their neighbours.
// It returns nil when no word survives normalization and a term node when
// only one does.
func NewPhrase(words []string) (*Node, error) {
	var children []*Node
	first, last := -1, -1
	for i, w := range words {
		term, ok := tokenizer.Normalize(w)
		if !ok {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		children = append(children, &Node{Kind: NodeTerm, Term: term})
	}
	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	}
	gap := uint32(last - first - 1)
	return &Node{
		Kind:     NodePhrase,
		Window:   proximity.Window{Mode: proximity.ModeSimple, Min: gap, Max: gap},
		Children: children,
	}, nil
}

// Simplify rewrites ordered, end aligned windows over single terms into
// the equivalent simple window, which compares token gaps directly. The
// rewrite applies to nested windows too.
func (n *Node) Simplify() {
	if n == nil || n.Kind == NodeTerm {
		return
	}
	allTerms := true
	for _, c := range n.Children {
		c.Simplify()
		if c.Kind != NodeTerm {
			allTerms = false
		}
	}
	w := n.Window
	if n.Kind != NodeWindow || w.Mode != proximity.ModeOrdered || w.AlignHead || w.Min < 2 || !allTerms {
		return
	}
	max := w.Max
	if max != proximity.Unbounded {
		max -= 2
	}
	n.Window = proximity.Window{Mode: proximity.ModeSimple, Min: w.Min - 2, Max: max}
}

// Simplify applies Node.Simplify to every window of the plan.
func (p *QueryPlan) Simplify() {
	for _, w := range p.Windows {
		w.Simplify()
	}
}

func (n *Node) walkTerms(fn func(string)) {
	if n.Kind == NodeTerm {
		fn(n.Term)
		return
	}
	for _, c := range n.Children {
		c.walkTerms(fn)
	}
}

func (n *Node) String() string {
	if n.Kind == NodeTerm {
		return n.Term
	}
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(n.Window.Mode.String())
	b.WriteByte('[')
	b.WriteString(strconv.FormatUint(uint64(n.Window.Min), 10))
	b.WriteByte(',')
	if n.Window.Max == proximity.Unbounded {
		b.WriteByte('*')
	} else {
		b.WriteString(strconv.FormatUint(uint64(n.Window.Max), 10))
	}
	b.WriteString("](")
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}
