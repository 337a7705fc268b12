package executor

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/metrics"
)

// Options tunes per-document evaluation.
type Options struct {
	// MaxSpansPerDoc caps the spans reported per hit; matches past the cap
	// are still counted.
	MaxSpansPerDoc int
	Metrics        *metrics.Metrics
}

// docPostings holds the postings of every leaf term inside one document.
type docPostings map[string]index.Posting

// postingsByTerm maps each term to its postings sorted by document ID.
type postingsByTerm map[string]index.PostingList

func (pt postingsByTerm) forDoc(docID string) docPostings {
	out := make(docPostings, len(pt))
	for term, list := range pt {
		if p, ok := list.Find(docID); ok {
			out[term] = p
		}
	}
	return out
}

type evaluator struct {
	plan *parser.QueryPlan
	opts Options
}

// match evaluates every predicate of the plan against one document.
func (ev *evaluator) match(docID string, postings docPostings) (Hit, bool, error) {
	hit := Hit{DocID: docID}
	satisfied := 0
	for _, term := range ev.plan.Terms {
		if p, ok := postings[term]; ok {
			hit.MatchCount += p.Frequency
			satisfied++
		}
	}
	for _, node := range ev.plan.Windows {
		count, err := ev.window(node, postings, &hit)
		if err != nil {
			return Hit{}, false, fmt.Errorf("evaluating %s in %s: %w", node, docID, err)
		}
		if count > 0 {
			satisfied++
		}
		hit.MatchCount += count
	}

	total := len(ev.plan.Terms) + len(ev.plan.Windows)
	switch ev.plan.Type {
	case parser.QueryOR:
		return hit, satisfied > 0, nil
	default:
		return hit, satisfied == total && total > 0, nil
	}
}

// window enumerates the matches of node, appending spans to hit up to the
// configured cap.
func (ev *evaluator) window(node *parser.Node, postings docPostings, hit *Hit) (int, error) {
	m, err := buildMatcher(node, postings)
	if err != nil {
		return 0, err
	}
	count := 0
	for ; !m.IsEnd(); m.Next() {
		if ev.opts.MaxSpansPerDoc <= 0 || len(hit.Spans) < ev.opts.MaxSpansPerDoc {
			hit.Spans = append(hit.Spans, m.Span())
		}
		count++
	}
	if ev.opts.Metrics != nil {
		mode := node.Window.Mode.String()
		outcome := "no_match"
		if count > 0 {
			outcome = "match"
			ev.opts.Metrics.WindowMatchesPerDoc.WithLabelValues(mode).Observe(float64(count))
		}
		ev.opts.Metrics.WindowEvaluationsTotal.WithLabelValues(mode, outcome).Inc()
	}
	return count, nil
}

// buildMatcher assembles and initializes the matcher of a phrase or window
// node. Nested phrases and windows become operands through MatchSource.
func buildMatcher(node *parser.Node, postings docPostings) (proximity.Matcher, error) {
	m, err := proximity.New(node.Window)
	if err != nil {
		return nil, err
	}
	m.Reserve(len(node.Children))
	for _, child := range node.Children {
		src, err := buildSource(child, postings)
		if err != nil {
			return nil, err
		}
		m.Push(src)
	}
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return m, nil
}

func buildSource(node *parser.Node, postings docPostings) (proximity.Source, error) {
	if node.Kind == parser.NodeTerm {
		p, ok := postings[node.Term]
		if !ok {
			return proximity.NewSliceSource(nil), nil
		}
		return p.Source(), nil
	}
	m, err := buildMatcher(node, postings)
	if err != nil {
		return nil, err
	}
	return proximity.NewMatchSource(m), nil
}
