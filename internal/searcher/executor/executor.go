// Package executor evaluates parsed queries against positional indexes.
// Candidate documents come from the postings of the terms a query
// references; each candidate is then checked against the plan's term and
// proximity-window predicates.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/tracing"
)

// Index is the read side of one index shard. Terms are already normalized.
type Index interface {
	Lookup(term string) index.PostingList
}

type Executor struct {
	engine Index
	opts   Options
	logger *slog.Logger
}

func New(engine Index, opts Options) *Executor {
	return &Executor{
		engine: engine,
		opts:   opts,
		logger: slog.Default().With("component", "query-executor"),
	}
}

func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*SearchResult, error) {
	if plan.IsEmpty() {
		return emptyResult(plan), nil
	}
	hits, termStats, err := evaluateIndex(ctx, e.engine, plan, e.opts)
	if err != nil {
		return nil, err
	}
	total := len(hits)
	sortHits(hits)
	hits = limitHits(hits, limit)
	e.logger.Info("query executed",
		"query", plan.RawQuery,
		"plan", plan.String(),
		"hits", total,
		"results", len(hits),
	)
	return &SearchResult{
		Query:     plan.RawQuery,
		Plan:      plan.String(),
		TotalHits: total,
		Results:   hits,
		TermStats: termStats,
	}, nil
}

func emptyResult(plan *parser.QueryPlan) *SearchResult {
	return &SearchResult{
		Query:     plan.RawQuery,
		Plan:      plan.String(),
		Results:   []Hit{},
		TermStats: map[string]int{},
	}
}

// evaluateIndex returns the unsorted hits of plan in one index together
// with the document frequency of every referenced term.
func evaluateIndex(ctx context.Context, idx Index, plan *parser.QueryPlan, opts Options) ([]Hit, map[string]int, error) {
	_, span := tracing.StartChildSpan(ctx, "evaluate")
	defer span.End()

	leaves := plan.Leaves()
	postings := make(postingsByTerm, len(leaves))
	termStats := make(map[string]int, len(leaves))
	for _, term := range leaves {
		list := idx.Lookup(term)
		termStats[term] = len(list)
		if len(list) > 0 {
			postings[term] = list
		}
	}

	var candidates map[string]struct{}
	switch plan.Type {
	case parser.QueryOR:
		candidates = unionPostings(postings)
	default:
		if len(postings) < len(leaves) {
			return []Hit{}, termStats, nil
		}
		candidates = intersectPostings(postings)
	}
	for _, term := range plan.ExcludeTerms {
		for _, p := range idx.Lookup(term) {
			delete(candidates, p.DocID)
		}
	}

	span.SetAttr("candidates", len(candidates))

	ev := &evaluator{plan: plan, opts: opts}
	hits := make([]Hit, 0, len(candidates))
	for docID := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("evaluating candidates: %w", err)
		}
		hit, ok, err := ev.match(docID, postings.forDoc(docID))
		if err != nil {
			return nil, nil, err
		}
		if ok {
			hits = append(hits, hit)
		}
	}
	span.SetAttr("hits", len(hits))
	return hits, termStats, nil
}

func intersectPostings(postingsPerTerm postingsByTerm) map[string]struct{} {
	if len(postingsPerTerm) == 0 {
		return make(map[string]struct{})
	}
	var shortestTerm string
	shortestLen := int(^uint(0) >> 1)
	for term, postings := range postingsPerTerm {
		if len(postings) < shortestLen {
			shortestLen = len(postings)
			shortestTerm = term
		}
	}
	candidates := make(map[string]struct{})
	for _, p := range postingsPerTerm[shortestTerm] {
		candidates[p.DocID] = struct{}{}
	}
	for term, postings := range postingsPerTerm {
		if term == shortestTerm {
			continue
		}
		for docID := range candidates {
			if _, exists := postings.Find(docID); !exists {
				delete(candidates, docID)
			}
		}
	}
	return candidates
}

func unionPostings(postingsPerTerm postingsByTerm) map[string]struct{} {
	result := make(map[string]struct{})
	for _, postings := range postingsPerTerm {
		for _, p := range postings {
			result[p.DocID] = struct{}{}
		}
	}
	return result
}
