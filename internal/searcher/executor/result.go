package executor

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
)

// Hit is one matching document. Spans lists the first matches of its
// window predicates in evaluation order.
type Hit struct {
	DocID      string           `json:"doc_id"`
	MatchCount int              `json:"match_count"`
	Spans      []proximity.Span `json:"spans,omitempty"`
}

type SearchResult struct {
	Query     string         `json:"query"`
	Plan      string         `json:"plan"`
	TotalHits int            `json:"total_hits"`
	Results   []Hit          `json:"results"`
	TermStats map[string]int `json:"term_stats"`
}

// sortHits orders hits by match count, most first, then by document ID.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].MatchCount != hits[j].MatchCount {
			return hits[i].MatchCount > hits[j].MatchCount
		}
		return hits[i].DocID < hits[j].DocID
	})
}

func limitHits(hits []Hit, limit int) []Hit {
	if limit > 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}
