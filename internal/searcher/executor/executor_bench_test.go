package executor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
)

var benchVocabulary = []string{
	"search", "index", "shard", "query", "window", "phrase", "posting",
	"cache", "kafka", "redis", "token", "stream", "merge", "heap",
}

func benchEngine(b *testing.B, docs, words int) *indexer.Engine {
	b.Helper()
	rng := rand.New(rand.NewSource(7))
	e := indexer.NewEngine()
	for d := 0; d < docs; d++ {
		body := make([]string, words)
		for i := range body {
			body[i] = benchVocabulary[rng.Intn(len(benchVocabulary))]
		}
		if err := e.IndexDocument(fmt.Sprintf("doc-%d", d), "", strings.Join(body, " ")); err != nil {
			b.Fatal(err)
		}
	}
	return e
}

// BenchmarkExecute measures end-to-end evaluation of window predicates over
// a synthetic corpus.
func BenchmarkExecute(b *testing.B) {
	e := benchEngine(b, 1000, 200)
	ex := New(e, Options{MaxSpansPerDoc: 8})
	queries := map[string]string{
		"terms":     "search shard",
		"phrase":    `"search index"`,
		"ordered":   "#window[1,6](query, cache, heap)",
		"unordered": "#window[1,6,u](query, cache, heap)",
		"nested":    `#window[1,20,u]("search index", #window[1,4](kafka, redis))`,
	}
	for name, q := range queries {
		plan, err := parser.Parse(q)
		if err != nil {
			b.Fatal(err)
		}
		plan.Simplify()
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ex.Execute(context.Background(), plan, 10); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
