package executor

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/metrics"
)

var corpus = map[string]string{
	"d1": "the quick brown fox jumps over the lazy dog",
	"d2": "a fox saw a quick dog",
	"d3": "quick quick fox",
}

func newEngine(t *testing.T) *indexer.Engine {
	t.Helper()
	e := indexer.NewEngine()
	for id, body := range corpus {
		if err := e.IndexDocument(id, "", body); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func run(t *testing.T, ex interface {
	Execute(context.Context, *parser.QueryPlan, int) (*SearchResult, error)
}, query string, limit int) *SearchResult {
	t.Helper()
	plan, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q): %v", query, err)
	}
	res, err := ex.Execute(context.Background(), plan, limit)
	if err != nil {
		t.Fatalf("Execute(%q): %v", query, err)
	}
	return res
}

func docIDs(res *SearchResult) []string {
	ids := make([]string, len(res.Results))
	for i, h := range res.Results {
		ids[i] = h.DocID
	}
	return ids
}

func sameSet(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}

func TestExecute_Predicates(t *testing.T) {
	ex := New(newEngine(t), Options{})
	tests := []struct {
		query string
		want  []string
	}{
		{`"quick brown fox"`, []string{"d1"}},
		{`"quick fox"`, []string{"d3"}},
		{"#window[1,3,u](fox, quick)", []string{"d1", "d3"}},
		{"fox NOT lazy", []string{"d2", "d3"}},
		{"lazy OR saw", []string{"d1", "d2"}},
		{"#window[2,6](quick, dog)", []string{"d2"}},
		{"fox missing", nil},
		{"#window[1,2](dog, quick)", nil},
	}
	for _, tt := range tests {
		res := run(t, ex, tt.query, 10)
		if got := docIDs(res); !sameSet(got, tt.want) {
			t.Errorf("%s: docs = %v, want %v", tt.query, got, tt.want)
		}
		if res.TotalHits != len(tt.want) {
			t.Errorf("%s: TotalHits = %d, want %d", tt.query, res.TotalHits, len(tt.want))
		}
	}
}

func TestExecute_Spans(t *testing.T) {
	ex := New(newEngine(t), Options{MaxSpansPerDoc: 4})

	res := run(t, ex, `"quick brown fox"`, 10)
	if len(res.Results) != 1 || len(res.Results[0].Spans) != 1 {
		t.Fatalf("results = %+v", res.Results)
	}
	if got := res.Results[0].Spans[0]; got != (proximity.Span{Start: 1, End: 3}) {
		t.Errorf("span = %+v, want {1 3}", got)
	}

	res = run(t, ex, `#window[1,10,u](dog, "quick brown")`, 10)
	if len(res.Results) != 1 || res.Results[0].DocID != "d1" {
		t.Fatalf("nested results = %+v", res.Results)
	}
	if got := res.Results[0].Spans[0]; got != (proximity.Span{Start: 1, End: 8}) {
		t.Errorf("nested span = %+v, want {1 8}", got)
	}
}

func TestExecute_SimplifiedPlanMatchesSame(t *testing.T) {
	ex := New(newEngine(t), Options{})
	for _, q := range []string{"#window[2,6](quick, dog)", "#window[3](quick, fox)", "#window[2,2](quick, fox)"} {
		plain := run(t, ex, q, 10)

		plan, err := parser.Parse(q)
		if err != nil {
			t.Fatal(err)
		}
		plan.Simplify()
		simplified, err := ex.Execute(context.Background(), plan, 10)
		if err != nil {
			t.Fatal(err)
		}
		if !sameSet(docIDs(plain), docIDs(simplified)) {
			t.Errorf("%s: simplified docs %v differ from %v", q, docIDs(simplified), docIDs(plain))
		}
	}
}

func TestExecute_OrderingAndLimit(t *testing.T) {
	ex := New(newEngine(t), Options{})
	res := run(t, ex, "fox", 2)
	if res.TotalHits != 3 {
		t.Errorf("TotalHits = %d, want 3", res.TotalHits)
	}
	if got := docIDs(res); len(got) != 2 || got[0] != "d1" || got[1] != "d2" {
		t.Errorf("docs = %v, want [d1 d2]", got)
	}

	res = run(t, ex, "quick", 10)
	if got := docIDs(res); got[0] != "d3" {
		t.Errorf("doc with most matches should come first, got %v", got)
	}
	if res.TermStats["quick"] != 3 {
		t.Errorf("TermStats = %v", res.TermStats)
	}
}

func TestExecute_RecordsWindowMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	ex := New(newEngine(t), Options{Metrics: m})
	run(t, ex, `"quick fox"`, 10)

	if got := testutil.ToFloat64(m.WindowEvaluationsTotal.WithLabelValues("simple", "match")); got != 1 {
		t.Errorf("simple/match evaluations = %v, want 1", got)
	}
	// d1 and d2 hold both terms but not as a phrase.
	if got := testutil.ToFloat64(m.WindowEvaluationsTotal.WithLabelValues("simple", "no_match")); got != 2 {
		t.Errorf("simple/no_match evaluations = %v, want 2", got)
	}
}

func TestSharded_MatchesSingleEngine(t *testing.T) {
	router, err := shard.NewRouter(3)
	if err != nil {
		t.Fatal(err)
	}
	for id, body := range corpus {
		if _, err := router.IndexDocument(id, "", body); err != nil {
			t.Fatal(err)
		}
	}
	engines := make(map[int]Index)
	for id, e := range router.GetAllEngines() {
		engines[id] = e
	}
	sharded := NewSharded(engines, Options{}, time.Second)
	single := New(newEngine(t), Options{})

	for _, q := range []string{`"quick fox"`, "#window[1,3,u](fox, quick)", "fox NOT lazy", "quick", "lazy OR saw"} {
		a := run(t, single, q, 10)
		b := run(t, sharded, q, 10)
		if len(a.Results) != len(b.Results) {
			t.Fatalf("%s: sharded %v, single %v", q, docIDs(b), docIDs(a))
		}
		for i := range a.Results {
			if a.Results[i].DocID != b.Results[i].DocID || a.Results[i].MatchCount != b.Results[i].MatchCount {
				t.Errorf("%s: result %d sharded %+v, single %+v", q, i, b.Results[i], a.Results[i])
			}
		}
	}
}

type slowIndex struct{ delay time.Duration }

func (s slowIndex) Lookup(string) index.PostingList {
	time.Sleep(s.delay)
	return nil
}

func TestSharded_AllShardsFail(t *testing.T) {
	sharded := NewSharded(map[int]Index{
		0: slowIndex{delay: 200 * time.Millisecond},
		1: slowIndex{delay: 200 * time.Millisecond},
	}, Options{}, 5*time.Millisecond)
	plan, _ := parser.Parse("fox")
	_, err := sharded.Execute(context.Background(), plan, 10)
	if !errors.Is(err, apperrors.ErrShardUnavailable) {
		t.Fatalf("err = %v, want ErrShardUnavailable", err)
	}
	if !errors.Is(err, apperrors.ErrTimeout) {
		t.Errorf("err = %v, want the shard timeout kept in the chain", err)
	}
}

func TestExecute_EmptyPlan(t *testing.T) {
	ex := New(newEngine(t), Options{})
	res := run(t, ex, "the", 10)
	if res.TotalHits != 0 || len(res.Results) != 0 {
		t.Errorf("stop-word query returned %+v", res)
	}
}
