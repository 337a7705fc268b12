package parser

import "testing"

// BenchmarkParse measures parsing latency for queries of varying shape.
func BenchmarkParse(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"terms", "distributed search engine"},
		{"with_not", "distributed NOT monolithic"},
		{"phrase", `"quick brown fox jumps"`},
		{"window", "#window[1,10,u](search, index, shard)"},
		{"nested", `#window[2,20](#window[1,5,u](alpha, beta), "gamma delta", epsilon)`},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				plan, err := Parse(q.query)
				if err != nil {
					b.Fatal(err)
				}
				plan.Simplify()
			}
		})
	}
}
