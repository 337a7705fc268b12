package proximity

import (
	"math/rand"
	"sort"
	"testing"
)

// referenceOrdered reports, for every head occurrence, the nearest tail that
// satisfies the window and admits an in-order chain of interior
// occurrences. It tries every combination.
func referenceOrdered(lists [][]uint32, min, max int64, alignHead bool) []Span {
	if len(lists) < 2 {
		return nil
	}
	interior := lists[1 : len(lists)-1]
	var out []Span
	for _, h := range lists[0] {
		for _, t := range lists[len(lists)-1] {
			if t <= h {
				continue
			}
			d := int64(t) - int64(h) + 1
			if alignHead {
				d = int64(t) - int64(h)
			}
			if d < min || d > max {
				continue
			}
			if !chainExists(interior, h, t) {
				continue
			}
			out = append(out, Span{Start: h, End: t})
			break
		}
	}
	return out
}

func chainExists(interior [][]uint32, prev, tail uint32) bool {
	if len(interior) == 0 {
		return true
	}
	for _, p := range interior[0] {
		if p > prev && p < tail && chainExists(interior[1:], p, tail) {
			return true
		}
	}
	return false
}

// referenceUnordered tries every choice of one occurrence per list. Each
// choice inside the window is keyed by its leftmost occurrence, and only the
// smallest rightmost occurrence per key is kept. The result is sorted and
// free of duplicates.
func referenceUnordered(lists [][]uint32, min, max int64) []Span {
	if len(lists) < 2 {
		return nil
	}
	best := make(map[Location]Location)
	pick := make([]Location, len(lists))
	var walk func(i int)
	walk = func(i int) {
		if i == len(lists) {
			lo, hi := pick[0], pick[0]
			for _, l := range pick[1:] {
				if l.Less(lo) {
					lo = l
				}
				if hi.Less(l) {
					hi = l
				}
			}
			d := int64(hi.Position) - int64(lo.End) + 1
			if d < min || d > max {
				return
			}
			if cur, ok := best[lo]; !ok || hi.Less(cur) {
				best[lo] = hi
			}
			return
		}
		for _, p := range lists[i] {
			pick[i] = Location{Position: p, End: p, Source: uint32(i + 1)}
			walk(i + 1)
		}
	}
	walk(0)

	seen := make(map[Span]struct{})
	var out []Span
	for lo, hi := range best {
		s := spanOf(lo, hi)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sortSpans(out)
	return out
}

func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
}

func collect(t *testing.T, m Matcher) []Span {
	t.Helper()
	var out []Span
	for guard := 0; !m.IsEnd(); guard++ {
		if guard > 100000 {
			t.Fatal("matcher did not terminate")
		}
		out = append(out, m.Span())
		m.Next()
	}
	return out
}

func build(t *testing.T, m Matcher, lists [][]uint32) Matcher {
	t.Helper()
	m.Reserve(len(lists))
	for _, l := range lists {
		m.Push(NewSliceSource(l))
	}
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return m
}

func randomLists(rng *rand.Rand, n, maxLen, maxPos int) [][]uint32 {
	lists := make([][]uint32, n)
	for i := range lists {
		seen := make(map[uint32]struct{})
		k := rng.Intn(maxLen + 1)
		for j := 0; j < k; j++ {
			seen[uint32(rng.Intn(maxPos))] = struct{}{}
		}
		for p := range seen {
			lists[i] = append(lists[i], p)
		}
		sort.Slice(lists[i], func(a, b int) bool { return lists[i][a] < lists[i][b] })
	}
	return lists
}

func randomWindow(rng *rand.Rand) (uint32, uint32) {
	min := uint32(rng.Intn(5))
	if rng.Intn(8) == 0 {
		return min, Unbounded
	}
	return min, min + uint32(rng.Intn(8))
}

func equalSpans(a, b []Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
