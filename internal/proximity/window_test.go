package proximity

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNew_InvalidWindowRange(t *testing.T) {
	for _, mode := range []Mode{ModeOrdered, ModeUnordered, ModeSimple} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := New(Window{Mode: mode, Min: 5, Max: 2})
			if !errors.Is(err, ErrInvalidWindowRange) {
				t.Fatalf("err = %v, want ErrInvalidWindowRange", err)
			}
		})
	}
}

func TestNew_UnknownMode(t *testing.T) {
	if _, err := New(Window{Mode: Mode(42), Min: 0, Max: 1}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNew_Dispatch(t *testing.T) {
	tests := []struct {
		w    Window
		want Mode
	}{
		{Window{Mode: ModeOrdered, Min: 1, Max: 4}, ModeOrdered},
		{Window{Mode: ModeUnordered, Min: 1, Max: 4}, ModeUnordered},
		{Window{Mode: ModeSimple, Min: 0, Max: 0}, ModeSimple},
	}
	for _, tt := range tests {
		m, err := New(tt.w)
		if err != nil {
			t.Fatalf("New(%+v): %v", tt.w, err)
		}
		if got := m.Window(); got.Mode != tt.want || got.Min != tt.w.Min || got.Max != tt.w.Max {
			t.Errorf("Window() = %+v, want %+v", got, tt.w)
		}
	}
}

func TestSimple_AdjacentOnly(t *testing.T) {
	lists := [][]uint32{{0, 2, 5, 9}, {1, 4, 6, 11}}

	simple, err := NewSimple(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := collect(t, build(t, simple, lists))
	want := []Span{{Start: 0, End: 1}, {Start: 5, End: 6}}
	if !equalSpans(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}

	ordered, _ := NewOrdered(1, 1, true)
	if again := collect(t, build(t, ordered, lists)); !equalSpans(again, want) {
		t.Errorf("head aligned [1,1] = %v, want %v", again, want)
	}
}

func TestSimple_ThreeTokenPhrase(t *testing.T) {
	m, _ := NewSimple(1, 1)
	got := collect(t, build(t, m, [][]uint32{{0, 10}, {1, 5, 12}, {2, 6, 11}}))
	want := []Span{{Start: 0, End: 2}}
	if !equalSpans(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
}

func TestSimple_UnboundedStaysUnbounded(t *testing.T) {
	m, _ := NewSimple(0, Unbounded)
	got := collect(t, build(t, m, [][]uint32{{0}, {4000000000}}))
	if len(got) != 1 {
		t.Fatalf("spans = %v, want one match", got)
	}
}

// An end aligned window over single tokens is the simple window shifted by
// two: t-h+1 in [min,max] is the same as t-h in [min-1,max-1].
func TestSimple_EquivalentToEndAlignedOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	for round := 0; round < 1000; round++ {
		lists := randomLists(rng, 2+rng.Intn(3), 6, 24)
		min := 2 + uint32(rng.Intn(4))
		max := min + uint32(rng.Intn(6))

		ordered, _ := NewOrdered(min, max, false)
		simple, _ := NewSimple(min-2, max-2)
		a := collect(t, build(t, ordered, lists))
		b := collect(t, build(t, simple, lists))
		if !equalSpans(a, b) {
			t.Fatalf("lists=%v window=[%d,%d]: ordered %v, simple %v", lists, min, max, a, b)
		}
	}
}

func TestMatchSource_PhraseInsideWindow(t *testing.T) {
	// "new york" as a phrase, within 5 tokens of "pizza" in any order
	phrase, _ := NewSimple(0, 0)
	build(t, phrase, [][]uint32{{3, 20}, {4, 30}})

	outer, _ := NewUnordered(1, 5)
	outer.Push(NewMatchSource(phrase), NewSliceSource([]uint32{1, 40}))
	if err := outer.Initialize(); err != nil {
		t.Fatal(err)
	}
	got := collect(t, outer)
	want := []Span{{Start: 1, End: 4}}
	if !equalSpans(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}

	if err := outer.Reset(); err != nil {
		t.Fatal(err)
	}
	if again := collect(t, outer); !equalSpans(again, want) {
		t.Errorf("after reset %v, want %v", again, want)
	}
}

func TestMatchSource_PhraseAsOrderedHead(t *testing.T) {
	phrase, _ := NewSimple(0, 0)
	build(t, phrase, [][]uint32{{2}, {3}})

	outer, _ := NewOrdered(1, 4, false)
	outer.Push(NewMatchSource(phrase), NewSliceSource([]uint32{1, 5, 9}))
	if err := outer.Initialize(); err != nil {
		t.Fatal(err)
	}
	// distance runs from the end of the phrase (3) to 5
	got := collect(t, outer)
	want := []Span{{Start: 2, End: 5}}
	if !equalSpans(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
}

func TestSpanSource(t *testing.T) {
	s := NewSpanSource([]Span{{Start: 1, End: 3}, {Start: 7, End: 8}})
	var got []Span
	for ; !s.AtEnd(); s.Advance() {
		got = append(got, Span{Start: s.Start(), End: s.End()})
	}
	s.Advance()
	if !s.AtEnd() || len(got) != 2 || got[1].End != 8 {
		t.Fatalf("got %v", got)
	}
	s.Restart()
	if s.AtEnd() || s.Start() != 1 {
		t.Error("Restart should rewind to the first occurrence")
	}
}

func TestLocation(t *testing.T) {
	if !None().IsNone() {
		t.Error("None should be the unset sentinel")
	}
	l := Location{Position: 3, End: 4, Source: 2}
	if l.IsNone() {
		t.Error("tagged location is not None")
	}
	if l.String() != "2:[3,4]" || None().String() != "none" {
		t.Errorf("String() = %q / %q", l.String(), None().String())
	}
}
