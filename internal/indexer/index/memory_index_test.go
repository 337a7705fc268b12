package index

import "testing"

func TestMemoryIndex_Positions(t *testing.T) {
	mi := NewMemoryIndex()
	mi.AddDocument("doc-2", "search engines rank search results")
	mi.AddDocument("doc-1", "a search index")

	postings := mi.Search("search")
	if len(postings) != 2 {
		t.Fatalf("postings = %v, want 2", postings)
	}
	if postings[0].DocID != "doc-1" || postings[1].DocID != "doc-2" {
		t.Errorf("postings not sorted by doc ID: %v", postings)
	}
	p := postings[1]
	if p.Frequency != 2 || len(p.Positions) != 2 || p.Positions[0] != 0 || p.Positions[1] != 3 {
		t.Errorf("doc-2 posting = %+v, want positions [0 3]", p)
	}
	if mi.DocCount() != 2 || mi.DocLength("doc-2") != 5 {
		t.Errorf("DocCount = %d, DocLength = %d", mi.DocCount(), mi.DocLength("doc-2"))
	}
}

func TestMemoryIndex_ReplaceDocument(t *testing.T) {
	mi := NewMemoryIndex()
	mi.AddDocument("doc-1", "alpha beta")
	before := mi.Size()
	mi.AddDocument("doc-1", "gamma")

	if got := mi.Search("alpha"); got != nil {
		t.Errorf("stale postings after replace: %v", got)
	}
	if got := mi.Search("gamma"); len(got) != 1 {
		t.Errorf("gamma postings = %v", got)
	}
	if mi.DocCount() != 1 || mi.Size() >= before {
		t.Errorf("DocCount = %d, Size = %d (before %d)", mi.DocCount(), mi.Size(), before)
	}
}

func TestPostingList_Find(t *testing.T) {
	pl := PostingList{{DocID: "a"}, {DocID: "c"}, {DocID: "e"}}
	if _, ok := pl.Find("c"); !ok {
		t.Error("expected to find c")
	}
	if _, ok := pl.Find("d"); ok {
		t.Error("d is not in the list")
	}
}

func TestPosting_Source(t *testing.T) {
	p := Posting{DocID: "a", Positions: []uint32{2, 9}}
	src := p.Source()
	var got []uint32
	for ; !src.AtEnd(); src.Advance() {
		got = append(got, src.Start())
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 9 {
		t.Errorf("source yielded %v", got)
	}
}
