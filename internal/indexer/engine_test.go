package indexer

import "testing"

func TestEngine_IndexAndSearch(t *testing.T) {
	e := NewEngine()
	if err := e.IndexDocument("d1", "Quick Fox", "the fox jumps over the lazy dog"); err != nil {
		t.Fatal(err)
	}
	if err := e.IndexDocument("d2", "Dogs", "a dog sleeps"); err != nil {
		t.Fatal(err)
	}

	postings := e.Search("Fox")
	if len(postings) != 1 || postings[0].DocID != "d1" {
		t.Fatalf("Search(Fox) = %+v", postings)
	}
	// "quick fox the fox ..." puts fox at 1 and 3.
	if got := postings[0].Positions; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("fox positions = %v, want [1 3]", got)
	}

	dogs := e.Search("dogs")
	if len(dogs) != 2 {
		t.Errorf("Search(dogs) matched %d docs, want 2", len(dogs))
	}
	if e.Search("the") != nil {
		t.Error("stop-word lookup should return nothing")
	}
	if e.GetTotalDocs() != 2 {
		t.Errorf("GetTotalDocs = %d, want 2", e.GetTotalDocs())
	}
}

func TestEngine_ReindexKeepsCounts(t *testing.T) {
	e := NewEngine()
	_ = e.IndexDocument("d1", "one", "two three")
	_ = e.IndexDocument("d1", "one", "two")
	if e.GetTotalDocs() != 1 {
		t.Fatalf("GetTotalDocs = %d, want 1", e.GetTotalDocs())
	}
	if e.GetDocLength("d1") != 2 {
		t.Errorf("GetDocLength = %d, want 2", e.GetDocLength("d1"))
	}
	if e.GetAvgDocLength() != 2 {
		t.Errorf("GetAvgDocLength = %v, want 2", e.GetAvgDocLength())
	}
	if len(e.Search("three")) != 0 {
		t.Error("replaced document still matches removed term")
	}
}
