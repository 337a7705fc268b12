package index

import "github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"

// Posting lists the word positions of one term inside one document, in
// ascending order.
type Posting struct {
	DocID     string   `json:"doc_id"`
	Frequency int      `json:"frequency"`
	Positions []uint32 `json:"positions"`
}

// Source returns a fresh occurrence cursor over the posting's positions.
func (p Posting) Source() *proximity.SliceSource {
	return proximity.NewSliceSource(p.Positions)
}

type PostingList []Posting

// Find returns the posting for docID. The list must be sorted by DocID.
func (pl PostingList) Find(docID string) (Posting, bool) {
	lo, hi := 0, len(pl)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if pl[mid].DocID < docID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(pl) && pl[lo].DocID == docID {
		return pl[lo], true
	}
	return Posting{}, false
}
