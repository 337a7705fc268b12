package index

import (
	"sort"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/tokenizer"
)

// MemoryIndex is a positional inverted index: term -> document -> positions.
type MemoryIndex struct {
	mu        sync.RWMutex
	index     map[string]map[string]*Posting
	docLength map[string]int
	size      int64
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index:     make(map[string]map[string]*Posting),
		docLength: make(map[string]int),
	}
}

// AddDocument tokenizes text and records every term position. Re-adding a
// document replaces its previous postings.
func (m *MemoryIndex) AddDocument(docID string, text string) int {
	tokens := tokenizer.Tokenize(text)

	termData := make(map[string]*Posting)
	for _, token := range tokens {
		p, exists := termData[token.Term]
		if !exists {
			p = &Posting{
				DocID:     docID,
				Positions: make([]uint32, 0, 4),
			}
			termData[token.Term] = p
		}
		p.Frequency++
		p.Positions = append(p.Positions, token.Position)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docLength[docID]; exists {
		m.removeLocked(docID)
	}
	for term, posting := range termData {
		if _, exists := m.index[term]; !exists {
			m.index[term] = make(map[string]*Posting)
		}
		m.index[term][docID] = posting
		m.size += int64(len(term) + len(docID) + len(posting.Positions)*4 + 64)
	}
	m.docLength[docID] = len(tokens)
	return len(tokens)
}

func (m *MemoryIndex) removeLocked(docID string) {
	for term, docs := range m.index {
		posting, ok := docs[docID]
		if !ok {
			continue
		}
		m.size -= int64(len(term) + len(docID) + len(posting.Positions)*4 + 64)
		delete(docs, docID)
		if len(docs) == 0 {
			delete(m.index, term)
		}
	}
	delete(m.docLength, docID)
}

// Search returns the postings of term sorted by document ID.
func (m *MemoryIndex) Search(term string) PostingList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs, exists := m.index[term]
	if !exists {
		return nil
	}
	result := make(PostingList, 0, len(docs))
	for _, posting := range docs {
		result = append(result, *posting)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocID < result[j].DocID
	})
	return result
}

func (m *MemoryIndex) DocLength(docID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docLength[docID]
}

func (m *MemoryIndex) HasDocument(docID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docLength[docID]
	return ok
}

func (m *MemoryIndex) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docLength)
}

func (m *MemoryIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = make(map[string]map[string]*Posting)
	m.docLength = make(map[string]int)
	m.size = 0
}
