// Package indexer holds the per-shard positional index engine. An Engine
// tokenizes incoming documents and answers term lookups with the positions
// the proximity matchers consume.
package indexer

import (
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/tokenizer"
)

// Engine owns one in-memory positional index.
type Engine struct {
	memIndex    *index.MemoryIndex
	logger      *slog.Logger
	mu          sync.RWMutex
	totalDocs   int64
	totalTokens int64
}

func NewEngine() *Engine {
	return &Engine{
		memIndex: index.NewMemoryIndex(),
		logger:   slog.Default().With("component", "indexer"),
	}
}

// IndexDocument indexes title and body as one text, title first, so that
// positions run across both.
func (e *Engine) IndexDocument(docID string, title string, body string) error {
	previous := e.memIndex.DocLength(docID)
	existed := e.memIndex.HasDocument(docID)
	tokens := e.memIndex.AddDocument(docID, title+" "+body)

	e.mu.Lock()
	if !existed {
		e.totalDocs++
	}
	e.totalTokens += int64(tokens - previous)
	e.mu.Unlock()

	e.logger.Debug("document indexed",
		"doc_id", docID,
		"token_count", tokens,
		"replaced", existed,
		"mem_size", e.memIndex.Size(),
	)
	return nil
}

// Search normalizes term the way documents are normalized and returns its
// postings sorted by document ID. Terms the index never stores, such as
// stop-words, yield no postings.
func (e *Engine) Search(term string) index.PostingList {
	normalized, ok := tokenizer.Normalize(term)
	if !ok {
		return nil
	}
	return e.memIndex.Search(normalized)
}

// Lookup returns the postings of an already normalized term.
func (e *Engine) Lookup(normalized string) index.PostingList {
	return e.memIndex.Search(normalized)
}

func (e *Engine) GetDocLength(docID string) int {
	return e.memIndex.DocLength(docID)
}

func (e *Engine) GetAvgDocLength() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.totalDocs == 0 {
		return 0
	}
	return float64(e.totalTokens) / float64(e.totalDocs)
}

func (e *Engine) GetTotalDocs() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalDocs
}

// Close drops the index contents.
func (e *Engine) Close() error {
	e.memIndex.Reset()
	e.mu.Lock()
	e.totalDocs = 0
	e.totalTokens = 0
	e.mu.Unlock()
	return nil
}
