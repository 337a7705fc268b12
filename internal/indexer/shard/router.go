// Package shard provides hash-based shard routing for index engines. Each
// shard owns an independent indexer.Engine instance, and the Router
// dispatches documents by a hash of their ID.
package shard

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer"
)

// Router maps shard IDs to dedicated indexer.Engine instances.
type Router struct {
	engines   map[int]*indexer.Engine
	mu        sync.RWMutex
	numShards int
	logger    *slog.Logger
}

// NewRouter creates numShards empty engines.
func NewRouter(numShards int) (*Router, error) {
	if numShards < 1 {
		return nil, fmt.Errorf("shard count must be positive, got %d", numShards)
	}
	r := &Router{
		engines:   make(map[int]*indexer.Engine, numShards),
		numShards: numShards,
		logger:    slog.Default().With("component", "shard-router"),
	}
	for i := 0; i < numShards; i++ {
		r.engines[i] = indexer.NewEngine()
	}
	r.logger.Info("shard router ready", "num_shards", numShards)
	return r, nil
}

// ShardFor returns the shard that owns docID.
func (r *Router) ShardFor(docID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(docID))
	return int(h.Sum32() % uint32(r.numShards))
}

// Route returns the Engine responsible for the given shard ID.
func (r *Router) Route(shardID int) (*indexer.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[shardID]
	if !ok {
		return nil, fmt.Errorf("unknown shard ID %d (valid range: 0-%d)", shardID, r.numShards-1)
	}
	return engine, nil
}

// IndexDocument stores a document on the shard that owns its ID.
func (r *Router) IndexDocument(docID, title, body string) (int, error) {
	shardID := r.ShardFor(docID)
	engine, err := r.Route(shardID)
	if err != nil {
		return shardID, err
	}
	return shardID, engine.IndexDocument(docID, title, body)
}

// GetAllEngines returns a snapshot map of all shard engines.
func (r *Router) GetAllEngines() map[int]*indexer.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[int]*indexer.Engine, len(r.engines))
	for id, engine := range r.engines {
		result[id] = engine
	}
	return result
}

// NumShards returns the number of shards managed by this router.
func (r *Router) NumShards() int {
	return r.numShards
}

// TotalDocs sums the document counts of every shard.
func (r *Router) TotalDocs() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, engine := range r.engines {
		total += engine.GetTotalDocs()
	}
	return total
}

// ShardDocs returns the document count of one shard, 0 for unknown IDs.
func (r *Router) ShardDocs(shardID int) int64 {
	engine, err := r.Route(shardID)
	if err != nil {
		return 0
	}
	return engine.GetTotalDocs()
}

// Stats describes the contents of one shard.
type Stats struct {
	ShardID      int     `json:"shard_id"`
	Documents    int64   `json:"documents"`
	AvgDocLength float64 `json:"avg_doc_length"`
}

// Stats reports every shard, ordered by shard ID.
func (r *Router) Stats() []Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stats, 0, len(r.engines))
	for id := 0; id < r.numShards; id++ {
		engine := r.engines[id]
		out = append(out, Stats{
			ShardID:      id,
			Documents:    engine.GetTotalDocs(),
			AvgDocLength: engine.GetAvgDocLength(),
		})
	}
	return out
}

// Close closes every shard engine.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for id, engine := range r.engines {
		if err := engine.Close(); err != nil {
			r.logger.Error("close failed", "shard_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
