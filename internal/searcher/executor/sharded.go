package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/tracing"
)

type shardResult struct {
	shardID   int
	hits      []Hit
	termStats map[string]int
	err       error
}

// ShardedExecutor runs a plan on every shard concurrently and merges the
// hits. A shard that fails or exceeds its timeout is logged and skipped.
type ShardedExecutor struct {
	engines         map[int]Index
	opts            Options
	timeoutPerShard time.Duration
	logger          *slog.Logger
}

func NewSharded(engines map[int]Index, opts Options, timeoutPerShard time.Duration) *ShardedExecutor {
	return &ShardedExecutor{
		engines:         engines,
		opts:            opts,
		timeoutPerShard: timeoutPerShard,
		logger:          slog.Default().With("component", "sharded-executor"),
	}
}

func (se *ShardedExecutor) Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*SearchResult, error) {
	if plan.IsEmpty() {
		return emptyResult(plan), nil
	}
	shardResults, err := se.fanOut(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("shard fan-out: %w", err)
	}

	shardHits := make([][]Hit, 0, len(shardResults))
	total := 0
	termStats := make(map[string]int)
	for _, sr := range shardResults {
		shardHits = append(shardHits, sr.hits)
		total += len(sr.hits)
		for term, n := range sr.termStats {
			termStats[term] += n
		}
	}
	hits := mergeTopK(shardHits, limit)
	if hits == nil {
		hits = []Hit{}
	}
	se.logger.Info("sharded query executed",
		"query", plan.RawQuery,
		"plan", plan.String(),
		"shards_queried", len(shardResults),
		"hits", total,
		"results", len(hits),
	)
	return &SearchResult{
		Query:     plan.RawQuery,
		Plan:      plan.String(),
		TotalHits: total,
		Results:   hits,
		TermStats: termStats,
	}, nil
}

func (se *ShardedExecutor) fanOut(ctx context.Context, plan *parser.QueryPlan) ([]shardResult, error) {
	ids := make([]int, 0, len(se.engines))
	for id := range se.engines {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	results := make([]shardResult, len(ids))
	var g errgroup.Group
	for i, shardID := range ids {
		i, shardID := i, shardID
		engine := se.engines[shardID]
		g.Go(func() error {
			sr := shardResult{shardID: shardID}
			done := make(chan shardResult, 1)
			name := fmt.Sprintf("shard-%d", shardID)
			spanCtx, span := tracing.StartChildSpan(ctx, name)
			defer span.End()
			sr.err = resilience.WithTimeout(spanCtx, se.timeoutPerShard, name, func(ctx context.Context) error {
				hits, stats, err := evaluateIndex(ctx, engine, plan, se.opts)
				if err != nil {
					return err
				}
				done <- shardResult{hits: hits, termStats: stats}
				return nil
			})
			if sr.err == nil {
				out := <-done
				sr.hits, sr.termStats = out.hits, out.termStats
				span.SetAttr("hits", len(sr.hits))
			} else {
				span.SetAttr("error", sr.err.Error())
			}
			results[i] = sr
			return nil
		})
	}
	_ = g.Wait()

	ok := make([]shardResult, 0, len(results))
	var lastErr error
	for _, r := range results {
		if r.err != nil {
			se.logger.Error("shard query failed", "shard_id", r.shardID, "error", r.err)
			lastErr = r.err
			continue
		}
		ok = append(ok, r)
	}
	if len(ok) == 0 && len(se.engines) > 0 {
		return nil, fmt.Errorf("%w: all %d shards failed: %w", apperrors.ErrShardUnavailable, len(se.engines), lastErr)
	}
	return ok, nil
}
