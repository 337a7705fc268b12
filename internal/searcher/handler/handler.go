// Package handler serves the search API: window and phrase queries, cache
// statistics and cache invalidation.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/proximity"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/tracing"
)

type SearchExecutor interface {
	Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*executor.SearchResult, error)
}

type Handler struct {
	executor SearchExecutor
	cache    *cache.QueryCache
	metrics  *metrics.Metrics
	cfg      config.SearchConfig
	defaults proximity.Window
	logger   *slog.Logger
}

// New builds the search handler. queryCache and m may be nil.
func New(exec SearchExecutor, queryCache *cache.QueryCache, m *metrics.Metrics, cfg config.SearchConfig) *Handler {
	return &Handler{
		executor: exec,
		cache:    queryCache,
		metrics:  m,
		cfg:      cfg,
		defaults: proximity.Window{
			Mode: parser.DefaultWindow.Mode,
			Min:  cfg.WindowMinDefault,
			Max:  cfg.WindowMaxDefault,
		},
		logger: slog.Default().With("component", "search-handler"),
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartSpan(r.Context(), "search", middleware.GetRequestID(r.Context()))
	log := logger.FromContext(ctx)
	defer func() {
		span.End()
		span.Log(log)
	}()

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := h.cfg.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > h.cfg.MaxResults {
			parsed = h.cfg.MaxResults
		}
		limit = parsed
	}

	_, parseSpan := tracing.StartChildSpan(ctx, "parse")
	plan, err := parser.ParseWith(query, h.defaults)
	parseSpan.End()
	if err != nil {
		h.countQuery("invalid")
		log.Info("query rejected", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	if h.cfg.SimpleRewrite {
		plan.Simplify()
	}

	var result *executor.SearchResult
	cacheHit := false
	if h.cache != nil && !plan.IsEmpty() {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, plan, limit, func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, plan, limit)
		})
	} else {
		result, err = h.executor.Execute(ctx, plan, limit)
	}
	if err != nil {
		h.countQuery("error")
		log.Error("search execution failed", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}
	// cached results carry the raw text of whichever query filled the entry
	result.Query = query

	span.SetAttr("cache_hit", cacheHit)
	span.SetAttr("total_hits", result.TotalHits)
	latency := time.Since(start)
	h.observe(result, cacheHit, latency)
	log.Info("search completed",
		"query", query,
		"plan", result.Plan,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
		"breaker":  h.cache.BreakerState().String(),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observe(result *executor.SearchResult, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
	if result.TotalHits == 0 {
		h.countQuery("zero_result")
	} else {
		h.countQuery("hit")
	}
}

func (h *Handler) countQuery(resultType string) {
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
