package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/indexer/shard"
	ingesthandler "github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion/handler"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion/store"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/ratelimit"
	pkgredis "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting proximity search service", "port", cfg.Server.Port, "num_shards", cfg.Indexer.NumShards)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	router, err := shard.NewRouter(cfg.Indexer.NumShards)
	if err != nil {
		slog.Error("failed to create shard router", "error", err)
		os.Exit(1)
	}
	defer router.Close()
	m.ActiveShards.Set(float64(router.NumShards()))

	checker := health.NewChecker()
	checker.Register("index_shards", func(ctx context.Context) health.ComponentHealth {
		if router.NumShards() == 0 {
			return health.ComponentHealth{Status: health.StatusDown, Message: "no shards"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d shards, %d documents", router.NumShards(), router.TotalDocs()),
		}
	})

	var queryCache *cache.QueryCache
	var invalidator consumer.CacheInvalidator
	if cfg.Redis.Addr != "" {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			invalidator = queryCache
			checker.Register("redis", health.PingCheck(redisClient.Ping, false))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var statusStore consumer.StatusStore
	var pendingStore publisher.PendingStore
	if cfg.Postgres.Host != "" {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, document status tracking disabled", "error", err)
		} else {
			defer db.Close()
			docs := store.New(db)
			if err := docs.EnsureSchema(ctx); err != nil {
				slog.Error("failed to prepare documents table", "error", err)
				os.Exit(1)
			}
			statusStore, pendingStore = docs, docs
			checker.Register("postgres", health.PingCheck(db.Ping, false))
		}
	}

	indexer := consumer.NewIndexer(router, statusStore, invalidator, m)

	var events publisher.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.IngestTopic)
		defer producer.Close()
		events = producer

		kc := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.IngestTopic, indexer.HandleMessage())
		defer kc.Close()
		indexConsumer := consumer.New(kc)
		go func() {
			if err := indexConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("index consumer stopped", "error", err)
			}
		}()
		slog.Info("kafka ingest pipeline enabled",
			"topic", cfg.Kafka.IngestTopic,
			"group", kafka.GroupID(cfg.Kafka),
		)
	} else {
		slog.Info("no kafka brokers configured, documents are indexed on request")
	}

	engines := make(map[int]executor.Index)
	for id, e := range router.GetAllEngines() {
		engines[id] = e
	}
	exec := executor.NewSharded(engines, executor.Options{
		MaxSpansPerDoc: cfg.Search.MaxSpansPerDoc,
		Metrics:        m,
	}, cfg.Search.TimeoutPerShard)

	searchH := handler.New(exec, queryCache, m, cfg.Search)
	ingestH := ingesthandler.New(publisher.New(router, pendingStore, events, indexer))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", searchH.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", searchH.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", searchH.CacheInvalidate)
	mux.HandleFunc("POST /api/v1/documents", ingestH.Ingest)
	mux.HandleFunc("GET /api/v1/index/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"total_documents": router.TotalDocs(),
			"shards":          router.Stats(),
		})
	})
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := ratelimit.New(cfg.Server.RateLimitPerMinute, time.Minute)
		defer limiter.Close()
		chain = middleware.RateLimit(limiter)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("proximity search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("proximity search service stopped")
}
