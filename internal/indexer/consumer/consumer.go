// Package consumer reads ingest events from Kafka and indexes them through
// the shard router. After each document it records the outcome in the
// status store and drops cached search results.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/resilience"
)

// DocumentIndexer stores a document on its owning shard and returns the
// shard ID. *shard.Router satisfies it.
type DocumentIndexer interface {
	IndexDocument(docID, title, body string) (int, error)
	ShardDocs(shardID int) int64
}

// StatusStore records indexing outcomes.
type StatusStore interface {
	UpdateStatus(ctx context.Context, docID, status string) error
}

// CacheInvalidator drops cached query results.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Indexer applies ingest events to the index. The store, cache and metrics
// are optional.
type Indexer struct {
	router  DocumentIndexer
	store   StatusStore
	cache   CacheInvalidator
	metrics *metrics.Metrics
	retry   resilience.RetryConfig
	logger  *slog.Logger
}

func NewIndexer(router DocumentIndexer, store StatusStore, cache CacheInvalidator, m *metrics.Metrics) *Indexer {
	return &Indexer{
		router:  router,
		store:   store,
		cache:   cache,
		metrics: m,
		retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			// an untracked document stays untracked
			Retryable: func(err error) bool {
				return !errors.Is(err, apperrors.ErrDocumentNotFound)
			},
		},
		logger: slog.Default().With("component", "index-consumer"),
	}
}

// Index indexes one event and returns the shard that now holds it.
func (ix *Indexer) Index(ctx context.Context, event ingestion.IngestEvent) (int, error) {
	shardID, err := ix.router.IndexDocument(event.DocumentID, event.Title, event.Body)
	if err != nil {
		ix.count(ingestion.StatusFailed)
		ix.updateStatus(ctx, event.DocumentID, ingestion.StatusFailed)
		return shardID, fmt.Errorf("indexing document %s in shard %d: %w", event.DocumentID, shardID, err)
	}
	ix.count(ingestion.StatusIndexed)
	if ix.metrics != nil {
		ix.metrics.DocsIndexedTotal.Inc()
		ix.metrics.ShardDocCount.WithLabelValues(strconv.Itoa(shardID)).Set(float64(ix.router.ShardDocs(shardID)))
	}
	ix.updateStatus(ctx, event.DocumentID, ingestion.StatusIndexed)
	if ix.cache != nil {
		if err := ix.cache.Invalidate(ctx); err != nil {
			ix.logger.Warn("cache invalidation after indexing failed",
				"doc_id", event.DocumentID,
				"error", err,
			)
		}
	}
	ix.logger.Info("document indexed",
		"doc_id", event.DocumentID,
		"shard_id", shardID,
	)
	return shardID, nil
}

// HandleMessage returns a Kafka MessageHandler that decodes ingest events
// and indexes them. Undecodable messages are logged and skipped so they do
// not block the partition.
func (ix *Indexer) HandleMessage() kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.IngestEvent](value)
		if err != nil || event.DocumentID == "" {
			ix.count("invalid")
			ix.logger.Error("failed to decode ingest event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		ix.logger.Debug("processing ingest event",
			"doc_id", event.DocumentID,
			"shard_id", event.ShardID,
		)
		_, err = ix.Index(ctx, event)
		return err
	}
}

func (ix *Indexer) updateStatus(ctx context.Context, docID, status string) {
	if ix.store == nil {
		return
	}
	err := resilience.Retry(ctx, "update-doc-status", ix.retry, func() error {
		return ix.store.UpdateStatus(ctx, docID, status)
	})
	if errors.Is(err, apperrors.ErrDocumentNotFound) {
		ix.logger.Debug("status not tracked for document", "doc_id", docID, "status", status)
		return
	}
	if err != nil {
		ix.logger.Error("failed to update document status",
			"doc_id", docID,
			"status", status,
			"error", err,
		)
	}
}

func (ix *Indexer) count(status string) {
	if ix.metrics != nil {
		ix.metrics.IngestEventsTotal.WithLabelValues(status).Inc()
	}
}

// IndexConsumer wraps a Kafka consumer to drive the indexing pipeline.
type IndexConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates an IndexConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *IndexConsumer {
	return &IndexConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "index-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (ic *IndexConsumer) Start(ctx context.Context) error {
	ic.logger.Info("index consumer starting")
	return ic.consumer.Start(ctx)
}
