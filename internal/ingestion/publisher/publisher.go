// Package publisher accepts validated documents, records them as pending and
// hands them to the indexing pipeline: through Kafka when a producer is
// configured, or straight into the local shard router otherwise.
package publisher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/kafka"
)

// EventPublisher writes ingest events; *kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// PendingStore records newly accepted documents.
type PendingStore interface {
	MarkPending(ctx context.Context, rec ingestion.DocumentRecord) error
}

// ShardAssigner maps a document ID to its shard.
type ShardAssigner interface {
	ShardFor(docID string) int
}

// LocalIndexer indexes an event in-process.
type LocalIndexer interface {
	Index(ctx context.Context, event ingestion.IngestEvent) (int, error)
}

// Publisher coordinates document tracking and hand-off to indexing.
type Publisher struct {
	shards   ShardAssigner
	store    PendingStore
	producer EventPublisher
	local    LocalIndexer
	logger   *slog.Logger
}

// New creates a Publisher. store may be nil. When producer is nil every
// document is indexed through local.
func New(shards ShardAssigner, store PendingStore, producer EventPublisher, local LocalIndexer) *Publisher {
	return &Publisher{
		shards:   shards,
		store:    store,
		producer: producer,
		local:    local,
		logger:   slog.Default().With("component", "publisher"),
	}
}

// Ingest tracks the document and either publishes it for asynchronous
// indexing (status PENDING) or indexes it immediately (status INDEXED).
func (p *Publisher) Ingest(ctx context.Context, req *ingestion.IngestRequest) (*ingestion.IngestResponse, error) {
	contentHash := ContentHash(req.Title, req.Body)
	docID := req.DocumentID
	if docID == "" {
		docID = "doc-" + contentHash[:16]
	}
	shardID := p.shards.ShardFor(docID)

	if p.store != nil {
		err := p.store.MarkPending(ctx, ingestion.DocumentRecord{
			DocumentID:  docID,
			Title:       req.Title,
			ContentHash: contentHash,
			ContentSize: len(req.Body),
			ShardID:     shardID,
		})
		if err != nil {
			return nil, fmt.Errorf("recording document %s: %w", docID, err)
		}
	}

	event := ingestion.IngestEvent{
		DocumentID:  docID,
		Title:       req.Title,
		Body:        req.Body,
		ShardID:     shardID,
		ContentHash: contentHash,
		IngestedAt:  time.Now().UTC(),
	}

	if p.producer == nil {
		if _, err := p.local.Index(ctx, event); err != nil {
			return nil, fmt.Errorf("indexing document %s: %w", docID, err)
		}
		return &ingestion.IngestResponse{
			DocumentID: docID,
			Status:     ingestion.StatusIndexed,
			ShardID:    shardID,
		}, nil
	}

	if err := p.producer.Publish(ctx, kafka.Event{Key: docID, Type: ingestion.EventTypeIngested, Value: event}); err != nil {
		p.logger.Error("failed to publish to kafka, document stuck in PENDING",
			"doc_id", docID,
			"shard_id", shardID,
			"error", err,
		)
		return nil, apperrors.Newf(apperrors.ErrShardUnavailable, http.StatusServiceUnavailable,
			"document %s could not be queued for indexing", docID)
	}
	return &ingestion.IngestResponse{
		DocumentID: docID,
		Status:     ingestion.StatusPending,
		ShardID:    shardID,
	}, nil
}

// ContentHash returns the hex SHA-256 of a document's title and body.
func ContentHash(title, body string) string {
	sum := sha256.Sum256([]byte(title + "\n" + body))
	return hex.EncodeToString(sum[:])
}
