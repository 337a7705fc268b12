// Package ingestion defines the request/response types and Kafka event schema
// used to get documents into the positional index.
package ingestion

import "time"

// Document statuses recorded in the documents table.
const (
	StatusPending = "PENDING"
	StatusIndexed = "INDEXED"
	StatusFailed  = "FAILED"
)

// IngestRequest is the JSON body accepted by the document endpoint. An
// empty DocumentID is derived from the content hash.
type IngestRequest struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// IngestResponse is returned to the caller after a document is accepted.
type IngestResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	ShardID    int    `json:"shard_id"`
}

// EventTypeIngested tags ingest events on the Kafka topic.
const EventTypeIngested = "document.ingested"

// IngestEvent is the Kafka message payload consumed by the indexer.
type IngestEvent struct {
	DocumentID  string    `json:"document_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ShardID     int       `json:"shard_id"`
	ContentHash string    `json:"content_hash"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// DocumentRecord is the row tracked per document in PostgreSQL.
type DocumentRecord struct {
	DocumentID  string
	Title       string
	ContentHash string
	ContentSize int
	ShardID     int
	Status      string
}
