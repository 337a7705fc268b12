package kafka

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/config"
)

func TestDecodeJSON(t *testing.T) {
	type event struct {
		DocumentID string `json:"document_id"`
	}
	got, err := DecodeJSON[event]([]byte(`{"document_id":"d1"}`))
	if err != nil || got.DocumentID != "d1" {
		t.Fatalf("DecodeJSON = %+v, %v", got, err)
	}
	if _, err := DecodeJSON[event]([]byte("nope")); err == nil {
		t.Error("expected decode error")
	}
}

func TestGroupID(t *testing.T) {
	cfg := config.KafkaConfig{ConsumerGroup: "indexer"}
	if got := GroupID(cfg); got != "indexer" {
		t.Errorf("GroupID = %q, want indexer", got)
	}
	cfg.ReplayOnStart = true
	if got := GroupID(cfg); !strings.HasPrefix(got, "indexer-") || got == "indexer-" {
		t.Errorf("replay GroupID = %q, want a fresh suffix", got)
	}
}

func TestEncode(t *testing.T) {
	msg, err := encode(Event{Key: "d1", Type: "document.ingested", Value: map[string]string{"document_id": "d1"}})
	if err != nil {
		t.Fatal(err)
	}
	if string(msg.Key) != "d1" {
		t.Errorf("key = %q, want d1", msg.Key)
	}
	if string(msg.Value) != `{"document_id":"d1"}` {
		t.Errorf("value = %s", msg.Value)
	}
	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers[HeaderEventType] != "document.ingested" || headers[HeaderContentType] != "application/json" {
		t.Errorf("headers = %v", headers)
	}

	if _, err := encode(Event{Value: 1}); err == nil {
		t.Error("expected error for an event without key")
	}
	if _, err := encode(Event{Key: "d2", Value: make(chan int)}); err == nil {
		t.Error("expected error for an unencodable value")
	}
}
