package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "search", "req-1")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(shard int) {
			defer wg.Done()
			_, child := StartChildSpan(ctx, "shard")
			child.SetAttr("shard_id", shard)
			child.End()
		}(i)
	}
	wg.Wait()
	root.End()

	if len(root.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(root.Children))
	}
	for _, c := range root.Children {
		if c.TraceID != "req-1" {
			t.Errorf("child trace id = %q", c.TraceID)
		}
	}
	if SpanFromContext(ctx) != root {
		t.Error("root span not found in context")
	}

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("logged %d spans, want 5", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["span"] != "search" || first["depth"] != float64(0) {
		t.Errorf("root entry = %v", first)
	}
}

func TestChildWithoutParent(t *testing.T) {
	ctx, child := StartChildSpan(context.Background(), "orphan")
	child.End()
	if child.TraceID != "" || SpanFromContext(ctx) != child {
		t.Errorf("orphan span = %+v", child)
	}
}
