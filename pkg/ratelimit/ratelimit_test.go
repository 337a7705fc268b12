package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_RefillsOverWindow(t *testing.T) {
	clock := time.Unix(1000, 0)
	l := New(3, time.Minute)
	defer l.Close()
	l.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within limit", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("fourth request allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("other client rejected")
	}

	clock = clock.Add(20 * time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("token not refilled after a third of the window")
	}
	if l.Allow("10.0.0.1") {
		t.Error("only one token should have been refilled")
	}

	l.Reset("10.0.0.1")
	if !l.Allow("10.0.0.1") {
		t.Error("reset key rejected")
	}
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	clock := time.Unix(1000, 0)
	l := New(1, time.Second)
	defer l.Close()
	l.now = func() time.Time { return clock }

	l.Allow("idle")
	clock = clock.Add(time.Minute)
	l.sweep()
	if len(l.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(l.entries))
	}
}
