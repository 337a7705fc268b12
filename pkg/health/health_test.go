package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestRun_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]Check
		want   Status
	}{
		{"all up", map[string]Check{"shards": PingCheck(ok, true), "redis": PingCheck(ok, false)}, StatusUp},
		{"optional down", map[string]Check{"shards": PingCheck(ok, true), "redis": PingCheck(fail, false)}, StatusDegraded},
		{"critical down", map[string]Check{"shards": PingCheck(fail, true), "redis": PingCheck(fail, false)}, StatusDown},
	}
	for _, tt := range tests {
		c := NewChecker()
		for name, check := range tt.checks {
			c.Register(name, check)
		}
		report := c.Run(context.Background())
		if report.Status != tt.want {
			t.Errorf("%s: status = %s, want %s", tt.name, report.Status, tt.want)
		}
		if len(report.Components) != len(tt.checks) {
			t.Errorf("%s: components = %v", tt.name, report.Components)
		}
	}
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	c.Register("redis", PingCheck(fail, false))
	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("degraded code = %d, want 200", rec.Code)
	}

	c.Register("shards", PingCheck(fail, true))
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("down code = %d, want 503", rec.Code)
	}
}
