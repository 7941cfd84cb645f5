package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/unkn0wn-root/seniority"
)

func TestCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h.SelfHeal("k", "value_decode")
	h.CacheLookupError(seniority.LookupKey{}, errors.New("x"))
	h.CacheLookupError(seniority.LookupKey{}, errors.New("x"))
	h.CacheWriteError(seniority.LookupKey{}, errors.New("x"))
	h.InferenceUnavailable(2, errors.New("x"))
	h.BatchDone(seniority.Result{Keys: 3, Hits: 1, Inferred: 1, Unresolved: 1, Elapsed: 20 * time.Millisecond})
	h.BatchDone(seniority.Result{Keys: 2, Unresolved: 2, Degraded: errors.New("down")})

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"self_heal", h.selfHeals.WithLabelValues("value_decode"), 1},
		{"get_errors", h.cacheErrors.WithLabelValues("get"), 2},
		{"set_errors", h.cacheErrors.WithLabelValues("set"), 1},
		{"unavailable", h.unavailable, 1},
		{"ok", h.batches.WithLabelValues("ok"), 1},
		{"degraded", h.batches.WithLabelValues("degraded"), 1},
		{"hits", h.keys.WithLabelValues("cache"), 1},
		{"unresolved", h.keys.WithLabelValues("unresolved"), 3},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if got := testutil.ToFloat64(c.c); got != c.want {
				t.Fatalf("got %v want %v", got, c.want)
			}
		})
	}
	if n := testutil.CollectAndCount(h.batchDuration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
