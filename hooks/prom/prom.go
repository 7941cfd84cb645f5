// Package prom exports pipeline hook events as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/unkn0wn-root/seniority"
)

const namespace = "seniority"

// Hooks counts events. Register it once per process; the zero value is not
// usable.
type Hooks struct {
	selfHeals     *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec
	setRejected   prometheus.Counter
	unavailable   prometheus.Counter
	violations    prometheus.Counter
	batches       *prometheus.CounterVec
	keys          *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

var _ seniority.Hooks = (*Hooks)(nil)

// New creates the collectors and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Hooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		selfHeals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_self_heals_total",
			Help:      "Stored values deleted because they could not be decoded.",
		}, []string{"reason"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Cache backend failures by operation.",
		}, []string{"op"}),
		setRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_set_rejected_total",
			Help:      "Writes the cache provider declined.",
		}),
		unavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_unavailable_total",
			Help:      "Inference calls that failed or timed out.",
		}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_protocol_violations_total",
			Help:      "Inference responses that did not match their request.",
		}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Completed batches by outcome.",
		}, []string{"outcome"}),
		keys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_total",
			Help:      "Distinct lookup keys by how they were resolved.",
		}, []string{"source"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of completed batches.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
	}
	for _, c := range []prometheus.Collector{
		h.selfHeals, h.cacheErrors, h.setRejected, h.unavailable,
		h.violations, h.batches, h.keys, h.batchDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) SelfHeal(_, reason string) { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) CacheLookupError(seniority.LookupKey, error) {
	h.cacheErrors.WithLabelValues("get").Inc()
}
func (h *Hooks) CacheWriteError(seniority.LookupKey, error) {
	h.cacheErrors.WithLabelValues("set").Inc()
}
func (h *Hooks) ProviderSetRejected(string)                       { h.setRejected.Inc() }
func (h *Hooks) InferenceUnavailable(int, error)                  { h.unavailable.Inc() }
func (h *Hooks) ProtocolViolation(seniority.CorrelationID, error) { h.violations.Inc() }

func (h *Hooks) BatchDone(r seniority.Result) {
	outcome := "ok"
	if r.Degraded != nil {
		outcome = "degraded"
	}
	h.batches.WithLabelValues(outcome).Inc()
	h.keys.WithLabelValues("cache").Add(float64(r.Hits))
	h.keys.WithLabelValues("model").Add(float64(r.Inferred))
	h.keys.WithLabelValues("unresolved").Add(float64(r.Unresolved))
	h.batchDuration.Observe(r.Elapsed.Seconds())
}
