// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery:    10, // sample logs: ~every 10th self-heal
//	    LookupErrorEvery: 100,
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	p, _ := seniority.New(seniority.Options{
//	    Cache: kc,
//	    Model: client,
//	    Hooks: hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/seniority"
)

// Hooks forwards events to inner on background workers. When the queue is
// full the event is dropped and counted.
type Hooks struct {
	inner   seniority.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ seniority.Hooks = (*Hooks)(nil)

func New(inner seniority.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Events after Close are
// dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed queue
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) SelfHeal(k, r string) { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) CacheLookupError(k seniority.LookupKey, err error) {
	h.try(func() { h.inner.CacheLookupError(k, err) })
}
func (h *Hooks) CacheWriteError(k seniority.LookupKey, err error) {
	h.try(func() { h.inner.CacheWriteError(k, err) })
}
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) InferenceUnavailable(n int, err error) {
	h.try(func() { h.inner.InferenceUnavailable(n, err) })
}
func (h *Hooks) ProtocolViolation(id seniority.CorrelationID, err error) {
	h.try(func() { h.inner.ProtocolViolation(id, err) })
}
func (h *Hooks) BatchDone(r seniority.Result) { h.try(func() { h.inner.BatchDone(r) }) }
