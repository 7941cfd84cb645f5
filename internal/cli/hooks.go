package cli

import "github.com/unkn0wn-root/seniority"

// fanout delivers every event to each hook in order.
type fanout []seniority.Hooks

var _ seniority.Hooks = fanout(nil)

func (f fanout) SelfHeal(k, r string) {
	for _, h := range f {
		h.SelfHeal(k, r)
	}
}

func (f fanout) CacheLookupError(k seniority.LookupKey, err error) {
	for _, h := range f {
		h.CacheLookupError(k, err)
	}
}

func (f fanout) CacheWriteError(k seniority.LookupKey, err error) {
	for _, h := range f {
		h.CacheWriteError(k, err)
	}
}

func (f fanout) ProviderSetRejected(k string) {
	for _, h := range f {
		h.ProviderSetRejected(k)
	}
}

func (f fanout) InferenceUnavailable(n int, err error) {
	for _, h := range f {
		h.InferenceUnavailable(n, err)
	}
}

func (f fanout) ProtocolViolation(id seniority.CorrelationID, err error) {
	for _, h := range f {
		h.ProtocolViolation(id, err)
	}
}

func (f fanout) BatchDone(r seniority.Result) {
	for _, h := range f {
		h.BatchDone(r)
	}
}
