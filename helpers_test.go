package seniority

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/seniority/internal/util"
	pr "github.com/unkn0wn-root/seniority/provider"
	"github.com/unkn0wn-root/seniority/seniorpb"
)

type memProvider struct {
	mu     sync.Mutex
	m      map[string][]byte
	gets   int
	sets   int
	getErr map[string]error // storage key -> error returned by Get
	setErr error
	reject bool
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gets++
	if err := p.getErr[key]; err != nil {
		return nil, false, err
	}
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets++
	if p.setErr != nil {
		return false, p.setErr
	}
	if p.reject {
		return false, nil
	}
	p.m[key] = append([]byte(nil), value...)
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(context.Context) error { return nil }

func (p *memProvider) put(org, title, raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[util.StorageKey(defaultNamespace, org, title)] = []byte(raw)
}

func (p *memProvider) raw(org, title string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[util.StorageKey(defaultNamespace, org, title)]
	return string(v), ok
}

func (p *memProvider) snapshot() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.m))
	for k, v := range p.m {
		out[k] = string(v)
	}
	return out
}

func (p *memProvider) counts() (gets, sets int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gets, p.sets
}

type inferFunc func(ctx context.Context, in *seniorpb.RequestBatch) (*seniorpb.ResponseBatch, error)

type stubModel struct {
	mu    sync.Mutex
	reqs  []*seniorpb.RequestBatch
	infer inferFunc
}

func (m *stubModel) InferSeniority(ctx context.Context, in *seniorpb.RequestBatch) (*seniorpb.ResponseBatch, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, in)
	m.mu.Unlock()
	return m.infer(ctx, in)
}

func (m *stubModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reqs)
}

// answering echoes every requested id with the level configured for its pair.
// Pairs without a configured level are left out of the response.
func answering(levels map[LookupKey]Level) *stubModel {
	return &stubModel{infer: func(_ context.Context, in *seniorpb.RequestBatch) (*seniorpb.ResponseBatch, error) {
		out := &seniorpb.ResponseBatch{}
		for _, r := range in.Batch {
			if v, ok := levels[LookupKey{Organization: r.Organization, Title: r.Title}]; ok {
				out.Batch = append(out.Batch, &seniorpb.Response{UUID: r.UUID, Seniority: int32(v)})
			}
		}
		return out, nil
	}}
}

type recordingHooks struct {
	NopHooks
	mu            sync.Mutex
	lookupErrs    []LookupKey
	writeErrs     []LookupKey
	selfHeals     []string
	setRejections []string
	unavailable   int
	violations    []CorrelationID
	done          []Result
}

func (h *recordingHooks) SelfHeal(k, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selfHeals = append(h.selfHeals, k)
}

func (h *recordingHooks) CacheLookupError(k LookupKey, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lookupErrs = append(h.lookupErrs, k)
}

func (h *recordingHooks) CacheWriteError(k LookupKey, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeErrs = append(h.writeErrs, k)
}

func (h *recordingHooks) ProviderSetRejected(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setRejections = append(h.setRejections, k)
}

func (h *recordingHooks) InferenceUnavailable(int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unavailable++
}

func (h *recordingHooks) ProtocolViolation(id CorrelationID, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.violations = append(h.violations, id)
}

func (h *recordingHooks) BatchDone(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = append(h.done, r)
}
