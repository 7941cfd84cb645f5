package seniority

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/seniority/codec"
	"github.com/unkn0wn-root/seniority/internal/util"
	pr "github.com/unkn0wn-root/seniority/provider"
)

// SetCostFunc reports the cost of an entry for providers that bound memory by
// cost (ristretto). Default 1 per entry.
type SetCostFunc func(storageKey string, raw []byte) int64

// KeyCache stores levels by LookupKey. Implementations must be safe for
// concurrent use; writes are last-write-wins.
type KeyCache interface {
	// Get returns (level, true, nil) on hit and (0, false, nil) on miss. A
	// backend failure is returned as err.
	Get(ctx context.Context, key LookupKey) (Level, bool, error)
	Set(ctx context.Context, key LookupKey, v Level) error
	Close(ctx context.Context) error
}

// KeyCacheOptions configure NewKeyCache. Only Provider is required.
type KeyCacheOptions struct {
	Provider pr.Provider

	Namespace      string         // key prefix; "" => "seniority"
	Codec          c.Codec[Level] // nil => codec.Text (plain decimal)
	TTL            time.Duration  // 0 => no expiry
	Logger         Logger         // nil => NopLogger
	Hooks          Hooks          // nil => NopHooks
	ComputeSetCost SetCostFunc    // nil => 1
	Disabled       bool           // every Get misses, every Set is dropped
}

type keyCache struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[Level]
	ttl            time.Duration
	log            Logger
	hooks          Hooks
	computeSetCost SetCostFunc
	enabled        bool
}

var _ KeyCache = (*keyCache)(nil)

// NewKeyCache returns a KeyCache over opts.Provider. Closing the cache closes
// the provider.
func NewKeyCache(opts KeyCacheOptions) (KeyCache, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("seniority: provider is required")
	}

	kc := &keyCache{
		ns:       coalesce(opts.Namespace, defaultNamespace),
		provider: opts.Provider,
		ttl:      opts.TTL,
		enabled:  !opts.Disabled,
	}

	kc.codec = coalesce[c.Codec[Level]](opts.Codec, c.Text[Level]{})
	kc.log = coalesce[Logger](opts.Logger, NopLogger{})
	kc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.ComputeSetCost != nil {
		kc.computeSetCost = opts.ComputeSetCost
	} else {
		kc.computeSetCost = func(string, []byte) int64 { return 1 }
	}
	return kc, nil
}

func (kc *keyCache) Get(ctx context.Context, key LookupKey) (Level, bool, error) {
	if !kc.enabled {
		return 0, false, nil
	}
	k := kc.storageKey(key)
	raw, ok, err := kc.provider.Get(ctx, k)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := kc.codec.Decode(raw)
	if err != nil {
		_ = kc.provider.Del(ctx, k) // self-heal
		kc.hooks.SelfHeal(k, "value_decode")
		kc.log.Debug("dropped undecodable cache value", Fields{"key": k, "err": err})
		return 0, false, nil
	}
	return v, true, nil
}

func (kc *keyCache) Set(ctx context.Context, key LookupKey, v Level) error {
	if !kc.enabled {
		return nil
	}
	k := kc.storageKey(key)
	raw, err := kc.codec.Encode(v)
	if err != nil {
		return err
	}
	ok, err := kc.provider.Set(ctx, k, raw, kc.computeSetCost(k, raw), kc.ttl)
	if err != nil {
		return err
	}
	if !ok {
		kc.hooks.ProviderSetRejected(k)
		kc.log.Debug("cache set rejected by provider (pressure)", Fields{"key": k})
	}
	return nil
}

func (kc *keyCache) Close(ctx context.Context) error {
	return kc.provider.Close(ctx)
}

func (kc *keyCache) storageKey(key LookupKey) string {
	return util.StorageKey(kc.ns, key.Organization, key.Title)
}
