package seniority

import (
	"context"
	"errors"
	"testing"

	c "github.com/unkn0wn-root/seniority/codec"
	"github.com/unkn0wn-root/seniority/internal/util"
)

func newTestKeyCache(t *testing.T, mp *memProvider, optsOpt func(*KeyCacheOptions)) KeyCache {
	t.Helper()
	opts := KeyCacheOptions{Provider: mp}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	kc, err := NewKeyCache(opts)
	if err != nil {
		t.Fatalf("NewKeyCache: %v", err)
	}
	return kc
}

func TestNewKeyCacheRequiresProvider(t *testing.T) {
	if _, err := NewKeyCache(KeyCacheOptions{}); err == nil {
		t.Fatalf("expected error without provider")
	}
}

func TestKeyCacheSetGetPlainText(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	kc := newTestKeyCache(t, mp, nil)
	defer kc.Close(ctx)

	k := LookupKey{Organization: "A", Title: "Eng"}
	if _, ok, err := kc.Get(ctx, k); err != nil || ok {
		t.Fatalf("Get miss expected, ok=%v err=%v", ok, err)
	}
	if err := kc.Set(ctx, k, 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if raw, ok := mp.raw("A", "Eng"); !ok || raw != "3" {
		t.Fatalf("stored value: got %q ok=%v want plain \"3\"", raw, ok)
	}
	if v, ok, err := kc.Get(ctx, k); err != nil || !ok || v != 3 {
		t.Fatalf("Get: v=%d ok=%v err=%v", v, ok, err)
	}
}

func TestKeyCacheDelimiterInFields(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	kc := newTestKeyCache(t, mp, nil)

	a := LookupKey{Organization: "a:b", Title: "c"}
	b := LookupKey{Organization: "a", Title: "b:c"}
	if err := kc.Set(ctx, a, 1); err != nil {
		t.Fatal(err)
	}
	if err := kc.Set(ctx, b, 2); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := kc.Get(ctx, a); v != 1 {
		t.Fatalf("a: got %d want 1", v)
	}
	if v, _, _ := kc.Get(ctx, b); v != 2 {
		t.Fatalf("b: got %d want 2", v)
	}
}

func TestKeyCacheSelfHealOnUndecodable(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &recordingHooks{}
	kc := newTestKeyCache(t, mp, func(o *KeyCacheOptions) { o.Hooks = hooks })

	mp.put("A", "Eng", "senior")
	if _, ok, err := kc.Get(ctx, LookupKey{"A", "Eng"}); err != nil || ok {
		t.Fatalf("Get on corrupt should miss, ok=%v err=%v", ok, err)
	}
	if _, ok := mp.raw("A", "Eng"); ok {
		t.Fatalf("corrupt entry was not deleted by self-heal")
	}
	if len(hooks.selfHeals) != 1 || hooks.selfHeals[0] != util.StorageKey(defaultNamespace, "A", "Eng") {
		t.Fatalf("self-heal hook: %v", hooks.selfHeals)
	}
}

func TestKeyCacheBackendErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	boom := errors.New("conn reset")
	mp.getErr = map[string]error{util.StorageKey(defaultNamespace, "A", "Eng"): boom}
	kc := newTestKeyCache(t, mp, nil)

	if _, _, err := kc.Get(ctx, LookupKey{"A", "Eng"}); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestKeyCacheDisabled(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.put("A", "Eng", "3")
	kc := newTestKeyCache(t, mp, func(o *KeyCacheOptions) { o.Disabled = true })

	if _, ok, _ := kc.Get(ctx, LookupKey{"A", "Eng"}); ok {
		t.Fatalf("disabled cache should miss")
	}
	if err := kc.Set(ctx, LookupKey{"B", "Mgr"}, 5); err != nil {
		t.Fatal(err)
	}
	if gets, sets := mp.counts(); gets != 0 || sets != 0 {
		t.Fatalf("disabled cache touched provider: gets=%d sets=%d", gets, sets)
	}
}

func TestKeyCacheProviderRejection(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.reject = true
	hooks := &recordingHooks{}
	kc := newTestKeyCache(t, mp, func(o *KeyCacheOptions) { o.Hooks = hooks })

	if err := kc.Set(ctx, LookupKey{"A", "Eng"}, 3); err != nil {
		t.Fatalf("rejection is not an error, got %v", err)
	}
	if len(hooks.setRejections) != 1 {
		t.Fatalf("expected one rejection hook, got %v", hooks.setRejections)
	}
}

func TestKeyCacheNamespaceAndCodec(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	kc := newTestKeyCache(t, mp, func(o *KeyCacheOptions) {
		o.Namespace = "jobs"
		o.Codec = c.Msgpack[Level]{}
	})
	if err := kc.Set(ctx, LookupKey{"A", "Eng"}, 4); err != nil {
		t.Fatal(err)
	}
	snap := mp.snapshot()
	if _, ok := snap["jobs:1:A:Eng"]; !ok {
		t.Fatalf("expected key under namespace, got %v", snap)
	}
	if v, ok, err := kc.Get(ctx, LookupKey{"A", "Eng"}); err != nil || !ok || v != 4 {
		t.Fatalf("Get: v=%d ok=%v err=%v", v, ok, err)
	}
}
