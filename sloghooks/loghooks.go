// Package sloghooks logs pipeline hook events with log/slog.
package sloghooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/seniority"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery    uint64
	LookupErrorEvery uint64
	WriteErrorEvery  uint64
	// Log every BatchDone at Info instead of Debug.
	VerboseBatches bool
	// Optional redactor for storage keys and key fields. Defaults to a
	// SHA-256 prefix. Identity disables redaction.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr    atomic.Uint64
	lookupErrorCtr atomic.Uint64
	writeErrorCtr  atomic.Uint64
}

var _ seniority.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

// Identity leaves keys readable.
func Identity(s string) string { return s }

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func (h *Hooks) key(k seniority.LookupKey) slog.Attr {
	return slog.Group("key",
		"organization", h.redact(k.Organization),
		"title", h.redact(k.Title))
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("seniority.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) CacheLookupError(k seniority.LookupKey, err error) {
	if h.l == nil || !sample(h.opts.LookupErrorEvery, &h.lookupErrorCtr) {
		return
	}
	h.l.Warn("seniority.cache_lookup_error", h.key(k), "err", err)
}

func (h *Hooks) CacheWriteError(k seniority.LookupKey, err error) {
	if h.l == nil || !sample(h.opts.WriteErrorEvery, &h.writeErrorCtr) {
		return
	}
	h.l.Warn("seniority.cache_write_error", h.key(k), "err", err)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("seniority.provider_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) InferenceUnavailable(misses int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("seniority.inference_unavailable",
		"misses", misses,
		"err", err)
}

func (h *Hooks) ProtocolViolation(id seniority.CorrelationID, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("seniority.protocol_violation",
		"id", int32(id),
		"err", err)
}

func (h *Hooks) BatchDone(r seniority.Result) {
	if h.l == nil {
		return
	}
	level := slog.LevelDebug
	if h.opts.VerboseBatches {
		level = slog.LevelInfo
	}
	h.l.Log(context.Background(), level, "seniority.batch_done",
		"records", r.Records,
		"keys", r.Keys,
		"hits", r.Hits,
		"misses", r.Misses,
		"inferred", r.Inferred,
		"unresolved", r.Unresolved,
		"written", r.Written,
		"degraded", r.Degraded != nil,
		"elapsed", r.Elapsed)
}
