package seniority

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Augment enriches records in place and reports what happened.
//
// On error (invalid record, protocol violation, cancellation) records are left
// untouched and the cache is not written. An unavailable model is not an
// error: the batch completes with null levels for the misses and
// Result.Degraded set.
func (p *Pipeline) Augment(ctx context.Context, records []Record) (Result, error) {
	start := time.Now()
	res := Result{Records: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	keys, err := Dedupe(records, p.fields)
	if err != nil {
		p.log.Error("invalid record; batch aborted", Fields{"err": err})
		return res, err
	}
	res.Keys = len(keys)

	r, err := p.resolve(ctx, keys)
	if err != nil {
		return res, err
	}
	res.Hits = len(r.hits)
	res.Misses = len(r.misses)

	inferred, err := p.infer(ctx, r.misses)
	var (
		ue *UnavailableError
		pe *ProtocolError
	)
	switch {
	case err == nil:
	case errors.As(err, &ue):
		p.hooks.InferenceUnavailable(ue.Misses, ue.Err)
		p.log.Warn("inference unavailable; misses left unknown", Fields{"misses": ue.Misses, "err": ue.Err})
		res.Degraded = err
		inferred = nil
	case errors.As(err, &pe):
		p.hooks.ProtocolViolation(pe.ID, err)
		p.log.Error("inference protocol violation; batch aborted", Fields{"id": pe.ID, "err": err})
		return res, err
	default:
		return res, err
	}
	res.Inferred = len(inferred)
	res.Written = p.writeBack(ctx, inferred)

	resolved := make(map[LookupKey]Level, len(r.hits)+len(inferred))
	for k, v := range r.hits {
		resolved[k] = v
	}
	for k, v := range inferred {
		resolved[k] = v
	}
	Augment(records, resolved, p.fields)

	res.Unresolved = res.Keys - len(resolved)
	res.Elapsed = time.Since(start)
	p.hooks.BatchDone(res)
	p.log.Debug("batch augmented", Fields{
		"records":    res.Records,
		"keys":       res.Keys,
		"hits":       res.Hits,
		"misses":     res.Misses,
		"inferred":   res.Inferred,
		"unresolved": res.Unresolved,
	})
	return res, nil
}

// writeBack stores freshly inferred levels. Failures are reported and
// skipped; the levels are still used for the current batch. It returns the
// number of successful writes.
func (p *Pipeline) writeBack(ctx context.Context, inferred map[LookupKey]Level) int {
	if len(inferred) == 0 {
		return 0
	}
	var written atomic.Int64
	var g errgroup.Group
	g.SetLimit(p.writeLimit)
	for k, v := range inferred {
		g.Go(func() error {
			if err := p.cache.Set(ctx, k, v); err != nil {
				p.hooks.CacheWriteError(k, err)
				p.log.Warn("cache write failed", Fields{
					"organization": k.Organization,
					"title":        k.Title,
					"err":          err,
				})
				return nil
			}
			written.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(written.Load())
}
