package seniority

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type resolution struct {
	hits   map[LookupKey]Level
	misses map[CorrelationID]LookupKey
}

// resolve looks every key up in the cache. keys must be sorted (Dedupe output):
// misses are numbered in that order, so the same batch against the same cache
// state always produces the same request.
//
// A failed lookup is a miss. The only error returned is ctx's.
func (p *Pipeline) resolve(ctx context.Context, keys []LookupKey) (resolution, error) {
	type lookup struct {
		v  Level
		ok bool
	}
	found := make([]lookup, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.lookupLimit)
	for i, k := range keys {
		g.Go(func() error {
			v, ok, err := p.cache.Get(gctx, k)
			if err != nil {
				if gctx.Err() == nil {
					p.hooks.CacheLookupError(k, err)
					p.log.Warn("cache lookup failed; treating as miss", Fields{
						"organization": k.Organization,
						"title":        k.Title,
						"err":          err,
					})
				}
				return nil
			}
			found[i] = lookup{v: v, ok: ok}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return resolution{}, err
	}

	r := resolution{
		hits:   make(map[LookupKey]Level),
		misses: make(map[CorrelationID]LookupKey),
	}
	var next CorrelationID
	for i, k := range keys {
		if found[i].ok {
			r.hits[k] = found[i].v
			continue
		}
		r.misses[next] = k
		next++
	}
	return r, nil
}
