package seniority

import (
	"context"
	"maps"
	"slices"

	"github.com/unkn0wn-root/seniority/seniorpb"
)

// infer asks the model for every miss in a single call and maps the answers
// back to their keys. It never touches the cache.
//
// Errors:
//   - *UnavailableError: the call failed or timed out; nothing was resolved.
//   - *ProtocolError: the response named an id that was not requested, or
//     named one twice.
//   - ctx.Err(): the caller gave up while the call was in flight.
func (p *Pipeline) infer(ctx context.Context, misses map[CorrelationID]LookupKey) (map[LookupKey]Level, error) {
	out := make(map[LookupKey]Level, len(misses))
	if len(misses) == 0 {
		return out, nil
	}

	req := &seniorpb.RequestBatch{Batch: make([]*seniorpb.Request, 0, len(misses))}
	for _, id := range slices.Sorted(maps.Keys(misses)) {
		k := misses[id]
		req.Batch = append(req.Batch, &seniorpb.Request{
			UUID:         int32(id),
			Organization: k.Organization,
			Title:        k.Title,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, p.inferenceTimeout)
	defer cancel()

	resp, err := p.model.InferSeniority(callCtx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, &UnavailableError{Misses: len(misses), Err: err}
	}
	if resp == nil {
		return out, nil
	}

	seen := make(map[CorrelationID]struct{}, len(resp.Batch))
	for _, r := range resp.Batch {
		if r == nil {
			continue
		}
		id := CorrelationID(r.UUID)
		k, ok := misses[id]
		if !ok {
			return nil, &ProtocolError{ID: id, Reason: "unknown correlation id"}
		}
		if _, dup := seen[id]; dup {
			return nil, &ProtocolError{ID: id, Reason: "duplicate correlation id"}
		}
		seen[id] = struct{}{}
		out[k] = Level(r.Seniority)
	}
	return out, nil
}
