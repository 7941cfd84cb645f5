// Package seniority attaches a seniority level to (organization, title)
// records using cache-aside over a key-value store, with cache misses answered
// by one batched call to a remote inference model.
//
// Components:
//   - KeyCache: Get/Set of a Level by LookupKey over a provider.Provider, values
//     (de)serialized by a codec.Codec[Level] (plain decimal text by default).
//   - Dedupe: records -> sorted unique LookupKeys; malformed records fail the batch.
//   - resolve: point lookups against KeyCache (concurrent), splitting keys into
//     hits and misses; misses get CorrelationIDs 0..n-1 in key order.
//   - infer: one SeniorityModel.InferSeniority round trip for all misses,
//     mapping answers back to keys by CorrelationID.
//   - Augment: writes the resolved level (or null) into every record.
//   - Pipeline: runs the above per batch and writes fresh values back.
//
// Keys:
//
//	<ns>:<len(org)>:<org>:<title>
//
// Failure policy:
//
//	cache read error       -> key treated as a miss (warned)
//	inference unavailable  -> misses stay unknown, batch completes (Result.Degraded)
//	unknown/duplicate id   -> ProtocolError, no output, no cache writes
//	malformed record       -> RecordError, nothing looked up
package seniority
