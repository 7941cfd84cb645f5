package seniority

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/seniority/seniorpb"
)

// Model is the remote batch inference endpoint. *seniorpb.Client implements it.
type Model interface {
	InferSeniority(ctx context.Context, in *seniorpb.RequestBatch) (*seniorpb.ResponseBatch, error)
}

var _ Model = (*seniorpb.Client)(nil)

// Options configure a Pipeline. Cache and Model are required and are shared,
// not owned: the caller opens and closes them.
type Options struct {
	Cache KeyCache
	Model Model

	Fields            RecordFields  // zero => DefaultRecordFields
	Logger            Logger        // nil => NopLogger
	Hooks             Hooks         // nil => NopHooks
	InferenceTimeout  time.Duration // 0 => 10s; bounds the single inference call
	LookupConcurrency int           // 0 => 16 concurrent cache reads
	WriteConcurrency  int           // 0 => 16 concurrent cache writes
}

// Result summarizes one batch.
type Result struct {
	Records    int // records augmented
	Keys       int // distinct lookup keys
	Hits       int // keys answered by the cache
	Misses     int // keys sent to inference
	Inferred   int // keys answered by inference
	Unresolved int // keys left unknown
	Written    int // inferred levels written back to the cache
	// Degraded is the *UnavailableError when inference failed and the batch
	// completed with unknown levels; nil otherwise.
	Degraded error
	Elapsed  time.Duration
}

// Pipeline enriches record batches. It keeps no per-batch state and is safe
// for concurrent use.
type Pipeline struct {
	cache            KeyCache
	model            Model
	fields           RecordFields
	log              Logger
	hooks            Hooks
	inferenceTimeout time.Duration
	lookupLimit      int
	writeLimit       int
}

func New(opts Options) (*Pipeline, error) {
	if opts.Cache == nil {
		return nil, fmt.Errorf("seniority: cache is required")
	}
	if opts.Model == nil {
		return nil, fmt.Errorf("seniority: model is required")
	}
	return &Pipeline{
		cache:            opts.Cache,
		model:            opts.Model,
		fields:           opts.Fields.withDefaults(),
		log:              coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:            coalesce[Hooks](opts.Hooks, NopHooks{}),
		inferenceTimeout: coalesce(opts.InferenceTimeout, defaultInferenceTimeout),
		lookupLimit:      coalesce(opts.LookupConcurrency, defaultLookupConcurrency),
		writeLimit:       coalesce(opts.WriteConcurrency, defaultWriteConcurrency),
	}, nil
}

// Fields returns the record field names the pipeline uses.
func (p *Pipeline) Fields() RecordFields { return p.fields }
