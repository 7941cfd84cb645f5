// Package trigger runs the pipeline over blob objects named by S3 event
// notifications, delivered through AWS Lambda or a NATS JetStream subject.
package trigger

import (
	"context"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/blob"
	"github.com/unkn0wn-root/seniority/jsonl"
)

const (
	DefaultOutputBucket = "rl-data"
	DefaultOutputPrefix = "rl-data/job-postings-mod/"
)

// Augmenter is implemented by *seniority.Pipeline.
type Augmenter interface {
	Augment(ctx context.Context, records []seniority.Record) (seniority.Result, error)
}

var _ Augmenter = (*seniority.Pipeline)(nil)

// Processor reads a JSONL object, augments it and writes the result to
// OutputBucket under OutputPrefix + input key.
type Processor struct {
	Pipeline     Augmenter
	Store        blob.Store
	OutputBucket string // "" => DefaultOutputBucket
	OutputPrefix string // "" => DefaultOutputPrefix
	Logger       seniority.Logger
}

// Outcome describes one processed object.
type Outcome struct {
	Input  blob.Ref
	Output blob.Ref
	Result seniority.Result
}

func (p *Processor) logger() seniority.Logger {
	if p.Logger == nil {
		return seniority.NopLogger{}
	}
	return p.Logger
}

// OutputRef is where the augmented copy of in is written.
func (p *Processor) OutputRef(in blob.Ref) blob.Ref {
	bucket, prefix := p.OutputBucket, p.OutputPrefix
	if bucket == "" {
		bucket = DefaultOutputBucket
	}
	if prefix == "" {
		prefix = DefaultOutputPrefix
	}
	return blob.Ref{Bucket: bucket, Key: prefix + in.Key}
}

// ProcessObject runs the full pipeline for one object. Nothing is written when
// the pipeline fails; a degraded batch is still written.
func (p *Processor) ProcessObject(ctx context.Context, in blob.Ref) (Outcome, error) {
	out := Outcome{Input: in, Output: p.OutputRef(in)}

	body, err := p.Store.Get(ctx, in)
	if err != nil {
		return out, err
	}
	records, err := jsonl.Parse(body)
	if err != nil {
		return out, errors.Wrapf(err, "parsing %v", in)
	}

	res, err := p.Pipeline.Augment(ctx, records)
	out.Result = res
	if err != nil {
		return out, errors.Wrapf(err, "augmenting %v", in)
	}

	enc, err := jsonl.Marshal(records)
	if err != nil {
		return out, err
	}
	if err := p.Store.Put(ctx, out.Output, enc); err != nil {
		return out, err
	}

	f := seniority.Fields{
		"input":      in.String(),
		"output":     out.Output.String(),
		"records":    res.Records,
		"hits":       res.Hits,
		"inferred":   res.Inferred,
		"unresolved": res.Unresolved,
		"elapsed_ms": res.Elapsed / time.Millisecond,
	}
	if res.Degraded != nil {
		f["degraded"] = res.Degraded
		p.logger().Warn("object processed with unknown levels", f)
	} else {
		p.logger().Info("object processed", f)
	}
	return out, nil
}

// Refs extracts object refs from an S3 notification. Keys arrive URL-encoded
// ("+" for space).
func Refs(ev events.S3Event) ([]blob.Ref, error) {
	refs := make([]blob.Ref, 0, len(ev.Records))
	for _, r := range ev.Records {
		key, err := url.QueryUnescape(r.S3.Object.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding object key %q", r.S3.Object.Key)
		}
		refs = append(refs, blob.Ref{Bucket: r.S3.Bucket.Name, Key: key})
	}
	return refs, nil
}

// HandleS3Event processes every object in ev in order. It is shaped as an AWS
// Lambda handler. All objects are attempted; the returned error joins the
// failures.
func (p *Processor) HandleS3Event(ctx context.Context, ev events.S3Event) error {
	refs, err := Refs(ev)
	if err != nil {
		return err
	}
	var errs []error
	for _, ref := range refs {
		if _, err := p.ProcessObject(ctx, ref); err != nil {
			p.logger().Error("object failed", seniority.Fields{"input": ref.String(), "err": err})
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}
