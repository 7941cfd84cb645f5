// Package s3 implements blob.Store on AWS S3.
package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/seniority/blob"
)

// ContentType is set on every object written.
const ContentType = "application/x-ndjson"

type Store struct {
	API s3iface.S3API
}

var _ blob.Store = (*Store)(nil)

type Config struct {
	Region   string
	Endpoint string // optional, for S3-compatible stores
	// Path-style addressing; required by most S3-compatible stores.
	ForcePathStyle bool
}

// New builds a Store from the default AWS credential chain.
func New(cfg Config) (*Store, error) {
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		awsCfg = awsCfg.WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return &Store{API: s3.New(sess)}, nil
}

func (s *Store) Get(ctx context.Context, ref blob.Ref) ([]byte, error) {
	out, err := s.API.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey:
				return nil, errors.Wrap(blob.ErrNotFound, ref.String())
			}
		}
		return nil, errors.Wrapf(err, "fetching S3 object %v", ref)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading S3 object %v", ref)
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, ref blob.Ref, body []byte) error {
	_, err := s.API.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ref.Bucket),
		Key:           aws.String(ref.Key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(ContentType),
	})
	return errors.Wrapf(err, "putting S3 object %v", ref)
}
