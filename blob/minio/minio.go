// Package minio implements blob.Store on MinIO or any S3-compatible server.
package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/seniority/blob"
)

type Config struct {
	Endpoint  string // host:port
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

type Store struct {
	Client *minio.Client
}

var _ blob.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating minio client for %s", cfg.Endpoint)
	}
	return &Store{Client: client}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.Client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrapf(err, "checking bucket %s", bucket)
	}
	if exists {
		return nil
	}
	err = s.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	return errors.Wrapf(err, "creating bucket %s", bucket)
}

func (s *Store) Get(ctx context.Context, ref blob.Ref) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, ref.Bucket, ref.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapErr(err, ref)
	}
	defer obj.Close()

	// GetObject is lazy; a missing object surfaces on first read.
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapErr(err, ref)
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, ref blob.Ref, body []byte) error {
	_, err := s.Client.PutObject(ctx, ref.Bucket, ref.Key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/x-ndjson"})
	return errors.Wrapf(err, "putting object %v", ref)
}

func mapErr(err error, ref blob.Ref) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrap(blob.ErrNotFound, ref.String())
	}
	return errors.Wrapf(err, "fetching object %v", ref)
}
