// Package blob abstracts the object store batches are read from and written
// to.
package blob

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Store.Get when the bucket or object does not
// exist.
var ErrNotFound = errors.New("blob: object not found")

// Ref names an object.
type Ref struct {
	Bucket string
	Key    string
}

func (r Ref) String() string { return "s3://" + r.Bucket + "/" + r.Key }

// Store reads and writes whole objects. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, ref Ref) ([]byte, error)
	Put(ctx context.Context, ref Ref, body []byte) error
}

// ParseURL parses "s3://bucket/key".
func ParseURL(raw string) (Ref, error) {
	if !strings.HasPrefix(raw, "s3://") {
		return Ref{}, errors.Errorf("not an s3 url: %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, errors.Wrapf(err, "parsing S3 URL %v", raw)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Ref{}, errors.Errorf("s3 url needs bucket and key: %q", raw)
	}
	return Ref{Bucket: u.Host, Key: key}, nil
}
