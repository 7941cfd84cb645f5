package minio

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/unkn0wn-root/seniority/blob"
)

func TestMapErr(t *testing.T) {
	ref := blob.Ref{Bucket: "b", Key: "k"}
	cases := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"no_such_key", minio.ErrorResponse{Code: "NoSuchKey"}, true},
		{"no_such_bucket", minio.ErrorResponse{Code: "NoSuchBucket"}, true},
		{"denied", minio.ErrorResponse{Code: "AccessDenied"}, false},
		{"plain", errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapErr(tc.err, ref)
			if errors.Is(got, blob.ErrNotFound) != tc.notFound {
				t.Fatalf("mapErr(%v) = %v", tc.err, got)
			}
		})
	}
}
