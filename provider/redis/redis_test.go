package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestOpenFailsFast(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, Dial{}); err == nil {
		t.Fatal("expected error without addresses")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	// nothing listens on port 1
	if _, err := Open(ctx, Dial{Addrs: []string{"127.0.0.1:1"}, DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected ping failure")
	}
}
