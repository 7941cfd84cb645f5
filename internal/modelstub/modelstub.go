// Package modelstub is a stand-in SeniorityModel server for local runs and
// tests. Levels are a hash of (organization, title) so replays are stable.
package modelstub

import (
	"context"
	"net"
	"time"

	"github.com/cespare/xxhash/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/seniorpb"
)

const (
	MinLevel = 1
	MaxLevel = 7
)

type Server struct {
	// Latency is added to every call, honoring cancellation.
	Latency time.Duration
	// MaxBatch rejects larger requests with ResourceExhausted; 0 = unlimited.
	MaxBatch int
	Logger   seniority.Logger
}

var _ seniorpb.SeniorityModelServer = (*Server)(nil)

// Level is the level the stub answers for a pair.
func Level(org, title string) int32 {
	d := xxhash.New()
	_, _ = d.WriteString(org)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(title)
	return MinLevel + int32(d.Sum64()%(MaxLevel-MinLevel+1))
}

func (s *Server) InferSeniority(ctx context.Context, in *seniorpb.RequestBatch) (*seniorpb.ResponseBatch, error) {
	if s.MaxBatch > 0 && len(in.Batch) > s.MaxBatch {
		return nil, status.Errorf(codes.ResourceExhausted, "batch of %d exceeds %d", len(in.Batch), s.MaxBatch)
	}
	if s.Latency > 0 {
		t := time.NewTimer(s.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, status.FromContextError(ctx.Err()).Err()
		case <-t.C:
		}
	}

	out := &seniorpb.ResponseBatch{Batch: make([]*seniorpb.Response, 0, len(in.Batch))}
	for _, r := range in.Batch {
		if r == nil {
			continue
		}
		out.Batch = append(out.Batch, &seniorpb.Response{UUID: r.UUID, Seniority: Level(r.Organization, r.Title)})
	}
	if s.Logger != nil {
		s.Logger.Debug("answered batch", seniority.Fields{"size": len(out.Batch)})
	}
	return out, nil
}

// Serve runs the stub on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer(seniorpb.ServerOption())
	seniorpb.RegisterSeniorityModelServer(gs, s)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			gs.GracefulStop()
		case <-done:
		}
	}()
	if err := gs.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
