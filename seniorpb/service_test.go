package seniorpb

import (
	"context"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type echoModel struct{}

func (echoModel) InferSeniority(_ context.Context, in *RequestBatch) (*ResponseBatch, error) {
	out := &ResponseBatch{}
	for _, r := range in.Batch {
		out.Batch = append(out.Batch, &Response{UUID: r.UUID, Seniority: int32(len(r.Title))})
	}
	return out, nil
}

func newBufClient(t *testing.T, srv SeniorityModelServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(ServerOption())
	RegisterSeniorityModelServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInferSeniorityOverGRPC(t *testing.T) {
	c := newBufClient(t, echoModel{})

	got, err := c.InferSeniority(context.Background(), &RequestBatch{Batch: []*Request{
		{UUID: 0, Organization: "A", Title: "Eng"},
		{UUID: 1, Organization: "B", Title: "Manager"},
	}})
	if err != nil {
		t.Fatalf("InferSeniority: %v", err)
	}
	want := &ResponseBatch{Batch: []*Response{{UUID: 0, Seniority: 3}, {UUID: 1, Seniority: 7}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestClientWithoutConn(t *testing.T) {
	if _, err := (&Client{}).InferSeniority(context.Background(), &RequestBatch{}); err == nil {
		t.Fatalf("expected error without connection")
	}
}
