package seniorpb

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	ServiceName          = "seniority.SeniorityModel"
	InferSeniorityMethod = "/seniority.SeniorityModel/InferSeniority"
)

// SeniorityModelServer is implemented by inference backends.
type SeniorityModelServer interface {
	InferSeniority(context.Context, *RequestBatch) (*ResponseBatch, error)
}

// ServerOption must be passed to grpc.NewServer for servers that register a
// SeniorityModelServer.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(wireCodec{})
}

// RegisterSeniorityModelServer adds srv to s.
func RegisterSeniorityModelServer(s grpc.ServiceRegistrar, srv SeniorityModelServer) {
	s.RegisterService(&serviceDesc, srv)
}

func inferSeniorityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RequestBatch)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SeniorityModelServer).InferSeniority(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: InferSeniorityMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SeniorityModelServer).InferSeniority(ctx, req.(*RequestBatch))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SeniorityModelServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "InferSeniority",
			Handler:    inferSeniorityHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seniority.proto",
}

// Client is a client for the SeniorityModel service.
type Client struct {
	conn    grpc.ClientConnInterface
	closeFn func() error
}

// Dial returns a Client for target. The connection is plaintext; transport
// security is handled outside this process.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating seniority model client")
	}
	return &Client{conn: conn, closeFn: conn.Close}, nil
}

// NewClient wraps an existing connection. Close on the result does not close
// conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Close closes the connection if the client opened it.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// InferSeniority sends one batch and waits for the batched answer.
func (c *Client) InferSeniority(ctx context.Context, in *RequestBatch) (*ResponseBatch, error) {
	if c.conn == nil {
		return nil, errors.New("client has not established a grpc connection")
	}
	out := new(ResponseBatch)
	if err := c.conn.Invoke(ctx, InferSeniorityMethod, in, out, grpc.ForceCodec(wireCodec{})); err != nil {
		return nil, err
	}
	return out, nil
}
