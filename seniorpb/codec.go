package seniorpb

import "fmt"

// wireCodec is the gRPC codec for the hand-written messages. Its name is
// "proto" so calls go out as application/grpc+proto and any protobuf peer
// accepts them. It is installed per connection/server (ForceCodec,
// ForceServerCodec), never registered globally, so the process-wide proto
// codec stays untouched.
type wireCodec struct{}

type wireMarshaler interface{ Marshal() ([]byte, error) }

type wireUnmarshaler interface{ Unmarshal([]byte) error }

func (wireCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMarshaler)
	if !ok {
		return nil, fmt.Errorf("seniorpb: cannot marshal %T", v)
	}
	return m.Marshal()
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireUnmarshaler)
	if !ok {
		return fmt.Errorf("seniorpb: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func (wireCodec) Name() string { return "proto" }
