package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Protobuf stores levels as a serialized google.protobuf.Int32Value so that
// services sharing the store through generated protobuf types can read them.
type Protobuf[V ~int32] struct{}

var _ Codec[int32] = Protobuf[int32]{}

func (Protobuf[V]) Encode(v V) ([]byte, error) {
	return proto.Marshal(wrapperspb.Int32(int32(v)))
}

func (Protobuf[V]) Decode(b []byte) (V, error) {
	m := &wrapperspb.Int32Value{}
	if err := proto.Unmarshal(b, m); err != nil {
		return 0, err
	}
	return V(m.GetValue()), nil
}
