package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Text stores integers as plain base-10 text ("3"), the representation other
// consumers of the key-value store expect. This is the default codec.
type Text[V Integer] struct{}

var _ Codec[int32] = Text[int32]{}

func (Text[V]) Encode(v V) ([]byte, error) {
	return strconv.AppendInt(nil, int64(v), 10), nil
}

func (Text[V]) Decode(b []byte) (V, error) {
	var zero V
	s := strings.TrimSpace(string(b))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return zero, fmt.Errorf("text codec: %w", err)
	}
	v := V(n)
	if int64(v) != n {
		return zero, fmt.Errorf("text codec: %d overflows %T", n, zero)
	}
	return v, nil
}
