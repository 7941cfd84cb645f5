package codec

import "encoding/json"

// JSON stores values as JSON documents. For integers the output is the same
// decimal text Text produces, but Decode also accepts quoted numbers.
type JSON[V any] struct{}

var _ Codec[int32] = JSON[int32]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
