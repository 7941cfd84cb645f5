package codec

import "fmt"

// Names lists the codecs ByName understands.
var Names = []string{"text", "json", "msgpack", "cbor", "protobuf"}

// ByName returns the level codec registered under name. An empty name selects
// Text. maxDecode > 0 wraps the result in Limit.
func ByName[V ~int32](name string, maxDecode int) (Codec[V], error) {
	var c Codec[V]
	switch name {
	case "", "text":
		c = Text[V]{}
	case "json":
		c = JSON[V]{}
	case "msgpack":
		c = Msgpack[V]{}
	case "cbor":
		cb, err := NewCBOR[V](true)
		if err != nil {
			return nil, err
		}
		c = cb
	case "protobuf":
		c = Protobuf[V]{}
	default:
		return nil, fmt.Errorf("codec: unknown codec %q (want one of %v)", name, Names)
	}
	if maxDecode > 0 {
		c = Limit[V]{Inner: c, MaxDecode: maxDecode}
	}
	return c, nil
}
