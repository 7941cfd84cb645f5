// Package codec converts cached seniority levels to and from the bytes a
// provider stores.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Integer is the set of value types the level codecs accept.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}
