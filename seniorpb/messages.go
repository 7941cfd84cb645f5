// Package seniorpb is the client and server plumbing for the SeniorityModel
// inference service described in seniority.proto.
//
// Messages are plain Go structs encoded with protowire so the package speaks
// the same bytes as any protoc-generated peer without a code generation step.
package seniorpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Request is one SeniorityRequest: a correlation id plus the pair to infer.
// The proto field is called company; it carries the organization name.
type Request struct {
	UUID         int32
	Organization string
	Title        string
}

// RequestBatch is SeniorityRequestBatch.
type RequestBatch struct {
	Batch []*Request
}

// Response is one SeniorityResponse.
type Response struct {
	UUID      int32
	Seniority int32
}

// ResponseBatch is SeniorityResponseBatch.
type ResponseBatch struct {
	Batch []*Response
}

const (
	fieldBatch     protowire.Number = 1
	fieldUUID      protowire.Number = 1
	fieldCompany   protowire.Number = 2
	fieldTitle     protowire.Number = 3
	fieldSeniority protowire.Number = 2
)

func (m *Request) appendWire(b []byte) []byte {
	if m.UUID != 0 {
		b = protowire.AppendTag(b, fieldUUID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.UUID)))
	}
	if m.Organization != "" {
		b = protowire.AppendTag(b, fieldCompany, protowire.BytesType)
		b = protowire.AppendString(b, m.Organization)
	}
	if m.Title != "" {
		b = protowire.AppendTag(b, fieldTitle, protowire.BytesType)
		b = protowire.AppendString(b, m.Title)
	}
	return b
}

func (m *Response) appendWire(b []byte) []byte {
	if m.UUID != 0 {
		b = protowire.AppendTag(b, fieldUUID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.UUID)))
	}
	if m.Seniority != 0 {
		b = protowire.AppendTag(b, fieldSeniority, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.Seniority)))
	}
	return b
}

// Marshal encodes the batch in protobuf wire format.
func (m *RequestBatch) Marshal() ([]byte, error) {
	var b []byte
	for _, r := range m.Batch {
		if r == nil {
			return nil, fmt.Errorf("seniorpb: nil request in batch")
		}
		b = protowire.AppendTag(b, fieldBatch, protowire.BytesType)
		b = protowire.AppendBytes(b, r.appendWire(nil))
	}
	return b, nil
}

// Marshal encodes the batch in protobuf wire format.
func (m *ResponseBatch) Marshal() ([]byte, error) {
	var b []byte
	for _, r := range m.Batch {
		if r == nil {
			return nil, fmt.Errorf("seniorpb: nil response in batch")
		}
		b = protowire.AppendTag(b, fieldBatch, protowire.BytesType)
		b = protowire.AppendBytes(b, r.appendWire(nil))
	}
	return b, nil
}

// Unmarshal decodes b, replacing the current contents. Unknown fields are
// skipped as proto3 requires.
func (m *RequestBatch) Unmarshal(b []byte) error {
	m.Batch = m.Batch[:0]
	return eachField(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num != fieldBatch || typ != protowire.BytesType {
			return nil
		}
		r := &Request{}
		err := eachField(v, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error {
			switch {
			case num == fieldUUID && typ == protowire.VarintType:
				r.UUID = int32(x)
			case num == fieldCompany && typ == protowire.BytesType:
				r.Organization = string(v)
			case num == fieldTitle && typ == protowire.BytesType:
				r.Title = string(v)
			}
			return nil
		})
		if err != nil {
			return err
		}
		m.Batch = append(m.Batch, r)
		return nil
	})
}

// Unmarshal decodes b, replacing the current contents.
func (m *ResponseBatch) Unmarshal(b []byte) error {
	m.Batch = m.Batch[:0]
	return eachField(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num != fieldBatch || typ != protowire.BytesType {
			return nil
		}
		r := &Response{}
		err := eachField(v, func(num protowire.Number, typ protowire.Type, _ []byte, x uint64) error {
			switch {
			case num == fieldUUID && typ == protowire.VarintType:
				r.UUID = int32(x)
			case num == fieldSeniority && typ == protowire.VarintType:
				r.Seniority = int32(x)
			}
			return nil
		})
		if err != nil {
			return err
		}
		m.Batch = append(m.Batch, r)
		return nil
	})
}

// eachField walks the top-level fields of a message. For varints x holds the
// value; for length-delimited fields v holds the payload.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("seniorpb: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var (
			v []byte
			x uint64
		)
		switch typ {
		case protowire.VarintType:
			x, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			v, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("seniorpb: bad field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(num, typ, v, x); err != nil {
			return err
		}
	}
	return nil
}
