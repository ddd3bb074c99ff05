// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// Codec marshals and unmarshals command/response payloads to and from an
// Envelope's Payload bytes. The core depends only on this narrow interface
// so package serialize (the structural codec payloads use by default) and
// codec/json (the optional plug-in) both live outside rpccore and import it,
// rather than the reverse — avoiding an import cycle between the dispatch
// engine and its payload codecs.
//
// A Peer not configured with WithCodec falls back to RawCodec, under which
// Request bodies and handler results must already be []byte.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// CodecFuncs adapts a pair of marshal/unmarshal functions — the shape both
// serialize.Marshal/serialize.Unmarshal and codec/json's Marshal/Unmarshal
// expose — into a Codec.
type CodecFuncs struct {
	MarshalFunc   func(v interface{}) ([]byte, error)
	UnmarshalFunc func(data []byte, v interface{}) error
}

func (c CodecFuncs) Marshal(v interface{}) ([]byte, error) { return c.MarshalFunc(v) }
func (c CodecFuncs) Unmarshal(data []byte, v interface{}) error {
	return c.UnmarshalFunc(data, v)
}

// RawCodec requires v to be *[]byte (Unmarshal) or []byte (Marshal); it
// performs no structural encoding, matching a command whose payload is
// already wire-ready bytes.
type rawCodec struct{}

// RawCodec is the zero-configuration default Codec.
var RawCodec Codec = rawCodec{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrInvalidArgument
	}
	return b, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	p, ok := v.(*[]byte)
	if !ok {
		return ErrInvalidArgument
	}
	*p = append((*p)[:0], data...)
	return nil
}
