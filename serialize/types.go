// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

// Blob is a byte slice serialized as a non-fundamental, length-prefixed raw
// run — the Go equivalent of the original's type_raw specialization. Use it
// for payloads whose contents are opaque to the codec (a pre-encoded
// sub-message, a file chunk), as opposed to []byte which serialize also
// supports but which callers more often reach for when they do want the
// generic byte-slice path.
type Blob []byte

// Optional represents a value that may be absent on the wire, the Go
// counterpart to the original's std::unique_ptr/std::optional handling: a
// one-byte presence flag followed, only if present, by the encoded value.
type Optional[T any] struct {
	Valid bool
	Value T
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Valid: true, Value: v} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Void marshals and unmarshals as zero bytes, matching the original's
// type_void: the unit type for commands that carry no payload.
type Void struct{}
