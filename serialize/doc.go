// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package serialize implements the structural payload codec an Envelope's
// Payload is expected to hold: a reflection-driven replacement for the
// original implementation's template/macro field-list system.
//
// Three classes of value exist:
//
//   - Fixed-width fundamentals (bool, int8/uint8, int16/uint16, float32,
//     float64, complex64, complex128) are encoded inline at their natural
//     width, with no length prefix — a reader already knows how many bytes
//     one of these occupies from its Go type alone.
//
//   - Auto-size scalars — int, int32, int64, uint, uint32, uint64, and any
//     named type whose underlying kind is one of these (an enum,
//     time.Duration) — are also encoded inline with no outer length prefix,
//     but through the variable-width AutoSize header described below rather
//     than a fixed width, per the original's auto_intmax/auto_uintmax
//     instantiations. Signed values go through AutoSize's sign-preserving
//     path: a negative value's sign bit keeps its most significant byte
//     nonzero, so it always costs the full 8 bytes.
//
//   - Everything else — strings, byte slices, slices, arrays, maps,
//     pointers, Optional[T] and structs — is non-fundamental and is always
//     wrapped in its own AutoSize length prefix (see autosize.go) giving the
//     byte length of its encoding. This lets a reader skip a member it does
//     not understand (an unknown struct field added by a newer peer, for
//     instance) without decoding it, matching the original's
//     forward-compatible field layout.
//
// Void is the one type that encodes to nothing at all: zero bytes, in
// either direction.
//
// AutoSize itself is a distinct length scheme from internal/varint, which
// only ever encodes the Envelope's own seq and command-length fields. Do not
// conflate the two: AutoSize's leading byte is the count of significant
// little-endian bytes that follow (0..8; zero is the single byte 0x00),
// while the envelope's varint is a stream of 7-bit continuation groups.
// Both exist in the real wire contract this module imitates and neither
// substitutes for the other.
package serialize
