// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package varint implements the self-delimiting unsigned-integer encoding
// used by the envelope codec for the seq and cmd-length fields.
//
// Encoding: little-endian, 7 bits per byte, with the high bit of each byte
// marking "more bytes follow". The last byte has the high bit clear. Zero
// encodes as a single zero byte.
//
// This is a different scheme from the auto_size length prefix used by
// package serialize (a one-byte effective-length count followed by raw
// value bytes); the two are not interchangeable on the wire.
package varint
