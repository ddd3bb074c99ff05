// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import (
	"encoding/binary"

	"code.hybscloud.com/rpccore"
)

// appendAutoSize appends v as rpc_core's auto_size: one leading byte giving
// the count of significant little-endian bytes (0..8) — the width needed to
// hold v with no leading zero byte — followed by exactly that many bytes of
// v. Zero is the single byte 0x00.
func appendAutoSize(buf []byte, v uint64) []byte {
	n := 8
	for n > 0 && byte(v>>uint((n-1)*8)) == 0 {
		n--
	}
	buf = append(buf, byte(n))
	if n == 0 {
		return buf
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// appendAutoSizeSigned is appendAutoSize over the two's-complement bit
// pattern of v, preserving sign the way the source's auto_intmax does: a
// negative value's top byte carries the sign bit, so it is always nonzero
// and the encoding always costs the full 8 bytes.
func appendAutoSizeSigned(buf []byte, v int64) []byte {
	return appendAutoSize(buf, uint64(v))
}

// decodeAutoSize reads an auto_size header — a width byte followed by that
// many little-endian value bytes — from the front of buf. Bytes beyond the
// width are treated as zero (the source's auto_size_type::deserialize never
// touches them), so a width-truncated decode of a signed value is only valid
// when the encoder would have chosen the full width, which it always does
// for negative values.
func decodeAutoSize(buf []byte) (v uint64, n int, ok bool) {
	if len(buf) < 1 {
		return 0, 0, false
	}
	w := int(buf[0])
	if w > 8 || len(buf) < 1+w {
		return 0, 0, false
	}
	var tmp [8]byte
	copy(tmp[:w], buf[1:1+w])
	return binary.LittleEndian.Uint64(tmp[:]), 1 + w, true
}

// decodeAutoSizeSigned decodes an auto_size header and reinterprets the
// result as the two's-complement bit pattern of an int64.
func decodeAutoSizeSigned(buf []byte) (v int64, n int, ok bool) {
	u, n, ok := decodeAutoSize(buf)
	return int64(u), n, ok
}

// wrapNonFundamental prefixes enc — the already-encoded bytes of a
// non-fundamental value — with an auto_size length header and appends both
// to buf.
func wrapNonFundamental(buf []byte, enc []byte) []byte {
	buf = appendAutoSize(buf, uint64(len(enc)))
	return append(buf, enc...)
}

// takeNonFundamental reads an auto_size length header from the front of buf
// and returns the bytes it delimits plus the total number of bytes consumed
// (header + body).
func takeNonFundamental(buf []byte) (body []byte, n int, err error) {
	length, hn, ok := decodeAutoSize(buf)
	if !ok {
		return nil, 0, rpccore.ErrDecode
	}
	if uint64(len(buf)-hn) < length {
		return nil, 0, rpccore.ErrDecode
	}
	return buf[hn : hn+int(length)], hn + int(length), nil
}
