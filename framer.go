// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import "encoding/binary"

// Framer recovers complete envelope packages from an arbitrary byte stream
// prefixed with a 4-byte little-endian length. It is the stream-mode
// counterpart to packet-mode transports that already preserve message
// boundaries (see Connection).
//
// Framer never delivers a partial package and never conflates two packages:
// Feed only invokes onPackage once it holds exactly body_size body bytes.
//
// This adapts the teacher framer package's stream state machine (header
// buffer, body size, offset, reset-on-error) to the fixed 4-byte prefix this
// wire format specifies, in place of that package's variable-width
// (1/3/8-byte) header scheme.
type Framer struct {
	maxBodySize uint32

	header    [4]byte
	headerLen int
	bodySize  uint32
	buf       []byte
}

// NewFramer returns a Framer. maxBodySize of 0 means no limit.
func NewFramer(maxBodySize uint32) *Framer {
	return &Framer{maxBodySize: maxBodySize}
}

// Reset clears in-progress header/body state. Exposed for connect/disconnect
// events, matching spec §4.4.
func (fr *Framer) Reset() {
	fr.headerLen = 0
	fr.bodySize = 0
	fr.buf = fr.buf[:0]
}

// Feed processes data, invoking onPackage once per complete package found
// (in order), and returns ErrFraming if a decoded body size exceeds
// maxBodySize — the framer resets itself before returning in that case, so
// the next complete package fed starts cleanly.
//
// onPackage errors are propagated to the caller of Feed and stop processing
// of any remaining bytes in data. The framer clears its state for a package
// before handing it to onPackage, so after a callback error the next Feed
// starts at a fresh header; the bytes of data that followed the delivered
// package are not processed.
func (fr *Framer) Feed(data []byte, onPackage func([]byte) error) error {
	for len(data) > 0 {
		if fr.bodySize == 0 && fr.headerLen < 4 {
			n := copy(fr.header[fr.headerLen:4], data)
			fr.headerLen += n
			data = data[n:]
			if fr.headerLen < 4 {
				return nil
			}
			bodySize := binary.LittleEndian.Uint32(fr.header[:])
			if fr.maxBodySize > 0 && bodySize > fr.maxBodySize {
				fr.Reset()
				return ErrFraming
			}
			fr.bodySize = bodySize
			if fr.buf == nil || uint32(cap(fr.buf)) < bodySize {
				fr.buf = make([]byte, 0, bodySize)
			}
			fr.buf = fr.buf[:0]
		}

		need := int(fr.bodySize) - len(fr.buf)
		n := len(data)
		if n > need {
			n = need
		}
		fr.buf = append(fr.buf, data[:n]...)
		data = data[n:]

		if len(fr.buf) == int(fr.bodySize) {
			body := fr.buf
			fr.headerLen = 0
			fr.bodySize = 0
			fr.buf = nil
			if err := onPackage(body); err != nil {
				return err
			}
		}
	}
	return nil
}
