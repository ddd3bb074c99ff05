// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"encoding/binary"
	"io"
	"runtime"
	"time"
)

// StreamConn adapts a byte-stream transport (io.Reader/io.Writer, e.g. a TCP
// net.Conn or a serial port) into a Connection by installing a Framer and
// pre-prefixing outbound envelopes with their 4-byte length, matching spec
// §4.5's stream-mode adapter.
//
// With the default (negative) retry delay, Pump performs at most one Read
// call and returns promptly, surfacing ErrWouldBlock/ErrMore
// as control-flow signals in the teacher framer package's non-blocking-first
// style (internal.go's waitOnceOnWouldBlock/readOnce). This fits the single-
// threaded, cooperative model spec §5 requires: a host event loop calls Pump
// whenever the underlying reader is readable.
type StreamConn struct {
	r io.Reader
	w io.Writer

	framer *Framer
	onRecv func(payload []byte)

	readBuf    []byte
	retryDelay time.Duration // negative: nonblock; zero: yield+retry; positive: sleep+retry
}

// StreamOption configures a StreamConn.
type StreamOption func(*StreamConn)

// WithMaxBodySize caps the accepted envelope size on the stream. Zero (the
// default) means no limit.
func WithMaxBodySize(n uint32) StreamOption {
	return func(c *StreamConn) { c.framer = NewFramer(n) }
}

// WithStreamRetryDelay controls how Pump reacts to a Read that returns
// ErrWouldBlock: negative (the default) returns ErrWouldBlock immediately;
// zero cooperatively yields and retries; positive sleeps that long and
// retries. With a non-negative delay this repeats for as long as the reader
// (or, in SendPackage, the writer) keeps returning ErrWouldBlock.
func WithStreamRetryDelay(d time.Duration) StreamOption {
	return func(c *StreamConn) { c.retryDelay = d }
}

// NewStreamConn wraps r/w. r may be nil for a write-only connection and w
// may be nil for a read-only one.
func NewStreamConn(r io.Reader, w io.Writer, opts ...StreamOption) *StreamConn {
	c := &StreamConn{
		r:          r,
		w:          w,
		framer:     NewFramer(0),
		readBuf:    make([]byte, 32*1024),
		retryDelay: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *StreamConn) SetRecvHandler(fn func(payload []byte)) { c.onRecv = fn }

// SendPackage writes one envelope, prefixed with its 4-byte little-endian
// length, to the underlying writer. It retries on ErrWouldBlock per the
// configured retry delay and otherwise blocks until the whole frame, header
// included, is written (matching io.Writer's short-write contract: callers
// of the dispatch engine never see a partial send).
func (c *StreamConn) SendPackage(payload []byte) error {
	if c.w == nil {
		return ErrInvalidArgument
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if err := c.writeAll(hdr[:]); err != nil {
		return err
	}
	return c.writeAll(payload)
}

func (c *StreamConn) writeAll(p []byte) error {
	for len(p) > 0 {
		n, err := c.w.Write(p)
		p = p[n:]
		if err != nil {
			if err == ErrWouldBlock && c.waitOnceOnWouldBlock() {
				continue
			}
			return err
		}
	}
	return nil
}

// Pump reads from the underlying reader until a Read yields data or returns
// an error other than a retried ErrWouldBlock (one Read under the default
// retry delay), and feeds the bytes through the Framer, invoking the
// installed receive handler once per
// complete envelope recovered. It returns io.EOF when the underlying reader
// is exhausted, ErrWouldBlock/ErrMore as non-blocking control-flow signals,
// and ErrFraming if the stream violates the configured max body size (the
// Framer resets itself automatically in that case).
func (c *StreamConn) Pump() error {
	if c.r == nil {
		return ErrInvalidArgument
	}
	for {
		n, err := c.r.Read(c.readBuf)
		if n > 0 {
			feedErr := c.framer.Feed(c.readBuf[:n], func(body []byte) error {
				if c.onRecv != nil {
					c.onRecv(body)
				}
				return nil
			})
			if feedErr != nil {
				return feedErr
			}
		}
		if err != nil {
			if err == ErrWouldBlock {
				if c.waitOnceOnWouldBlock() {
					continue
				}
				return err
			}
			return err
		}
		return nil
	}
}

// Reset clears the framer's in-progress header/body state; call this after
// reconnecting the underlying transport.
func (c *StreamConn) Reset() { c.framer.Reset() }

func (c *StreamConn) waitOnceOnWouldBlock() bool {
	if c.retryDelay < 0 {
		return false
	}
	if c.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(c.retryDelay)
	return true
}
