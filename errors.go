// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import "errors"

var (
	// ErrInvalidArgument reports an invalid configuration or nil collaborator.
	ErrInvalidArgument = errors.New("rpccore: invalid argument")

	// ErrTooLong reports that a frame or envelope exceeds configured limits.
	ErrTooLong = errors.New("rpccore: message too long")

	// ErrDecode reports a malformed envelope: too short, or a cmd length that
	// runs past the end of the payload.
	ErrDecode = errors.New("rpccore: envelope decode error")

	// ErrFraming reports a stream framer error: a body size beyond the
	// configured maximum. The framer resets after returning this.
	ErrFraming = errors.New("rpccore: framing error")

	// ErrClosed reports use of a peer or connection after it was closed.
	ErrClosed = errors.New("rpccore: use of closed connection")

	// ErrNoTimer reports that a request with NEED_RSP was called without a
	// timer collaborator configured on the peer; registering the response
	// waiter would leak it forever, so the call is rejected instead.
	ErrNoTimer = errors.New("rpccore: no timer configured")
)

// ErrWouldBlock and ErrMore are re-exported so callers driving a StreamConn
// in non-blocking mode can recognize the same control-flow signals the
// teacher's framer package uses, without depending on that package.
var (
	// ErrWouldBlock means "no further progress without waiting". An expected,
	// non-failure control-flow signal for non-blocking I/O.
	ErrWouldBlock = errors.New("rpccore: would block")

	// ErrMore means the in-flight read or write is usable so far but is not
	// complete; the caller should retry the same call to continue it.
	ErrMore = errors.New("rpccore: more data expected")
)
