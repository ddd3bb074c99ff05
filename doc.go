// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rpccore is a transport-agnostic remote-procedure-call runtime: it
// lets two peers exchange typed commands and responses over any reliable,
// ordered, bidirectional byte channel. Each Peer may both invoke commands on,
// and serve commands for, the other side; the runtime is symmetric and there
// is no distinguished client or server.
//
// Scope: the message-dispatch engine (Dispatcher, Request, Peer), the wire
// envelope codec, and the stream framer. The transport itself (sockets,
// pipes, serial ports), the timer, and the logger are external collaborators
// the core consumes through small interfaces (Connection, Timer, Logger);
// see connection.go, timer.go and logging.go.
//
// Wire format (packet mode — one Connection.SendPackage call carries exactly
// one Envelope):
//
//	varint(seq uint32) | varint(cmd_len uint16) | cmd_bytes | flags byte | payload_bytes
//
// Framing (stream mode, see Framer and StreamConn):
//
//	uint32 little-endian total_envelope_bytes | envelope_bytes
//
// Payload serialization (package serialize) is a separate, opaque concern:
// the envelope's payload is whatever bytes the caller's message type
// marshaled to; the dispatch engine never looks inside it except to hand it
// to the matching Unmarshal call.
//
// Concurrency model: single-threaded, cooperative, thread-affine. A Peer,
// its Dispatcher, and every Request bound to it must be driven only from the
// goroutine that delivers Connection callbacks and Timer callbacks. There is
// no internal locking.
package rpccore

// Version identifies this module's implementation of the rpc_core wire
// contract, for diagnostics only; it is never placed on the wire.
const Version = "1.0.0"
