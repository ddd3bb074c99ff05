// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// Connection is the abstract transport collaborator the core requires.
// Implementations must ensure each SendPackage call and each invocation of
// the callback installed via SetRecvHandler correspond to exactly one
// envelope's worth of bytes — a whole package, never a fragment and never
// more than one.
//
// The core never implements a transport itself; Connection is satisfied by
// LoopbackConnection (same-process pairing, used in tests) and by StreamConn
// (byte-stream transports such as TCP, adapted through Framer).
type Connection interface {
	// SendPackage transmits one complete envelope's bytes.
	SendPackage(payload []byte) error

	// SetRecvHandler installs the callback invoked once per complete inbound
	// envelope. Only one handler may be installed; the Dispatcher installs
	// its own on construction.
	SetRecvHandler(fn func(payload []byte))
}

// LoopbackConnection routes SendPackage directly into its installed receive
// handler. Used by tests and same-process peer pairs, matching the
// teacher-original's loopback_connection.
type LoopbackConnection struct {
	onRecv func(payload []byte)
}

// NewLoopbackConnection returns a connection that delivers everything it
// sends straight back to itself.
func NewLoopbackConnection() *LoopbackConnection {
	return &LoopbackConnection{}
}

func (c *LoopbackConnection) SendPackage(payload []byte) error {
	if c.onRecv != nil {
		c.onRecv(payload)
	}
	return nil
}

func (c *LoopbackConnection) SetRecvHandler(fn func(payload []byte)) {
	c.onRecv = fn
}

// PipeConnections returns two connections wired to each other: bytes sent on
// a arrive at b's receive handler and vice versa, forming an in-process pair
// of peers.
func PipeConnections() (a, b *pipeConnection) {
	a, b = &pipeConnection{}, &pipeConnection{}
	a.peer, b.peer = b, a
	return a, b
}

// pipeConnection is the concrete implementation backing PipeConnections: two
// ends that each forward SendPackage to the other end's receive handler.
type pipeConnection struct {
	peer   *pipeConnection
	onRecv func(payload []byte)
}

func (c *pipeConnection) SendPackage(payload []byte) error {
	if c.peer != nil && c.peer.onRecv != nil {
		// Copy: the dispatcher may reuse payload after it returns, and the
		// receiving side must not observe a mutation racing its own decode.
		cp := make([]byte, len(payload))
		copy(cp, payload)
		c.peer.onRecv(cp)
	}
	return nil
}

func (c *pipeConnection) SetRecvHandler(fn func(payload []byte)) {
	c.onRecv = fn
}
