// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// Peer aggregates a Connection, a Dispatcher, and the per-connection seq
// counter and ready flag. It is the one type application code constructs
// directly; Request, Subscribe and friends all take a *Peer.
type Peer struct {
	conn       Connection
	dispatcher *Dispatcher
	codec      Codec
	ids        IDGenerator
	logger     Logger
	metrics    *Metrics

	defaultTimeoutMS uint32
	seq              SeqType
	ready            bool

	// ID is a debug correlation identifier, generated by the configured
	// IDGenerator. It is never placed on the wire.
	ID string
}

// NewPeer wires a Peer to conn. The ready flag starts true: this runtime
// defines no handshake of its own, so a Peer is usable for outbound calls
// immediately unless the caller explicitly gates it with SetReady(false)
// (see DESIGN.md's note on this Open Question).
func NewPeer(conn Connection, opts ...Option) *Peer {
	o := defaultPeerOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.ids == nil {
		o.ids = NewXIDGenerator()
	}

	p := &Peer{
		conn:             conn,
		codec:            o.codec,
		ids:              o.ids,
		logger:           o.logger,
		metrics:          o.metrics,
		defaultTimeoutMS: o.defaultTimeoutMS,
		ready:            true,
		ID:               o.ids.NewID(),
	}
	p.dispatcher = NewDispatcher(conn, o.timer, o.logger, o.metrics)
	return p
}

// Close marks the Peer's dispatcher dead so any in-flight timer fired
// afterward is a safe no-op. It does not close the underlying Connection.
func (p *Peer) Close() { p.dispatcher.Close() }

// SetReady toggles the ready flag that gates outbound Request.Call.
func (p *Peer) SetReady(v bool) { p.ready = v }

// IsReady reports the current ready flag.
func (p *Peer) IsReady() bool { return p.ready }

// MakeSeq returns the next sequence number, wrapping on uint32 overflow.
func (p *Peer) MakeSeq() SeqType {
	p.seq++
	return p.seq
}

// Unsubscribe removes cmd's handler, if any.
func (p *Peer) Unsubscribe(cmd CmdType) { p.dispatcher.Unsubscribe(cmd) }

// Ping builds a Request pre-configured as a PING carrying payload, the
// shorthand spec §4.8 describes. payload is marshaled by the Peer's Codec
// like any Msg value; the remote Dispatcher echoes the encoded bytes back
// unchanged without consulting a subscription (see its PING handling), and
// the response is unmarshaled through the same Codec.
func Ping(p *Peer, payload []byte) *Request[[]byte, []byte] {
	return NewRequest[[]byte, []byte](p).Ping().Msg(payload)
}

// Cmd builds a Request pre-configured with the given command identifier,
// the shorthand spec §4.8 describes.
func Cmd[TReq, TRsp any](p *Peer, id CmdType) *Request[TReq, TRsp] {
	return NewRequest[TReq, TRsp](p).Cmd(id)
}

// Subscribe registers a (Req) → Rsp handler for cmd, replacing any prior
// handler for the same command silently.
func Subscribe[TReq, TRsp any](p *Peer, cmd CmdType, fn func(TReq) TRsp) {
	p.dispatcher.Subscribe(cmd, func(req Envelope) (bool, Flags, []byte) {
		var arg TReq
		if err := p.codec.Unmarshal(req.Payload, &arg); err != nil {
			return false, 0, nil
		}
		rsp := fn(arg)
		enc, err := p.codec.Marshal(rsp)
		if err != nil {
			if p.metrics != nil {
				p.metrics.onSerializeError()
			}
			return false, 0, nil
		}
		return true, 0, enc
	})
}

// SubscribeNoRsp registers a (Req) → void handler: it runs but never sends
// a response, even if the caller set NEED_RSP (which will then time out).
func SubscribeNoRsp[TReq any](p *Peer, cmd CmdType, fn func(TReq)) {
	p.dispatcher.Subscribe(cmd, func(req Envelope) (bool, Flags, []byte) {
		var arg TReq
		if err := p.codec.Unmarshal(req.Payload, &arg); err != nil {
			return false, 0, nil
		}
		fn(arg)
		return false, 0, nil
	})
}

// SubscribeNoArg registers a () → Rsp handler: the request payload is
// ignored entirely.
func SubscribeNoArg[TRsp any](p *Peer, cmd CmdType, fn func() TRsp) {
	p.dispatcher.Subscribe(cmd, func(req Envelope) (bool, Flags, []byte) {
		rsp := fn()
		enc, err := p.codec.Marshal(rsp)
		if err != nil {
			if p.metrics != nil {
				p.metrics.onSerializeError()
			}
			return false, 0, nil
		}
		return true, 0, enc
	})
}

// SubscribeNoArgNoRsp registers a () → void handler: neither the request
// payload nor a response is used.
func SubscribeNoArgNoRsp(p *Peer, cmd CmdType, fn func()) {
	p.dispatcher.Subscribe(cmd, func(req Envelope) (bool, Flags, []byte) {
		fn()
		return false, 0, nil
	})
}

// SubscribeAsync registers a deferred-response handler: fn receives the
// decoded request value and a respond closure it may call later — not
// necessarily before fn returns — to emit the response. Calling respond
// more than once is a no-op after the first call. If the original caller
// did not set NEED_RSP, respond is a no-op every time: there is nothing to
// reply to.
//
// The original tracks the pending deferred response in a dispatcher-owned
// table so a second resolution attempt or a resolution after teardown is
// safe; here the respond closure captures the Dispatcher and the original
// envelope directly and guards itself with a one-shot flag, which gives the
// same safety without a separate table to keep in sync.
func SubscribeAsync[TReq, TRsp any](p *Peer, cmd CmdType, fn func(req TReq, respond func(TRsp))) {
	p.dispatcher.Subscribe(cmd, func(req Envelope) (bool, Flags, []byte) {
		var arg TReq
		if err := p.codec.Unmarshal(req.Payload, &arg); err != nil {
			return false, 0, nil
		}

		needRsp := req.Flags.Has(FlagNeedRsp)
		seq := req.Seq
		dispatcher := p.dispatcher
		codec := p.codec
		metrics := p.metrics
		logger := p.logger
		done := false

		respond := func(rsp TRsp) {
			if done || !needRsp {
				return
			}
			done = true
			enc, err := codec.Marshal(rsp)
			if err != nil {
				if metrics != nil {
					metrics.onSerializeError()
				}
				return
			}
			if err := dispatcher.sendResponse(Envelope{Seq: seq, Flags: FlagResponse, Payload: enc}); err != nil {
				logger.Warnf("rpccore: deferred response send failed: %v", err)
			}
		}

		fn(arg, respond)
		return false, 0, nil // never a synchronous response
	})
}
