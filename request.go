// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// Request is a fluent builder for, then the lifecycle handle of, one
// outbound call. TReq is the type Msg serializes into the command payload;
// TRsp is the type the response payload deserializes into.
//
// A Request is built with chainable setters, then driven through its
// lifecycle by Call. It is not safe to reuse concurrently with itself from
// another goroutine — like the rest of this package, a Request must only be
// touched from the goroutine driving the owning Peer's Connection and Timer
// callbacks (see doc.go).
//
// Generics replace the original's compile-time handler-arity dispatch (see
// SPEC_FULL.md's design-notes carryover): the public surface never exposes
// reflection-based arity sniffing, only the type parameters themselves.
type Request[TReq, TRsp any] struct {
	peer *Peer

	cmd       CmdType
	hasMsg    bool
	msg       TReq
	timeoutMS uint32
	retry     int // -1 forever, 0 disabled, >0 capped
	needRsp   bool
	isPing    bool
	cancelSet bool

	rspFn       func(TRsp)
	rspReasonFn func(TRsp, FinallyReason)
	timeoutFn   func()
	finallyFn   func(FinallyReason)

	called   bool
	reason   *FinallyReason
	seq      SeqType
	resolved *Peer // the peer call() actually resolved against, for retries
}

// NewRequest creates a Request bound to peer. peer may be nil; Call then
// requires an explicit peer argument or terminates rpc_expired.
func NewRequest[TReq, TRsp any](peer *Peer) *Request[TReq, TRsp] {
	return &Request[TReq, TRsp]{
		peer:    peer,
		needRsp: true,
	}
}

// Cmd sets the target command identifier.
func (r *Request[TReq, TRsp]) Cmd(id CmdType) *Request[TReq, TRsp] {
	r.cmd = id
	return r
}

// Msg sets the request payload value, serialized via the peer's Codec at
// Call time.
func (r *Request[TReq, TRsp]) Msg(v TReq) *Request[TReq, TRsp] {
	r.msg = v
	r.hasMsg = true
	return r
}

// Rsp installs a response handler taking only the decoded value.
func (r *Request[TReq, TRsp]) Rsp(fn func(TRsp)) *Request[TReq, TRsp] {
	r.rspFn = fn
	return r
}

// RspWithReason installs a response handler that also observes the terminal
// reason — useful when the same handler wants to distinguish a genuine
// response from one it should ignore.
func (r *Request[TReq, TRsp]) RspWithReason(fn func(TRsp, FinallyReason)) *Request[TReq, TRsp] {
	r.rspReasonFn = fn
	return r
}

// TimeoutMS overrides DefaultTimeoutMS for this request.
func (r *Request[TReq, TRsp]) TimeoutMS(ms uint32) *Request[TReq, TRsp] {
	r.timeoutMS = ms
	return r
}

// Timeout installs a callback invoked whenever the timer fires, before the
// built-in retry/terminate wrapper decides whether to retry or terminate.
func (r *Request[TReq, TRsp]) Timeout(fn func()) *Request[TReq, TRsp] {
	r.timeoutFn = fn
	return r
}

// Finally installs the terminal callback, invoked exactly once.
func (r *Request[TReq, TRsp]) Finally(fn func(FinallyReason)) *Request[TReq, TRsp] {
	r.finallyFn = fn
	return r
}

// Retry sets the retry budget: -1 retries forever, 0 disables retries
// (the default), n > 0 caps the number of retries.
func (r *Request[TReq, TRsp]) Retry(n int) *Request[TReq, TRsp] {
	r.retry = n
	return r
}

// Ping marks the envelope PING.
func (r *Request[TReq, TRsp]) Ping() *Request[TReq, TRsp] {
	r.isPing = true
	return r
}

// DisableRsp clears NEED_RSP: the call becomes fire-and-forget.
func (r *Request[TReq, TRsp]) DisableRsp() *Request[TReq, TRsp] {
	r.needRsp = false
	return r
}

// EnableRsp sets NEED_RSP (the default).
func (r *Request[TReq, TRsp]) EnableRsp() *Request[TReq, TRsp] {
	r.needRsp = true
	return r
}

// AddTo attaches this request to a CancelGroup, which will cancel it on
// Dismiss if it is still live then.
func (r *Request[TReq, TRsp]) AddTo(g *CancelGroup) *Request[TReq, TRsp] {
	g.add(r)
	return r
}

// Cancel sets the cancel flag. Per the cooperative, level-triggered
// cancellation model, this does not itself terminate the request — the
// flag is inspected at the next natural inspection point: before Call
// resolves the peer, or when the registered waiter observes a response.
func (r *Request[TReq, TRsp]) Cancel() *Request[TReq, TRsp] {
	r.cancelSet = true
	return r
}

// ResetCancel clears a previously set cancel flag.
func (r *Request[TReq, TRsp]) ResetCancel() *Request[TReq, TRsp] {
	r.cancelSet = false
	return r
}

// cancelRequest implements the unexported interface CancelGroup uses so it
// can hold handles across every Request[TReq, TRsp] instantiation.
func (r *Request[TReq, TRsp]) cancelRequest() { r.Cancel() }

func (r *Request[TReq, TRsp]) live() bool { return r.called && r.reason == nil }

// Call starts the request against peer, or against the peer it was built
// with if peer is nil. See spec §4.7 for the full call() state machine this
// implements step for step.
func (r *Request[TReq, TRsp]) Call(peer *Peer) {
	r.called = true

	if r.cancelSet {
		r.terminate(ReasonCanceled)
		return
	}

	target := peer
	if target == nil {
		target = r.peer
	}
	if target == nil {
		r.terminate(ReasonRPCExpired)
		return
	}
	if !target.IsReady() {
		r.terminate(ReasonRPCNotReady)
		return
	}
	r.resolved = target

	r.doCall(target)
}

// doCall performs one attempt (the original send, or a retry) against an
// already-resolved, already-ready peer.
func (r *Request[TReq, TRsp]) doCall(peer *Peer) {
	seq := peer.MakeSeq()
	r.seq = seq

	var payload []byte
	if r.hasMsg {
		enc, err := peer.codec.Marshal(r.msg)
		if err != nil {
			// Reuses rsp_serialize_error for an outbound encoding failure:
			// spec's eight terminal reasons have no dedicated "request
			// payload did not encode" case, and both failures mean the
			// same thing to the caller — the codec boundary rejected this
			// call's payload.
			r.terminate(ReasonRspSerializeError)
			return
		}
		payload = enc
	}

	flags := Flags(0)
	if r.isPing {
		flags |= FlagPing
	}
	if r.needRsp {
		flags |= FlagNeedRsp
	}

	if r.needRsp {
		if !peer.dispatcher.HasTimer() {
			// Registering a waiter with no way to ever time it out would
			// leak it forever; fail fast instead (see ErrNoTimer).
			peer.logger.Warnf("rpccore: request %s: %v", r.cmd, ErrNoTimer)
			r.terminate(ReasonRPCNotReady)
			return
		}
		timeoutMS := r.timeoutMS
		if timeoutMS == 0 {
			timeoutMS = peer.defaultTimeoutMS
		}
		peer.dispatcher.RegisterWaiter(seq, timeoutMS, r.onWaiterFired, r.onTimerFired)
	}

	if err := peer.dispatcher.SendCommand(Envelope{Seq: seq, Cmd: r.cmd, Flags: flags, Payload: payload}); err != nil {
		peer.logger.Warnf("rpccore: request %s send failed: %v", r.cmd, err)
	}

	if !r.needRsp {
		r.terminate(ReasonNoNeedRsp)
	}
}

func (r *Request[TReq, TRsp]) onWaiterFired(resp Envelope, ok bool) bool {
	if !ok {
		return true // dispatcher/peer torn down without a response
	}
	if r.cancelSet {
		r.terminate(ReasonCanceled)
		return true
	}
	if resp.Flags.Has(FlagNoSuchCmd) {
		r.terminate(ReasonNoSuchCmd)
		return true
	}

	var value TRsp
	if err := r.resolved.codec.Unmarshal(resp.Payload, &value); err != nil {
		r.terminate(ReasonRspSerializeError)
		return true
	}
	if r.rspFn != nil {
		r.rspFn(value)
	}
	if r.rspReasonFn != nil {
		r.rspReasonFn(value, ReasonNormal)
	}
	r.terminate(ReasonNormal)
	return true
}

// onTimerFired is the built-in timeout wrapper: it fires the user's Timeout
// callback, then consults the retry budget — decrementing after firing, per
// spec §9's documented (if ambiguous) source behavior — and either retries
// with a fresh seq or terminates timeout.
func (r *Request[TReq, TRsp]) onTimerFired() {
	if r.timeoutFn != nil {
		r.timeoutFn()
	}
	if r.cancelSet {
		r.terminate(ReasonCanceled)
		return
	}
	if r.retry == 0 {
		r.terminate(ReasonTimeout)
		return
	}
	if r.retry > 0 {
		r.retry--
	}
	r.doCall(r.resolved)
}

func (r *Request[TReq, TRsp]) terminate(reason FinallyReason) {
	if r.reason != nil {
		return
	}
	r.reason = &reason
	if r.finallyFn != nil {
		r.finallyFn(reason)
	}
}

// Reason reports the terminal reason, or nil if the request has not reached
// a terminal state yet.
func (r *Request[TReq, TRsp]) Reason() *FinallyReason { return r.reason }
