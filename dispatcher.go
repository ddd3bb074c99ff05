// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import "time"

// commandHandler is the internal shape every public registration arity
// (see peer.go's Subscribe variants) normalizes to: given the inbound
// envelope, it returns whether a response should be sent and, if so, the
// response envelope's flags/payload to use (seq and cmd are filled in by the
// dispatcher).
type commandHandler func(req Envelope) (ok bool, respFlags Flags, respPayload []byte)

// waiterFunc is invoked once, with ok=true, for the response envelope
// matching a pending request. The dispatcher removes the pending-waiter
// entry unconditionally before the call and ignores the returned consumed
// value. Nothing in the dispatcher passes ok=false: Close does not invoke
// pending waiters.
type waiterFunc func(resp Envelope, ok bool) (consumed bool)

type pendingWaiter struct {
	fn    waiterFunc
	timer TimerHandle
}

// Dispatcher correlates responses with pending requests and routes inbound
// commands to subscribed handlers. It is installed as a Connection's
// receive callback and must only ever be driven from one goroutine — see
// the concurrency note in doc.go.
type Dispatcher struct {
	conn    Connection
	timer   Timer
	logger  Logger
	metrics *Metrics

	subs    map[CmdType]commandHandler
	waiters map[SeqType]*pendingWaiter

	alive *bool // shared with weak timer closures; set false on Close
}

// NewDispatcher wires a Dispatcher to conn, installing its own receive
// handler. timer and metrics may be nil; logger nil means nopLogger.
func NewDispatcher(conn Connection, timer Timer, logger Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = nopLogger{}
	}
	alive := true
	d := &Dispatcher{
		conn:    conn,
		timer:   timer,
		logger:  logger,
		metrics: metrics,
		subs:    make(map[CmdType]commandHandler),
		waiters: make(map[SeqType]*pendingWaiter),
		alive:   &alive,
	}
	conn.SetRecvHandler(d.onRecvPackage)
	return d
}

// HasTimer reports whether a Timer collaborator was configured.
func (d *Dispatcher) HasTimer() bool { return d.timer != nil }

// Close marks the dispatcher dead: any timer that fires afterward, holding
// only a weak reference via d.alive, becomes a no-op, matching spec §9's
// timer-safety requirement. It does not touch the connection.
func (d *Dispatcher) Close() {
	*d.alive = false
}

// Subscribe installs handler for cmd, replacing any prior handler silently.
func (d *Dispatcher) Subscribe(cmd CmdType, handler commandHandler) {
	d.subs[cmd] = handler
}

// Unsubscribe removes cmd's handler, if any.
func (d *Dispatcher) Unsubscribe(cmd CmdType) {
	delete(d.subs, cmd)
}

// RegisterWaiter inserts fn into the pending-waiter table keyed by seq and
// arms a timeout timer. onTimeout is invoked if the timer fires before a
// response (or explicit removal) clears the entry.
func (d *Dispatcher) RegisterWaiter(seq SeqType, timeoutMS uint32, fn waiterFunc, onTimeout func()) {
	pw := &pendingWaiter{fn: fn}
	d.waiters[seq] = pw
	if d.metrics != nil {
		d.metrics.onRequestStart()
	}

	if d.timer == nil {
		return
	}
	alive := d.alive
	pw.timer = d.timer.AfterFunc(time.Duration(timeoutMS)*time.Millisecond, func() {
		if !*alive {
			return // dispatcher destroyed; weak reference upgrade fails
		}
		if _, stillPending := d.waiters[seq]; !stillPending {
			return // response (or cancellation teardown) already resolved it
		}
		delete(d.waiters, seq)
		if d.metrics != nil {
			d.metrics.onTimeout()
			d.metrics.onRequestEnd()
		}
		onTimeout()
	})
}

// CancelWaiter removes seq's pending-waiter entry (if present) and stops
// its timer, without invoking fn. Request does not call it: a canceled
// Request keeps its entry until the response or the timer resolves it.
func (d *Dispatcher) CancelWaiter(seq SeqType) {
	pw, ok := d.waiters[seq]
	if !ok {
		return
	}
	delete(d.waiters, seq)
	if pw.timer != nil {
		pw.timer.Cancel()
	}
	if d.metrics != nil {
		d.metrics.onRequestEnd()
	}
}

// SendCommand emits a COMMAND envelope.
func (d *Dispatcher) SendCommand(e Envelope) error {
	e.Flags |= FlagCommand
	e.Flags &^= FlagResponse
	if d.metrics != nil {
		d.metrics.onCommandSent()
	}
	return d.conn.SendPackage(e.Encode(nil))
}

func (d *Dispatcher) sendResponse(e Envelope) error {
	if d.metrics != nil {
		d.metrics.onResponseSent()
	}
	return d.conn.SendPackage(e.Encode(nil))
}

func (d *Dispatcher) onRecvPackage(data []byte) {
	e, err := DecodeEnvelope(data)
	if err != nil {
		d.logger.Warnf("rpccore: dropping undecodable package: %v", err)
		return
	}

	switch {
	case e.Flags.Has(FlagCommand):
		d.handleCommand(e)
	case e.Flags.Has(FlagResponse):
		d.handleResponse(e)
	default:
		d.logger.Warnf("rpccore: dropping envelope with neither COMMAND nor RESPONSE set: %s", e)
	}
}

func (d *Dispatcher) handleCommand(e Envelope) {
	if e.Flags.Has(FlagPing) {
		resp := Envelope{
			Seq:     e.Seq,
			Flags:   FlagResponse | FlagPong,
			Payload: e.Payload,
		}
		if err := d.sendResponse(resp); err != nil {
			d.logger.Warnf("rpccore: ping response send failed: %v", err)
		}
		return
	}

	if d.metrics != nil {
		d.metrics.onCommandRecv()
	}

	handler, ok := d.subs[e.Cmd]
	if !ok {
		if d.metrics != nil {
			d.metrics.onNoSuchCmd()
		}
		if e.Flags.Has(FlagNeedRsp) {
			resp := Envelope{Seq: e.Seq, Flags: FlagResponse | FlagNoSuchCmd}
			if err := d.sendResponse(resp); err != nil {
				d.logger.Warnf("rpccore: no-such-cmd response send failed: %v", err)
			}
		}
		return
	}

	sendOK, respFlags, respPayload := handler(e)
	if !sendOK || !e.Flags.Has(FlagNeedRsp) {
		return
	}
	resp := Envelope{
		Seq:     e.Seq,
		Flags:   (respFlags | FlagResponse) &^ FlagCommand,
		Payload: respPayload,
	}
	if err := d.sendResponse(resp); err != nil {
		d.logger.Warnf("rpccore: response send failed: %v", err)
	}
}

func (d *Dispatcher) handleResponse(e Envelope) {
	pw, ok := d.waiters[e.Seq]
	if !ok {
		return // late or duplicate
	}
	delete(d.waiters, e.Seq)
	if pw.timer != nil {
		pw.timer.Cancel()
	}
	if d.metrics != nil {
		d.metrics.onResponseRecv()
		d.metrics.onRequestEnd()
	}
	pw.fn(e, true)
}
