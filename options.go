// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// peerOptions configures a Peer. Mirrors the teacher's functional-options
// pattern (see the former Options/Option in this package's framing days).
type peerOptions struct {
	logger  Logger
	metrics *Metrics
	timer   Timer
	ids     IDGenerator
	codec   Codec

	defaultTimeoutMS uint32
}

var defaultPeerOptions = peerOptions{
	logger:           nopLogger{},
	metrics:          nil,
	timer:            nil,
	ids:              nil,
	codec:            RawCodec,
	defaultTimeoutMS: DefaultTimeoutMS,
}

// Option configures a Peer at construction time.
type Option func(*peerOptions)

// WithLogger installs a Logger. The default logs nothing.
func WithLogger(l Logger) Option {
	return func(o *peerOptions) { o.logger = l }
}

// WithMetrics installs a Metrics collector. The default collects nothing.
func WithMetrics(m *Metrics) Option {
	return func(o *peerOptions) { o.metrics = m }
}

// WithTimer installs the timer collaborator used to schedule request
// timeouts. A Peer constructed without one can still send requests with
// NEED_RSP disabled, but any NEED_RSP call logs ErrNoTimer and terminates
// at once with rpc_not_ready.
func WithTimer(t Timer) Option {
	return func(o *peerOptions) { o.timer = t }
}

// WithIDGenerator overrides the debug correlation id generator (see
// idgen.go). The default uses xid.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *peerOptions) { o.ids = g }
}

// WithCodec installs the Codec used to marshal command arguments and
// response values. The default, RawCodec, requires []byte payloads; pass a
// CodecFuncs wrapping serialize.Marshal/serialize.Unmarshal (or codec/json's
// functions) to use a structural payload format instead.
func WithCodec(c Codec) Option {
	return func(o *peerOptions) { o.codec = c }
}

// WithDefaultTimeout overrides DefaultTimeoutMS for Requests created through
// this Peer that don't set their own timeout.
func WithDefaultTimeout(ms uint32) Option {
	return func(o *peerOptions) { o.defaultTimeoutMS = ms }
}
