// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// CmdType identifies a command on the wire. Up to 65535 bytes.
type CmdType = string

// SeqType correlates a request with its response. Unique within one peer's
// outbound history at any given time; wraps on overflow.
type SeqType = uint32

// Flags is the envelope's flag bitset.
type Flags uint8

const (
	FlagCommand   Flags = 1 << 0
	FlagResponse  Flags = 1 << 1
	FlagNeedRsp   Flags = 1 << 2
	FlagPing      Flags = 1 << 3
	FlagPong      Flags = 1 << 4
	FlagNoSuchCmd Flags = 1 << 5
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) String() string {
	names := []struct {
		bit  Flags
		name string
	}{
		{FlagCommand, "command"},
		{FlagResponse, "response"},
		{FlagNeedRsp, "need_rsp"},
		{FlagPing, "ping"},
		{FlagPong, "pong"},
		{FlagNoSuchCmd, "no_such_cmd"},
	}
	out := ""
	for _, n := range names {
		if f.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// FinallyReason is the single terminal outcome of a Request's lifecycle.
type FinallyReason int

const (
	ReasonNormal FinallyReason = iota
	ReasonNoNeedRsp
	ReasonTimeout
	ReasonCanceled
	ReasonRPCExpired
	ReasonRPCNotReady
	ReasonRspSerializeError
	ReasonNoSuchCmd
)

func (r FinallyReason) String() string {
	switch r {
	case ReasonNormal:
		return "normal"
	case ReasonNoNeedRsp:
		return "no_need_rsp"
	case ReasonTimeout:
		return "timeout"
	case ReasonCanceled:
		return "canceled"
	case ReasonRPCExpired:
		return "rpc_expired"
	case ReasonRPCNotReady:
		return "rpc_not_ready"
	case ReasonRspSerializeError:
		return "rsp_serialize_error"
	case ReasonNoSuchCmd:
		return "no_such_cmd"
	default:
		return "unknown"
	}
}

// DefaultTimeoutMS is the request timeout used when Request.TimeoutMS is
// never called.
const DefaultTimeoutMS uint32 = 3000
