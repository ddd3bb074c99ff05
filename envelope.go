// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"fmt"

	"code.hybscloud.com/rpccore/internal/varint"
)

// Envelope is the unit of wire traffic: (seq, cmd, flags, payload).
//
// Invariants (enforced by callers, not by the type itself — the codec is
// permissive on decode so a malformed peer degrades to a dropped or
// NO_SUCH_CMD response rather than a panic):
//
//   - COMMAND and RESPONSE are mutually exclusive; exactly one is set.
//   - PING implies COMMAND. PONG implies RESPONSE.
//   - NO_SUCH_CMD implies RESPONSE and an empty payload.
//   - NEED_RSP is meaningful only on COMMAND.
type Envelope struct {
	Seq     SeqType
	Cmd     CmdType
	Flags   Flags
	Payload []byte
}

// String renders a short diagnostic line, used by Logger call sites. Mirrors
// the original implementation's msg_wrapper::dump().
func (e Envelope) String() string {
	return fmt.Sprintf("seq:%d type:%s cmd:%s", e.Seq, e.Flags, e.Cmd)
}

// Encode appends the wire encoding of e to buf and returns the extended
// slice. Layout: varint(seq) | varint(len(cmd)) | cmd | flags byte | payload.
// The payload carries no length of its own — the caller's framing (packet
// boundary or StreamConn length prefix) delimits the envelope as a whole.
func (e Envelope) Encode(buf []byte) []byte {
	buf = varint.Append(buf, uint64(e.Seq))
	buf = varint.Append(buf, uint64(len(e.Cmd)))
	buf = append(buf, e.Cmd...)
	buf = append(buf, byte(e.Flags))
	buf = append(buf, e.Payload...)
	return buf
}

// DecodeEnvelope parses one envelope from data. data is consumed in full:
// every byte after the flags byte becomes Payload, so callers must pass
// exactly one framed message, not a longer buffer.
//
// Returns ErrDecode if data is too short to hold the varints and flags byte,
// or if the decoded cmd length runs past the end of data.
func DecodeEnvelope(data []byte) (Envelope, error) {
	seq, n := varint.Decode(data)
	if n == 0 {
		return Envelope{}, ErrDecode
	}
	data = data[n:]

	cmdLen, n := varint.Decode(data)
	if n == 0 {
		return Envelope{}, ErrDecode
	}
	data = data[n:]

	if uint64(len(data)) < cmdLen+1 {
		return Envelope{}, ErrDecode
	}
	cmd := string(data[:cmdLen])
	data = data[cmdLen:]

	flags := Flags(data[0])
	payload := data[1:]

	return Envelope{
		Seq:     SeqType(seq),
		Cmd:     cmd,
		Flags:   flags,
		Payload: payload,
	}, nil
}
