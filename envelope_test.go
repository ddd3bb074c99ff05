// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"bytes"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	cases := []Envelope{
		{Seq: 0, Cmd: "", Flags: 0, Payload: nil},
		{Seq: 1, Cmd: "echo", Flags: FlagCommand | FlagNeedRsp, Payload: []byte("hello")},
		{Seq: 0xffffffff, Cmd: "x", Flags: FlagResponse, Payload: []byte{}},
		{Seq: 42, Cmd: "", Flags: FlagResponse | FlagNoSuchCmd, Payload: nil},
	}
	for i, e := range cases {
		enc := e.Encode(nil)
		got, err := DecodeEnvelope(enc)
		if err != nil {
			t.Fatalf("case %d: decode error: %v", i, err)
		}
		if got.Seq != e.Seq || got.Cmd != e.Cmd || got.Flags != e.Flags {
			t.Fatalf("case %d: got %+v, want %+v", i, got, e)
		}
		if !bytes.Equal(got.Payload, e.Payload) {
			t.Fatalf("case %d: payload got %q, want %q", i, got.Payload, e.Payload)
		}
	}
}

func TestEnvelopeDecodeTooShort(t *testing.T) {
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatal("expected error decoding empty input")
	}
	// A single varint(0) (seq) with no cmd-length byte at all.
	if _, err := DecodeEnvelope([]byte{0}); err == nil {
		t.Fatal("expected error: missing cmd_len varint")
	}
}

func TestEnvelopeDecodeCmdLenPastEnd(t *testing.T) {
	// seq=0, cmd_len=5, but no cmd bytes or flags byte follow.
	enc := []byte{0, 5}
	if _, err := DecodeEnvelope(enc); err == nil {
		t.Fatal("expected decode error: cmd_len runs past end")
	}
}

func TestEnvelopeString(t *testing.T) {
	e := Envelope{Seq: 7, Cmd: "ping", Flags: FlagCommand | FlagPing}
	s := e.String()
	if s == "" {
		t.Fatal("expected non-empty diagnostic string")
	}
}
