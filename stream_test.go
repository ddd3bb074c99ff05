// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"bytes"
	"testing"
)

func TestStreamConnSendThenPump(t *testing.T) {
	var wire bytes.Buffer
	sender := NewStreamConn(nil, &wire)
	if err := sender.SendPackage([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := sender.SendPackage([]byte("world")); err != nil {
		t.Fatal(err)
	}

	receiver := NewStreamConn(&wire, nil)
	var got [][]byte
	receiver.SetRecvHandler(func(p []byte) {
		got = append(got, append([]byte(nil), p...))
	})
	if err := receiver.Pump(); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	if len(got) != 2 || string(got[0]) != "hello" || string(got[1]) != "world" {
		t.Fatalf("got %q", got)
	}
}

func TestStreamConnMaxBodySize(t *testing.T) {
	var wire bytes.Buffer
	sender := NewStreamConn(nil, &wire)
	if err := sender.SendPackage(bytes.Repeat([]byte("x"), 100)); err != nil {
		t.Fatal(err)
	}

	receiver := NewStreamConn(&wire, nil, WithMaxBodySize(10))
	if err := receiver.Pump(); err != ErrFraming {
		t.Fatalf("err = %v, want ErrFraming", err)
	}
}

func TestStreamConnRequiresReaderOrWriter(t *testing.T) {
	c := NewStreamConn(nil, nil)
	if err := c.SendPackage([]byte("x")); err != ErrInvalidArgument {
		t.Fatalf("SendPackage err = %v, want ErrInvalidArgument", err)
	}
	if err := c.Pump(); err != ErrInvalidArgument {
		t.Fatalf("Pump err = %v, want ErrInvalidArgument", err)
	}
}
