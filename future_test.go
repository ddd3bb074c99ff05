// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"testing"
	"time"
)

func TestFutureResolvesOnNormalResponse(t *testing.T) {
	a, b := newPipedPeers(t)
	Subscribe[[]byte, []byte](b, "echo", func(req []byte) []byte { return req })

	ch := NewRequest[[]byte, []byte](a).Cmd("echo").Msg([]byte("hi")).Future(nil)

	select {
	case res := <-ch:
		if res.Reason != ReasonNormal {
			t.Fatalf("reason = %s, want normal", res.Reason)
		}
		if string(res.Value) != "hi" {
			t.Fatalf("value = %q, want %q", res.Value, "hi")
		}
	case <-time.After(time.Second):
		t.Fatal("future never resolved")
	}
}

// blackholeConnection accepts every SendPackage and never delivers
// anything to a receive handler, so a waiter registered against it can
// only ever resolve via its timer.
type blackholeConnection struct{}

func (blackholeConnection) SendPackage([]byte) error        { return nil }
func (blackholeConnection) SetRecvHandler(func([]byte)) {}

func TestFutureResolvesOnTimeout(t *testing.T) {
	a := NewPeer(blackholeConnection{}, WithTimer(NewStdTimer()))

	ch := NewRequest[[]byte, []byte](a).Cmd("nope").Msg([]byte("x")).TimeoutMS(10).Future(nil)

	select {
	case res := <-ch:
		if res.Reason != ReasonTimeout {
			t.Fatalf("reason = %s, want timeout", res.Reason)
		}
	case <-time.After(time.Second):
		t.Fatal("future never resolved")
	}
}

func TestFutureComposesWithExistingCallbacks(t *testing.T) {
	a, b := newPipedPeers(t)
	Subscribe[[]byte, []byte](b, "echo", func(req []byte) []byte { return req })

	var rspCalls, finallyCalls int
	req := NewRequest[[]byte, []byte](a).
		Cmd("echo").
		Msg([]byte("hi")).
		Rsp(func([]byte) { rspCalls++ }).
		Finally(func(FinallyReason) { finallyCalls++ })

	ch := req.Future(nil)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("future never resolved")
	}

	if rspCalls != 1 {
		t.Fatalf("rspCalls = %d, want 1 (Future must not clobber a pre-set Rsp callback)", rspCalls)
	}
	if finallyCalls != 1 {
		t.Fatalf("finallyCalls = %d, want 1 (Future must not clobber a pre-set Finally callback)", finallyCalls)
	}
}
