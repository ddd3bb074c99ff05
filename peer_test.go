// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"encoding/binary"
	"testing"
)

func newPipedPeers(t *testing.T) (a, b *Peer) {
	t.Helper()
	connA, connB := PipeConnections()
	a = NewPeer(connA, WithTimer(NewStdTimer()))
	b = NewPeer(connB, WithTimer(NewStdTimer()))
	return a, b
}

// Scenario 1: loopback echo.
func TestScenarioLoopbackEcho(t *testing.T) {
	a, b := newPipedPeers(t)

	Subscribe[[]byte, []byte](b, "echo", func(req []byte) []byte { return req })

	var gotRsp []byte
	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("echo").
		Msg([]byte("hello")).
		Rsp(func(rsp []byte) { gotRsp = rsp }).
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonNormal {
		t.Fatalf("reason = %s, want normal", gotReason)
	}
	if string(gotRsp) != "hello" {
		t.Fatalf("rsp = %q, want %q", gotRsp, "hello")
	}
}

// Scenario 2: integer round trip with a big value.
func TestScenarioIntegerRoundTrip(t *testing.T) {
	a, b := newPipedPeers(t)

	Subscribe[[]byte, []byte](b, "cmd2", func(req []byte) []byte { return req })

	const want uint64 = 0x1234567812345678
	var in [8]byte
	binary.LittleEndian.PutUint64(in[:], want)

	var got uint64
	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("cmd2").
		Msg(in[:]).
		Rsp(func(rsp []byte) { got = binary.LittleEndian.Uint64(rsp) }).
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonNormal {
		t.Fatalf("reason = %s, want normal", gotReason)
	}
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

// Scenario 3: missing command.
func TestScenarioMissingCommand(t *testing.T) {
	a, _ := newPipedPeers(t)

	rspCalled := false
	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("absent").
		Rsp(func([]byte) { rspCalled = true }).
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonNoSuchCmd {
		t.Fatalf("reason = %s, want no_such_cmd", gotReason)
	}
	if rspCalled {
		t.Fatal("rsp callback must not be invoked for no_such_cmd")
	}
}

// Scenario 4: fire-and-forget.
func TestScenarioFireAndForget(t *testing.T) {
	a, b := newPipedPeers(t)

	Subscribe[[]byte, []byte](b, "notify", func(req []byte) []byte { return req })

	rspCalled := false
	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("notify").
		Msg([]byte("x")).
		DisableRsp().
		Rsp(func([]byte) { rspCalled = true }).
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonNoNeedRsp {
		t.Fatalf("reason = %s, want no_need_rsp", gotReason)
	}
	if rspCalled {
		t.Fatal("rsp callback must not be invoked when NEED_RSP was cleared")
	}
}

// Scenario 6: ping.
func TestScenarioPing(t *testing.T) {
	a, b := newPipedPeers(t)
	_ = b

	var gotRsp []byte
	var gotReason FinallyReason
	Ping(a, []byte("ping")).
		Rsp(func(rsp []byte) { gotRsp = rsp }).
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonNormal {
		t.Fatalf("reason = %s, want normal", gotReason)
	}
	if string(gotRsp) != "ping" {
		t.Fatalf("rsp = %q, want %q", gotRsp, "ping")
	}
}

func TestCancelPriorityOverResponse(t *testing.T) {
	a, b := newPipedPeers(t)

	// The handler cancels the caller's request before replying, simulating
	// cancellation racing the response on the caller's own side: we set the
	// cancel flag ourselves right before the call reaches the waiter by
	// canceling inside the subscribed handler, which runs synchronously
	// before the response envelope is delivered back over the pipe.
	var req *Request[[]byte, []byte]
	Subscribe[[]byte, []byte](b, "echo", func(in []byte) []byte {
		req.Cancel()
		return in
	})

	var gotReason FinallyReason
	req = NewRequest[[]byte, []byte](a).
		Cmd("echo").
		Msg([]byte("x")).
		Finally(func(reason FinallyReason) { gotReason = reason })
	req.Call(nil)

	if gotReason != ReasonCanceled {
		t.Fatalf("reason = %s, want canceled", gotReason)
	}
}

func TestRequestBeforeCallCancel(t *testing.T) {
	a, _ := newPipedPeers(t)

	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("whatever").
		Cancel().
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonCanceled {
		t.Fatalf("reason = %s, want canceled", gotReason)
	}
}

func TestPeerNotReady(t *testing.T) {
	a, _ := newPipedPeers(t)
	a.SetReady(false)

	var gotReason FinallyReason
	NewRequest[[]byte, []byte](a).
		Cmd("whatever").
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonRPCNotReady {
		t.Fatalf("reason = %s, want rpc_not_ready", gotReason)
	}
}

func TestRequestNoPeerExpired(t *testing.T) {
	var gotReason FinallyReason
	NewRequest[[]byte, []byte](nil).
		Cmd("whatever").
		Finally(func(reason FinallyReason) { gotReason = reason }).
		Call(nil)

	if gotReason != ReasonRPCExpired {
		t.Fatalf("reason = %s, want rpc_expired", gotReason)
	}
}

func TestCancelGroupDismiss(t *testing.T) {
	a, _ := newPipedPeers(t)
	g := NewCancelGroup()

	var gotReason FinallyReason
	req := NewRequest[[]byte, []byte](a).
		Cmd("whatever").
		AddTo(g).
		Finally(func(reason FinallyReason) { gotReason = reason })

	g.Dismiss()
	req.Call(nil)

	if gotReason != ReasonCanceled {
		t.Fatalf("reason = %s, want canceled", gotReason)
	}
}

func TestSeqMonotonicity(t *testing.T) {
	a, _ := newPipedPeers(t)
	s1 := a.MakeSeq()
	s2 := a.MakeSeq()
	if s2 != s1+1 {
		t.Fatalf("s1=%d s2=%d, want consecutive", s1, s2)
	}
}

func TestExactlyOnceFinally(t *testing.T) {
	a, b := newPipedPeers(t)
	Subscribe[[]byte, []byte](b, "echo", func(req []byte) []byte { return req })

	calls := 0
	NewRequest[[]byte, []byte](a).
		Cmd("echo").
		Msg([]byte("x")).
		Finally(func(FinallyReason) { calls++ }).
		Call(nil)

	if calls != 1 {
		t.Fatalf("finally invoked %d times, want 1", calls)
	}
}

func TestSubscribeAsyncDeferredResponse(t *testing.T) {
	a, b := newPipedPeers(t)

	var respond func([]byte)
	SubscribeAsync[[]byte, []byte](b, "deferred", func(req []byte, r func([]byte)) {
		respond = r // resolved later, outside this handler call
	})

	var gotRsp []byte
	finallyCalls := 0
	var gotReason FinallyReason
	req := NewRequest[[]byte, []byte](a).
		Cmd("deferred").
		Msg([]byte("req")).
		Rsp(func(rsp []byte) { gotRsp = rsp }).
		Finally(func(reason FinallyReason) { finallyCalls++; gotReason = reason })
	req.Call(nil)

	if finallyCalls != 0 {
		t.Fatalf("finally fired before the deferred response was resolved (reason=%s)", gotReason)
	}
	if respond == nil {
		t.Fatal("handler never captured respond")
	}
	respond([]byte("later"))

	if finallyCalls != 1 || gotReason != ReasonNormal {
		t.Fatalf("finallyCalls=%d reason=%s, want 1/normal", finallyCalls, gotReason)
	}
	if string(gotRsp) != "later" {
		t.Fatalf("rsp = %q, want %q", gotRsp, "later")
	}
}
