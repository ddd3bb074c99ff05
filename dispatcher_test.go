// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"testing"
	"time"
)

func TestDispatcherNoSuchCmd(t *testing.T) {
	connA, connB := PipeConnections()
	da := NewDispatcher(connA, nil, nil, nil)
	_ = NewDispatcher(connB, nil, nil, nil)

	var gotResp Envelope
	gotRespCh := make(chan struct{}, 1)
	da.RegisterWaiter(1, 0, func(e Envelope, ok bool) bool {
		gotResp = e
		gotRespCh <- struct{}{}
		return true
	}, func() {})

	if err := da.SendCommand(Envelope{Seq: 1, Cmd: "nope", Flags: FlagNeedRsp}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-gotRespCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for no_such_cmd response")
	}
	if !gotResp.Flags.Has(FlagNoSuchCmd) {
		t.Fatalf("flags = %s, want NO_SUCH_CMD", gotResp.Flags)
	}
}

func TestDispatcherSubscribeReplacesHandler(t *testing.T) {
	conn := NewLoopbackConnection()
	d := NewDispatcher(conn, nil, nil, nil)

	calls := 0
	d.Subscribe("x", func(Envelope) (bool, Flags, []byte) { calls = 1; return false, 0, nil })
	d.Subscribe("x", func(Envelope) (bool, Flags, []byte) { calls = 2; return false, 0, nil })

	conn.SendPackage(Envelope{Seq: 1, Cmd: "x", Flags: FlagCommand}.Encode(nil))
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (latest subscription should win)", calls)
	}
}

func TestDispatcherTimeoutFiresAndRemovesWaiter(t *testing.T) {
	conn := NewLoopbackConnection()
	d := NewDispatcher(conn, NewStdTimer(), nil, nil)

	fired := make(chan struct{}, 1)
	d.RegisterWaiter(5, 10, func(Envelope, bool) bool { return true }, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timeout callback never fired")
	}
	if _, stillPending := d.waiters[5]; stillPending {
		t.Fatal("waiter still registered after its timeout fired")
	}
}

func TestDispatcherTimerSafetyAfterClose(t *testing.T) {
	conn := NewLoopbackConnection()
	d := NewDispatcher(conn, NewStdTimer(), nil, nil)

	fired := false
	d.RegisterWaiter(9, 10, func(Envelope, bool) bool { return true }, func() {
		fired = true
	})
	d.Close()

	time.Sleep(50 * time.Millisecond)
	if fired {
		t.Fatal("timeout callback fired after dispatcher Close")
	}
}

func TestDispatcherDropsUndecodablePackage(t *testing.T) {
	conn := NewLoopbackConnection()
	logger := &recordingLogger{}
	_ = NewDispatcher(conn, nil, logger, nil)

	conn.SendPackage([]byte{0x80}) // incomplete varint, never decodes
	if len(logger.warns) == 0 {
		t.Fatal("expected a warning log for the undecodable package")
	}
}

type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Debugf(string, ...interface{}) {}
func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warns = append(l.warns, format)
}
func (l *recordingLogger) Errorf(string, ...interface{}) {}
