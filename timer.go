// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import "time"

// TimerHandle cancels a scheduled callback. Cancel is idempotent and safe to
// call after the callback has already fired.
type TimerHandle interface {
	Cancel()
}

// Timer schedules one-shot callbacks. The core uses it only for per-Request
// timeout deadlines; implementations must invoke the callback on the same
// goroutine the rest of the dispatch engine runs on (see doc.go's
// concurrency note). StdTimer does not do this by itself: its callbacks run
// on a runtime timer goroutine (see StdTimer).
type Timer interface {
	// AfterFunc schedules fn to run once, after d. Returns a handle fn's
	// caller can Cancel before it fires.
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

// StdTimer is the default Timer, backed by time.AfterFunc. Callbacks run on
// a runtime timer goroutine, not the caller's goroutine — callers relying on
// thread-affinity (see doc.go) must hop back onto their own loop inside fn,
// e.g. via a channel or by arranging, as Dispatcher does, that fn only ever
// touches state also reachable from Connection callbacks under an external
// single-threaded scheduling discipline.
type StdTimer struct{}

// NewStdTimer returns the stdlib-backed Timer.
func NewStdTimer() Timer { return StdTimer{} }

func (StdTimer) AfterFunc(d time.Duration, fn func()) TimerHandle {
	t := time.AfterFunc(d, fn)
	return stdTimerHandle{t}
}

type stdTimerHandle struct{ t *time.Timer }

func (h stdTimerHandle) Cancel() { h.t.Stop() }
