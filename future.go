// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// Result is what a Request's Future channel delivers: the decoded response
// value (zero if the terminal reason isn't normal) paired with the terminal
// reason that produced it.
type Result[T any] struct {
	Value  T
	Reason FinallyReason
}

// Future is the original implementation's future() convenience adapter
// (request.hpp, guarded there behind RPC_CORE_FEATURE_FUTURE): it calls the
// request and returns a channel that receives exactly one Result once the
// request reaches a terminal state, alongside whatever Rsp/Finally
// callbacks were already configured — Future composes with them rather
// than replacing them.
//
// This is explicitly a convenience for code outside the dispatch loop (see
// doc.go's concurrency note): blocking a read on the returned channel from
// the same goroutine that drives the owning Peer's Connection/Timer
// callbacks deadlocks, because nothing else will ever run RegisterWaiter's
// timeout or the Connection's receive callback to produce the result. Only
// read from this channel off that goroutine — a worker pool, an HTTP
// handler, anything that isn't the dispatch loop itself.
func (r *Request[TReq, TRsp]) Future(peer *Peer) <-chan Result[TRsp] {
	ch := make(chan Result[TRsp], 1)

	var latest TRsp
	prevRsp := r.rspFn
	r.rspFn = func(v TRsp) {
		latest = v
		if prevRsp != nil {
			prevRsp(v)
		}
	}

	prevFinally := r.finallyFn
	r.finallyFn = func(reason FinallyReason) {
		if prevFinally != nil {
			prevFinally(reason)
		}
		ch <- Result[TRsp]{Value: latest, Reason: reason}
		close(ch)
	}

	r.Call(peer)
	return ch
}
