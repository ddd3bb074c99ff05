// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

// cancelable is implemented by every Request[TReq, TRsp] instantiation so a
// single CancelGroup can hold handles across distinct type parameters.
type cancelable interface {
	cancelRequest()
}

// CancelGroup is a scope that collectively cancels the requests added to it
// on Dismiss. It holds its members directly — Go's garbage collector
// reclaims any cycle this would otherwise form between a request and its
// group, so unlike the original's weak-backref scheme (see SPEC_FULL.md's
// cyclic-ownership note) no explicit weak-handle type is needed here; the
// group simply never extends a request's lifetime beyond what the
// dispatcher's own pending-waiter entry already grants it.
type CancelGroup struct {
	members []cancelable
}

// NewCancelGroup returns an empty CancelGroup.
func NewCancelGroup() *CancelGroup { return &CancelGroup{} }

func (g *CancelGroup) add(r cancelable) {
	g.members = append(g.members, r)
}

// Remove drops r from the group by identity, if present. No-op if r was
// never added or already removed.
func (g *CancelGroup) Remove(r cancelable) {
	for i, m := range g.members {
		if m == r {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

// Dismiss calls Cancel on every member currently in the group, then clears
// it. Safe to call repeatedly; an already-empty group dismisses to a no-op.
func (g *CancelGroup) Dismiss() {
	for _, m := range g.members {
		m.cancelRequest()
	}
	g.members = nil
}
