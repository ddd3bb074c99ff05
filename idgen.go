// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import "github.com/rs/xid"

// IDGenerator produces the debug correlation ID stored in Peer.ID for log
// correlation; Requests carry no ID of their own. These IDs never appear on the wire — the
// wire only ever carries SeqType — they exist solely so a log line on one
// side of a connection can be cross-referenced against a log line on the
// other, or across a Peer's own reconnects.
type IDGenerator interface {
	NewID() string
}

// xidGenerator is the default IDGenerator, backed by rs/xid's sortable,
// globally-unique identifiers.
type xidGenerator struct{}

// NewXIDGenerator returns the xid-backed default IDGenerator.
func NewXIDGenerator() IDGenerator { return xidGenerator{} }

func (xidGenerator) NewID() string { return xid.New().String() }
