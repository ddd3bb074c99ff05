// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package json is an optional payload codec plug-in backed by encoding/json,
// offered as a drop-in alternative to package serialize for callers that
// need a human-readable wire payload (debugging, cross-language interop
// with a peer that never runs this module) at the cost of size and of the
// structural codec's forward-compatible unknown-field skipping.
//
// This is the only optional codec plug-in shipped: the examples this module
// was grounded on carry no FlatBuffers dependency anywhere in the retrieved
// corpus, so a flatbuffers plug-in would not be grounded in anything and is
// deliberately not implemented.
package json

import "encoding/json"

// Marshal encodes v as JSON. It satisfies the same (interface{}) ([]byte,
// error) shape as serialize.Marshal so a Peer can be configured to use
// either interchangeably.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes data into v. It satisfies the same ([]byte,
// interface{}) error shape as serialize.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
