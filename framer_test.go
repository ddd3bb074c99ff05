// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpccore

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func framePackage(body []byte) []byte {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(body)))
	return append(hdr[:], body...)
}

// Scenario 5: stream framing across chunk boundaries.
func TestFramerInjectivityAcrossChunkBoundaries(t *testing.T) {
	pkgs := [][]byte{[]byte("hello"), []byte("world, a longer second package")}
	var all []byte
	for _, p := range pkgs {
		all = append(all, framePackage(p)...)
	}

	partitions := [][]int{
		{len(all)},
		{1, len(all) - 1},
		{3, 3, 3, len(all) - 9},
		make([]int, len(all)), // every byte its own chunk
	}
	for i := range partitions[3] {
		partitions[3][i] = 1
	}

	for pi, sizes := range partitions {
		fr := NewFramer(0)
		var got [][]byte
		off := 0
		for _, n := range sizes {
			if n <= 0 {
				continue
			}
			chunk := all[off : off+n]
			off += n
			if err := fr.Feed(chunk, func(body []byte) error {
				cp := append([]byte(nil), body...)
				got = append(got, cp)
				return nil
			}); err != nil {
				t.Fatalf("partition %d: Feed error: %v", pi, err)
			}
		}
		if len(got) != len(pkgs) {
			t.Fatalf("partition %d: got %d packages, want %d", pi, len(got), len(pkgs))
		}
		for i := range pkgs {
			if !bytes.Equal(got[i], pkgs[i]) {
				t.Fatalf("partition %d: package %d = %q, want %q", pi, i, got[i], pkgs[i])
			}
		}
	}
}

func TestFramerIdempotenceOnReset(t *testing.T) {
	fr := NewFramer(4) // tiny max body size

	oversized := framePackage([]byte("this body is too long"))
	err := fr.Feed(oversized, func([]byte) error { return nil })
	if err != ErrFraming {
		t.Fatalf("err = %v, want ErrFraming", err)
	}

	good := framePackage([]byte("ok"))
	var got []byte
	if err := fr.Feed(good, func(body []byte) error { got = body; return nil }); err != nil {
		t.Fatalf("feed after reset: %v", err)
	}
	if string(got) != "ok" {
		t.Fatalf("got %q, want %q", got, "ok")
	}
}

func TestFramerZeroLengthBody(t *testing.T) {
	fr := NewFramer(0)
	pkg := framePackage(nil)
	calls := 0
	if err := fr.Feed(pkg, func(body []byte) error {
		calls++
		if len(body) != 0 {
			t.Fatalf("expected empty body, got %q", body)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestFramerExplicitReset(t *testing.T) {
	fr := NewFramer(0)
	_ = fr.Feed([]byte{1, 2}, func([]byte) error { return nil }) // partial header
	fr.Reset()
	pkg := framePackage([]byte("after reset"))
	var got []byte
	if err := fr.Feed(pkg, func(body []byte) error { got = body; return nil }); err != nil {
		t.Fatal(err)
	}
	if string(got) != "after reset" {
		t.Fatalf("got %q", got)
	}
}
