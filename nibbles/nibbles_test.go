package nibbles

import (
	"encoding/json"
	"testing"
)

func TestFromRawExpandsBytes(t *testing.T) {
	n := FromRaw([]byte{0xab, 0xcd}, false)
	if n.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", n.Len())
	}
	want := []byte{0xa, 0xb, 0xc, 0xd}
	for i, w := range want {
		if got := n.At(i); got != w {
			t.Fatalf("At(%d) = %d, want %d", i, got, w)
		}
	}
	if n.HasTerminator() {
		t.Fatalf("expected no terminator")
	}
}

func TestFromRawWithTerminator(t *testing.T) {
	n := FromRaw([]byte{0xab}, true)
	if !n.HasTerminator() {
		t.Fatalf("expected terminator")
	}
	if n.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (terminator excluded)", n.Len())
	}
	if got := n.At(2); got != Terminator {
		t.Fatalf("At(Len()) = %d, want Terminator", got)
	}
}

func TestPushPreservesTerminator(t *testing.T) {
	n := FromRaw([]byte{0xa0}, true)
	n = n.Push(0x5)
	if !n.HasTerminator() {
		t.Fatalf("expected terminator preserved after Push")
	}
	if n.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", n.Len())
	}
	if got := n.At(2); got != 0x5 {
		t.Fatalf("At(2) = %d, want 5", got)
	}
}

func TestPopRemovesLastNibble(t *testing.T) {
	n := FromRaw([]byte{0xab}, false)
	n = n.Pop()
	if n.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", n.Len())
	}
	if got := n.At(0); got != 0xa {
		t.Fatalf("At(0) = %d, want a", got)
	}
}

func TestSliceAndOffset(t *testing.T) {
	n := FromRaw([]byte{0xab, 0xcd}, true)

	mid := n.Slice(1, 3)
	if mid.Len() != 2 || mid.HasTerminator() {
		t.Fatalf("Slice(1,3) = len %d term %v, want len 2 term false", mid.Len(), mid.HasTerminator())
	}
	if mid.At(0) != 0xb || mid.At(1) != 0xc {
		t.Fatalf("Slice(1,3) nibbles = %d,%d, want b,c", mid.At(0), mid.At(1))
	}

	tail := n.Offset(1)
	if tail.Len() != 3 {
		t.Fatalf("Offset(1).Len() = %d, want 3", tail.Len())
	}
	if !tail.HasTerminator() {
		t.Fatalf("Offset(1) ending at n.Len() should preserve the terminator")
	}
}

func TestCommonPrefix(t *testing.T) {
	a := FromRaw([]byte{0xab, 0xcd}, false)
	b := FromRaw([]byte{0xab, 0xce}, false)
	if got := a.CommonPrefix(b); got != 3 {
		t.Fatalf("CommonPrefix = %d, want 3", got)
	}

	c := FromRaw([]byte{0xff}, false)
	if got := a.CommonPrefix(c); got != 0 {
		t.Fatalf("CommonPrefix with disjoint nibbles = %d, want 0", got)
	}
}

func TestEqual(t *testing.T) {
	a := FromRaw([]byte{0xab}, true)
	b := FromRaw([]byte{0xab}, true)
	c := FromRaw([]byte{0xab}, false)
	if !a.Equal(b) {
		t.Fatalf("expected equal nibble sequences to compare equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected terminator mismatch to compare unequal")
	}
}

func TestRawRoundTripsThroughFromHex(t *testing.T) {
	n := FromRaw([]byte{0x12, 0x34}, true)
	raw := n.Raw()
	back := FromHex(raw)
	if !n.Equal(back) {
		t.Fatalf("FromHex(n.Raw()) did not reproduce n")
	}
}

func TestCompactRoundTripsExtension(t *testing.T) {
	n := FromRaw([]byte{0xab, 0xcd}, false)
	compact := n.Compact(false)
	back, leaf := FromCompact(compact)
	if leaf {
		t.Fatalf("extension path decoded with leaf flag set")
	}
	if !n.Equal(back) {
		t.Fatalf("FromCompact(Compact(n)) did not reproduce n for an even-length extension")
	}
}

func TestCompactRoundTripsOddExtension(t *testing.T) {
	n := FromHex([]byte{0xa, 0xb, 0xc})
	compact := n.Compact(false)
	back, leaf := FromCompact(compact)
	if leaf {
		t.Fatalf("odd extension path decoded with leaf flag set")
	}
	if !n.Equal(back) {
		t.Fatalf("FromCompact(Compact(n)) did not reproduce an odd-length extension")
	}
}

func TestCompactRoundTripsLeaf(t *testing.T) {
	n := FromRaw([]byte{0xab, 0xcd}, true)
	compact := n.Compact(true)
	back, leaf := FromCompact(compact)
	if !leaf {
		t.Fatalf("leaf path decoded without leaf flag set")
	}
	if !n.Equal(back) {
		t.Fatalf("FromCompact(Compact(n)) did not reproduce n for a leaf path")
	}
}

func TestNibblesJSONRoundTrip(t *testing.T) {
	n := FromRaw([]byte{0xde, 0xad}, true)

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Nibbles
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !n.Equal(back) {
		t.Fatalf("JSON round trip did not reproduce n: got %v, want %v", back.Raw(), n.Raw())
	}
}
