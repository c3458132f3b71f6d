package rlp

import (
	"bytes"
	"testing"
)

func encode(e Encodable) []byte {
	var buf bytes.Buffer
	e.Encode(&buf)
	return buf.Bytes()
}

func TestBoolEncode(t *testing.T) {
	if got := encode(Bool(true)); !bytes.Equal(got, []byte{0x01}) {
		t.Fatalf("Bool(true) = %x, want 01", got)
	}
	if got := encode(Bool(false)); !bytes.Equal(got, []byte{0x80}) {
		t.Fatalf("Bool(false) = %x, want 80", got)
	}
}

func TestUint64Encode(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x80}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{256, []byte{0x82, 0x01, 0x00}},
		{0xffffffffffffffff, append([]byte{0x88}, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)},
	}
	for _, c := range cases {
		got := encode(Uint64(c.v))
		if !bytes.Equal(got, c.want) {
			t.Fatalf("Uint64(%d) = %x, want %x", c.v, got, c.want)
		}
		if Uint64(c.v).Length() != len(c.want) {
			t.Fatalf("Uint64(%d).Length() = %d, want %d", c.v, Uint64(c.v).Length(), len(c.want))
		}
	}
}

func TestBytesEncode(t *testing.T) {
	cases := []struct {
		in   []byte
		want []byte
	}{
		{nil, []byte{0x80}},
		{[]byte{}, []byte{0x80}},
		{[]byte{0x00}, []byte{0x00}},
		{[]byte{0x7f}, []byte{0x7f}},
		{[]byte{0x80}, []byte{0x81, 0x80}},
		{[]byte("dog"), []byte{0x83, 'd', 'o', 'g'}},
	}
	for _, c := range cases {
		got := encode(Bytes(c.in))
		if !bytes.Equal(got, c.want) {
			t.Fatalf("Bytes(%x) = %x, want %x", c.in, got, c.want)
		}
	}
}

func TestBytesEncodeLongString(t *testing.T) {
	payload := bytes.Repeat([]byte{0x61}, 56)
	got := encode(Bytes(payload))
	if got[0] != 0xb8 || got[1] != 56 {
		t.Fatalf("long string header = %x, want b8 38 ...", got[:2])
	}
	if len(got) != 2+56 {
		t.Fatalf("long string total length = %d, want %d", len(got), 2+56)
	}
}

func TestListEncode(t *testing.T) {
	l := List{Uint64(1), Uint64(2), Bytes("dog")}
	got := encode(l)
	want := []byte{0xc6, 0x01, 0x02, 0x83, 'd', 'o', 'g'}
	if !bytes.Equal(got, want) {
		t.Fatalf("List encode = %x, want %x", got, want)
	}
	if l.Length() != len(want) {
		t.Fatalf("List.Length() = %d, want %d", l.Length(), len(want))
	}
}

func TestEmptyListEncode(t *testing.T) {
	got := encode(List{})
	if !bytes.Equal(got, []byte{0xc0}) {
		t.Fatalf("empty list = %x, want c0", got)
	}
}

func TestWrapList(t *testing.T) {
	payload := []byte{0x01, 0x02}
	got := WrapList(payload)
	want := []byte{0xc2, 0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Fatalf("WrapList = %x, want %x", got, want)
	}
}

func TestEncodeToBytes(t *testing.T) {
	got := EncodeToBytes(Uint64(256))
	want := []byte{0x82, 0x01, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeToBytes = %x, want %x", got, want)
	}
}

func TestStreamRoundTripsUint64List(t *testing.T) {
	l := List{Uint64(0), Uint64(127), Uint64(128), Uint64(1 << 32)}
	data := EncodeToBytes(l)

	s := NewStream(data)
	if _, err := s.List(); err != nil {
		t.Fatalf("List(): %v", err)
	}
	var got []uint64
	for !s.AtListEnd() {
		v, err := s.Uint64()
		if err != nil {
			t.Fatalf("Uint64(): %v", err)
		}
		got = append(got, v)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatalf("ListEnd(): %v", err)
	}

	want := []uint64{0, 127, 128, 1 << 32}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestStreamRoundTripsNestedList(t *testing.T) {
	inner := List{Bytes("cat"), Bytes("dog")}
	outer := List{Uint64(1), inner}
	data := EncodeToBytes(outer)

	s := NewStream(data)
	if _, err := s.List(); err != nil {
		t.Fatalf("outer List(): %v", err)
	}
	v, err := s.Uint64()
	if err != nil || v != 1 {
		t.Fatalf("first element = %d, %v, want 1, nil", v, err)
	}
	if _, err := s.List(); err != nil {
		t.Fatalf("inner List(): %v", err)
	}
	first, err := s.Bytes()
	if err != nil || string(first) != "cat" {
		t.Fatalf("inner first = %q, %v, want cat, nil", first, err)
	}
	second, err := s.Bytes()
	if err != nil || string(second) != "dog" {
		t.Fatalf("inner second = %q, %v, want dog, nil", second, err)
	}
	if !s.AtListEnd() {
		t.Fatalf("expected inner list exhausted")
	}
	if err := s.ListEnd(); err != nil {
		t.Fatalf("inner ListEnd(): %v", err)
	}
	if !s.AtListEnd() {
		t.Fatalf("expected outer list exhausted")
	}
}

func TestStreamRejectsNonCanonicalLength(t *testing.T) {
	// A long-string header whose length prefix carries a leading zero
	// byte is non-canonical and must be rejected, not silently accepted.
	data := []byte{0xb9, 0x00, 0x01, 0x61}
	s := NewStream(data)
	if _, err := s.Bytes(); err != ErrCanonSize {
		t.Fatalf("Bytes() = %v, want ErrCanonSize", err)
	}
}
