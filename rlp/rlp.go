// Package rlp implements Ethereum's Recursive-Length Prefix encoding.
//
// Unlike a reflection-driven encoder, every encodable type in this
// module implements Encodable directly: Encode appends its RLP bytes to
// a buffer, Length reports how many bytes that would be without
// allocating. The low-level helpers here (string/list header framing,
// big-endian integer packing) are the shared byte-math both the
// primitive types and the trie/domain layers build on.
package rlp

import "bytes"

const (
	// EmptyStringCode is the single-byte RLP encoding of the empty string.
	EmptyStringCode = 0x80
	// EmptyListCode is the single-byte RLP encoding of the empty list.
	EmptyListCode = 0xc0
)

// Encodable is implemented by every RLP-encodable type in this module.
type Encodable interface {
	// Encode appends the RLP encoding of the value to buf.
	Encode(buf *bytes.Buffer)
	// Length reports len(encoding) without allocating.
	Length() int
}

// appendBigEndian appends the minimal big-endian representation of v
// (no leading zero byte, except that v == 0 produces zero bytes).
func appendBigEndian(dst []byte, v uint64) []byte {
	switch {
	case v == 0:
		return dst
	case v < (1 << 8):
		return append(dst, byte(v))
	case v < (1 << 16):
		return append(dst, byte(v>>8), byte(v))
	case v < (1 << 24):
		return append(dst, byte(v>>16), byte(v>>8), byte(v))
	case v < (1 << 32):
		return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	case v < (1 << 40):
		return append(dst, byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	case v < (1 << 48):
		return append(dst, byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	case v < (1 << 56):
		return append(dst, byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return append(dst, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

// bigEndianLen returns len(appendBigEndian(nil, v)).
func bigEndianLen(v uint64) int {
	switch {
	case v == 0:
		return 0
	case v < (1 << 8):
		return 1
	case v < (1 << 16):
		return 2
	case v < (1 << 24):
		return 3
	case v < (1 << 32):
		return 4
	case v < (1 << 40):
		return 5
	case v < (1 << 48):
		return 6
	case v < (1 << 56):
		return 7
	default:
		return 8
	}
}

// StringHeaderLen returns the number of bytes the RLP string header for
// a payload of length n occupies. It does not special-case the
// single-byte passthrough (a lone byte below 0x80, which has no
// header); StringLen and the Length methods handle that case.
func StringHeaderLen(n int) int {
	if n <= 55 {
		return 1
	}
	return 1 + bigEndianLen(uint64(n))
}

// StringLen returns the total encoded length of a string payload of n
// bytes, where firstByteLT80 indicates whether, when n==1, the single
// payload byte is below 0x80 (and therefore passed through unprefixed).
func StringLen(n int, firstByteLT80 bool) int {
	if n == 1 && firstByteLT80 {
		return 1
	}
	return StringHeaderLen(n) + n
}

// AppendString appends the RLP encoding of a byte-string payload to buf.
func AppendString(buf *bytes.Buffer, s []byte) {
	if len(s) == 1 && s[0] < 0x80 {
		buf.WriteByte(s[0])
		return
	}
	appendStringHeader(buf, len(s))
	buf.Write(s)
}

// appendStringHeader appends just the header bytes for a string payload
// of length n (n != 1-with-value<0x80; callers that might hit the
// single-byte passthrough must special-case it themselves, as
// AppendString does).
func appendStringHeader(buf *bytes.Buffer, n int) {
	if n <= 55 {
		buf.WriteByte(EmptyStringCode + byte(n))
		return
	}
	bl := bigEndianLen(uint64(n))
	buf.WriteByte(0xb7 + byte(bl))
	var tmp [8]byte
	b := appendBigEndian(tmp[:0], uint64(n))
	buf.Write(b)
}

// ListHeaderLen returns the number of header bytes an RLP list whose
// payload is plen bytes long occupies.
func ListHeaderLen(plen int) int {
	if plen <= 55 {
		return 1
	}
	return 1 + bigEndianLen(uint64(plen))
}

// AppendListHeader appends the RLP list header for a payload of plen
// bytes to buf. The caller is responsible for appending the plen bytes
// of payload immediately afterward.
func AppendListHeader(buf *bytes.Buffer, plen int) {
	if plen <= 55 {
		buf.WriteByte(EmptyListCode + byte(plen))
		return
	}
	bl := bigEndianLen(uint64(plen))
	buf.WriteByte(0xf7 + byte(bl))
	var tmp [8]byte
	b := appendBigEndian(tmp[:0], uint64(plen))
	buf.Write(b)
}

// AppendUint64 appends the RLP encoding of a uint64 (as a minimal
// big-endian string, per U256 framing rules: a zero value is the empty
// string 0x80).
func AppendUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	b := appendBigEndian(tmp[:0], v)
	AppendString(buf, b)
}

// Uint64Len returns the encoded length of v per AppendUint64.
func Uint64Len(v uint64) int {
	n := bigEndianLen(v)
	if n == 0 {
		return 1 // EmptyStringCode
	}
	return StringLen(n, b0LT80(v))
}

// b0LT80 reports whether the first (most significant, non-zero) byte of
// v's big-endian form is below 0x80. Only meaningful when v's minimal
// encoding is exactly 1 byte.
func b0LT80(v uint64) bool {
	return v < 0x80
}

// EncodeToBytes encodes a single Encodable value into a fresh byte slice.
func EncodeToBytes(e Encodable) []byte {
	var buf bytes.Buffer
	buf.Grow(e.Length())
	e.Encode(&buf)
	return buf.Bytes()
}

// WrapList wraps an already RLP-encoded payload (the concatenation of
// each list element's own encoding) in a list header.
func WrapList(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(ListHeaderLen(len(payload)) + len(payload))
	AppendListHeader(&buf, len(payload))
	buf.Write(payload)
	return buf.Bytes()
}

// Bytes is a raw byte-string Encodable, the RLP analogue of a []byte.
type Bytes []byte

func (b Bytes) Encode(buf *bytes.Buffer) { AppendString(buf, b) }
func (b Bytes) Length() int {
	if len(b) == 1 && b[0] < 0x80 {
		return 1
	}
	return StringHeaderLen(len(b)) + len(b)
}

// Uint64 is a uint64 Encodable, RLP-framed as a minimal big-endian string.
type Uint64 uint64

func (u Uint64) Encode(buf *bytes.Buffer) { AppendUint64(buf, uint64(u)) }
func (u Uint64) Length() int              { return Uint64Len(uint64(u)) }

// Bool is a boolean Encodable: true encodes as the single byte 0x01,
// false as the empty string 0x80.
type Bool bool

func (b Bool) Encode(buf *bytes.Buffer) {
	if b {
		buf.WriteByte(0x01)
		return
	}
	buf.WriteByte(EmptyStringCode)
}
func (b Bool) Length() int { return 1 }

// List encodes a fixed sequence of Encodable elements as an RLP list.
type List []Encodable

func (l List) Length() int {
	return ListHeaderLen(l.payloadLen()) + l.payloadLen()
}

func (l List) payloadLen() int {
	n := 0
	for _, e := range l {
		n += e.Length()
	}
	return n
}

func (l List) Encode(buf *bytes.Buffer) {
	AppendListHeader(buf, l.payloadLen())
	for _, e := range l {
		e.Encode(buf)
	}
}
