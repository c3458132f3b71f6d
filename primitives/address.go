package primitives

import (
	"bytes"
	"encoding/hex"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// AddressLength is the byte width of an H160.
const AddressLength = 20

// H160 is a 20-byte Ethereum address.
type H160 [AddressLength]byte

// BytesToH160 left-pads b (or truncates its head) to an H160.
func BytesToH160(b []byte) H160 {
	var a H160
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToH160 parses a 0x-prefixed or bare hex string into an H160.
func HexToH160(s string) H160 {
	return BytesToH160(fromHex(s))
}

func (a H160) Bytes() []byte { return a[:] }

func (a H160) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a H160) String() string { return a.Hex() }

func (a H160) IsZero() bool { return a == H160{} }

func (a H160) Encode(buf *bytes.Buffer) { rlp.AppendString(buf, a[:]) }

func (a H160) Length() int { return rlp.StringHeaderLen(AddressLength) + AddressLength }
