// Package primitives implements the fixed-width value types of
// spec.md §3: H160, H256, H64, U256 and Bloom, each exposing the
// encode/length contract required of every RLP-encodable type.
package primitives

import (
	"bytes"
	"encoding/hex"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// HashLength is the byte width of an H256.
const HashLength = 32

// H256 is a 32-byte value, most commonly a keccak-256 digest.
type H256 [HashLength]byte

// BytesToH256 returns the H256 whose low-order bytes are b's tail and
// whose high-order bytes are zero, matching Ethereum's left-pad rule.
func BytesToH256(b []byte) H256 {
	var h H256
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToH256 parses a 0x-prefixed or bare hex string into an H256.
func HexToH256(s string) H256 {
	return BytesToH256(fromHex(s))
}

func (h H256) Bytes() []byte { return h[:] }

func (h H256) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h H256) String() string { return h.Hex() }

func (h H256) IsZero() bool { return h == H256{} }

func (h H256) Encode(buf *bytes.Buffer) { rlp.AppendString(buf, h[:]) }

func (h H256) Length() int { return rlp.StringHeaderLen(HashLength) + HashLength }

func fromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
