package primitives

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// NonceLength is the byte width of an H64.
const NonceLength = 8

// H64 is an 8-byte fixed-width value, used for the block header's
// proof-of-work nonce (spec.md §4.5: "nonce (as H64 of be_bytes(nonce))").
type H64 [NonceLength]byte

// Uint64ToH64 returns the big-endian H64 representation of n.
func Uint64ToH64(n uint64) H64 {
	var h H64
	binary.BigEndian.PutUint64(h[:], n)
	return h
}

func (n H64) Bytes() []byte { return n[:] }

func (n H64) Hex() string { return "0x" + hex.EncodeToString(n[:]) }

func (n H64) Encode(buf *bytes.Buffer) { rlp.AppendString(buf, n[:]) }

func (n H64) Length() int { return rlp.StringHeaderLen(NonceLength) + NonceLength }
