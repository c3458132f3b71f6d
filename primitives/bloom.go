package primitives

import (
	"bytes"
	"encoding/hex"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// BloomByteLength is the byte width of the 2048-bit logs bloom filter.
const BloomByteLength = 256

// BloomBitLength is the bit width of the logs bloom filter.
const BloomBitLength = 8 * BloomByteLength

// Bloom is the 256-byte logs bloom filter, as produced by
// core/types/bloom.go's bloom9/BloomAdd scheme (3 bits per item, each
// bit index the low 11 bits of successive 16-bit windows of the item's
// keccak-256 digest).
type Bloom [BloomByteLength]byte

func (b Bloom) Bytes() []byte { return b[:] }

func (b Bloom) Hex() string { return "0x" + hex.EncodeToString(b[:]) }

func (b Bloom) Encode(buf *bytes.Buffer) { rlp.AppendString(buf, b[:]) }

func (b Bloom) Length() int { return rlp.StringHeaderLen(BloomByteLength) + BloomByteLength }

// keccak256 is supplied by callers that add items to a Bloom, to avoid
// an import cycle with the crypto package (which depends on
// primitives.H256). AddHash/ContainsHash take the digest directly.

// bloomIndexes returns the three bit positions data's keccak-256 digest
// selects, per core/types/bloom.go's bloom9.
func bloomIndexes(hash []byte) [3]uint {
	var idx [3]uint
	for i := 0; i < 3; i++ {
		idx[i] = (uint(hash[2*i])<<8 | uint(hash[2*i+1])) & 0x7ff
	}
	return idx
}

// AddHash sets the three bits corresponding to the already-hashed
// keccak-256 digest of some item (typically an address or a log topic).
func (b *Bloom) AddHash(hash []byte) {
	idx := bloomIndexes(hash)
	for _, bit := range idx {
		byteIdx := BloomByteLength - 1 - int(bit/8)
		b[byteIdx] |= 1 << (bit % 8)
	}
}

// ContainsHash reports whether every bit the item's keccak-256 digest
// would have set is already set in b (a bloom-filter membership test;
// true positives are certain, false positives are possible, matching
// core/types/bloom.go's BloomContains and
// original_source/relayer/src/bloom_processor.rs's bloom-then-verify
// pattern).
func (b Bloom) ContainsHash(hash []byte) bool {
	idx := bloomIndexes(hash)
	for _, bit := range idx {
		byteIdx := BloomByteLength - 1 - int(bit/8)
		if b[byteIdx]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// Or sets b to the bitwise union of b and other, as CreateBloom does
// when aggregating per-log blooms into a per-receipt (and
// per-block) bloom.
func (b *Bloom) Or(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}
