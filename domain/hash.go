package domain

import (
	"github.com/Liquid369/transaction-receipt-relayer/crypto"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// hashEncodable implements spec.md §3's H256::hash(x) = keccak256(rlp(x))
// for any RLP-encodable domain value.
func hashEncodable(e rlp.Encodable) primitives.H256 {
	return crypto.Keccak256Hash(rlp.EncodeToBytes(e))
}
