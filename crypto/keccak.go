// Package crypto provides the single hash primitive the rest of this
// module depends on: Ethereum's keccak-256.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

// Keccak256 returns the keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns the keccak-256 digest of the concatenation of
// data as an H256.
func Keccak256Hash(data ...[]byte) primitives.H256 {
	var h primitives.H256
	copy(h[:], Keccak256(data...))
	return h
}
