// Package collaborators defines the external collaborator interfaces
// spec.md §6.2 names — the boundary the pure core (rlp, nibbles, trie,
// domain, eventproof) never crosses itself — plus in-memory reference
// implementations used by tests and by cmd/eventproofd.
package collaborators

import "github.com/Liquid369/transaction-receipt-relayer/primitives"

// HeaderStore is the finalized-execution-header store of spec.md §6.2:
// given a chain id and block number, it returns the canonical block
// hash the relayer/validator should trust, or ok=false if that block
// is not (yet) known to be finalized.
type HeaderStore interface {
	BlockHash(chainID uint64, blockNumber uint64) (hash primitives.H256, ok bool)
}

// WatchedAddressRegistry is the watched-address registry of spec.md
// §6.2: given a chain id, the ordered set of addresses a receipt's
// logs must match at least one of to be worth proving.
type WatchedAddressRegistry interface {
	Addresses(chainID uint64) []primitives.H160
	IsWatched(chainID uint64, addr primitives.H160) bool
}

// ProcessedReceiptSet is the processed-receipt set of spec.md §6.2: it
// marks (chain_id, receipt_hash) pairs to prevent duplicate rewards.
type ProcessedReceiptSet interface {
	IsProcessed(chainID uint64, receiptHash primitives.H256) bool
	MarkProcessed(chainID uint64, receiptHash primitives.H256) error
}
