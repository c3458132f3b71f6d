// Package eventproof implements the EventProof envelope validator of
// spec.md §4.8/§6.1/§7: the single message that crosses the trust
// boundary between a receipt-proving producer and whatever consumer
// ultimately pays out on it.
//
// Grounded on the "one Go error type per failure category" shape
// wyf-ACCEPT-eth2030/pkg/trie uses for its own sentinel errors, and on
// original_source/types/src/receipt/event_proof.rs's three-check
// validate() (block-hash identity, receipt-hash identity, Merkle-root
// identity).
package eventproof

import (
	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
	"github.com/Liquid369/transaction-receipt-relayer/trie"
)

// IncorrectBodyHash reports that BlockHash does not match
// H256::hash(BlockHeader), per spec.md §4.8 step 1.
type IncorrectBodyHash struct {
	Expected primitives.H256
	Actual   primitives.H256
}

func (e *IncorrectBodyHash) Error() string {
	return "eventproof: incorrect body hash: expected " + e.Expected.Hex() + ", got " + e.Actual.Hex()
}

// IncorrectReceiptHash reports that TransactionReceiptHash does not
// match H256::hash(TransactionReceipt), per spec.md §4.8 step 2.
type IncorrectReceiptHash struct {
	Expected primitives.H256
	Actual   primitives.H256
}

func (e *IncorrectReceiptHash) Error() string {
	return "eventproof: incorrect receipt hash: expected " + e.Expected.Hex() + ", got " + e.Actual.Hex()
}

// IncorrectReceiptRoot reports that the header's ReceiptsRoot does not
// match the root the Merkle proof recomputes for the receipt, per
// spec.md §4.8 step 3.
type IncorrectReceiptRoot struct {
	Expected primitives.H256
	Actual   primitives.H256
}

func (e *IncorrectReceiptRoot) Error() string {
	return "eventproof: incorrect receipt root: expected " + e.Expected.Hex() + ", got " + e.Actual.Hex()
}

// EventProof is the structured record of spec.md §6.1: a block header,
// its claimed hash, a transaction receipt, its claimed hash, and a
// Merkle proof binding the receipt into the header's receipts root.
type EventProof struct {
	BlockHeader            *domain.BlockHeader
	BlockHash              primitives.H256
	TransactionReceipt     domain.TransactionReceipt
	TransactionReceiptHash primitives.H256
	MerkleProofOfReceipt   *trie.MerkleProof
}

// Validate runs the three hash-identity checks of spec.md §4.8 and
// returns the first that fails, or nil if the envelope is internally
// consistent. Validate is pure: it has no side effects, retries
// nothing, and makes no judgment about whether BlockHash itself is a
// block this caller should trust — that is the job of the
// collaborators.HeaderStore the caller consults before or after this
// call (spec.md §6.2).
func (p *EventProof) Validate() error {
	wantBody := p.BlockHeader.Hash()
	if wantBody != p.BlockHash {
		return &IncorrectBodyHash{Expected: wantBody, Actual: p.BlockHash}
	}

	wantReceipt := p.TransactionReceipt.Hash()
	if wantReceipt != p.TransactionReceiptHash {
		return &IncorrectReceiptHash{Expected: wantReceipt, Actual: p.TransactionReceiptHash}
	}

	receiptBytes := rlp.EncodeToBytes(p.TransactionReceipt)
	root, err := trie.VerifyProof(p.MerkleProofOfReceipt, receiptBytes)
	if err != nil {
		return &IncorrectReceiptRoot{Expected: p.BlockHeader.ReceiptsRoot, Actual: primitives.H256{}}
	}
	if root != p.BlockHeader.ReceiptsRoot {
		return &IncorrectReceiptRoot{Expected: p.BlockHeader.ReceiptsRoot, Actual: root}
	}

	return nil
}
