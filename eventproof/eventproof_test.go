package eventproof

import (
	"testing"

	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
	"github.com/Liquid369/transaction-receipt-relayer/trie"
)

func sampleHeader() *domain.BlockHeader {
	return &domain.BlockHeader{
		ParentHash:       primitives.H256{1},
		OmmersHash:       primitives.H256{2},
		Beneficiary:      primitives.H160{3},
		StateRoot:        primitives.H256{4},
		TransactionsRoot: primitives.H256{5},
		ReceiptsRoot:     primitives.H256{}, // filled in by the caller
		LogsBloom:        primitives.Bloom{},
		Difficulty:       primitives.U256FromUint64(0),
		Number:           primitives.U256FromUint64(18000000),
		GasLimit:         primitives.U256FromUint64(30000000),
		GasUsed:          primitives.U256FromUint64(100000),
		Timestamp:        1700000000,
		ExtraData:        nil,
		MixHash:          primitives.H256{6},
		Nonce:            0,
	}
}

func sampleReceipt() domain.TransactionReceipt {
	return domain.TransactionReceipt{
		Bloom: primitives.Bloom{},
		Receipt: domain.Receipt{
			TxType:            domain.TxTypeLegacy,
			Success:           true,
			CumulativeGasUsed: 21000,
			Logs:              nil,
		},
	}
}

// buildSingleEntryProof inserts one (key, value) pair into a fresh trie
// and returns its root hash and Merkle proof.
func buildSingleEntryProof(t *testing.T, key, value []byte) (primitives.H256, *trie.MerkleProof) {
	t.Helper()
	tr := trie.New()
	tr.Insert(key, value)
	proof, err := tr.Prove(key)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	return tr.RootHash(), proof
}

func TestEventProofValidateAccepts(t *testing.T) {
	receipt := sampleReceipt()
	receiptBytes := rlp.EncodeToBytes(receipt)
	key := rlp.EncodeToBytes(rlp.Uint64(0))

	root, proof := buildSingleEntryProof(t, key, receiptBytes)

	header := sampleHeader()
	header.ReceiptsRoot = root

	ep := &EventProof{
		BlockHeader:            header,
		BlockHash:              header.Hash(),
		TransactionReceipt:     receipt,
		TransactionReceiptHash: receipt.Hash(),
		MerkleProofOfReceipt:   proof,
	}

	if err := ep.Validate(); err != nil {
		t.Fatalf("Validate: unexpected error: %v", err)
	}
}

func TestEventProofValidateIncorrectBodyHash(t *testing.T) {
	receipt := sampleReceipt()
	receiptBytes := rlp.EncodeToBytes(receipt)
	key := rlp.EncodeToBytes(rlp.Uint64(0))
	root, proof := buildSingleEntryProof(t, key, receiptBytes)

	header := sampleHeader()
	header.ReceiptsRoot = root

	ep := &EventProof{
		BlockHeader:            header,
		BlockHash:              primitives.H256{0xff}, // wrong on purpose
		TransactionReceipt:     receipt,
		TransactionReceiptHash: receipt.Hash(),
		MerkleProofOfReceipt:   proof,
	}

	err := ep.Validate()
	if _, ok := err.(*IncorrectBodyHash); !ok {
		t.Fatalf("Validate: got %T (%v), want *IncorrectBodyHash", err, err)
	}
}

func TestEventProofValidateIncorrectReceiptHash(t *testing.T) {
	receipt := sampleReceipt()
	receiptBytes := rlp.EncodeToBytes(receipt)
	key := rlp.EncodeToBytes(rlp.Uint64(0))
	root, proof := buildSingleEntryProof(t, key, receiptBytes)

	header := sampleHeader()
	header.ReceiptsRoot = root

	ep := &EventProof{
		BlockHeader:            header,
		BlockHash:              header.Hash(),
		TransactionReceipt:     receipt,
		TransactionReceiptHash: primitives.H256{0xff}, // wrong on purpose
		MerkleProofOfReceipt:   proof,
	}

	err := ep.Validate()
	if _, ok := err.(*IncorrectReceiptHash); !ok {
		t.Fatalf("Validate: got %T (%v), want *IncorrectReceiptHash", err, err)
	}
}

func TestEventProofValidateIncorrectReceiptRoot(t *testing.T) {
	receipt := sampleReceipt()
	receiptBytes := rlp.EncodeToBytes(receipt)
	key := rlp.EncodeToBytes(rlp.Uint64(0))
	_, proof := buildSingleEntryProof(t, key, receiptBytes)

	header := sampleHeader()
	header.ReceiptsRoot = primitives.H256{0xde, 0xad} // does not match the trie's real root

	ep := &EventProof{
		BlockHeader:            header,
		BlockHash:              header.Hash(),
		TransactionReceipt:     receipt,
		TransactionReceiptHash: receipt.Hash(),
		MerkleProofOfReceipt:   proof,
	}

	err := ep.Validate()
	if _, ok := err.(*IncorrectReceiptRoot); !ok {
		t.Fatalf("Validate: got %T (%v), want *IncorrectReceiptRoot", err, err)
	}
}
