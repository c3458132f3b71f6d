package trie

import (
	"testing"

	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

func TestProveAndVerifySingleKey(t *testing.T) {
	tr := New()
	tr.Insert([]byte("dog"), []byte("puppy"))

	proof, err := tr.Prove([]byte("dog"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	root, err := VerifyProof(proof, []byte("puppy"))
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if root != tr.RootHash() {
		t.Fatalf("VerifyProof root = %s, want %s", root.Hex(), tr.RootHash().Hex())
	}
}

func TestProveMissingKey(t *testing.T) {
	tr := New()
	tr.Insert([]byte("dog"), []byte("puppy"))

	if _, err := tr.Prove([]byte("cat")); err != ErrNotFound {
		t.Fatalf("Prove(missing) = %v, want ErrNotFound", err)
	}
}

// TestProveEveryKeyInMultiEntryTrie exercises the proof round trip across
// a trie with several keys sharing prefixes (so extensions, a branch, and
// a Terminal branch value all appear along different paths). The proof
// format of spec.md §4.7 records every off-path sibling as a 32-byte
// keccak hash, which only reproduces the real trie RLP when every
// sibling's own raw RLP is itself ≥32 bytes (see ErrSiblingTooSmall) — the
// receipt trie this package exists to prove always satisfies that, since
// every TransactionReceipt value embeds a 256-byte bloom, so these values
// are sized to match that domain rather than using tiny literal strings.
func TestProveEveryKeyInMultiEntryTrie(t *testing.T) {
	entries := map[string]string{
		"do":    "verb-------------------------------------",
		"dog":   "puppy------------------------------------",
		"doge":  "coin-------------------------------------",
		"horse": "stallion---------------------------------",
	}
	tr := New()
	for k, v := range entries {
		tr.Insert([]byte(k), []byte(v))
	}
	root := tr.RootHash()

	for k, v := range entries {
		proof, err := tr.Prove([]byte(k))
		if err != nil {
			t.Fatalf("Prove(%q): %v", k, err)
		}
		got, err := VerifyProof(proof, []byte(v))
		if err != nil {
			t.Fatalf("VerifyProof(%q): %v", k, err)
		}
		if got != root {
			t.Fatalf("VerifyProof(%q) root = %s, want %s", k, got.Hex(), root.Hex())
		}
	}
}

// TestProveRejectsSmallOffPathSibling documents and locks in the
// precondition above: when an off-path sibling's raw RLP is under 32
// bytes, RootHash would inline it into its parent rather than hash it, so
// this proof format cannot represent it and Prove must fail loudly
// instead of returning a proof that verifies to the wrong root.
func TestProveRejectsSmallOffPathSibling(t *testing.T) {
	tr := New()
	tr.Insert([]byte("do"), []byte("verb"))
	tr.Insert([]byte("dog"), []byte("puppy"))
	tr.Insert([]byte("doge"), []byte("coin"))
	tr.Insert([]byte("horse"), []byte("stallion"))

	if _, err := tr.Prove([]byte("dog")); err != ErrSiblingTooSmall {
		t.Fatalf("Prove(dog) = %v, want ErrSiblingTooSmall", err)
	}
}

func TestVerifyProofRejectsWrongValue(t *testing.T) {
	tr := New()
	tr.Insert([]byte("dog"), []byte("puppy"))

	proof, err := tr.Prove([]byte("dog"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	got, err := VerifyProof(proof, []byte("wrong"))
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if got == tr.RootHash() {
		t.Fatalf("VerifyProof with a tampered value should not recompute the true root")
	}
}

func TestProveTerminalBranchValue(t *testing.T) {
	// "do" is a strict prefix of "dog"/"doge", so its value is stored in
	// a branch's own value slot rather than a standalone Leaf — this
	// exercises the Terminal proof-frame path.
	tr := New()
	tr.Insert([]byte("do"), []byte("verb"))
	tr.Insert([]byte("dog"), []byte("puppy"))
	tr.Insert([]byte("doge"), []byte("coin"))

	proof, err := tr.Prove([]byte("do"))
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(proof.Nodes) == 0 || !proof.Nodes[len(proof.Nodes)-1].Terminal {
		t.Fatalf("expected the proof for a prefix key to end in a Terminal branch frame")
	}
	root, err := VerifyProof(proof, []byte("verb"))
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if root != tr.RootHash() {
		t.Fatalf("VerifyProof root = %s, want %s", root.Hex(), tr.RootHash().Hex())
	}
}

// TestReceiptTrieRoundTripOver255SyntheticReceipts exercises spec.md
// §8's concrete scenario: insert 255 EIP-1559 receipts keyed by their
// RLP-encoded index, and confirm every one of them proves against the
// trie's root.
func TestReceiptTrieRoundTripOver255SyntheticReceipts(t *testing.T) {
	tr := New()
	receipts := make([]domain.TransactionReceipt, 255)
	for i := 0; i < 255; i++ {
		var bloom [256]byte
		for j := range bloom {
			bloom[j] = byte(i)
		}
		r := domain.TransactionReceipt{
			Bloom: primitives.Bloom(bloom),
			Receipt: domain.Receipt{
				TxType:            domain.TxTypeEIP1559,
				Success:           true,
				CumulativeGasUsed: uint64(i),
				Logs:              nil,
			},
		}
		receipts[i] = r
		key := rlp.EncodeToBytes(rlp.Uint64(i))
		tr.Insert(key, rlp.EncodeToBytes(r))
	}

	root := tr.RootHash()
	for i, r := range receipts {
		key := rlp.EncodeToBytes(rlp.Uint64(i))
		proof, err := tr.Prove(key)
		if err != nil {
			t.Fatalf("Prove(%d): %v", i, err)
		}
		got, err := VerifyProof(proof, rlp.EncodeToBytes(r))
		if err != nil {
			t.Fatalf("VerifyProof(%d): %v", i, err)
		}
		if got != root {
			t.Fatalf("VerifyProof(%d) root = %s, want %s", i, got.Hex(), root.Hex())
		}
	}
}
