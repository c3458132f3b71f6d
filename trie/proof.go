package trie

import (
	"bytes"
	"errors"

	"github.com/Liquid369/transaction-receipt-relayer/crypto"
	"github.com/Liquid369/transaction-receipt-relayer/nibbles"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// ErrNotFound is returned by Prove when the key does not exist in the trie.
var ErrNotFound = errors.New("trie: key not found")

// ErrProofInvalid is returned by VerifyProof when the supplied proof does
// not replay to a consistent trie, per spec.md §4.7's verification walk.
var ErrProofInvalid = errors.New("trie: invalid proof")

// ErrSiblingTooSmall is returned by Prove when an off-path sibling's raw
// RLP is under 32 bytes. The proof format of spec.md §4.7 records every
// off-path sibling as a 32-byte keccak hash; childSlots always replays it
// as a hashed (rlp_node string-of-hash) slot. A sibling under 32 bytes is
// instead *inlined* verbatim by RootHash/rawRLP (the rlp_node rule,
// hasher.go's embeddedRLP), so a hashed replay of it would not reproduce
// the real trie's RLP and VerifyProof would recompute the wrong root.
// This never happens in the receipt trie this package exists to prove
// (every TransactionReceipt value embeds a 256-byte bloom, so every
// leaf/branch's raw RLP is always far over 32 bytes); it is surfaced as
// an error rather than silently mis-proving a general-purpose trie with
// small values.
var ErrSiblingTooSmall = errors.New("trie: off-path sibling RLP under 32 bytes, proof format cannot represent it")

// ProofNodeKind tags the two variants of a MerkleProofNode, mirroring
// original_source/types/src/receipt/receipt_merkle_proof.rs's
// ReceiptMerkleProofNode::{ExtensionNode, BranchNode}.
type ProofNodeKind uint8

const (
	ProofExtension ProofNodeKind = iota
	ProofBranch
)

// MerkleProofNode is one frame of a root-to-leaf Merkle proof (spec.md §3):
//
//   - ProofExtension: Prefix is the nibble path skipped by this Extension.
//   - ProofBranch: Branches holds the 32-byte keccak of every sibling
//     subtree other than the one on the path (nil where that sibling's
//     rlp_node embedding is the single byte EMPTY_STRING_CODE); Index is
//     the nibble the walk descended into; Value is the branch's own
//     value slot (set whenever the branch carries one, independent of
//     which slot is on the path). Terminal marks the case where the
//     proved key is itself exhausted at this branch — the branch's
//     Value slot *is* the proven value, no child is on the path, and
//     Index/the "on-path" exclusion above do not apply (every one of
//     the 16 children is a sibling).
type MerkleProofNode struct {
	Kind ProofNodeKind

	Prefix nibbles.Nibbles // ProofExtension

	Branches [16]*primitives.H256 // ProofBranch
	Index    byte                 // ProofBranch, meaningless when Terminal
	Value    []byte               // ProofBranch
	Terminal bool                 // ProofBranch
}

// MerkleProof is an ordered root-to-leaf-parent list of proof frames plus
// the full raw key bytes of the proven entry (spec.md §3/§6.1).
type MerkleProof struct {
	Nodes []MerkleProofNode
	Key   []byte
}

// Prove walks the trie from the root to keyBytes, recording exactly the
// sibling information spec.md §4.7 requires to recompute the root. It
// returns ErrNotFound if keyBytes was never inserted.
func (t *Trie) Prove(keyBytes []byte) (*MerkleProof, error) {
	key := nibbles.FromRaw(keyBytes, true)
	remaining := key
	cur := t.root

	var frames []MerkleProofNode
	for {
		switch {
		case cur == nil:
			return nil, ErrNotFound

		case cur.Kind == KindLeaf:
			if !remaining.Equal(cur.Key) {
				return nil, ErrNotFound
			}
			return &MerkleProof{Nodes: frames, Key: keyBytes}, nil

		case cur.Kind == KindExtension:
			cp := remaining.CommonPrefix(cur.Prefix)
			if cp != cur.Prefix.Len() {
				return nil, ErrNotFound
			}
			frames = append(frames, MerkleProofNode{Kind: ProofExtension, Prefix: cur.Prefix})
			remaining = remaining.Offset(cp)
			cur = cur.Child

		case cur.Kind == KindBranch:
			if remaining.At(0) == nibbles.Terminator {
				if cur.Value == nil {
					return nil, ErrNotFound
				}
				frame, err := terminalBranchFrame(cur)
				if err != nil {
					return nil, err
				}
				frames = append(frames, frame)
				return &MerkleProof{Nodes: frames, Key: keyBytes}, nil
			}
			idx := remaining.At(0)
			frame, err := branchFrame(cur, idx)
			if err != nil {
				return nil, err
			}
			frames = append(frames, frame)
			remaining = remaining.Offset(1)
			cur = cur.Children[idx]
		}
	}
}

// branchFrame builds the ProofBranch frame for a branch node being
// descended through slot idx: every other slot's subtree is reduced to
// its 32-byte keccak (or nil when that subtree's rlp_node embedding is
// the single byte EMPTY_STRING_CODE), per spec.md §4.7.
func branchFrame(n *Node, idx byte) (MerkleProofNode, error) {
	frame := MerkleProofNode{Kind: ProofBranch, Index: idx, Value: n.Value}
	for i, c := range n.Children {
		if byte(i) == idx {
			continue
		}
		h, err := siblingHash(c)
		if err != nil {
			return MerkleProofNode{}, err
		}
		frame.Branches[i] = h
	}
	return frame, nil
}

// terminalBranchFrame builds the ProofBranch frame for a branch whose own
// value slot is the proven entry: no child is on the path, so every one
// of the 16 children is recorded as a sibling.
func terminalBranchFrame(n *Node) (MerkleProofNode, error) {
	frame := MerkleProofNode{Kind: ProofBranch, Value: n.Value, Terminal: true}
	for i, c := range n.Children {
		h, err := siblingHash(c)
		if err != nil {
			return MerkleProofNode{}, err
		}
		frame.Branches[i] = h
	}
	return frame, nil
}

// siblingHash returns the 32-byte keccak of c's subtree RLP, or nil if c is
// absent or its rlp_node embedding is the single byte EMPTY_STRING_CODE. It
// returns ErrSiblingTooSmall if c's raw RLP is under 32 bytes: RootHash
// would inline such a sibling into its parent (hasher.go's embeddedRLP),
// but this proof format can only ever record a sibling as a hash, so
// VerifyProof could not replay it faithfully. See ErrSiblingTooSmall.
func siblingHash(c *Node) (*primitives.H256, error) {
	if c == nil {
		return nil, nil
	}
	raw := rawRLP(c)
	if len(raw) == 1 && raw[0] == rlp.EmptyStringCode {
		return nil, nil
	}
	if len(raw) < 32 {
		return nil, ErrSiblingTooSmall
	}
	h := primitives.BytesToH256(crypto.Keccak256(raw))
	return &h, nil
}

// VerifyProof replays proof against leaf value v and returns the
// resulting root hash, per spec.md §4.7's leaf-to-root re-hash. The
// caller compares the result against the trusted receipts_root.
func VerifyProof(proof *MerkleProof, value []byte) (primitives.H256, error) {
	if proof == nil {
		return primitives.H256{}, ErrProofInvalid
	}

	frames := proof.Nodes
	var h []byte

	if n := len(frames); n > 0 && frames[n-1].Kind == ProofBranch && frames[n-1].Terminal {
		// The proof ends at a branch whose own value slot is the proven
		// entry: build that branch's RLP directly with the claimed value
		// in its 17th slot, no separate leaf node exists to hash first.
		last := frames[n-1]
		h = embeddedRLP(encodeBranchRaw(childSlots(last, 16), value))
		frames = frames[:n-1]
	} else {
		// The proof ends at a standalone Leaf: recompute the nibble
		// suffix the walk consumed and hash Leaf(remaining, value) first.
		key := nibbles.FromRaw(proof.Key, true)
		remaining := key
		for _, frame := range frames {
			switch frame.Kind {
			case ProofExtension:
				remaining = remaining.Offset(frame.Prefix.Len())
			case ProofBranch:
				remaining = remaining.Offset(1)
			}
		}
		h = embeddedRLP(encodeLeafRaw(remaining, value))
	}

	for i := len(frames) - 1; i >= 0; i-- {
		frame := frames[i]
		switch frame.Kind {
		case ProofExtension:
			h = embeddedRLP(encodeExtensionRaw(frame.Prefix, h))

		case ProofBranch:
			children := childSlots(frame, int(frame.Index))
			children[frame.Index] = h
			h = embeddedRLP(encodeBranchRaw(children, frame.Value))
		}
	}

	// h is the rlp_node-embedded form of the root: either the root's raw
	// RLP verbatim (len(h) < 32, the embeddedRLP inline case) or the RLP
	// string encoding of its keccak-256 (exactly 33 bytes: the 0xa0
	// length-prefix byte plus the 32-byte digest). RootHash instead
	// always hashes the root's raw RLP outright (spec.md §4.9's empty
	// trie vector: keccak256(0x80)), so the two cases recover it
	// differently.
	if len(h) == 33 && h[0] == rlp.EmptyStringCode+32 {
		return primitives.BytesToH256(h[1:]), nil
	}
	return primitives.BytesToH256(crypto.Keccak256(h)), nil
}

// childSlots rebuilds the 16 rlp_node-embedded child slots of frame from
// its recorded sibling hashes, leaving the slot at skipIndex zero-valued
// (EMPTY_STRING_CODE) for the caller to overwrite with the on-path hash.
// skipIndex of 16 leaves every slot populated from Branches (the Terminal
// case, where no slot is on the path).
func childSlots(frame MerkleProofNode, skipIndex int) [16][]byte {
	var children [16][]byte
	for j, sib := range frame.Branches {
		if j == skipIndex {
			children[j] = emptyNodeRLP
			continue
		}
		if sib == nil {
			children[j] = emptyNodeRLP
			continue
		}
		var buf bytes.Buffer
		rlp.AppendString(&buf, sib[:])
		children[j] = buf.Bytes()
	}
	return children
}
