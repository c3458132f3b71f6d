// Package trie implements the iterative Patricia-Merkle-Trie builder,
// node RLP encoding, and Merkle proof generator/verifier of spec.md §4.
//
// Grounded on the node-variant duality of
// wyf-ACCEPT-eth2030/pkg/trie/node.go (fullNode/shortNode) and the
// split/merge case analysis of trie/trie.go, reshaped into the four
// explicit tagged variants spec.md §3 names and rewritten against an
// explicit iterative walk rather than recursion (spec.md §4.4/§4.9;
// the teacher's own Trie is recursive and does not satisfy the
// no-stack-overflow requirement of testable property 8.6).
package trie

import "github.com/Liquid369/transaction-receipt-relayer/nibbles"

// Kind tags the three non-empty node variants. A nil *Node represents
// the Empty variant.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindExtension
	KindBranch
)

// Node is a Patricia-Merkle-Trie node. Exactly one of the field groups
// below is meaningful, selected by Kind:
//
//   - KindLeaf:      Key, Value
//   - KindExtension: Prefix, Child
//   - KindBranch:    Children, Value (the branch's own value slot)
//
// An Extension's Child is never nil and never itself a KindExtension
// node (spec.md §3 invariant). A Leaf's Key may hold zero nibbles (only
// the terminator): Insert creates such a Leaf in a Branch child slot when
// two keys first differ at their last nibble. A key that ends exactly at
// a Branch is stored in that Branch's Value slot instead.
type Node struct {
	Kind Kind

	Key   nibbles.Nibbles // KindLeaf
	Value []byte          // KindLeaf value, or KindBranch's value slot

	Prefix nibbles.Nibbles // KindExtension
	Child  *Node           // KindExtension

	Children [16]*Node // KindBranch
}

func newLeaf(key nibbles.Nibbles, value []byte) *Node {
	return &Node{Kind: KindLeaf, Key: key, Value: value}
}

func newExtension(prefix nibbles.Nibbles, child *Node) *Node {
	return &Node{Kind: KindExtension, Prefix: prefix, Child: child}
}

func newBranch() *Node {
	return &Node{Kind: KindBranch}
}
