package trie

import (
	"bytes"

	"github.com/Liquid369/transaction-receipt-relayer/crypto"
	"github.com/Liquid369/transaction-receipt-relayer/nibbles"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// emptyNodeRLP is the RLP encoding of the Empty variant: the single
// byte EMPTY_STRING_CODE (spec.md §4.3).
var emptyNodeRLP = []byte{rlp.EmptyStringCode}

// dfsOrder returns every node reachable from n (n included), in an
// order where every node appears strictly after all of its descendants
// ("descendants before ancestors"; sibling order is unconstrained).
// It is built from an explicit-stack DFS and then reversed, so no
// recursion is used regardless of trie depth (spec.md §4.9).
func dfsOrder(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var preorder []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		preorder = append(preorder, cur)
		switch cur.Kind {
		case KindExtension:
			if cur.Child != nil {
				stack = append(stack, cur.Child)
			}
		case KindBranch:
			for _, c := range cur.Children {
				if c != nil {
					stack = append(stack, c)
				}
			}
		}
	}
	for i, j := 0, len(preorder)-1; i < j; i, j = i+1, j-1 {
		preorder[i], preorder[j] = preorder[j], preorder[i]
	}
	return preorder
}

// rawRLP returns the literal structural RLP encoding of n (a list for
// Leaf/Extension/Branch, or the single byte 0x80 for a nil/Empty node),
// with every child reference reduced via the rlp_node inline-or-hash
// rule (embeddedRLP). It never recurses: the whole subtree rooted at n
// is encoded bottom-up over an explicit work stack.
func rawRLP(n *Node) []byte {
	if n == nil {
		return emptyNodeRLP
	}
	order := dfsOrder(n)
	embedded := make(map[*Node][]byte, len(order))
	var result []byte
	for i := 0; i < len(order); i++ {
		cur := order[i]
		raw := buildRaw(cur, embedded)
		if cur == n {
			result = raw
		}
		embedded[cur] = embeddedRLP(raw)
	}
	return result
}

// buildRaw encodes a single node's list payload using the already
// embedded (inline-or-hashed) forms of its children.
func buildRaw(n *Node, embedded map[*Node][]byte) []byte {
	switch n.Kind {
	case KindLeaf:
		return encodeLeafRaw(n.Key, n.Value)
	case KindExtension:
		return encodeExtensionRaw(n.Prefix, childEmbedded(n.Child, embedded))
	case KindBranch:
		var children [16][]byte
		for i, c := range n.Children {
			children[i] = childEmbedded(c, embedded)
		}
		return encodeBranchRaw(children, n.Value)
	}
	return nil
}

// encodeLeafRaw builds the 2-element raw list RLP of a Leaf node: its
// hex-prefix-compacted key, and its value.
func encodeLeafRaw(key nibbles.Nibbles, value []byte) []byte {
	var buf, payload bytes.Buffer
	rlp.AppendString(&payload, key.Compact(true))
	rlp.AppendString(&payload, value)
	rlp.AppendListHeader(&buf, payload.Len())
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

// encodeExtensionRaw builds the 2-element raw list RLP of an Extension
// node: its hex-prefix-compacted prefix, and the already rlp_node-reduced
// encoding of its child.
func encodeExtensionRaw(prefix nibbles.Nibbles, childEmbedded []byte) []byte {
	var buf, payload bytes.Buffer
	rlp.AppendString(&payload, prefix.Compact(false))
	payload.Write(childEmbedded)
	rlp.AppendListHeader(&buf, payload.Len())
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

// encodeBranchRaw builds the 17-element raw list RLP of a Branch node:
// 16 already rlp_node-reduced child slots (emptyNodeRLP for an absent
// child), followed by the branch's own value slot.
func encodeBranchRaw(children [16][]byte, value []byte) []byte {
	var buf, payload bytes.Buffer
	for _, c := range children {
		if c == nil {
			payload.Write(emptyNodeRLP)
		} else {
			payload.Write(c)
		}
	}
	rlp.AppendString(&payload, value)
	rlp.AppendListHeader(&buf, payload.Len())
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

func childEmbedded(c *Node, embedded map[*Node][]byte) []byte {
	if c == nil {
		return emptyNodeRLP
	}
	return embedded[c]
}

// embeddedRLP applies the rlp_node rule (spec.md §4.3) to an already
// fully-built raw node encoding: inline if under 32 bytes, otherwise the
// RLP string encoding of its keccak-256 hash.
func embeddedRLP(raw []byte) []byte {
	if len(raw) < 32 {
		return raw
	}
	h := crypto.Keccak256(raw)
	var buf bytes.Buffer
	rlp.AppendString(&buf, h)
	return buf.Bytes()
}

// subtreeHash returns the keccak-256 hash of n's raw RLP encoding,
// always hashing regardless of length (distinct from the size-dependent
// rlp_node rule embeddedRLP applies). The proof generator does not call
// it: its siblingHash rejects siblings under 32 bytes instead.
func subtreeHash(n *Node) []byte {
	return crypto.Keccak256(rawRLP(n))
}
