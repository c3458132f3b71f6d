package trie

import (
	"github.com/Liquid369/transaction-receipt-relayer/crypto"
	"github.com/Liquid369/transaction-receipt-relayer/nibbles"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

// Trie is a Patricia-Merkle-Trie builder: insert ordered or unordered
// (key, value) pairs, then take the root hash or generate proofs.
// It is single-owner and holds no ambient state (spec.md §5): many
// independent Tries may exist concurrently with no coordination.
type Trie struct {
	root *Node
}

// New returns an empty Trie.
func New() *Trie { return &Trie{} }

// Insert ingests one (key, value) pair, performing the split/merge
// restructuring of spec.md §4.4. Both the walk down and the slot
// rewrite are an explicit loop over a cursor (a pointer to the slot
// being examined) rather than recursive calls, so insertion depth is
// bounded only by available heap, never by call-stack depth (spec.md
// §4.9, testable property 8.6).
func (t *Trie) Insert(keyBytes, value []byte) {
	key := nibbles.FromRaw(keyBytes, true)
	cur := &t.root
	remaining := key

	for {
		n := *cur
		if n == nil {
			*cur = newLeaf(remaining, value)
			return
		}

		switch n.Kind {
		case KindLeaf:
			if remaining.Equal(n.Key) {
				n.Value = value
				return
			}
			cp := remaining.CommonPrefix(n.Key)
			branch := newBranch()
			placeInBranch(branch, n.Key.Offset(cp), n.Value)
			placeInBranch(branch, remaining.Offset(cp), value)
			if cp == 0 {
				*cur = branch
			} else {
				*cur = newExtension(nibbles.FromHex(remaining.Raw()[:cp]), branch)
			}
			return

		case KindExtension:
			cp := remaining.CommonPrefix(n.Prefix)
			switch {
			case cp == n.Prefix.Len():
				remaining = remaining.Offset(cp)
				cur = &n.Child
			case cp == 0:
				branch := newBranch()
				if n.Prefix.Len() == 1 {
					branch.Children[n.Prefix.At(0)] = n.Child
				} else {
					branch.Children[n.Prefix.At(0)] = newExtension(n.Prefix.Offset(1), n.Child)
				}
				*cur = branch
				// retry the same remaining key against the new branch
			default:
				tail := newExtension(n.Prefix.Offset(cp), n.Child)
				n.Prefix = n.Prefix.Slice(0, cp)
				n.Child = tail
				remaining = remaining.Offset(cp)
				cur = &n.Child
			}

		case KindBranch:
			if remaining.At(0) == nibbles.Terminator {
				n.Value = value
				return
			}
			nib := remaining.At(0)
			remaining = remaining.Offset(1)
			cur = &n.Children[nib]
		}
	}
}

// placeInBranch installs (rest, value) into branch: if rest is
// exhausted it becomes the branch's own value slot, otherwise it
// becomes a Leaf under the first remaining nibble's child slot.
func placeInBranch(branch *Node, rest nibbles.Nibbles, value []byte) {
	if rest.At(0) == nibbles.Terminator {
		branch.Value = value
		return
	}
	nib := rest.At(0)
	branch.Children[nib] = newLeaf(rest.Offset(1), value)
}

// RootHash returns the 32-byte keccak-256 hash of the trie's root node
// RLP encoding. The empty trie's root hash is keccak256(0x80).
func (t *Trie) RootHash() primitives.H256 {
	return crypto.Keccak256Hash(rawRLP(t.root))
}

// Len returns the number of (key, value) pairs stored in the trie.
func (t *Trie) Len() int {
	n := 0
	t.eachPair(func([]byte, []byte) { n++ })
	return n
}

// Iter returns every (raw_key_bytes, value_bytes) pair in key-sorted
// nibble order (a left-to-right depth-first traversal), per spec.md
// §4.4.
func (t *Trie) Iter() [][2][]byte {
	var out [][2][]byte
	t.eachPair(func(k, v []byte) {
		out = append(out, [2][]byte{k, v})
	})
	return out
}

// walkFrame is one stack entry of the explicit-stack in-order walk
// eachPair performs: the node being visited, the nibble path
// accumulated to reach it, and (for a Branch) which child to resume at.
type walkFrame struct {
	node     *Node
	path     nibbles.Nibbles
	nextSlot int // next branch child index to push, or -1 once the value slot is due
}

// eachPair performs a left-to-right depth-first walk over an explicit
// stack (never recursion, for the same reason Insert avoids it) and
// invokes fn for every reachable (key, value) pair in nibble order.
func (t *Trie) eachPair(fn func(key, value []byte)) {
	if t.root == nil {
		return
	}
	stack := []*walkFrame{{node: t.root, path: nibbles.FromHex(nil)}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		switch f.node.Kind {
		case KindLeaf:
			full := appendNibbles(f.path, f.node.Key)
			fn(nibblesToKeyBytes(full), f.node.Value)
			stack = stack[:len(stack)-1]

		case KindExtension:
			if f.nextSlot == 0 {
				f.nextSlot = 1
				childPath := appendNibbles(f.path, f.node.Prefix)
				stack = append(stack, &walkFrame{node: f.node.Child, path: childPath})
				continue
			}
			stack = stack[:len(stack)-1]

		case KindBranch:
			if f.nextSlot == 0 && f.node.Value != nil {
				full := appendNibblesTerminated(f.path)
				fn(nibblesToKeyBytes(full), f.node.Value)
			}
			advanced := false
			for f.nextSlot < 16 {
				slot := f.nextSlot
				f.nextSlot++
				if child := f.node.Children[slot]; child != nil {
					childPath := f.path.Push(byte(slot))
					stack = append(stack, &walkFrame{node: child, path: childPath})
					advanced = true
					break
				}
			}
			if !advanced && f.nextSlot >= 16 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

func appendNibbles(base, suffix nibbles.Nibbles) nibbles.Nibbles {
	out := base
	n := suffix.Len()
	for i := 0; i < n; i++ {
		out = out.Push(suffix.At(i))
	}
	if suffix.HasTerminator() {
		return appendNibblesTerminated(out)
	}
	return out
}

func appendNibblesTerminated(base nibbles.Nibbles) nibbles.Nibbles {
	raw := append(append([]byte(nil), base.Raw()...), nibbles.Terminator)
	return nibbles.FromHex(raw)
}

// nibblesToKeyBytes packs an even-length, terminated nibble sequence
// back into raw key bytes (a trie key is always a whole number of bytes).
func nibblesToKeyBytes(n nibbles.Nibbles) []byte {
	l := n.Len()
	out := make([]byte, l/2)
	for i := 0; i < l; i += 2 {
		out[i/2] = n.At(i)<<4 | n.At(i+1)
	}
	return out
}
