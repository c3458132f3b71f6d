// Package nibbles implements Ethereum's hex-prefix (Yellow Paper
// Appendix C) nibble-path encoding, grounded on the free functions in
// wyf-ACCEPT-eth2030/pkg/trie/encoding.go (hexToCompact/compactToHex/
// keybytesToHex/hexToKeybytes/prefixLen/hasTerm), reshaped into methods
// on a named Nibbles type per spec.md §3/§4.2.
package nibbles

import "encoding/json"

// terminator is the sentinel nibble value (16) appended to a key's
// nibble expansion to mark "this path ends in a value", and returned by
// At(Len()) as the trie's end-of-path sentinel.
const terminator = 16

// Terminator is the sentinel nibble value (16) that At(Len()) returns,
// used by the trie builder to detect "key exhausted at this node".
const Terminator = terminator

// Nibbles is a half-byte sequence, optionally terminated.
type Nibbles struct {
	hex []byte // one nibble (0-15) per byte; last entry may be the terminator
}

// FromRaw expands raw bytes into nibbles, appending the terminator
// sentinel if isTerminator is set.
func FromRaw(b []byte, isTerminator bool) Nibbles {
	hex := make([]byte, 0, len(b)*2+1)
	for _, c := range b {
		hex = append(hex, c>>4, c&0x0f)
	}
	if isTerminator {
		hex = append(hex, terminator)
	}
	return Nibbles{hex: hex}
}

// FromHex wraps an already nibble-expanded slice (one nibble per byte,
// values 0-15, optionally ending in the terminator sentinel 16).
func FromHex(hex []byte) Nibbles {
	cp := make([]byte, len(hex))
	copy(cp, hex)
	return Nibbles{hex: cp}
}

// hasTerm reports whether hex ends in the terminator sentinel.
func hasTerm(hex []byte) bool {
	return len(hex) > 0 && hex[len(hex)-1] == terminator
}

// MarshalJSON encodes the raw nibble sequence, including any trailing
// terminator sentinel. Nibbles' only field is unexported, so without
// this the default encoding/json reflection would silently marshal
// every Nibbles as "{}" wherever one is embedded in a JSON-persisted
// proof (trie.MerkleProofNode.Prefix).
func (n Nibbles) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.hex)
}

func (n *Nibbles) UnmarshalJSON(data []byte) error {
	var hex []byte
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	n.hex = hex
	return nil
}

// HasTerminator reports whether n ends in the terminator sentinel.
func (n Nibbles) HasTerminator() bool { return hasTerm(n.hex) }

// Len reports the number of nibbles, excluding any trailing terminator.
func (n Nibbles) Len() int {
	if hasTerm(n.hex) {
		return len(n.hex) - 1
	}
	return len(n.hex)
}

// At returns the nibble at index i. At(Len()) returns the terminator
// sentinel (0x10), the convention the trie builder relies on to detect
// "key exhausted at this node".
func (n Nibbles) At(i int) byte {
	if i == n.Len() {
		return terminator
	}
	return n.hex[i]
}

// Push appends a single nibble value (0-15) and returns the extended
// Nibbles (the terminator, if present, is preserved at the tail).
func (n Nibbles) Push(nib byte) Nibbles {
	term := hasTerm(n.hex)
	body := n.hex
	if term {
		body = body[:len(body)-1]
	}
	out := make([]byte, 0, len(body)+2)
	out = append(out, body...)
	out = append(out, nib)
	if term {
		out = append(out, terminator)
	}
	return Nibbles{hex: out}
}

// Pop removes the last non-terminator nibble and returns the result.
func (n Nibbles) Pop() Nibbles {
	if n.Len() == 0 {
		return n
	}
	return n.Slice(0, n.Len()-1)
}

// Slice returns the sub-path [a,b) of non-terminator nibbles. The
// terminator is preserved only if b == n.Len() and n was terminated.
func (n Nibbles) Slice(a, b int) Nibbles {
	out := make([]byte, b-a)
	copy(out, n.hex[a:b])
	if b == n.Len() && hasTerm(n.hex) {
		out = append(out, terminator)
	}
	return Nibbles{hex: out}
}

// Offset returns n.Slice(a, n.Len()).
func (n Nibbles) Offset(a int) Nibbles {
	return n.Slice(a, n.Len())
}

// CommonPrefix returns the length of the shared nibble prefix of n and
// other (terminators are never compared).
func (n Nibbles) CommonPrefix(other Nibbles) int {
	max := n.Len()
	if other.Len() < max {
		max = other.Len()
	}
	i := 0
	for i < max && n.hex[i] == other.hex[i] {
		i++
	}
	return i
}

// Equal reports whether n and other represent the same nibble sequence,
// including terminator state.
func (n Nibbles) Equal(other Nibbles) bool {
	if len(n.hex) != len(other.hex) {
		return false
	}
	for i := range n.hex {
		if n.hex[i] != other.hex[i] {
			return false
		}
	}
	return true
}

// Raw returns the raw nibble-expanded bytes (one nibble per byte,
// including any trailing terminator), used for external key echoing
// (spec.md §4.2's "Raw" encoding).
func (n Nibbles) Raw() []byte {
	out := make([]byte, len(n.hex))
	copy(out, n.hex)
	return out
}

// Compact returns the hex-prefix (compact) encoding used for trie-node
// RLP: first byte (is_terminator<<5)|(odd<<4)|(odd?first_nibble:0),
// followed by pairs of nibbles packed high-low. leaf overrides whether
// the leaf flag bit is set (independent from whether n itself carries a
// trailing terminator nibble), matching hexToCompact's terminator
// parameter.
func (n Nibbles) Compact(leaf bool) []byte {
	hex := n.hex
	if hasTerm(hex) {
		hex = hex[:len(hex)-1]
	}
	odd := len(hex) % 2
	buflen := len(hex)/2 + 1
	buf := make([]byte, buflen)
	buf[0] = byte(oddFlag(odd) | leafFlag(leaf))
	if odd == 1 {
		buf[0] |= hex[0]
		hex = hex[1:]
	}
	decodeNibbles(hex, buf[1:])
	return buf
}

func oddFlag(odd int) int {
	if odd == 1 {
		return 0x10
	}
	return 0
}

func leafFlag(leaf bool) int {
	if leaf {
		return 0x20
	}
	return 0
}

func decodeNibbles(nib []byte, bytes []byte) {
	for bi, ni := 0, 0; ni < len(nib); bi, ni = bi+1, ni+2 {
		bytes[bi] = nib[ni]<<4 | nib[ni+1]
	}
}

// FromCompact decodes a hex-prefix-encoded byte slice back into
// Nibbles (terminated iff the leaf flag was set) and reports that leaf
// flag separately.
func FromCompact(compact []byte) (n Nibbles, leaf bool) {
	if len(compact) == 0 {
		return Nibbles{}, false
	}
	leaf = compact[0]&0x20 != 0
	return Nibbles{hex: compactToHex(compact)}, leaf
}

// compactToHex mirrors wyf-ACCEPT-eth2030/pkg/trie/encoding.go's
// compactToHex: nibble-expand the compact bytes (which appends a
// terminator unconditionally), drop that terminator for non-leaf
// (extension) paths, then chop the flag nibble(s) off the front.
func compactToHex(compact []byte) []byte {
	base := keybytesToHexRaw(compact)
	if base[0] < 2 {
		base = base[:len(base)-1]
	}
	chop := 2 - base[0]%2
	return base[chop:]
}

func keybytesToHexRaw(b []byte) []byte {
	l := len(b)*2 + 1
	out := make([]byte, l)
	for i, c := range b {
		out[i*2] = c >> 4
		out[i*2+1] = c & 0x0f
	}
	out[l-1] = terminator
	return out
}
