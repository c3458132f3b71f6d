package primitives

import (
	"bytes"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// U256 is a 256-bit unsigned integer whose RLP strips leading zero
// bytes (spec.md §3/§4.1); a zero value encodes as EmptyStringCode.
type U256 struct {
	inner uint256.Int
}

// U256FromUint64 returns the U256 value of n.
func U256FromUint64(n uint64) U256 {
	var u U256
	u.inner.SetUint64(n)
	return u
}

// U256FromBig returns the U256 value of n, truncating to 256 bits.
func U256FromBig(n *big.Int) U256 {
	var u U256
	u.inner.SetFromBig(n)
	return u
}

// Big returns u as a math/big.Int.
func (u U256) Big() *big.Int { return u.inner.ToBig() }

func (u U256) bytes32() [32]byte {
	return u.inner.Bytes32()
}

// minimalBytes returns the big-endian encoding of u with leading zero
// bytes stripped (the empty slice for zero).
func (u U256) minimalBytes() []byte {
	b := u.bytes32()
	i := 0
	for i < 32 && b[i] == 0 {
		i++
	}
	return b[i:]
}

func (u U256) Uint64() uint64 { return u.inner.Uint64() }

func (u U256) Encode(buf *bytes.Buffer) { rlp.AppendString(buf, u.minimalBytes()) }

func (u U256) Length() int {
	m := u.minimalBytes()
	if len(m) == 1 && m[0] < 0x80 {
		return 1
	}
	return rlp.StringHeaderLen(len(m)) + len(m)
}

func (u U256) String() string { return u.inner.Dec() }

// MarshalJSON renders u as a decimal string, so a U256 round-trips
// through JSON without truncation to a float64 (U256FromBig values
// regularly exceed float64's 53-bit mantissa).
func (u U256) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.inner.Dec() + `"`), nil
}

// UnmarshalJSON parses the decimal string MarshalJSON produces.
func (u *U256) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return u.inner.SetFromDecimal(s)
}
