package domain

import (
	"bytes"

	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// payloadFields returns the receipt's 4-element consensus payload:
// [success, cumulative_gas_used, bloom, logs], per spec.md §4.6.
func (r TransactionReceipt) payloadFields() []rlp.Encodable {
	return []rlp.Encodable{
		rlp.Bool(r.Receipt.Success),
		rlp.Uint64(r.Receipt.CumulativeGasUsed),
		r.Bloom,
		Logs(r.Receipt.Logs),
	}
}

func (r TransactionReceipt) payloadLen() int {
	n := 0
	for _, f := range r.payloadFields() {
		n += f.Length()
	}
	return n
}

// Length reports the RLP-encoded length of the typed envelope: the
// payload's list encoding, plus one leading type byte for every
// non-Legacy TxType (spec.md §4.6).
func (r TransactionReceipt) Length() int {
	pl := r.payloadLen()
	n := rlp.ListHeaderLen(pl) + pl
	if r.Receipt.TxType != TxTypeLegacy {
		n++
	}
	return n
}

// Encode appends r's typed-envelope RLP to buf: a Legacy receipt emits
// its payload list directly; any other type emits a single leading type
// byte followed by the same payload's RLP, with no outer wrapping
// (spec.md §4.6 — the Legacy-framing Open Question of spec.md §9 is
// resolved here by following that rule literally).
func (r TransactionReceipt) Encode(buf *bytes.Buffer) {
	if r.Receipt.TxType != TxTypeLegacy {
		buf.WriteByte(byte(r.Receipt.TxType))
	}
	pl := r.payloadLen()
	rlp.AppendListHeader(buf, pl)
	for _, f := range r.payloadFields() {
		f.Encode(buf)
	}
}
