// Package domain implements the fork-aware Ethereum domain types of
// spec.md §3/§4.5/§4.6: BlockHeader, TransactionReceipt, Receipt and Log,
// each with the exact RLP shape the bridge must reproduce bit-for-bit.
//
// Grounded on core/types/log.go, header.go/header_rlp.go and
// receipt.go/receipt_rlp.go, reshaped against this module's own
// rlp.Encodable contract rather than the teacher's reflection-driven
// rlp.EncodeToBytes.
package domain

import (
	"bytes"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// Log is a single EVM log entry: an emitting contract address, an
// ordered sequence of indexed topics, and opaque data (spec.md §3).
type Log struct {
	Address primitives.H160
	Topics  []primitives.H256
	Data    []byte
}

func (l Log) payloadLen() int {
	n := l.Address.Length()
	n += rlp.ListHeaderLen(l.topicsPayloadLen()) + l.topicsPayloadLen()
	n += rlp.Bytes(l.Data).Length()
	return n
}

func (l Log) topicsPayloadLen() int {
	n := 0
	for _, t := range l.Topics {
		n += t.Length()
	}
	return n
}

// Length reports the RLP-encoded length of l: [address, topics, data].
func (l Log) Length() int {
	pl := l.payloadLen()
	return rlp.ListHeaderLen(pl) + pl
}

// Encode appends l's RLP encoding — [address, [topic...], data] — to buf.
func (l Log) Encode(buf *bytes.Buffer) {
	rlp.AppendListHeader(buf, l.payloadLen())
	l.Address.Encode(buf)
	rlp.AppendListHeader(buf, l.topicsPayloadLen())
	for _, t := range l.Topics {
		t.Encode(buf)
	}
	rlp.Bytes(l.Data).Encode(buf)
}

// Logs is an RLP-encodable ordered sequence of Log values.
type Logs []Log

func (ls Logs) payloadLen() int {
	n := 0
	for _, l := range ls {
		n += l.Length()
	}
	return n
}

func (ls Logs) Length() int {
	pl := ls.payloadLen()
	return rlp.ListHeaderLen(pl) + pl
}

func (ls Logs) Encode(buf *bytes.Buffer) {
	rlp.AppendListHeader(buf, ls.payloadLen())
	for _, l := range ls {
		l.Encode(buf)
	}
}
