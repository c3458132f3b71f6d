package domain

import "github.com/Liquid369/transaction-receipt-relayer/primitives"

// TxType is the EIP-2718 typed-transaction envelope byte a receipt
// carries (spec.md §3).
type TxType uint8

const (
	TxTypeLegacy  TxType = 0
	TxTypeEIP2930 TxType = 1
	TxTypeEIP1559 TxType = 2
	TxTypeEIP4844 TxType = 3
)

// Receipt is the consensus-relevant content of a transaction receipt
// (spec.md §3): its type, success flag, cumulative gas used, and logs.
type Receipt struct {
	TxType            TxType
	Success           bool
	CumulativeGasUsed uint64
	Logs              []Log
}

// TransactionReceipt pairs a Receipt with its aggregate logs bloom and
// exposes the typed-envelope RLP of spec.md §4.6. The bloom is carried
// alongside the receipt (rather than derived) because the bridge only
// ever consumes receipts already fetched from an execution client.
type TransactionReceipt struct {
	Bloom   primitives.Bloom
	Receipt Receipt
}

// Hash returns keccak256(rlp(r)), per spec.md §4.6.
func (r TransactionReceipt) Hash() primitives.H256 {
	return hashEncodable(r)
}
