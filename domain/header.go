package domain

import "github.com/Liquid369/transaction-receipt-relayer/primitives"

// BlockHeader is the fork-aware Ethereum block header of spec.md §4.5:
// the 15 Legacy fields plus five fork-gated optionals, each introduced
// by a later EIP and each, once present, requiring every earlier
// optional to occupy its position (possibly with a placeholder byte).
type BlockHeader struct {
	ParentHash      primitives.H256
	OmmersHash      primitives.H256
	Beneficiary     primitives.H160
	StateRoot       primitives.H256
	TransactionsRoot primitives.H256
	ReceiptsRoot    primitives.H256
	LogsBloom       primitives.Bloom
	Difficulty      primitives.U256
	Number          primitives.U256
	GasLimit        primitives.U256
	GasUsed         primitives.U256
	Timestamp       uint64
	ExtraData       []byte
	MixHash         primitives.H256
	Nonce           uint64

	// BaseFeePerGas is EIP-1559 (London); present from London onward.
	BaseFeePerGas *primitives.U256

	// WithdrawalsRoot is EIP-4895 (Shanghai); present from Shanghai onward.
	WithdrawalsRoot *primitives.H256

	// BlobGasUsed/ExcessBlobGas are EIP-4844 (Cancun).
	BlobGasUsed   *uint64
	ExcessBlobGas *uint64

	// ParentBeaconBlockRoot is EIP-4788 (Cancun).
	ParentBeaconBlockRoot *primitives.H256
}

// Hash returns keccak256(rlp(h)), the block hash (spec.md §4.5).
func (h *BlockHeader) Hash() primitives.H256 {
	return hashEncodable(h)
}
