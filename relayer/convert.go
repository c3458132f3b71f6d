package relayer

import (
	"errors"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

// errInvalidTxType mirrors original_source/relayer/src/common.rs's
// "invalid tx type" conversion failure.
var errInvalidTxType = errors.New("relayer: invalid transaction type")

// ConvertHeader rebuilds a domain.BlockHeader from a go-ethereum
// types.Header fetched over RPC, mirroring
// original_source/relayer/src/common.rs's convert_ethers_block (there
// converting an ethers-rs Block into types::BlockHeader; here
// converting go-ethereum's own Header, since this module already
// depends on go-ethereum directly rather than a second Ethereum RPC
// binding).
func ConvertHeader(h *gethtypes.Header) *domain.BlockHeader {
	out := &domain.BlockHeader{
		ParentHash:       primitives.BytesToH256(h.ParentHash[:]),
		OmmersHash:       primitives.BytesToH256(h.UncleHash[:]),
		Beneficiary:      primitives.BytesToH160(h.Coinbase[:]),
		StateRoot:        primitives.BytesToH256(h.Root[:]),
		TransactionsRoot: primitives.BytesToH256(h.TxHash[:]),
		ReceiptsRoot:     primitives.BytesToH256(h.ReceiptHash[:]),
		LogsBloom:        primitives.Bloom(h.Bloom),
		Difficulty:       primitives.U256FromBig(h.Difficulty),
		Number:           primitives.U256FromBig(h.Number),
		GasLimit:         primitives.U256FromUint64(h.GasLimit),
		GasUsed:          primitives.U256FromUint64(h.GasUsed),
		Timestamp:        h.Time,
		ExtraData:        append([]byte(nil), h.Extra...),
		MixHash:          primitives.BytesToH256(h.MixDigest[:]),
		Nonce:            h.Nonce.Uint64(),
	}

	if h.BaseFee != nil {
		bf := primitives.U256FromBig(h.BaseFee)
		out.BaseFeePerGas = &bf
	}
	if h.WithdrawalsHash != nil {
		wr := primitives.BytesToH256(h.WithdrawalsHash[:])
		out.WithdrawalsRoot = &wr
	}
	if h.BlobGasUsed != nil {
		v := *h.BlobGasUsed
		out.BlobGasUsed = &v
	}
	if h.ExcessBlobGas != nil {
		v := *h.ExcessBlobGas
		out.ExcessBlobGas = &v
	}
	if h.ParentBeaconRoot != nil {
		pbr := primitives.BytesToH256(h.ParentBeaconRoot[:])
		out.ParentBeaconBlockRoot = &pbr
	}

	return out
}

// txTypeFromByte maps an EIP-2718 transaction type byte to TxType,
// mirroring original_source/relayer/src/common.rs's TxType::from_u64.
func txTypeFromByte(b uint8) (domain.TxType, bool) {
	switch domain.TxType(b) {
	case domain.TxTypeLegacy, domain.TxTypeEIP2930, domain.TxTypeEIP1559, domain.TxTypeEIP4844:
		return domain.TxType(b), true
	default:
		return 0, false
	}
}

// ConvertReceipt rebuilds a domain.TransactionReceipt from a
// go-ethereum types.Receipt fetched over RPC, mirroring
// original_source/relayer/src/common.rs's convert_ethers_receipt.
func ConvertReceipt(r *gethtypes.Receipt) (domain.TransactionReceipt, error) {
	txType, ok := txTypeFromByte(r.Type)
	if !ok {
		return domain.TransactionReceipt{}, errInvalidTxType
	}

	logs := make([]domain.Log, len(r.Logs))
	for i, l := range r.Logs {
		topics := make([]primitives.H256, len(l.Topics))
		for j, t := range l.Topics {
			topics[j] = primitives.BytesToH256(t[:])
		}
		logs[i] = domain.Log{
			Address: primitives.BytesToH160(l.Address[:]),
			Topics:  topics,
			Data:    append([]byte(nil), l.Data...),
		}
	}

	return domain.TransactionReceipt{
		Bloom: primitives.Bloom(r.Bloom),
		Receipt: domain.Receipt{
			TxType:            txType,
			Success:           r.Status == gethtypes.ReceiptStatusSuccessful,
			CumulativeGasUsed: r.CumulativeGasUsed,
			Logs:              logs,
		},
	}, nil
}
