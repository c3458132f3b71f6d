package domain

import (
	"bytes"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
	"github.com/Liquid369/transaction-receipt-relayer/rlp"
)

// rawByte is a single already-framed RLP byte, used for the placeholder
// bytes spec.md §4.5/§9 requires between a present optional field and an
// absent earlier one.
type rawByte byte

func (b rawByte) Encode(buf *bytes.Buffer) { buf.WriteByte(byte(b)) }
func (rawByte) Length() int                { return 1 }

// optionalSlots returns, in canonical order, the five fork-gated
// optional fields as Encodables — real values where present, otherwise
// a placeholder byte. Fields after the last present one are omitted
// entirely; fields before it are never omitted (spec.md §4.5's
// positional-schema rule). The blob-gas pair (slots 3 and 4) places
// EMPTY_LIST_CODE rather than EMPTY_STRING_CODE when it needs a
// placeholder — a quirk preserved from the reference encoder (spec.md §9).
func (h *BlockHeader) optionalSlots() []rlp.Encodable {
	last := 0
	if h.BaseFeePerGas != nil {
		last = 1
	}
	if h.WithdrawalsRoot != nil {
		last = 2
	}
	if h.BlobGasUsed != nil {
		last = 3
	}
	if h.ExcessBlobGas != nil {
		last = 4
	}
	if h.ParentBeaconBlockRoot != nil {
		last = 5
	}

	var slots []rlp.Encodable
	if last >= 1 {
		if h.BaseFeePerGas != nil {
			slots = append(slots, *h.BaseFeePerGas)
		} else {
			slots = append(slots, rawByte(rlp.EmptyStringCode))
		}
	}
	if last >= 2 {
		if h.WithdrawalsRoot != nil {
			slots = append(slots, *h.WithdrawalsRoot)
		} else {
			slots = append(slots, rawByte(rlp.EmptyStringCode))
		}
	}
	if last >= 3 {
		if h.BlobGasUsed != nil {
			slots = append(slots, rlp.Uint64(*h.BlobGasUsed))
		} else {
			slots = append(slots, rawByte(rlp.EmptyListCode))
		}
	}
	if last >= 4 {
		if h.ExcessBlobGas != nil {
			slots = append(slots, rlp.Uint64(*h.ExcessBlobGas))
		} else {
			slots = append(slots, rawByte(rlp.EmptyListCode))
		}
	}
	if last >= 5 {
		if h.ParentBeaconBlockRoot != nil {
			slots = append(slots, *h.ParentBeaconBlockRoot)
		} else {
			slots = append(slots, rawByte(rlp.EmptyStringCode))
		}
	}
	return slots
}

// fields returns the header's full ordered field list: the 15 Legacy
// fields followed by whichever fork-gated optionals apply.
func (h *BlockHeader) fields() []rlp.Encodable {
	fields := []rlp.Encodable{
		h.ParentHash,
		h.OmmersHash,
		h.Beneficiary,
		h.StateRoot,
		h.TransactionsRoot,
		h.ReceiptsRoot,
		h.LogsBloom,
		h.Difficulty,
		h.Number,
		h.GasLimit,
		h.GasUsed,
		rlp.Uint64(h.Timestamp),
		rlp.Bytes(h.ExtraData),
		h.MixHash,
		primitives.Uint64ToH64(h.Nonce),
	}
	return append(fields, h.optionalSlots()...)
}

// Length reports the RLP-encoded length of h.
func (h *BlockHeader) Length() int {
	pl := 0
	for _, f := range h.fields() {
		pl += f.Length()
	}
	return rlp.ListHeaderLen(pl) + pl
}

// Encode appends h's RLP encoding to buf: an RLP list of the 15 Legacy
// fields followed by whichever fork-gated optionals apply, per spec.md §4.5.
func (h *BlockHeader) Encode(buf *bytes.Buffer) {
	fields := h.fields()
	pl := 0
	for _, f := range fields {
		pl += f.Length()
	}
	rlp.AppendListHeader(buf, pl)
	for _, f := range fields {
		f.Encode(buf)
	}
}
