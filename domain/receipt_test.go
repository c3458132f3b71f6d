package domain

import (
	"bytes"
	"testing"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

func sampleLog() Log {
	return Log{
		Address: primitives.HexToH160("0x0000000000000000000000000000000000000011"),
		Topics: []primitives.H256{
			primitives.HexToH256("0x00000000000000000000000000000000000000000000000000000000deadde"),
			primitives.HexToH256("0x00000000000000000000000000000000000000000000000000000000beefbe"),
		},
		Data: []byte{0x01, 0x00, 0xff},
	}
}

func TestLegacyReceiptEncodesAsPureListNoTypeByte(t *testing.T) {
	r := TransactionReceipt{
		Bloom: primitives.Bloom{},
		Receipt: Receipt{
			TxType:            TxTypeLegacy,
			Success:           true,
			CumulativeGasUsed: 1,
			Logs:              []Log{sampleLog()},
		},
	}

	var buf bytes.Buffer
	r.Encode(&buf)
	if buf.Len() != r.Length() {
		t.Fatalf("Length() = %d, actual encoded length = %d", r.Length(), buf.Len())
	}
	// A Legacy receipt's first byte must be an RLP list header (0xc0-0xff
	// range), never a standalone EIP-2718 type byte.
	if b := buf.Bytes()[0]; b < 0xc0 {
		t.Fatalf("Legacy receipt's first byte = %#x, want an RLP list header (>= 0xc0)", b)
	}
}

func TestNonLegacyReceiptsPrependExactlyOneTypeByte(t *testing.T) {
	for _, txType := range []TxType{TxTypeEIP2930, TxTypeEIP1559, TxTypeEIP4844} {
		r := TransactionReceipt{
			Bloom: primitives.Bloom{},
			Receipt: Receipt{
				TxType:            txType,
				Success:           true,
				CumulativeGasUsed: 42,
				Logs:              nil,
			},
		}

		var buf bytes.Buffer
		r.Encode(&buf)
		if buf.Len() != r.Length() {
			t.Fatalf("type %d: Length() = %d, actual encoded length = %d", txType, r.Length(), buf.Len())
		}
		if got := buf.Bytes()[0]; got != byte(txType) {
			t.Fatalf("type %d: first byte = %#x, want the type byte itself", txType, got)
		}
		// Stripping the single leading type byte must leave a complete,
		// well-formed RLP list (the payload), i.e. a list header byte.
		if payload := buf.Bytes()[1:]; len(payload) == 0 || payload[0] < 0xc0 {
			t.Fatalf("type %d: payload after the type byte does not start with an RLP list header", txType)
		}
	}
}

func TestReceiptHashChangesWithSuccessFlag(t *testing.T) {
	base := TransactionReceipt{
		Bloom: primitives.Bloom{},
		Receipt: Receipt{
			TxType:            TxTypeEIP1559,
			Success:           true,
			CumulativeGasUsed: 10,
		},
	}
	flipped := base
	flipped.Receipt.Success = false

	if base.Hash() == flipped.Hash() {
		t.Fatalf("expected differing Success to change the receipt hash")
	}
}

func TestReceiptHashIsDeterministic(t *testing.T) {
	r := TransactionReceipt{
		Bloom: primitives.Bloom{},
		Receipt: Receipt{
			TxType:            TxTypeEIP1559,
			Success:           true,
			CumulativeGasUsed: 10,
			Logs:              []Log{sampleLog()},
		},
	}
	if r.Hash() != r.Hash() {
		t.Fatalf("Hash() is not deterministic")
	}
}
