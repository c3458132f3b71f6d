package collaborators

import (
	"testing"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

func TestMemoryHeaderStore(t *testing.T) {
	s := NewMemoryHeaderStore()
	if _, ok := s.BlockHash(1, 100); ok {
		t.Fatal("BlockHash: expected ok=false for unknown block")
	}

	want := primitives.H256{0xaa}
	s.Set(1, 100, want)

	got, ok := s.BlockHash(1, 100)
	if !ok {
		t.Fatal("BlockHash: expected ok=true after Set")
	}
	if got != want {
		t.Errorf("BlockHash = %x, want %x", got, want)
	}

	if _, ok := s.BlockHash(2, 100); ok {
		t.Fatal("BlockHash: expected ok=false on a different chain id")
	}
}

func TestMemoryWatchedAddressRegistry(t *testing.T) {
	r := NewMemoryWatchedAddressRegistry()

	watched := primitives.H160{0x01}
	unwatched := primitives.H160{0x02}

	if r.IsWatched(1, watched) {
		t.Fatal("IsWatched: expected false before Add")
	}

	if err := r.Add(1, watched); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !r.IsWatched(1, watched) {
		t.Fatal("IsWatched: expected true after Add")
	}
	if r.IsWatched(1, unwatched) {
		t.Fatal("IsWatched: expected false for an address never added")
	}
	if r.IsWatched(2, watched) {
		t.Fatal("IsWatched: expected false on a different chain id")
	}

	addrs := r.Addresses(1)
	if len(addrs) != 1 || addrs[0] != watched {
		t.Fatalf("Addresses = %v, want [%x]", addrs, watched)
	}
}

func TestMemoryWatchedAddressRegistryAddIdempotent(t *testing.T) {
	r := NewMemoryWatchedAddressRegistry()
	addr := primitives.H160{0x01}

	if err := r.Add(1, addr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(1, addr); err != nil {
		t.Fatalf("Add (second): %v", err)
	}

	if got := r.Addresses(1); len(got) != 1 {
		t.Fatalf("Addresses = %v, want exactly one entry", got)
	}
}

func TestMemoryProcessedReceiptSet(t *testing.T) {
	s := NewMemoryProcessedReceiptSet()
	h := primitives.H256{0x01, 0x02}

	if s.IsProcessed(1, h) {
		t.Fatal("IsProcessed: expected false before MarkProcessed")
	}
	if err := s.MarkProcessed(1, h); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if !s.IsProcessed(1, h) {
		t.Fatal("IsProcessed: expected true after MarkProcessed")
	}
	if s.IsProcessed(2, h) {
		t.Fatal("IsProcessed: expected false on a different chain id")
	}
}
