package collaborators

import (
	"hash/fnv"
	"sync"

	"github.com/holiman/bloomfilter/v2"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

// MemoryHeaderStore is an in-memory HeaderStore, suitable for tests and
// for cmd/eventproofd's "watch" subcommand, which starts it empty rather
// than filling it from a running finality follower.
type MemoryHeaderStore struct {
	mu      sync.RWMutex
	byChain map[uint64]map[uint64]primitives.H256
}

func NewMemoryHeaderStore() *MemoryHeaderStore {
	return &MemoryHeaderStore{byChain: make(map[uint64]map[uint64]primitives.H256)}
}

func (s *MemoryHeaderStore) Set(chainID, blockNumber uint64, hash primitives.H256) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byChain[chainID]
	if !ok {
		m = make(map[uint64]primitives.H256)
		s.byChain[chainID] = m
	}
	m[blockNumber] = hash
}

func (s *MemoryHeaderStore) BlockHash(chainID, blockNumber uint64) (primitives.H256, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byChain[chainID]
	if !ok {
		return primitives.H256{}, false
	}
	hash, ok := m[blockNumber]
	return hash, ok
}

// bloomExpectedItems/bloomFalsePositiveRate size the pre-filter: a
// watch-list is expected to hold at most a few thousand addresses, and
// a 1% false-positive rate trades a handful of avoidable exact-set
// lookups for a much smaller filter than tracking every address bit-
// exactly up front.
const (
	bloomExpectedItems     = 4096
	bloomFalsePositiveRate = 0.01
)

// MemoryWatchedAddressRegistry layers a bloomfilter.Filter pre-filter
// ahead of an exact per-chain address set, grounded on the bloom-then-
// verify false-positive handling in
// original_source/relayer/src/bloom_processor.rs: a negative from the
// filter is certain (the address is not watched), a positive still
// needs the exact set (or, upstream, the real receipt logs) checked
// before anything is treated as a match.
type MemoryWatchedAddressRegistry struct {
	mu      sync.RWMutex
	exact   map[uint64]map[primitives.H160]struct{}
	ordered map[uint64][]primitives.H160
	filters map[uint64]*bloomfilter.Filter
}

func NewMemoryWatchedAddressRegistry() *MemoryWatchedAddressRegistry {
	return &MemoryWatchedAddressRegistry{
		exact:   make(map[uint64]map[primitives.H160]struct{}),
		ordered: make(map[uint64][]primitives.H160),
		filters: make(map[uint64]*bloomfilter.Filter),
	}
}

// Add registers addr as watched on chainID. The error return surfaces
// only a bloomfilter parameter-construction failure, which cannot
// happen with the fixed constants above; callers may safely ignore it
// once a registry has successfully added its first address per chain.
func (r *MemoryWatchedAddressRegistry) Add(chainID uint64, addr primitives.H160) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.exact[chainID]
	if !ok {
		set = make(map[primitives.H160]struct{})
		r.exact[chainID] = set
	}
	if _, already := set[addr]; already {
		return nil
	}
	set[addr] = struct{}{}
	r.ordered[chainID] = append(r.ordered[chainID], addr)

	filter, ok := r.filters[chainID]
	if !ok {
		var err error
		filter, err = bloomfilter.NewOptimal(bloomExpectedItems, bloomFalsePositiveRate)
		if err != nil {
			return err
		}
		r.filters[chainID] = filter
	}
	filter.Add(addrHash(addr))
	return nil
}

func (r *MemoryWatchedAddressRegistry) Addresses(chainID uint64) []primitives.H160 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]primitives.H160, len(r.ordered[chainID]))
	copy(out, r.ordered[chainID])
	return out
}

// IsWatched reports whether addr is registered on chainID. The bloom
// filter is consulted first: a miss there is certain, so the exact set
// is only ever walked to resolve a filter hit.
func (r *MemoryWatchedAddressRegistry) IsWatched(chainID uint64, addr primitives.H160) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter, ok := r.filters[chainID]
	if !ok || !filter.Contains(addrHash(addr)) {
		return false
	}
	_, exact := r.exact[chainID][addr]
	return exact
}

// addrHash returns the FNV-1a 64-bit hash of addr, the hash.Hash64
// bloomfilter.Filter.Add/Contains require.
func addrHash(addr primitives.H160) *fnvHash {
	h := fnv.New64a()
	h.Write(addr[:])
	return &fnvHash{sum: h.Sum64()}
}

// fnvHash adapts a precomputed 64-bit sum to hash.Hash64 so it can be
// passed to bloomfilter.Filter without rehashing on every call.
type fnvHash struct{ sum uint64 }

func (h *fnvHash) Write(p []byte) (int, error) { return len(p), nil }
func (h *fnvHash) Sum(b []byte) []byte         { return b }
func (h *fnvHash) Reset()                      {}
func (h *fnvHash) Size() int                   { return 8 }
func (h *fnvHash) BlockSize() int              { return 8 }
func (h *fnvHash) Sum64() uint64               { return h.sum }

// MemoryProcessedReceiptSet is an in-memory ProcessedReceiptSet.
type MemoryProcessedReceiptSet struct {
	mu        sync.RWMutex
	processed map[uint64]map[primitives.H256]struct{}
}

func NewMemoryProcessedReceiptSet() *MemoryProcessedReceiptSet {
	return &MemoryProcessedReceiptSet{processed: make(map[uint64]map[primitives.H256]struct{})}
}

func (s *MemoryProcessedReceiptSet) IsProcessed(chainID uint64, receiptHash primitives.H256) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[chainID][receiptHash]
	return ok
}

func (s *MemoryProcessedReceiptSet) MarkProcessed(chainID uint64, receiptHash primitives.H256) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.processed[chainID]
	if !ok {
		set = make(map[primitives.H256]struct{})
		s.processed[chainID] = set
	}
	set[receiptHash] = struct{}{}
	return nil
}
