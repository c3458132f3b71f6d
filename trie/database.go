package trie

import (
	"errors"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

// ErrNodeNotFound is returned by NodeDatabase.Node when hash is absent
// from both the hot cache and the persistent store.
var ErrNodeNotFound = errors.New("trie: node not found in database")

// NodeReader retrieves trie node RLP by hash.
type NodeReader interface {
	Node(hash primitives.H256) ([]byte, error)
}

// NodeWriter stores trie node RLP by hash.
type NodeWriter interface {
	Put(hash primitives.H256, data []byte) error
}

// NodeDatabase is a two-layer store for hashed trie nodes: a bounded
// fastcache.Cache in front of a goleveldb persistent store, grounded on
// wyf-ACCEPT-eth2030/pkg/trie/database.go's dirty-map-in-front-of-disk
// shape but with the in-memory layer itself a real bounded LRU-ish
// cache (the teacher's own dependency tree pulls in fastcache
// transitively via go-ethereum; this module gives it a direct job).
// CommitTrie only ever writes nodes whose rlp_node embedding is the
// hashed (>=32-byte) form — inline nodes never have an independent
// database identity, mirroring go-ethereum's own "small nodes live
// only inside their parent's encoding" rule.
type NodeDatabase struct {
	hot  *fastcache.Cache
	disk *leveldb.DB
}

// NewNodeDatabase opens a NodeDatabase with a hot cache of the given
// byte budget in front of disk (a goleveldb handle opened by the
// caller, e.g. via leveldb.OpenFile). disk may be nil for a
// cache-only, non-persistent database.
func NewNodeDatabase(cacheBytes int, disk *leveldb.DB) *NodeDatabase {
	return &NodeDatabase{
		hot:  fastcache.New(cacheBytes),
		disk: disk,
	}
}

// Node retrieves a trie node's RLP by its keccak-256 hash, checking the
// hot cache first and falling back to disk.
func (db *NodeDatabase) Node(hash primitives.H256) ([]byte, error) {
	if hash.IsZero() {
		return nil, ErrNodeNotFound
	}
	if data, ok := db.hot.HasGet(nil, hash[:]); ok {
		return data, nil
	}
	if db.disk == nil {
		return nil, ErrNodeNotFound
	}
	data, err := db.disk.Get(nodeKey(hash), nil)
	if err != nil {
		return nil, ErrNodeNotFound
	}
	db.hot.Set(hash[:], data)
	return data, nil
}

// Put stores a trie node's RLP in both the hot cache and disk.
func (db *NodeDatabase) Put(hash primitives.H256, data []byte) error {
	db.hot.Set(hash[:], data)
	if db.disk == nil {
		return nil
	}
	return db.disk.Put(nodeKey(hash), data, nil)
}

func nodeKey(hash primitives.H256) []byte {
	key := make([]byte, 0, 1+primitives.HashLength)
	key = append(key, 't')
	return append(key, hash[:]...)
}

// CommitTrie walks every node reachable from t's root and stores the
// raw RLP of each one whose rlp_node embedding is hashed (i.e. 32 bytes
// or more) into db, keyed by that hash. It returns the trie's root
// hash. Nodes whose raw RLP is under 32 bytes are never given their
// own database entry: they only ever appear inlined inside a parent's
// encoding, so there is nothing to key them by.
func CommitTrie(t *Trie, db *NodeDatabase) (primitives.H256, error) {
	if t.root == nil {
		return t.RootHash(), nil
	}

	order := dfsOrder(t.root)
	embedded := make(map[*Node][]byte, len(order))
	for i := 0; i < len(order); i++ {
		cur := order[i]
		raw := buildRaw(cur, embedded)
		emb := embeddedRLP(raw)
		embedded[cur] = emb
		if len(emb) == primitives.HashLength+1 && emb[0] == 0xa0 {
			hash := primitives.BytesToH256(emb[1:])
			if err := db.Put(hash, raw); err != nil {
				return primitives.H256{}, err
			}
		}
	}
	return t.RootHash(), nil
}
