package relayer

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/Liquid369/transaction-receipt-relayer/domain"
	"github.com/Liquid369/transaction-receipt-relayer/primitives"
)

const (
	blockKeyPrefix     = "block:"
	processedSetPrefix = "processed:"
)

// DB is the relayer's goleveldb-backed persistence layer: a cursor over
// fetched-but-not-yet-processed blocks, plus a ProcessedReceiptSet.
// Grounded on original_source/relayer/src/db.rs's blocks table
// (block_height, block_hash, block_header, is_processed), here a
// single key-value store keyed by big-endian block height rather than
// a SQL table (this module's persistent store is goleveldb throughout,
// per SPEC_FULL.md Part C, not sqlite).
type DB struct {
	db *leveldb.DB
}

// storedBlock is the JSON record insertBlock persists per height,
// mirroring db.rs's insert_block row shape.
type storedBlock struct {
	BlockHash   primitives.H256     `json:"block_hash"`
	Header      *domain.BlockHeader `json:"block_header"`
	IsProcessed bool                `json:"is_processed"`
}

// Open opens (or creates) the goleveldb database at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("relayer: opening database at %s: %w", path, err)
	}
	return &DB{db: ldb}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func blockKey(height uint64) []byte {
	key := make([]byte, len(blockKeyPrefix)+8)
	n := copy(key, blockKeyPrefix)
	binary.BigEndian.PutUint64(key[n:], height)
	return key
}

// InsertBlock records a fetched block, mirroring db.rs's insert_block:
// a block the bloom filter never flagged is recorded already-processed
// (there is nothing left to do with it), matching
// "is_processed = !bloom_positive".
func (d *DB) InsertBlock(height uint64, hash primitives.H256, header *domain.BlockHeader, bloomPositive bool) error {
	rec := storedBlock{BlockHash: hash, Header: header, IsProcessed: !bloomPositive}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("relayer: encoding block %d: %w", height, err)
	}
	if err := d.db.Put(blockKey(height), data, nil); err != nil {
		return fmt.Errorf("relayer: storing block %d: %w", height, err)
	}
	return nil
}

// LatestFetchedHeight returns the highest height for which a block has
// ever been inserted, mirroring db.rs's select_latest_fetched_block_height.
// ok is false if the block table is empty (a fresh database).
func (d *DB) LatestFetchedHeight() (height uint64, ok bool, err error) {
	iter := d.db.NewIterator(util.BytesPrefix([]byte(blockKeyPrefix)), nil)
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return 0, false, fmt.Errorf("relayer: iterating blocks: %w", err)
		}
		return 0, false, nil
	}
	return binary.BigEndian.Uint64(iter.Key()[len(blockKeyPrefix):]), true, nil
}

// ProcessedBlock pairs a stored block with the height it was filed
// under, the tuple select_blocks_to_process returns in the original.
type ProcessedBlock struct {
	Height uint64
	Hash   primitives.H256
	Header *domain.BlockHeader
}

// SelectBlocksToProcess returns up to limit unprocessed blocks with
// height strictly below maxBlock, in ascending height order, mirroring
// db.rs's select_blocks_to_process.
func (d *DB) SelectBlocksToProcess(maxBlock, limit uint64) ([]ProcessedBlock, error) {
	iter := d.db.NewIterator(util.BytesPrefix([]byte(blockKeyPrefix)), nil)
	defer iter.Release()

	var out []ProcessedBlock
	for iter.Next() {
		height := binary.BigEndian.Uint64(iter.Key()[len(blockKeyPrefix):])
		if height >= maxBlock {
			continue
		}
		var rec storedBlock
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("relayer: decoding block %d: %w", height, err)
		}
		if rec.IsProcessed {
			continue
		}
		out = append(out, ProcessedBlock{Height: height, Hash: rec.BlockHash, Header: rec.Header})
		if uint64(len(out)) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("relayer: iterating blocks: %w", err)
	}
	return out, nil
}

// MarkBlockProcessed flips a stored block's is_processed flag,
// mirroring db.rs's mark_block_processed.
func (d *DB) MarkBlockProcessed(height uint64) error {
	key := blockKey(height)
	data, err := d.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("relayer: block %d not found", height)
	}
	if err != nil {
		return fmt.Errorf("relayer: loading block %d: %w", height, err)
	}
	var rec storedBlock
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("relayer: decoding block %d: %w", height, err)
	}
	rec.IsProcessed = true
	data, err = json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("relayer: encoding block %d: %w", height, err)
	}
	return d.db.Put(key, data, nil)
}

func processedKey(chainID uint64, receiptHash primitives.H256) []byte {
	key := make([]byte, 0, len(processedSetPrefix)+8+primitives.HashLength)
	key = append(key, processedSetPrefix...)
	var chainBuf [8]byte
	binary.BigEndian.PutUint64(chainBuf[:], chainID)
	key = append(key, chainBuf[:]...)
	return append(key, receiptHash[:]...)
}

// IsProcessed implements collaborators.ProcessedReceiptSet.
func (d *DB) IsProcessed(chainID uint64, receiptHash primitives.H256) bool {
	_, err := d.db.Get(processedKey(chainID, receiptHash), nil)
	return err == nil
}

// MarkProcessed implements collaborators.ProcessedReceiptSet.
func (d *DB) MarkProcessed(chainID uint64, receiptHash primitives.H256) error {
	if err := d.db.Put(processedKey(chainID, receiptHash), []byte{1}, nil); err != nil {
		return fmt.Errorf("relayer: marking receipt %s processed: %w", receiptHash.Hex(), err)
	}
	return nil
}
