// Package txstore keeps mock transactions in LevelDB, keyed by transaction
// hash, so scripts can be rerun without the original fixture files.
package txstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/log"
	"github.com/colorfulnotion/ckbjs/types"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var ErrNotFound = errors.New("txstore: transaction not found")

var txPrefix = []byte("tx:")

// Store is safe for concurrent use; LevelDB does its own locking.
type Store struct {
	db      *leveldb.DB
	logging string
}

// Open opens or creates a store at path. An empty path keeps everything in
// memory.
func Open(path string) (*Store, error) {
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %q: %w", path, err)
	}
	log.Debug(log.StoreMonitoring, "store opened", "path", path)
	return &Store{db: db, logging: log.StoreMonitoring}, nil
}

func OpenMem() (*Store, error) {
	return Open("")
}

func txKey(hash common.Hash) []byte {
	return append(append([]byte{}, txPrefix...), hash.Bytes()...)
}

// Put validates and stores mtx under its transaction hash.
func (s *Store) Put(mtx *types.MockTransaction) (common.Hash, error) {
	if err := mtx.Validate(); err != nil {
		return common.Hash{}, err
	}
	hash := mtx.Tx.Hash()
	value, err := json.Marshal(mtx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode %s: %w", hash.String_short(), err)
	}
	if err := s.db.Put(txKey(hash), value, nil); err != nil {
		return common.Hash{}, fmt.Errorf("Put %s: %w", hash.String_short(), err)
	}
	log.Debug(s.logging, "stored tx", "hash", hash.String_short(), "bytes", len(value))
	return hash, nil
}

func (s *Store) Get(hash common.Hash) (*types.MockTransaction, error) {
	data, err := s.db.Get(txKey(hash), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("Get %s: %w", hash.String_short(), err)
	}
	return types.DecodeMockTransaction(bytes.NewReader(data))
}

func (s *Store) Has(hash common.Hash) (bool, error) {
	return s.db.Has(txKey(hash), nil)
}

func (s *Store) Delete(hash common.Hash) error {
	return s.db.Delete(txKey(hash), nil)
}

// List returns the hashes of every stored transaction in key order.
func (s *Store) List() ([]common.Hash, error) {
	iter := s.db.NewIterator(util.BytesPrefix(txPrefix), nil)
	defer iter.Release()

	var hashes []common.Hash
	for iter.Next() {
		key := iter.Key()
		if len(key) != len(txPrefix)+common.HashLength {
			continue
		}
		hashes = append(hashes, common.BytesToHash(key[len(txPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return hashes, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
