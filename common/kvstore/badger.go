// Copyright 2023 The Cuber Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package kvstore

import (
	"context"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	defaultBlockCacheSizeMB = 256
	defaultIndexCacheSizeMB = 128
)

type badgerStore struct {
	db *badger.DB
}

func newBadger(ctx context.Context, path string, option *Option) (Store, error) {
	span := trace.SpanFromContextSafe(ctx)
	if path == "" && !option.InMemory {
		return nil, ErrEmptyPath
	}

	opts := badger.DefaultOptions(path)
	if option.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	blockCacheMB := option.BlockCacheSizeMB
	if blockCacheMB <= 0 {
		blockCacheMB = defaultBlockCacheSizeMB
	}
	indexCacheMB := option.IndexCacheSizeMB
	if indexCacheMB <= 0 {
		indexCacheMB = defaultIndexCacheSizeMB
	}
	opts = opts.WithLoggingLevel(badger.WARNING).
		WithCompression(options.None).
		WithSyncWrites(option.Sync).
		WithBlockCacheSize(int64(blockCacheMB) << 20).
		WithIndexCacheSize(int64(indexCacheMB) << 20)

	db, err := badger.Open(opts)
	if err != nil {
		span.Errorf("open badger at %s failed: %s", path, err)
		return nil, errors.Info(err, "open badger failed")
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Get(ctx context.Context, col CF, key []byte) (value []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(col, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	return value, err
}

func (s *badgerStore) SetRaw(ctx context.Context, col CF, key []byte, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(col, key), value)
	})
}

func (s *badgerStore) Delete(ctx context.Context, col CF, key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(encodeKey(col, key))
	})
}

func (s *badgerStore) List(ctx context.Context, col CF, prefix []byte, marker []byte) ListReader {
	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = encodeKey(col, prefix)
	it := txn.NewIterator(opts)
	it.Seek(listStart(col, prefix, marker))
	return &badgerListReader{col: col, txn: txn, it: it, prefix: opts.Prefix}
}

func (s *badgerStore) NewWriteBatch() WriteBatch {
	return &writeBatch{}
}

func (s *badgerStore) Write(ctx context.Context, batch WriteBatch) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, op := range batch.(*writeBatch).ops {
			var err error
			if op.delete {
				err = txn.Delete(encodeKey(op.col, op.key))
			} else {
				err = txn.Set(encodeKey(op.col, op.key), op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) Stats(ctx context.Context) (Stats, error) {
	lsm, vlog := s.db.Size()
	stats := Stats{Used: uint64(lsm + vlog)}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			stats.Keys++
		}
		return nil
	})
	return stats, err
}

func (s *badgerStore) Close() {
	if err := s.db.Close(); err != nil {
		span, _ := trace.StartSpanFromContext(context.Background(), "")
		span.Warnf("close badger failed: %s", err)
	}
}

type badgerListReader struct {
	col    CF
	txn    *badger.Txn
	it     *badger.Iterator
	prefix []byte
}

func (lr *badgerListReader) ReadNextCopy() ([]byte, []byte, error) {
	if !lr.it.ValidForPrefix(lr.prefix) {
		return nil, nil, nil
	}
	item := lr.it.Item()
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, nil, err
	}
	key := decodeKey(lr.col, item.KeyCopy(nil))
	lr.it.Next()
	return key, value, nil
}

func (lr *badgerListReader) Close() {
	lr.it.Close()
	lr.txn.Discard()
}
