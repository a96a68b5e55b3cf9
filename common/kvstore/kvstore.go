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
	"bytes"
	"context"
	"errors"
)

const (
	DefaultCF = CF("default")

	MemoryKVType = KVType("memory")
	BadgerKVType = KVType("badger")
)

var (
	ErrNotFound       = errors.New("key not found")
	ErrKVTypeNotFound = errors.New("kv type not found")
	ErrEmptyPath      = errors.New("path is empty")
	ErrStoreClosed    = errors.New("store closed")
)

type (
	CF     string
	KVType string

	// Store is an ordered key/value store. Column families are emulated by
	// prefixing keys, so List never crosses into another column.
	Store interface {
		Get(ctx context.Context, col CF, key []byte) (value []byte, err error)
		SetRaw(ctx context.Context, col CF, key []byte, value []byte) error
		Delete(ctx context.Context, col CF, key []byte) error
		// List iterates keys with the given prefix in order, starting at
		// marker (inclusive) when it is set.
		List(ctx context.Context, col CF, prefix []byte, marker []byte) ListReader
		NewWriteBatch() WriteBatch
		// Write applies the batch atomically.
		Write(ctx context.Context, batch WriteBatch) error
		Stats(ctx context.Context) (Stats, error)
		Close()
	}
	ListReader interface {
		// ReadNextCopy returns nil key and value when the iteration is done.
		ReadNextCopy() (key []byte, value []byte, err error)
		Close()
	}
	WriteBatch interface {
		Put(col CF, key, value []byte)
		Delete(col CF, key []byte)
		Count() int
		Close()
	}

	Stats struct {
		Keys uint64 `json:"keys"`
		Used uint64 `json:"used"`
	}
	Option struct {
		Sync             bool `json:"sync"`
		InMemory         bool `json:"in_memory"`
		BlockCacheSizeMB int  `json:"block_cache_size_mb"`
		IndexCacheSizeMB int  `json:"index_cache_size_mb"`
	}
)

func NewKVStore(ctx context.Context, path string, kvType KVType, option *Option) (Store, error) {
	if option == nil {
		option = &Option{}
	}
	switch kvType {
	case MemoryKVType:
		return newMemoryStore(ctx), nil
	case BadgerKVType:
		return newBadger(ctx, path, option)
	default:
		return nil, ErrKVTypeNotFound
	}
}

func (cf CF) String() string {
	return string(cf)
}

var keyInfix = []byte{0}

func encodeKey(col CF, key []byte) []byte {
	ret := make([]byte, 0, len(col)+len(keyInfix)+len(key))
	ret = append(ret, col...)
	ret = append(ret, keyInfix...)
	return append(ret, key...)
}

func decodeKey(col CF, raw []byte) []byte {
	return raw[len(col)+len(keyInfix):]
}

// listStart is the first encoded key a List over prefix/marker may return.
func listStart(col CF, prefix, marker []byte) []byte {
	if marker != nil && bytes.Compare(marker, prefix) > 0 {
		return encodeKey(col, marker)
	}
	return encodeKey(col, prefix)
}

type batchOp struct {
	col    CF
	key    []byte
	value  []byte
	delete bool
}

type writeBatch struct {
	ops []batchOp
}

func (w *writeBatch) Put(col CF, key, value []byte) {
	w.ops = append(w.ops, batchOp{col: col, key: key, value: value})
}

func (w *writeBatch) Delete(col CF, key []byte) {
	w.ops = append(w.ops, batchOp{col: col, key: key, delete: true})
}

func (w *writeBatch) Count() int {
	return len(w.ops)
}

func (w *writeBatch) Close() {
	w.ops = nil
}
