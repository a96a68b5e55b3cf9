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
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metabench/util"
)

type testEg struct {
	engine Store
	path   string
}

func newEngine(t *testing.T, kvType KVType) *testEg {
	path, err := util.GenTmpPath()
	require.NoError(t, err)
	engine, err := NewKVStore(context.TODO(), path, kvType, &Option{Sync: true})
	require.NoError(t, err)
	return &testEg{engine: engine, path: path}
}

func (eg *testEg) close() {
	eg.engine.Close()
	os.RemoveAll(eg.path)
}

func forEachEngine(t *testing.T, f func(t *testing.T, eg *testEg)) {
	for _, kvType := range []KVType{MemoryKVType, BadgerKVType} {
		t.Run(string(kvType), func(t *testing.T) {
			eg := newEngine(t, kvType)
			defer eg.close()
			f(t, eg)
		})
	}
}

func readAll(t *testing.T, lr ListReader) (keys []string) {
	defer lr.Close()
	for {
		k, v, err := lr.ReadNextCopy()
		require.NoError(t, err)
		if k == nil {
			return keys
		}
		require.NotNil(t, v)
		keys = append(keys, string(k))
	}
}

func TestNewKVStore(t *testing.T) {
	ctx := context.TODO()
	_, err := NewKVStore(ctx, "", KVType("rocksdb"), nil)
	require.ErrorIs(t, err, ErrKVTypeNotFound)

	_, err = NewKVStore(ctx, "", BadgerKVType, nil)
	require.ErrorIs(t, err, ErrEmptyPath)

	store, err := NewKVStore(ctx, "", BadgerKVType, &Option{InMemory: true})
	require.NoError(t, err)
	store.Close()
}

func TestInstance_SetGetRaw(t *testing.T) {
	forEachEngine(t, func(t *testing.T, eg *testEg) {
		ctx := context.TODO()
		k := []byte("key1")
		v := []byte("value1")
		require.NoError(t, eg.engine.SetRaw(ctx, DefaultCF, k, v))

		v1, err := eg.engine.Get(ctx, DefaultCF, k)
		require.NoError(t, err)
		require.Equal(t, v, v1)

		_, err = eg.engine.Get(ctx, CF("other"), k)
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, eg.engine.Delete(ctx, DefaultCF, k))
		_, err = eg.engine.Get(ctx, DefaultCF, k)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInstance_List(t *testing.T) {
	forEachEngine(t, func(t *testing.T, eg *testEg) {
		ctx := context.TODO()
		for i := 0; i < 5; i++ {
			require.NoError(t, eg.engine.SetRaw(ctx, DefaultCF, []byte("/a/"+strconv.Itoa(i)), []byte("v")))
		}
		require.NoError(t, eg.engine.SetRaw(ctx, DefaultCF, []byte("/b/0"), []byte("v")))
		require.NoError(t, eg.engine.SetRaw(ctx, CF("other"), []byte("/a/9"), []byte("v")))

		keys := readAll(t, eg.engine.List(ctx, DefaultCF, []byte("/a/"), nil))
		require.Equal(t, []string{"/a/0", "/a/1", "/a/2", "/a/3", "/a/4"}, keys)

		keys = readAll(t, eg.engine.List(ctx, DefaultCF, []byte("/a/"), []byte("/a/3")))
		require.Equal(t, []string{"/a/3", "/a/4"}, keys)

		keys = readAll(t, eg.engine.List(ctx, DefaultCF, nil, nil))
		require.Len(t, keys, 6)

		keys = readAll(t, eg.engine.List(ctx, DefaultCF, []byte("/c/"), nil))
		require.Empty(t, keys)
	})
}

func TestWrite(t *testing.T) {
	forEachEngine(t, func(t *testing.T, eg *testEg) {
		ctx := context.TODO()
		require.NoError(t, eg.engine.SetRaw(ctx, DefaultCF, []byte("k0"), []byte("v0")))

		batch := eg.engine.NewWriteBatch()
		defer batch.Close()
		batch.Put(DefaultCF, []byte("k1"), []byte("v1"))
		batch.Put(DefaultCF, []byte("k2"), []byte("v2"))
		batch.Delete(DefaultCF, []byte("k0"))
		require.Equal(t, 3, batch.Count())
		require.NoError(t, eg.engine.Write(ctx, batch))

		_, err := eg.engine.Get(ctx, DefaultCF, []byte("k0"))
		require.ErrorIs(t, err, ErrNotFound)
		v, err := eg.engine.Get(ctx, DefaultCF, []byte("k2"))
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), v)

		stats, err := eg.engine.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), stats.Keys)
	})
}

func TestBadgerReopen(t *testing.T) {
	ctx := context.TODO()
	path, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(path)

	store, err := NewKVStore(ctx, path, BadgerKVType, &Option{Sync: true})
	require.NoError(t, err)
	require.NoError(t, store.SetRaw(ctx, DefaultCF, []byte("k"), []byte("v")))
	store.Close()

	store, err = NewKVStore(ctx, path, BadgerKVType, nil)
	require.NoError(t, err)
	defer store.Close()
	v, err := store.Get(ctx, DefaultCF, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestMemoryClosed(t *testing.T) {
	ctx := context.TODO()
	store := newMemoryStore(ctx)
	store.Close()
	require.ErrorIs(t, store.SetRaw(ctx, DefaultCF, []byte("k"), nil), ErrStoreClosed)
	_, _, err := store.List(ctx, DefaultCF, nil, nil).ReadNextCopy()
	require.ErrorIs(t, err, ErrStoreClosed)
}
