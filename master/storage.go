// Copyright 2023 The CubeFS Authors.
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

package master

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/cubefs/cubefs/blobstore/util/errors"

	"github.com/cubefs/metabench/common/kvstore"
	"github.com/cubefs/metabench/proto"
)

const (
	entryCF = kvstore.CF("namespace")
	idCF    = kvstore.CF("id")
)

var fileIDKey = []byte("file_id")

type storage struct {
	kvStore kvstore.Store
}

func (s *storage) getEntry(ctx context.Context, path string) (*proto.FileInfo, error) {
	raw, err := s.kvStore.Get(ctx, entryCF, encodePath(path))
	if err != nil {
		return nil, err
	}
	return decodeEntry(raw)
}

// listEntries returns every entry under prefix in key order.
func (s *storage) listEntries(ctx context.Context, prefix string) (ret []*proto.FileInfo, err error) {
	lr := s.kvStore.List(ctx, entryCF, encodePath(prefix), nil)
	defer lr.Close()

	for {
		k, v, err := lr.ReadNextCopy()
		if err != nil {
			return nil, err
		}
		if k == nil {
			return ret, nil
		}
		info, err := decodeEntry(v)
		if err != nil {
			return nil, errors.Info(err, "decode entry", string(k))
		}
		ret = append(ret, info)
	}
}

// hasEntries reports whether any entry exists under prefix.
func (s *storage) hasEntries(ctx context.Context, prefix string) (bool, error) {
	lr := s.kvStore.List(ctx, entryCF, encodePath(prefix), nil)
	defer lr.Close()

	k, _, err := lr.ReadNextCopy()
	if err != nil {
		return false, err
	}
	return k != nil, nil
}

func (s *storage) loadFileID(ctx context.Context) (uint64, error) {
	raw, err := s.kvStore.Get(ctx, idCF, fileIDKey)
	if err == kvstore.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeValue(raw), nil
}

type entryBatch struct {
	kvstore.WriteBatch
}

func (s *storage) newBatch() *entryBatch {
	return &entryBatch{WriteBatch: s.kvStore.NewWriteBatch()}
}

func (b *entryBatch) putEntry(info *proto.FileInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	b.Put(entryCF, encodePath(info.Path), data)
	return nil
}

func (b *entryBatch) deleteEntry(path string) {
	b.Delete(entryCF, encodePath(path))
}

func (b *entryBatch) putFileID(current uint64) {
	b.Put(idCF, fileIDKey, encodeValue(current))
}

func (s *storage) write(ctx context.Context, b *entryBatch) error {
	defer b.Close()
	return s.kvStore.Write(ctx, b.WriteBatch)
}

func encodePath(path string) []byte {
	return []byte(path)
}

func decodeEntry(raw []byte) (*proto.FileInfo, error) {
	info := &proto.FileInfo{}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, err
	}
	return info, nil
}

func encodeValue(v uint64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, v)
	return ret
}

func decodeValue(raw []byte) uint64 {
	return binary.BigEndian.Uint64(raw)
}
