package kvstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/tidwall/btree"

	"github.com/cubefs/metabench/util"
)

type memoryStore struct {
	mu     sync.RWMutex
	tree   *btree.Map[string, []byte]
	closed bool
}

func newMemoryStore(ctx context.Context) *memoryStore {
	return &memoryStore{tree: btree.NewMap[string, []byte](0)}
}

func (s *memoryStore) Get(ctx context.Context, col CF, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	value, ok := s.tree.Get(util.BytesToString(encodeKey(col, key)))
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *memoryStore) SetRaw(ctx context.Context, col CF, key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.tree.Set(string(encodeKey(col, key)), append([]byte(nil), value...))
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, col CF, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.tree.Delete(util.BytesToString(encodeKey(col, key)))
	return nil
}

// List reads from a copy-on-write snapshot of the tree taken at call time.
func (s *memoryStore) List(ctx context.Context, col CF, prefix []byte, marker []byte) ListReader {
	s.mu.RLock()
	snapshot := s.tree.Copy()
	closed := s.closed
	s.mu.RUnlock()

	lr := &memoryListReader{col: col}
	if closed {
		lr.err = ErrStoreClosed
		return lr
	}
	fullPrefix := encodeKey(col, prefix)
	snapshot.Ascend(string(listStart(col, prefix, marker)), func(key string, value []byte) bool {
		if !bytes.HasPrefix(util.StringsToBytes(key), fullPrefix) {
			return false
		}
		lr.keys = append(lr.keys, key)
		lr.values = append(lr.values, value)
		return true
	})
	return lr
}

func (s *memoryStore) NewWriteBatch() WriteBatch {
	return &writeBatch{}
}

func (s *memoryStore) Write(ctx context.Context, batch WriteBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	for _, op := range batch.(*writeBatch).ops {
		if op.delete {
			s.tree.Delete(string(encodeKey(op.col, op.key)))
			continue
		}
		s.tree.Set(string(encodeKey(op.col, op.key)), append([]byte(nil), op.value...))
	}
	return nil
}

func (s *memoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{Keys: uint64(s.tree.Len())}
	s.tree.Scan(func(key string, value []byte) bool {
		stats.Used += uint64(len(key) + len(value))
		return true
	})
	return stats, nil
}

func (s *memoryStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.tree.Clear()
	s.mu.Unlock()
}

type memoryListReader struct {
	col    CF
	keys   []string
	values [][]byte
	idx    int
	err    error
}

func (lr *memoryListReader) ReadNextCopy() ([]byte, []byte, error) {
	if lr.err != nil {
		return nil, nil, lr.err
	}
	if lr.idx >= len(lr.keys) {
		return nil, nil, nil
	}
	key := decodeKey(lr.col, []byte(lr.keys[lr.idx]))
	value := append([]byte(nil), lr.values[lr.idx]...)
	lr.idx++
	return key, value, nil
}

func (lr *memoryListReader) Close() {
	lr.keys, lr.values = nil, nil
}
