package master

import (
	"context"
	"sync"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"

	"github.com/cubefs/metabench/master/store"
)

type Config struct {
	StoreConfig store.Config `json:"store_config"`
}

// Stats counts the entries of the namespace, root excluded.
type Stats struct {
	Files       int64  `json:"files"`
	Directories int64  `json:"directories"`
	FileID      uint64 `json:"file_id"`
	KVKeys      uint64 `json:"kv_keys"`
	KVUsed      uint64 `json:"kv_used"`
}

// Master is the metadata-only namespace served to benchmark clients. All
// mutations are serialized by a single lock and persisted before they are
// acknowledged.
type Master struct {
	store   *store.Store
	storage *storage

	currentFileID uint64
	files         int64
	directories   int64

	lock sync.RWMutex
}

func NewMaster(ctx context.Context, cfg *Config) (*Master, error) {
	span := trace.SpanFromContextSafe(ctx)

	st, err := store.NewStore(ctx, &cfg.StoreConfig)
	if err != nil {
		return nil, errors.Info(err, "new store failed")
	}

	m := &Master{
		store:   st,
		storage: &storage{kvStore: st.KVStore()},
	}
	if err = m.load(ctx); err != nil {
		st.Close()
		return nil, errors.Info(err, "load namespace failed")
	}

	span.Infof("master loaded, files: %d, directories: %d, file id: %d", m.files, m.directories, m.currentFileID)
	return m, nil
}

func (m *Master) load(ctx context.Context) error {
	current, err := m.storage.loadFileID(ctx)
	if err != nil {
		return err
	}
	m.currentFileID = current

	entries, err := m.storage.listEntries(ctx, rootPath)
	if err != nil {
		return err
	}
	for _, info := range entries {
		if info.Folder {
			m.directories++
		} else {
			m.files++
		}
	}
	return nil
}

func (m *Master) Stats(ctx context.Context) (Stats, error) {
	m.lock.RLock()
	stats := Stats{
		Files:       m.files,
		Directories: m.directories,
		FileID:      m.currentFileID,
	}
	m.lock.RUnlock()

	kvStats, err := m.store.Stats(ctx)
	if err != nil {
		return stats, err
	}
	stats.KVKeys = kvStats.Keys
	stats.KVUsed = kvStats.Used
	return stats, nil
}

func (m *Master) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.store.Close()
}
