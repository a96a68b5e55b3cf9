package store

import (
	"context"
	"os"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"

	"github.com/cubefs/metabench/common/kvstore"
)

type Config struct {
	Path     string         `json:"path"`
	KVType   kvstore.KVType `json:"kv_type"`
	KVOption kvstore.Option `json:"kv_option"`
}

type Store struct {
	kvStore kvstore.Store

	cfg *Config
}

func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	span := trace.SpanFromContextSafe(ctx)
	if cfg.KVType == "" {
		cfg.KVType = kvstore.MemoryKVType
	}

	kvStorePath := cfg.Path + "/kv"
	if cfg.KVType == kvstore.BadgerKVType && !cfg.KVOption.InMemory {
		if cfg.Path == "" {
			return nil, kvstore.ErrEmptyPath
		}
		if err := os.MkdirAll(kvStorePath, 0o755); err != nil {
			return nil, errors.Info(err, "create kv store path failed")
		}
	}

	kvStore, err := kvstore.NewKVStore(ctx, kvStorePath, cfg.KVType, &cfg.KVOption)
	if err != nil {
		span.Errorf("open kv store[%s] at %s failed: %s", cfg.KVType, kvStorePath, err)
		return nil, err
	}

	return &Store{
		kvStore: kvStore,
		cfg:     cfg,
	}, nil
}

func (s *Store) KVStore() kvstore.Store {
	return s.kvStore
}

func (s *Store) Stats(ctx context.Context) (kvstore.Stats, error) {
	return s.kvStore.Stats(ctx)
}

func (s *Store) Close() {
	s.kvStore.Close()
}
