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

package adapter

import (
	"context"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"

	"github.com/cubefs/metabench/client"
	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/metrics"
	"github.com/cubefs/metabench/proto"
)

const (
	opInsert = "insert"
	opRead   = "read"
	opUpdate = "update"
	opDelete = "delete"
	opScan   = "scan"
)

// Binding owns the client pool of a process and hands out one Adapter per
// benchmark worker.
type Binding struct {
	cfg  *Config
	pool *client.Context
}

func NewBinding(cfg *Config) (*Binding, error) {
	pool, err := client.NewContext(cfg.ClientConfig())
	if err != nil {
		return nil, errors.Info(err, "new client context failed")
	}
	return &Binding{cfg: cfg, pool: pool}, nil
}

func (b *Binding) NewAdapter() *Adapter {
	return NewAdapter(b.pool, b.cfg.Namespace.Root)
}

func (b *Binding) Pool() *client.Context {
	return b.pool
}

// Close closes the pool once every adapter has been cleaned up.
func (b *Binding) Close() error {
	return b.pool.Close()
}

// Adapter maps flat table/key operations onto namespace paths. It holds a
// single master handle and is meant to be used by one worker at a time.
type Adapter struct {
	pool    *client.Context
	rootDir string

	client *client.MasterClient
}

// NewAdapter creates an adapter on pool. A nil pool yields an adapter whose
// Init fails and whose operations all return StatusError.
func NewAdapter(pool *client.Context, rootDir string) *Adapter {
	if rootDir == "" {
		rootDir = proto.DefaultRootDir
	}
	return &Adapter{pool: pool, rootDir: rootDir}
}

// Init acquires the master handle and makes sure the root directory exists.
// Failing to create the directory is logged only, operations then fail on
// their own.
func (a *Adapter) Init(ctx context.Context) error {
	span := trace.SpanFromContextSafe(ctx)
	if a.pool == nil {
		span.Error("init adapter failed: ", apierrors.ErrNoClientContext)
		return apierrors.ErrNoClientContext
	}
	if a.client != nil {
		return nil
	}

	cli, err := a.pool.AcquireMasterClient()
	if err != nil {
		span.Errorf("acquire master client failed: %s", err)
		return err
	}
	a.client = cli

	err = cli.CreateDirectory(ctx, a.rootDir, proto.DefaultCreateDirectoryOptions())
	switch classify(err, apierrors.ErrFileAlreadyExists) {
	case outcomeSuccess:
		span.Infof("root directory %s created", a.rootDir)
	case outcomeBenign:
	default:
		span.Errorf("create root directory %s failed: %s", a.rootDir, err)
	}
	return nil
}

// Cleanup releases the master handle. It is safe to call more than once.
func (a *Adapter) Cleanup(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	if err := a.client.Close(); err != nil {
		trace.SpanFromContextSafe(ctx).Warnf("release master client failed: %s", err)
	}
	a.client = nil
	return nil
}

// Insert records the existence of dir/file. Any entry left at the path is
// deleted first; values are not stored.
func (a *Adapter) Insert(ctx context.Context, dir, file string, values map[string][]byte) Status {
	start := time.Now()
	span := trace.SpanFromContextSafe(ctx)
	path, err := a.prepare(dir, file)
	if err != nil {
		span.Errorf("insert %s/%s failed: %s", dir, file, err)
		return done(opInsert, start, StatusError)
	}

	err = a.client.Delete(ctx, path, proto.DefaultDeleteOptions())
	if classify(err, apierrors.ErrFileDoesNotExist) == outcomeFailure {
		span.Debugf("delete before insert %s failed: %s", path, err)
	}

	if _, err = a.client.CreateFile(ctx, path, proto.DefaultCreateFileOptions()); err != nil {
		span.Errorf("insert %s failed: %s", path, err)
		return done(opInsert, start, StatusError)
	}
	return done(opInsert, start, StatusOK)
}

// Read stores the textual metadata of dir/file in result under its path.
// fields is ignored.
func (a *Adapter) Read(ctx context.Context, dir, file string, fields []string, result map[string][]byte) Status {
	start := time.Now()
	span := trace.SpanFromContextSafe(ctx)
	path, err := a.prepare(dir, file)
	if err != nil {
		span.Errorf("read %s/%s failed: %s", dir, file, err)
		return done(opRead, start, StatusError)
	}

	info, err := a.client.GetStatus(ctx, path)
	if err != nil {
		span.Errorf("read %s failed: %s", path, err)
		return done(opRead, start, StatusError)
	}
	if result != nil {
		result[path] = []byte(info.String())
	}
	return done(opRead, start, StatusOK)
}

// Update issues an attribute update that changes nothing; values is ignored.
func (a *Adapter) Update(ctx context.Context, dir, file string, values map[string][]byte) Status {
	start := time.Now()
	span := trace.SpanFromContextSafe(ctx)
	path, err := a.prepare(dir, file)
	if err != nil {
		span.Errorf("update %s/%s failed: %s", dir, file, err)
		return done(opUpdate, start, StatusError)
	}

	if err = a.client.SetAttribute(ctx, path, proto.DefaultSetAttributeOptions()); err != nil {
		span.Errorf("update %s failed: %s", path, err)
		return done(opUpdate, start, StatusError)
	}
	return done(opUpdate, start, StatusOK)
}

func (a *Adapter) Delete(ctx context.Context, dir, file string) Status {
	start := time.Now()
	span := trace.SpanFromContextSafe(ctx)
	path, err := a.prepare(dir, file)
	if err != nil {
		span.Errorf("delete %s/%s failed: %s", dir, file, err)
		return done(opDelete, start, StatusError)
	}

	if err = a.client.Delete(ctx, path, proto.DefaultDeleteOptions()); err != nil {
		span.Errorf("delete %s failed: %s", path, err)
		return done(opDelete, start, StatusError)
	}
	return done(opDelete, start, StatusOK)
}

// Scan is not supported by the namespace layout.
func (a *Adapter) Scan(ctx context.Context, table, startKey string, recordCount int,
	fields []string, result *[]map[string][]byte,
) Status {
	return done(opScan, time.Now(), StatusNotImplemented)
}

func (a *Adapter) prepare(dir, file string) (string, error) {
	if a.client == nil {
		return "", apierrors.ErrNoClientContext
	}
	return FullPath(dir, file)
}

func done(op string, start time.Time, st Status) Status {
	metrics.AdapterOps.WithLabelValues(op, st.String()).Observe(time.Since(start).Seconds())
	return st
}
