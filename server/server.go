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

package server

import (
	"context"

	"github.com/cubefs/cubefs/blobstore/util/errors"

	"github.com/cubefs/metabench/master"
	"github.com/cubefs/metabench/metrics"
)

const defaultMaxInflight = 65536

type Config struct {
	master.Config

	// MaxInflight bounds the requests handled at once, excess requests
	// are rejected with ResourceExhausted.
	MaxInflight int `json:"max_inflight"`
}

type Server struct {
	master *master.Master

	cfg *Config
}

func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = defaultMaxInflight
	}
	m, err := master.NewMaster(ctx, &cfg.Config)
	if err != nil {
		return nil, errors.Info(err, "new master failed")
	}
	return &Server{master: m, cfg: cfg}, nil
}

func (s *Server) Stats(ctx context.Context) (master.Stats, error) {
	stats, err := s.master.Stats(ctx)
	if err != nil {
		return stats, err
	}
	metrics.NamespaceEntries.WithLabelValues("file").Set(float64(stats.Files))
	metrics.NamespaceEntries.WithLabelValues("directory").Set(float64(stats.Directories))
	return stats, nil
}

func (s *Server) Close() {
	s.master.Close()
}
