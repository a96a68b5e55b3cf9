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

package limiter

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var ErrLimitExceeded = errors.New("limit exceeded")

type (
	// Limiter bounds operations by in-flight count and by rate. A zero
	// Concurrency or OpsPerSecond disables the respective bound.
	Limiter interface {
		Acquire(ctx context.Context) error
		TryAcquire() error
		Release()
		SetOpsPerSecond(ops int)
		GetConfig() *LimitConfig
		Status() Status
	}
	CountLimit interface {
		Running() int
		Acquire() error
		Release()
		SetLimit(limit uint32)
	}
	LimitConfig struct {
		Concurrency  int `json:"concurrency"`
		OpsPerSecond int `json:"ops_per_second"`
	}
	Status struct {
		Config   LimitConfig
		Running  int
		Waiting  int
		RateWait int
	}
	limiter struct {
		config  LimitConfig
		sem     *semaphore.Weighted
		rate    atomic.Pointer[rate.Limiter]
		running int32
		waiting int32
	}
)

func NewLimiter(cfg LimitConfig) Limiter {
	lim := &limiter{config: cfg}
	if cfg.Concurrency > 0 {
		lim.sem = semaphore.NewWeighted(int64(cfg.Concurrency))
	}
	if cfg.OpsPerSecond > 0 {
		lim.rate.Store(rate.NewLimiter(rate.Limit(cfg.OpsPerSecond), cfg.OpsPerSecond))
	}
	return lim
}

// Acquire waits for a rate token and then for a concurrency slot.
// A successful Acquire must be paired with Release.
func (lim *limiter) Acquire(ctx context.Context) error {
	atomic.AddInt32(&lim.waiting, 1)
	defer atomic.AddInt32(&lim.waiting, -1)

	if r := lim.rate.Load(); r != nil {
		if err := r.Wait(ctx); err != nil {
			return err
		}
	}
	if lim.sem != nil {
		if err := lim.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	atomic.AddInt32(&lim.running, 1)
	return nil
}

// TryAcquire takes a concurrency slot without waiting and ignores the rate.
func (lim *limiter) TryAcquire() error {
	if lim.sem != nil && !lim.sem.TryAcquire(1) {
		return ErrLimitExceeded
	}
	atomic.AddInt32(&lim.running, 1)
	return nil
}

func (lim *limiter) Release() {
	atomic.AddInt32(&lim.running, -1)
	if lim.sem != nil {
		lim.sem.Release(1)
	}
}

func (lim *limiter) SetOpsPerSecond(ops int) {
	if ops <= 0 {
		lim.rate.Store(nil)
	} else if r := lim.rate.Load(); r != nil {
		r.SetLimit(rate.Limit(ops))
		r.SetBurst(ops)
	} else {
		lim.rate.Store(rate.NewLimiter(rate.Limit(ops), ops))
	}
	lim.config.OpsPerSecond = ops
}

func (lim *limiter) GetConfig() *LimitConfig {
	return &lim.config
}

func (lim *limiter) Status() Status {
	return Status{
		Config:   lim.config,
		Running:  int(atomic.LoadInt32(&lim.running)),
		Waiting:  int(atomic.LoadInt32(&lim.waiting)),
		RateWait: rateWait(lim.rate.Load()),
	}
}

func rateWait(r *rate.Limiter) int {
	if r == nil {
		return 0
	}
	now := time.Now()
	reserve := r.ReserveN(now, r.Burst()/2)
	duration := reserve.DelayFrom(now)
	reserve.Cancel()
	return int(duration.Milliseconds())
}

const minusOne = ^uint32(0)

type countLimit struct {
	limit   uint32
	current uint32
}

// NewCountLimit returns a non-blocking limiter with concurrent n
func NewCountLimit(n int) CountLimit {
	return &countLimit{limit: uint32(n)}
}

func (l *countLimit) Running() int {
	return int(atomic.LoadUint32(&l.current))
}

func (l *countLimit) Acquire() error {
	if atomic.AddUint32(&l.current, 1) > atomic.LoadUint32(&l.limit) {
		atomic.AddUint32(&l.current, minusOne)
		return ErrLimitExceeded
	}
	return nil
}

func (l *countLimit) Release() {
	atomic.AddUint32(&l.current, minusOne)
}

func (l *countLimit) SetLimit(limit uint32) {
	atomic.StoreUint32(&l.limit, limit)
}
