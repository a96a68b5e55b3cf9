package bench

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cubefs/metabench/adapter"
	"github.com/cubefs/metabench/util/limiter"
)

// DB is the operation surface a workload drives, one per worker.
type DB interface {
	Init(ctx context.Context) error
	Cleanup(ctx context.Context) error
	Insert(ctx context.Context, table, key string, values map[string][]byte) adapter.Status
	Read(ctx context.Context, table, key string, fields []string, result map[string][]byte) adapter.Status
	Update(ctx context.Context, table, key string, values map[string][]byte) adapter.Status
	Delete(ctx context.Context, table, key string) adapter.Status
	Scan(ctx context.Context, table, startKey string, recordCount int, fields []string, result *[]map[string][]byte) adapter.Status
}

type Runner struct {
	workload *Workload
	newDB    func() DB
	limiter  limiter.Limiter
}

func NewRunner(w *Workload, newDB func() DB) *Runner {
	return &Runner{
		workload: w,
		newDB:    newDB,
		limiter:  limiter.NewLimiter(limiter.LimitConfig{OpsPerSecond: w.Target}),
	}
}

// Load inserts records [0, recordcount).
func (r *Runner) Load(ctx context.Context) (*Stats, error) {
	stats := newStats("load")
	var seq int64 = -1
	err := r.runWorkers(ctx, func(ctx context.Context, db DB, rnd *rand.Rand) error {
		for {
			n := atomic.AddInt64(&seq, 1)
			if n >= int64(r.workload.RecordCount) {
				return nil
			}
			if err := r.limiter.Acquire(ctx); err != nil {
				return err
			}
			start := time.Now()
			st := db.Insert(ctx, r.workload.Table, BuildKey(n), buildValues(rnd, r.workload.FieldCount, r.workload.FieldLength))
			r.limiter.Release()
			stats.Record(OpInsert, st, time.Since(start))
		}
	})
	stats.finish()
	return stats, err
}

// Run issues operationcount operations mixed by the workload proportions
// over the loaded records. Inserts extend the key range.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	chooser, err := newOpChooser(r.workload)
	if err != nil {
		return nil, err
	}
	stats := newStats("run")
	var issued int64
	inserted := int64(r.workload.RecordCount)

	err = r.runWorkers(ctx, func(ctx context.Context, db DB, rnd *rand.Rand) error {
		w := r.workload
		for atomic.AddInt64(&issued, 1) <= int64(w.OperationCount) {
			if err := r.limiter.Acquire(ctx); err != nil {
				return err
			}
			op := chooser.next(rnd)
			start := time.Now()
			var st adapter.Status
			switch op {
			case OpRead:
				st = db.Read(ctx, w.Table, r.existingKey(rnd, &inserted), nil, make(map[string][]byte))
			case OpUpdate:
				st = db.Update(ctx, w.Table, r.existingKey(rnd, &inserted), buildValues(rnd, 1, w.FieldLength))
			case OpInsert:
				n := atomic.AddInt64(&inserted, 1) - 1
				st = db.Insert(ctx, w.Table, BuildKey(n), buildValues(rnd, w.FieldCount, w.FieldLength))
			case OpDelete:
				st = db.Delete(ctx, w.Table, r.existingKey(rnd, &inserted))
			case OpScan:
				var result []map[string][]byte
				st = db.Scan(ctx, w.Table, r.existingKey(rnd, &inserted), 1+rnd.Intn(w.ScanLength), nil, &result)
			}
			r.limiter.Release()
			stats.Record(op, st, time.Since(start))
		}
		return nil
	})
	stats.finish()
	return stats, err
}

func (r *Runner) existingKey(rnd *rand.Rand, inserted *int64) string {
	n := atomic.LoadInt64(inserted)
	if n <= 0 {
		return BuildKey(0)
	}
	return BuildKey(rnd.Int63n(n))
}

func (r *Runner) runWorkers(ctx context.Context, f func(ctx context.Context, db DB, rnd *rand.Rand) error) error {
	span := trace.SpanFromContextSafe(ctx)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.workload.ThreadCount; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			db := r.newDB()
			if err := db.Init(ctx); err != nil {
				span.Errorf("init db failed: %s", err)
				return err
			}
			defer func() {
				if err := db.Cleanup(ctx); err != nil {
					span.Warnf("cleanup db failed: %s", err)
				}
			}()
			return f(ctx, db, rand.New(rand.NewSource(seed)))
		})
	}
	return g.Wait()
}
