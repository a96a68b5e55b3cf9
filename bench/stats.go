package bench

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cubefs/metabench/adapter"
	"github.com/cubefs/metabench/metrics"
)

type opStats struct {
	count    int64
	statuses map[adapter.Status]int64
	total    time.Duration
	min      time.Duration
	max      time.Duration
}

// Stats aggregates the results of a phase per operation.
type Stats struct {
	phase   string
	start   time.Time
	elapsed time.Duration
	ops     map[string]*opStats

	lock sync.Mutex
}

func newStats(phase string) *Stats {
	return &Stats{phase: phase, start: time.Now(), ops: make(map[string]*opStats)}
}

func (s *Stats) Record(op string, st adapter.Status, latency time.Duration) {
	metrics.BenchOps.WithLabelValues(op, st.String()).Inc()

	s.lock.Lock()
	defer s.lock.Unlock()
	rec, ok := s.ops[op]
	if !ok {
		rec = &opStats{statuses: make(map[adapter.Status]int64), min: latency}
		s.ops[op] = rec
	}
	rec.count++
	rec.statuses[st]++
	rec.total += latency
	if latency < rec.min {
		rec.min = latency
	}
	if latency > rec.max {
		rec.max = latency
	}
}

func (s *Stats) finish() {
	s.lock.Lock()
	s.elapsed = time.Since(s.start)
	s.lock.Unlock()
}

// Count returns how many op calls ended with st.
func (s *Stats) Count(op string, st adapter.Status) int64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	if rec, ok := s.ops[op]; ok {
		return rec.statuses[st]
	}
	return 0
}

func (s *Stats) Total() int64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	var total int64
	for _, rec := range s.ops {
		total += rec.count
	}
	return total
}

// Summary renders the phase report in the YCSB text layout.
func (s *Stats) Summary() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	var b strings.Builder
	var total int64
	for _, rec := range s.ops {
		total += rec.count
	}
	elapsedMs := s.elapsed.Milliseconds()
	fmt.Fprintf(&b, "[OVERALL], Phase, %s\n", s.phase)
	fmt.Fprintf(&b, "[OVERALL], RunTime(ms), %d\n", elapsedMs)
	throughput := 0.0
	if s.elapsed > 0 {
		throughput = float64(total) / s.elapsed.Seconds()
	}
	fmt.Fprintf(&b, "[OVERALL], Throughput(ops/sec), %.2f\n", throughput)

	names := make([]string, 0, len(s.ops))
	for name := range s.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec := s.ops[name]
		fmt.Fprintf(&b, "[%s], Operations, %d\n", name, rec.count)
		fmt.Fprintf(&b, "[%s], AverageLatency(us), %.2f\n", name, float64(rec.total.Microseconds())/float64(rec.count))
		fmt.Fprintf(&b, "[%s], MinLatency(us), %d\n", name, rec.min.Microseconds())
		fmt.Fprintf(&b, "[%s], MaxLatency(us), %d\n", name, rec.max.Microseconds())
		for _, st := range []adapter.Status{adapter.StatusOK, adapter.StatusError, adapter.StatusNotImplemented} {
			if n := rec.statuses[st]; n > 0 {
				fmt.Fprintf(&b, "[%s], Return=%s, %d\n", name, st, n)
			}
		}
	}
	return b.String()
}
