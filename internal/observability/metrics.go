package observability

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Metrics is the in-process sink the tracker and engine report to. The graph
// is a derived index whose write failures never surface to callers, so these
// counters are the only operator-visible signal of a persistently degraded
// recommendation layer.
type Metrics struct {
	GraphWriteAttempted *CounterVec // label: relationship kind or node label
	GraphWriteFailed    *CounterVec
	EngineQueries       *CounterVec // label: query name
	EngineFailures      *CounterVec
	CacheHits           *Counter
	CacheMisses         *Counter
	ReconcilerReplayed  *CounterVec // label: relationship kind
	ReconcilerFailed    *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		GraphWriteAttempted: NewCounterVec(),
		GraphWriteFailed:    NewCounterVec(),
		EngineQueries:       NewCounterVec(),
		EngineFailures:      NewCounterVec(),
		CacheHits:           &Counter{},
		CacheMisses:         &Counter{},
		ReconcilerReplayed:  NewCounterVec(),
		ReconcilerFailed:    NewCounterVec(),
	}
}

// Snapshot flattens every counter into a map keyed "name{label}" / "name".
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	out := map[string]int64{
		"cache_hits":   m.CacheHits.Value(),
		"cache_misses": m.CacheMisses.Value(),
	}
	m.GraphWriteAttempted.fill(out, "graph_write_attempted")
	m.GraphWriteFailed.fill(out, "graph_write_failed")
	m.EngineQueries.fill(out, "engine_queries")
	m.EngineFailures.fill(out, "engine_failures")
	m.ReconcilerReplayed.fill(out, "reconciler_replayed")
	m.ReconcilerFailed.fill(out, "reconciler_failed")
	return out
}

// Labels returns the sorted label set a vec has seen; handy in tests.
func (v *CounterVec) Labels() []string {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	labels := make([]string, 0, len(v.counters))
	for label := range v.counters {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

type Counter struct {
	v atomic.Int64
}

func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.v.Add(1)
}

func (c *Counter) Add(n int64) {
	if c == nil {
		return
	}
	c.v.Add(n)
}

func (c *Counter) Value() int64 {
	if c == nil {
		return 0
	}
	return c.v.Load()
}

type CounterVec struct {
	mu       sync.Mutex
	counters map[string]*Counter
}

func NewCounterVec() *CounterVec {
	return &CounterVec{counters: make(map[string]*Counter)}
}

func (v *CounterVec) WithLabel(label string) *Counter {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.counters[label]
	if !ok {
		c = &Counter{}
		v.counters[label] = c
	}
	return c
}

func (v *CounterVec) Value(label string) int64 {
	if v == nil {
		return 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if c, ok := v.counters[label]; ok {
		return c.Value()
	}
	return 0
}

func (v *CounterVec) fill(out map[string]int64, name string) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for label, c := range v.counters {
		out[name+"{"+label+"}"] = c.Value()
	}
}
