// SPDX-License-Identifier: Apache-2.0

// Package metrics accumulates per-source outcome statistics for every
// outbound call the sync engine makes: request counts, cache hit/miss
// counts, latency extrema and average over a bounded sliding window, and
// the current circuit-breaker state as a tri-valued gauge.
//
// The collector is a passive observer: it is fed by the resilience layer
// and read by the operational HTTP surface through [Collector.Snapshot] and
// [Collector.Export].
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CircuitState mirrors the breaker state of one remote source.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitHalfOpen
	CircuitOpen
)

// String returns the scrape label for the state.
func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type latencySample struct {
	at      time.Time
	latency time.Duration
}

type sourceStats struct {
	success     uint64
	failure     uint64
	cacheHits   uint64
	cacheMisses uint64
	circuit     CircuitState
	samples     []latencySample
}

// SourceSnapshot is the read-only view of one source's accumulated stats.
type SourceSnapshot struct {
	Success      uint64
	Failure      uint64
	CacheHits    uint64
	CacheMisses  uint64
	CircuitState CircuitState
	LatencyMin   time.Duration
	LatencyMax   time.Duration
	LatencyAvg   time.Duration
	SampleCount  int
}

// Collector accumulates stats per remote source. All methods are safe for
// concurrent use. Memory is bounded by the retention window and the sample
// cap.
type Collector struct {
	mu      sync.Mutex
	sources map[string]*sourceStats

	window     time.Duration
	maxSamples int
	now        func() time.Time
}

// NewCollector constructs a Collector retaining latency samples for at most
// window and at most maxSamples per source. Non-positive arguments fall
// back to 5 minutes and 512 samples.
func NewCollector(window time.Duration, maxSamples int) *Collector {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if maxSamples <= 0 {
		maxSamples = 512
	}
	return &Collector{
		sources:    make(map[string]*sourceStats),
		window:     window,
		maxSamples: maxSamples,
		now:        time.Now,
	}
}

func (c *Collector) stats(source string) *sourceStats {
	st, ok := c.sources[source]
	if !ok {
		st = &sourceStats{}
		c.sources[source] = st
	}
	return st
}

// RecordSuccess registers one successful call and its latency.
func (c *Collector) RecordSuccess(source string, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.stats(source)
	st.success++
	c.addSample(st, latency)
}

// RecordFailure registers one failed call and its latency.
func (c *Collector) RecordFailure(source string, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.stats(source)
	st.failure++
	c.addSample(st, latency)
}

// RecordCacheHit registers a response served from cache. Cache hits carry
// no latency sample and never touch the breaker statistics.
func (c *Collector) RecordCacheHit(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats(source).cacheHits++
}

// RecordCacheMiss registers a cache lookup that fell through to the remote
// dependency.
func (c *Collector) RecordCacheMiss(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats(source).cacheMisses++
}

// SetCircuitState updates the breaker gauge for the source.
func (c *Collector) SetCircuitState(source string, state CircuitState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats(source).circuit = state
}

func (c *Collector) addSample(st *sourceStats, latency time.Duration) {
	st.samples = append(st.samples, latencySample{at: c.now(), latency: latency})
	c.prune(st)
}

func (c *Collector) prune(st *sourceStats) {
	cutoff := c.now().Add(-c.window)
	kept := st.samples[:0]
	for _, s := range st.samples {
		if s.at.After(cutoff) {
			kept = append(kept, s)
		}
	}
	st.samples = kept

	if over := len(st.samples) - c.maxSamples; over > 0 {
		st.samples = append(st.samples[:0], st.samples[over:]...)
	}
}

// Snapshot returns the current view of every known source.
func (c *Collector) Snapshot() map[string]SourceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]SourceSnapshot, len(c.sources))
	for name, st := range c.sources {
		c.prune(st)
		out[name] = summarize(st)
	}
	return out
}

func summarize(st *sourceStats) SourceSnapshot {
	snap := SourceSnapshot{
		Success:      st.success,
		Failure:      st.failure,
		CacheHits:    st.cacheHits,
		CacheMisses:  st.cacheMisses,
		CircuitState: st.circuit,
		SampleCount:  len(st.samples),
	}

	if len(st.samples) == 0 {
		return snap
	}

	var total time.Duration
	snap.LatencyMin = st.samples[0].latency
	snap.LatencyMax = st.samples[0].latency
	for _, s := range st.samples {
		total += s.latency
		if s.latency < snap.LatencyMin {
			snap.LatencyMin = s.latency
		}
		if s.latency > snap.LatencyMax {
			snap.LatencyMax = s.latency
		}
	}
	snap.LatencyAvg = total / time.Duration(len(st.samples))

	return snap
}

// Export renders the snapshot as line-oriented "<source> <metric> <value>"
// tuples, sorted by source name, suitable for scraping by an external
// monitoring system.
func (c *Collector) Export() string {
	snap := c.Snapshot()

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		s := snap[name]
		fmt.Fprintf(&b, "%s requests_success %d\n", name, s.Success)
		fmt.Fprintf(&b, "%s requests_failure %d\n", name, s.Failure)
		fmt.Fprintf(&b, "%s cache_hits %d\n", name, s.CacheHits)
		fmt.Fprintf(&b, "%s cache_misses %d\n", name, s.CacheMisses)
		fmt.Fprintf(&b, "%s circuit_state %s\n", name, s.CircuitState)
		fmt.Fprintf(&b, "%s latency_min_ms %d\n", name, s.LatencyMin.Milliseconds())
		fmt.Fprintf(&b, "%s latency_max_ms %d\n", name, s.LatencyMax.Milliseconds())
		fmt.Fprintf(&b, "%s latency_avg_ms %d\n", name, s.LatencyAvg.Milliseconds())
	}
	return b.String()
}

// Reset drops all accumulated state. Intended for test isolation.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = make(map[string]*sourceStats)
}
