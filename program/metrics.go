package main

import (
	"sync/atomic"
	"time"
)

// statsWindow is the number of recent samples kept per client metric.
const statsWindow = 64

type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx++
	if r.idx >= len(r.buf) {
		r.idx = 0
	}
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	var sum, peak time.Duration
	for _, d := range r.buf[:r.count] {
		sum += d
		peak = max(peak, d)
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return durationStats{
		last: r.buf[lastIdx],
		max:  peak,
		avg:  sum / time.Duration(r.count),
		n:    r.count,
	}
}

// clientMetrics measures the client side of the session: request round
// trips as seen by the monitor and the cost of rendering a frame. The
// rings belong to the UI goroutine; the counters may be read anywhere.
type clientMetrics struct {
	enabled atomic.Bool

	results  atomic.Uint64
	failures atomic.Uint64
	chats    atomic.Uint64
	firstNs  atomic.Int64
	lastNs   atomic.Int64

	roundTrip *durationRing
	render    *durationRing
}

func newClientMetrics(window int) *clientMetrics {
	return &clientMetrics{
		roundTrip: newDurationRing(window),
		render:    newDurationRing(window),
	}
}

func (m *clientMetrics) setEnabled(v bool) { m.enabled.Store(v) }
func (m *clientMetrics) isEnabled() bool   { return m.enabled.Load() }

func (m *clientMetrics) observeResponse(now time.Time, roundTrip time.Duration, ok bool) {
	if !m.isEnabled() {
		return
	}
	m.roundTrip.add(roundTrip)
	if !ok {
		m.failures.Add(1)
		return
	}
	nowNs := now.UnixNano()
	m.firstNs.CompareAndSwap(0, nowNs)
	m.lastNs.Store(nowNs)
	m.results.Add(1)
}

func (m *clientMetrics) observeChat() {
	if m.isEnabled() {
		m.chats.Add(1)
	}
}

func (m *clientMetrics) observeRender(d time.Duration) {
	if m.isEnabled() {
		m.render.add(d)
	}
}

type snapshot struct {
	results    uint64
	failures   uint64
	chats      uint64
	perMinute  float64
	roundTrip  durationStats
	renderCost durationStats
}

func (m *clientMetrics) snapshot() snapshot {
	if !m.isEnabled() {
		return snapshot{}
	}
	s := snapshot{
		results:    m.results.Load(),
		failures:   m.failures.Load(),
		chats:      m.chats.Load(),
		roundTrip:  m.roundTrip.snapshot(),
		renderCost: m.render.snapshot(),
	}
	first, last := m.firstNs.Load(), m.lastNs.Load()
	if first != 0 && last > first && s.results > 1 {
		active := time.Duration(last - first)
		s.perMinute = float64(s.results-1) / active.Minutes()
	}
	return s
}
