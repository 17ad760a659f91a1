// Package telemetry folds classification results into bounded in-memory
// aggregates for the lifetime of one session.
package telemetry

import (
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
)

const (
	HistoryCapacity = 40
	LatencyCapacity = 60
	SessionCapacity = 30

	PreviewRunes = 60

	// TimestampLayout is the wall-clock format of SessionEntry.Timestamp.
	TimestampLayout = "15:04:05"
)

// HistoryPoint is one recorded risk score.
type HistoryPoint struct {
	Index int
	Score float64
}

// SessionEntry is one line of the session log.
type SessionEntry struct {
	TextPreview string
	Score       float64
	Timestamp   string
}

// Counters never decrease within a session.
type Counters struct {
	TotalAnalyzed int
	ToxicCount    int
}

// Snapshot is a consistent copy of all aggregator stores.
type Snapshot struct {
	History   []HistoryPoint // oldest first
	Latencies []float64      // oldest first
	Session   []SessionEntry // newest first
	Counters  Counters
}

// Aggregator owns the score history, latency and session rings and the
// running counters. Record and Reset must be called from a single writer;
// readers may call the accessors concurrently.
type Aggregator struct {
	mu sync.RWMutex

	history   *ring[HistoryPoint]
	latencies *ring[float64]
	session   *ring[SessionEntry]
	counters  Counters
	index     int

	now func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the wall clock used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// New creates an empty Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		history:   newRing[HistoryPoint](HistoryCapacity),
		latencies: newRing[float64](LatencyCapacity),
		session:   newRing[SessionEntry](SessionCapacity),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record folds one result into all stores. threshold is the value in effect
// now; it decides the result's contribution to ToxicCount once and for all.
func (a *Aggregator) Record(result classifier.Result, sourceText string, threshold float64) {
	entry := SessionEntry{
		TextPreview: Preview(sourceText),
		Score:       result.RiskScore,
		Timestamp:   a.now().Format(TimestampLayout),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.index++
	a.history.add(HistoryPoint{Index: a.index, Score: result.RiskScore})
	a.latencies.add(result.ProcessingTimeMs)
	a.session.add(entry)
	a.counters.TotalAnalyzed++
	if result.IsToxic(threshold) {
		a.counters.ToxicCount++
	}
}

// Reset starts a fresh session: all rings, counters and the history index go to zero.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history.reset()
	a.latencies.reset()
	a.session.reset()
	a.counters = Counters{}
	a.index = 0
}

func (a *Aggregator) History() []HistoryPoint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.history.oldestFirst()
}

func (a *Aggregator) Latencies() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latencies.oldestFirst()
}

func (a *Aggregator) Session() []SessionEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.newestFirst()
}

func (a *Aggregator) Counters() Counters {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.counters
}

// Snapshot copies all four stores under one lock.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{
		History:   a.history.oldestFirst(),
		Latencies: a.latencies.oldestFirst(),
		Session:   a.session.newestFirst(),
		Counters:  a.counters,
	}
}

// Stats computes the derived statistics from the current ring contents.
func (a *Aggregator) Stats() Stats {
	return a.Snapshot().Stats()
}

// Preview normalizes text and truncates it to PreviewRunes runes.
func Preview(text string) string {
	s := norm.NFC.String(text)
	if utf8.RuneCountInString(s) <= PreviewRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == PreviewRunes {
			return s[:i]
		}
		n++
	}
	return s
}
