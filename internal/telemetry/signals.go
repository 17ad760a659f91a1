package telemetry

import (
	"strings"
	"sync"
	"time"

	"github.com/keilerkonzept/topk/heap"
	"github.com/keilerkonzept/topk/sliding"
)

// SignalConfig sizes the sliding-window sketch behind a SignalTracker.
type SignalConfig struct {
	K           int
	Width       int
	Depth       int
	Decay       float64
	TickSize    time.Duration
	WindowSize  time.Duration
	FullRefresh time.Duration
}

// DefaultSignalConfig tracks the top 10 phrases over the last minute.
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		K:           10,
		Width:       1024,
		Depth:       3,
		Decay:       0.9,
		TickSize:    time.Second,
		WindowSize:  time.Minute,
		FullRefresh: 2 * time.Second,
	}
}

// PhraseCount is a highlighted phrase and its count inside the window.
type PhraseCount struct {
	Phrase string
	Count  uint32
}

// SignalTracker counts highlighted phrases over a sliding time window.
type SignalTracker struct {
	cfg SignalConfig

	mu     sync.Mutex
	sketch *sliding.Sketch
	ranker *incrementalRanker
	last   time.Time
}

// NewSignalTracker creates a tracker; invalid sizes fall back to DefaultSignalConfig.
func NewSignalTracker(cfg SignalConfig) *SignalTracker {
	def := DefaultSignalConfig()
	if cfg.K < 1 {
		cfg.K = def.K
	}
	if cfg.Width < 1 {
		cfg.Width = def.Width
	}
	if cfg.Depth < 1 {
		cfg.Depth = def.Depth
	}
	if cfg.Decay <= 0 || cfg.Decay > 1 {
		cfg.Decay = def.Decay
	}
	if cfg.TickSize <= 0 {
		cfg.TickSize = def.TickSize
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.WindowSize < cfg.TickSize {
		cfg.WindowSize = cfg.TickSize
	}
	t := &SignalTracker{cfg: cfg}
	t.sketch = t.newSketch()
	t.ranker = newIncrementalRanker(cfg.K, cfg.FullRefresh)
	return t
}

func (t *SignalTracker) newSketch() *sliding.Sketch {
	return sliding.New(t.cfg.K,
		int(t.cfg.WindowSize/t.cfg.TickSize),
		sliding.WithWidth(t.cfg.Width),
		sliding.WithDepth(t.cfg.Depth),
		sliding.WithDecay(float32(t.cfg.Decay)),
	)
}

// Observe counts each non-empty phrase once, case-insensitively.
func (t *SignalTracker) Observe(now time.Time, phrases []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(now)
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		t.sketch.Incr(p)
	}
}

// Top returns the ranked phrases in the window ending at now.
func (t *SignalTracker) Top(now time.Time) []PhraseCount {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(now)
	items := t.ranker.refresh(now,
		func() []heap.Item { return t.sketch.SortedSlice() },
		func(items []heap.Item, limit int) {
			for i := 0; i < limit; i++ {
				items[i].Count = t.sketch.Count(items[i].Item)
			}
		},
	)
	out := make([]PhraseCount, 0, len(items))
	for _, it := range items {
		if it.Count == 0 {
			continue
		}
		out = append(out, PhraseCount{Phrase: it.Item, Count: it.Count})
	}
	return out
}

// Reset forgets every phrase.
func (t *SignalTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sketch = t.newSketch()
	t.ranker = newIncrementalRanker(t.cfg.K, t.cfg.FullRefresh)
	t.last = time.Time{}
}

func (t *SignalTracker) advance(now time.Time) {
	now = now.Truncate(t.cfg.TickSize)
	if t.last.IsZero() {
		t.last = now
		return
	}
	if ticks := int(now.Sub(t.last) / t.cfg.TickSize); ticks > 0 {
		t.sketch.Ticks(ticks)
		t.last = now
	}
}
