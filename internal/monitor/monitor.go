// Package monitor turns edits and simulated chat into classification
// requests and folds the responses into a telemetry.Aggregator.
//
// All aggregator writes happen on the goroutine running Run. Every request
// carries the generation current at dispatch time; a response is applied
// only if no newer request, mode switch, stop or reset happened since.
package monitor

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/gateway"
	"github.com/keilerkonzept/abusewatch/internal/source"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

const (
	MinThreshold     = 0.1
	MaxThreshold     = 0.9
	DefaultThreshold = 0.3

	eventBuffer = 64
)

// EventKind tells a subscriber what changed.
type EventKind int

const (
	EventResult  EventKind = iota // a result was recorded
	EventFailed                   // the current request produced no result
	EventCleared                  // the displayed result was cleared
	EventBusy                     // a request was dispatched
	EventChat                     // the simulator emitted a message
	EventMode                     // the active source changed
	EventReset                    // the session was reset
)

// Event is a redraw hint. State is always read back from the Monitor and
// its Aggregator; events may be dropped when the subscriber lags.
type Event struct {
	Kind      EventKind
	Chat      source.ChatMessage
	RoundTrip time.Duration
}

// Monitor orchestrates one live-analysis session.
type Monitor struct {
	gw        gateway.Analyzer
	agg       *telemetry.Aggregator
	signals   *telemetry.SignalTracker
	debouncer *source.Debouncer
	sim       *source.Simulator
	log       *slog.Logger
	now       func() time.Time

	cmds    chan command
	results chan response
	events  chan Event
	done    chan struct{}

	// owned by the Run goroutine
	gen    uint64
	cancel context.CancelFunc
	mode   source.Mode

	threshold atomic.Uint64
	modeView  atomic.Int32
	busy      atomic.Bool
	stale     atomic.Uint64

	mu      sync.Mutex
	text    string
	current *classifier.Result
}

type command struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

type response struct {
	gen       uint64
	text      string
	result    classifier.Result
	ok        bool
	roundTrip time.Duration
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDebounce sets the quiet window for text edits.
func WithDebounce(d time.Duration) Option {
	return func(m *Monitor) {
		m.debouncer = source.NewDebouncer(d)
	}
}

// WithSimulator replaces the live-stream simulator.
func WithSimulator(s *source.Simulator) Option {
	return func(m *Monitor) {
		m.sim = s
	}
}

// WithSignals feeds highlighted phrases of every recorded result into t.
func WithSignals(t *telemetry.SignalTracker) Option {
	return func(m *Monitor) {
		m.signals = t
	}
}

// WithThreshold sets the initial threshold.
func WithThreshold(v float64) Option {
	return func(m *Monitor) {
		m.threshold.Store(math.Float64bits(ClampThreshold(v)))
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.log = l
	}
}

// New creates a Monitor. Nothing happens until Run is called.
func New(gw gateway.Analyzer, agg *telemetry.Aggregator, opts ...Option) *Monitor {
	m := &Monitor{
		gw:        gw,
		agg:       agg,
		debouncer: source.NewDebouncer(source.DefaultDebounce),
		sim:       source.NewSimulator(),
		log:       slog.Default(),
		now:       time.Now,
		cmds:      make(chan command),
		results:   make(chan response),
		events:    make(chan Event, eventBuffer),
		done:      make(chan struct{}),
	}
	m.threshold.Store(math.Float64bits(DefaultThreshold))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClampThreshold limits v to [MinThreshold, MaxThreshold].
func ClampThreshold(v float64) float64 {
	return min(MaxThreshold, max(MinThreshold, v))
}

// Run processes edits, simulator ticks and responses until ctx is done.
// On return every timer is stopped, the in-flight request is cancelled
// and Events is closed.
func (m *Monitor) Run(ctx context.Context) error {
	defer func() {
		m.debouncer.Cancel()
		m.sim.Stop()
		m.invalidate()
		close(m.done)
		close(m.events)
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-m.cmds:
			c.fn(ctx)
			close(c.done)
		case <-m.debouncer.C():
			if text, ok := m.debouncer.Fire(); ok {
				m.dispatch(ctx, text)
			}
		case <-m.sim.C():
			msg := m.sim.Next()
			m.setText(msg.Text)
			m.emit(Event{Kind: EventChat, Chat: msg})
			m.dispatch(ctx, msg.Text)
		case r := <-m.results:
			m.apply(r)
		}
	}
}

// Events delivers redraw hints. It is closed when Run returns.
func (m *Monitor) Events() <-chan Event { return m.events }

// Aggregator returns the session telemetry.
func (m *Monitor) Aggregator() *telemetry.Aggregator { return m.agg }

// Signals returns the phrase tracker, or nil.
func (m *Monitor) Signals() *telemetry.SignalTracker { return m.signals }

// Simulator returns the live-stream simulator (for its chat log).
func (m *Monitor) Simulator() *source.Simulator { return m.sim }

// Edit records new input text. Edits are ignored while the stream is active.
func (m *Monitor) Edit(text string) {
	m.do(func(context.Context) {
		if m.mode != source.ModeText {
			return
		}
		m.setText(text)
		m.debouncer.Push(text)
	})
}

// SetMode switches the active source. Leaving text mode drops a pending
// edit; leaving stream mode stops the simulator. Either way the in-flight
// request is superseded.
func (m *Monitor) SetMode(mode source.Mode) {
	m.do(func(context.Context) {
		if mode == m.mode {
			return
		}
		m.debouncer.Cancel()
		m.sim.Stop()
		m.invalidate()
		m.mode = mode
		m.modeView.Store(int32(mode))
		if mode == source.ModeStream {
			m.sim.Start()
		}
		m.emit(Event{Kind: EventMode})
	})
}

// StartStream switches to the live-stream simulator.
func (m *Monitor) StartStream() { m.SetMode(source.ModeStream) }

// StopStream stops the simulator and returns to text mode. A response to a
// request issued before the stop is discarded when it arrives.
func (m *Monitor) StopStream() { m.SetMode(source.ModeText) }

// SetThreshold changes the threshold used for results recorded from now on.
func (m *Monitor) SetThreshold(v float64) {
	m.threshold.Store(math.Float64bits(ClampThreshold(v)))
}

// Threshold returns the current threshold.
func (m *Monitor) Threshold() float64 {
	return math.Float64frombits(m.threshold.Load())
}

// Mode returns the active source.
func (m *Monitor) Mode() source.Mode { return source.Mode(m.modeView.Load()) }

// Busy reports whether a request is in flight.
func (m *Monitor) Busy() bool { return m.busy.Load() }

// Stale counts responses discarded because they were superseded.
func (m *Monitor) Stale() uint64 { return m.stale.Load() }

// Text returns the current input (the last edit or streamed message).
func (m *Monitor) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Current returns the displayed result, if any.
func (m *Monitor) Current() (classifier.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return classifier.Result{}, false
	}
	return *m.current, true
}

// Clear empties the input and the displayed result. Session telemetry is kept.
func (m *Monitor) Clear() {
	m.do(func(context.Context) {
		m.debouncer.Cancel()
		m.invalidate()
		m.setText("")
		m.setCurrent(nil)
		m.emit(Event{Kind: EventCleared})
	})
}

// Reset starts a fresh session.
func (m *Monitor) Reset() {
	m.do(func(context.Context) {
		m.invalidate()
		m.agg.Reset()
		if m.signals != nil {
			m.signals.Reset()
		}
		m.setCurrent(nil)
		m.emit(Event{Kind: EventReset})
	})
}

// do runs fn on the Run goroutine and waits for it. It returns immediately
// once Run has exited.
func (m *Monitor) do(fn func(ctx context.Context)) {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case m.cmds <- c:
	case <-m.done:
		return
	}
	select {
	case <-c.done:
	case <-m.done:
	}
}

func (m *Monitor) dispatch(ctx context.Context, text string) {
	m.invalidate()
	if strings.TrimSpace(text) == "" {
		m.setCurrent(nil)
		m.emit(Event{Kind: EventCleared})
		return
	}

	gen := m.gen
	rctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.busy.Store(true)
	m.emit(Event{Kind: EventBusy})

	threshold := m.Threshold()
	go func() {
		start := time.Now()
		res, ok := m.gw.Submit(rctx, text, threshold)
		r := response{gen: gen, text: text, result: res, ok: ok, roundTrip: time.Since(start)}
		select {
		case m.results <- r:
		case <-m.done:
		}
	}()
}

func (m *Monitor) apply(r response) {
	if r.gen != m.gen {
		m.stale.Add(1)
		m.log.Debug("discarding superseded response", "gen", r.gen, "current", m.gen)
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy.Store(false)
	if !r.ok {
		m.emit(Event{Kind: EventFailed, RoundTrip: r.roundTrip})
		return
	}
	m.agg.Record(r.result, r.text, m.Threshold())
	if m.signals != nil {
		m.signals.Observe(m.now(), r.result.Highlights)
	}
	m.setCurrent(&r.result)
	m.emit(Event{Kind: EventResult, RoundTrip: r.roundTrip})
}

// invalidate supersedes whatever request is in flight.
func (m *Monitor) invalidate() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy.Store(false)
}

func (m *Monitor) emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

func (m *Monitor) setText(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
}

func (m *Monitor) setCurrent(r *classifier.Result) {
	m.mu.Lock()
	m.current = r
	m.mu.Unlock()
}
