package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/source"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

// fakeAnalyzer scores text with score(text) after waiting on gate(text), if set.
// It deliberately ignores ctx so that superseded responses still arrive.
type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []string
	score func(text string) float64
	gate  func(text string) <-chan struct{}
	fail  bool
}

func (f *fakeAnalyzer) Submit(_ context.Context, text string, _ float64) (classifier.Result, bool) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	gate, fail := f.gate, f.fail
	f.mu.Unlock()
	if gate != nil {
		if ch := gate(text); ch != nil {
			<-ch
		}
	}
	if fail {
		return classifier.Result{}, false
	}
	score := 50.0
	if f.score != nil {
		score = f.score(text)
	}
	return classifier.Result{
		RiskScore:        score,
		Labels:           map[string]float64{classifier.LabelInsult: score / 100},
		Highlights:       []string{text},
		ProcessingTimeMs: 7,
	}, true
}

func (f *fakeAnalyzer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func start(t *testing.T, m *Monitor) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = m.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestEdit_DebouncesBurst(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(40*time.Millisecond), quiet())
	start(t, m)

	for _, s := range []string{"y", "yo", "you", "you i", "you idiot"} {
		m.Edit(s)
		time.Sleep(5 * time.Millisecond)
	}
	waitFor(t, "recorded result", func() bool { return agg.Counters().TotalAnalyzed == 1 })
	time.Sleep(80 * time.Millisecond)

	calls := fa.Calls()
	if len(calls) != 1 || calls[0] != "you idiot" {
		t.Fatalf("expected one call for the final text, got %q", calls)
	}
	if r, ok := m.Current(); !ok || r.RiskScore != 50 {
		t.Fatalf("unexpected current result: %+v %v", r, ok)
	}
	if m.Text() != "you idiot" {
		t.Fatalf("unexpected text %q", m.Text())
	}
}

func TestEdit_BlankClearsWithoutRequest(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(10*time.Millisecond), quiet())
	start(t, m)

	m.Edit("hello")
	waitFor(t, "first result", func() bool { _, ok := m.Current(); return ok })
	m.Edit("   ")
	waitFor(t, "cleared result", func() bool { _, ok := m.Current(); return !ok })

	if n := len(fa.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
	if c := agg.Counters(); c.TotalAnalyzed != 1 {
		t.Fatalf("unexpected counters %+v", c)
	}
}

func TestApply_DiscardsStaleResponse(t *testing.T) {
	slow := make(chan struct{})
	fa := &fakeAnalyzer{
		score: func(text string) float64 {
			if text == "old" {
				return 99
			}
			return 10
		},
		gate: func(text string) <-chan struct{} {
			if text == "old" {
				return slow
			}
			return nil
		},
	}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(5*time.Millisecond), quiet())
	start(t, m)

	m.Edit("old")
	waitFor(t, "old request", func() bool { return len(fa.Calls()) == 1 })
	m.Edit("new")
	waitFor(t, "new result", func() bool { return agg.Counters().TotalAnalyzed == 1 })

	close(slow)
	waitFor(t, "stale discard", func() bool { return m.Stale() == 1 })

	snap := agg.Snapshot()
	if snap.Counters.TotalAnalyzed != 1 || snap.History[0].Score != 10 || snap.Session[0].TextPreview != "new" {
		t.Fatalf("stale response changed state: %+v", snap)
	}
	if r, _ := m.Current(); r.RiskScore != 10 {
		t.Fatalf("stale response replaced current result: %+v", r)
	}
}

func TestStopStream_DiscardsInFlight(t *testing.T) {
	gate := make(chan struct{})
	fa := &fakeAnalyzer{gate: func(string) <-chan struct{} { return gate }}
	agg := telemetry.New()
	sim := source.NewSimulator(source.WithInterval(10 * time.Millisecond))
	m := New(fa, agg, WithSimulator(sim), quiet())
	start(t, m)

	m.StartStream()
	if m.Mode() != source.ModeStream {
		t.Fatal("expected stream mode")
	}
	waitFor(t, "stream request", func() bool { return len(fa.Calls()) >= 1 })
	m.StopStream()
	close(gate)

	waitFor(t, "stale discard", func() bool { return m.Stale() >= 1 })
	time.Sleep(30 * time.Millisecond)
	calls := len(fa.Calls())
	time.Sleep(50 * time.Millisecond)

	if c := agg.Counters(); c.TotalAnalyzed != 0 {
		t.Fatalf("recorded after stop: %+v", c)
	}
	if n := len(fa.Calls()); n != calls {
		t.Fatalf("requests issued after stop: %d -> %d", calls, n)
	}
	if m.Mode() != source.ModeText || m.Busy() {
		t.Fatal("expected idle text mode")
	}
}

func TestStream_RecordsSamples(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	sim := source.NewSimulator(source.WithInterval(15 * time.Millisecond))
	m := New(fa, agg, WithSimulator(sim), quiet())
	start(t, m)

	m.StartStream()
	waitFor(t, "stream results", func() bool { return agg.Counters().TotalAnalyzed >= 2 })
	m.StopStream()

	log := sim.Log()
	if len(log) < 2 {
		t.Fatalf("expected chat log entries, got %d", len(log))
	}
	if m.Text() == "" {
		t.Fatal("expected streamed text to become the input")
	}
}

func TestEdit_IgnoredWhileStreaming(t *testing.T) {
	fa := &fakeAnalyzer{}
	sim := source.NewSimulator(source.WithInterval(time.Hour))
	m := New(fa, telemetry.New(), WithSimulator(sim), WithDebounce(5*time.Millisecond), quiet())
	start(t, m)

	m.StartStream()
	m.Edit("typed while streaming")
	time.Sleep(30 * time.Millisecond)
	if n := len(fa.Calls()); n != 0 {
		t.Fatalf("expected no calls, got %d", n)
	}
}

func TestSetMode_CancelsPendingEdit(t *testing.T) {
	fa := &fakeAnalyzer{}
	sim := source.NewSimulator(source.WithInterval(time.Hour))
	m := New(fa, telemetry.New(), WithSimulator(sim), WithDebounce(30*time.Millisecond), quiet())
	start(t, m)

	m.Edit("pending")
	m.StartStream()
	time.Sleep(80 * time.Millisecond)
	if n := len(fa.Calls()); n != 0 {
		t.Fatalf("pending edit fired after mode switch: %d calls", n)
	}
}

func TestThreshold_CapturedAtRecordTime(t *testing.T) {
	fa := &fakeAnalyzer{score: func(string) float64 { return 50 }}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(5*time.Millisecond), WithThreshold(0.3), quiet())
	start(t, m)

	m.Edit("first")
	waitFor(t, "first", func() bool { return agg.Counters().TotalAnalyzed == 1 })
	m.SetThreshold(0.9)
	m.Edit("second")
	waitFor(t, "second", func() bool { return agg.Counters().TotalAnalyzed == 2 })

	if c := agg.Counters(); c.ToxicCount != 1 {
		t.Fatalf("unexpected counters %+v", c)
	}
}

func TestSetThreshold_Clamps(t *testing.T) {
	m := New(&fakeAnalyzer{}, telemetry.New())
	m.SetThreshold(0.01)
	if m.Threshold() != MinThreshold {
		t.Fatalf("got %v", m.Threshold())
	}
	m.SetThreshold(5)
	if m.Threshold() != MaxThreshold {
		t.Fatalf("got %v", m.Threshold())
	}
	if New(&fakeAnalyzer{}, telemetry.New()).Threshold() != DefaultThreshold {
		t.Fatal("unexpected default threshold")
	}
}

func TestFailure_KeepsState(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(5*time.Millisecond), quiet())
	start(t, m)

	m.Edit("ok")
	waitFor(t, "result", func() bool { return agg.Counters().TotalAnalyzed == 1 })

	fa.mu.Lock()
	fa.fail = true
	fa.mu.Unlock()
	m.Edit("broken")
	waitFor(t, "second call", func() bool { return len(fa.Calls()) == 2 })
	waitFor(t, "idle", func() bool { return !m.Busy() })

	if c := agg.Counters(); c.TotalAnalyzed != 1 {
		t.Fatalf("failure changed counters: %+v", c)
	}
	if r, ok := m.Current(); !ok || r.RiskScore != 50 {
		t.Fatalf("failure cleared last result: %+v %v", r, ok)
	}
}

func TestReset_StartsFreshSession(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	signals := telemetry.NewSignalTracker(telemetry.DefaultSignalConfig())
	m := New(fa, agg, WithDebounce(5*time.Millisecond), WithSignals(signals), quiet())
	start(t, m)

	m.Edit("moron")
	waitFor(t, "result", func() bool { return agg.Counters().TotalAnalyzed == 1 })
	if top := signals.Top(time.Now()); len(top) != 1 || top[0].Phrase != "moron" {
		t.Fatalf("unexpected signals: %+v", top)
	}
	m.Reset()
	if c := agg.Counters(); c.TotalAnalyzed != 0 {
		t.Fatalf("unexpected counters %+v", c)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("expected no current result after reset")
	}
	if top := signals.Top(time.Now()); len(top) != 0 {
		t.Fatalf("signals survived reset: %+v", top)
	}
}

func TestClear_KeepsTelemetry(t *testing.T) {
	fa := &fakeAnalyzer{}
	agg := telemetry.New()
	m := New(fa, agg, WithDebounce(5*time.Millisecond), quiet())
	start(t, m)

	m.Edit("hello")
	waitFor(t, "result", func() bool { return agg.Counters().TotalAnalyzed == 1 })
	m.Clear()
	if _, ok := m.Current(); ok || m.Text() != "" {
		t.Fatal("expected cleared display")
	}
	if c := agg.Counters(); c.TotalAnalyzed != 1 {
		t.Fatalf("clear changed telemetry: %+v", c)
	}
}

func TestRun_Teardown(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	fa := &fakeAnalyzer{gate: func(string) <-chan struct{} { return gate }}
	m := New(fa, telemetry.New(), WithDebounce(5*time.Millisecond), quiet())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()

	m.Edit("in flight")
	waitFor(t, "request", func() bool { return len(fa.Calls()) == 1 })
	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}

	for range m.Events() {
	}
	// Commands after teardown return instead of blocking.
	m.Edit("late")
	m.Reset()
}
