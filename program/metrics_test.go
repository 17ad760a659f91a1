package main

import (
	"testing"
	"time"
)

func TestDurationRingSnapshot(t *testing.T) {
	r := newDurationRing(3)
	if s := r.snapshot(); s.n != 0 || s.avg != 0 {
		t.Fatalf("empty ring snapshot = %+v", s)
	}
	for _, ms := range []int{10, 40, 20, 30} {
		r.add(time.Duration(ms) * time.Millisecond)
	}
	s := r.snapshot()
	if s.n != 3 {
		t.Fatalf("n = %d, want 3", s.n)
	}
	if s.last != 30*time.Millisecond {
		t.Fatalf("last = %v", s.last)
	}
	if s.max != 40*time.Millisecond {
		t.Fatalf("max = %v", s.max)
	}
	if s.avg != 30*time.Millisecond {
		t.Fatalf("avg = %v", s.avg)
	}
}

func TestClientMetrics(t *testing.T) {
	m := newClientMetrics(8)
	m.observeResponse(time.Now(), time.Second, true)
	if s := m.snapshot(); s.results != 0 {
		t.Fatalf("disabled metrics recorded %+v", s)
	}

	m.setEnabled(true)
	t0 := time.Unix(1000, 0)
	m.observeResponse(t0, 100*time.Millisecond, true)
	m.observeResponse(t0.Add(30*time.Second), 200*time.Millisecond, false)
	m.observeResponse(t0.Add(time.Minute), 300*time.Millisecond, true)
	m.observeChat()
	m.observeRender(2 * time.Millisecond)

	s := m.snapshot()
	if s.results != 2 || s.failures != 1 || s.chats != 1 {
		t.Fatalf("unexpected counters %+v", s)
	}
	if s.perMinute != 1 {
		t.Fatalf("perMinute = %v, want 1", s.perMinute)
	}
	if s.roundTrip.n != 3 || s.roundTrip.max != 300*time.Millisecond {
		t.Fatalf("round trip = %+v", s.roundTrip)
	}
	if s.renderCost.last != 2*time.Millisecond {
		t.Fatalf("render = %+v", s.renderCost)
	}
}
