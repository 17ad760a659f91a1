package telemetry

import (
	"testing"
	"time"
)

func TestSignalTracker_RanksPhrases(t *testing.T) {
	tr := NewSignalTracker(DefaultSignalConfig())
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tr.Observe(now, []string{"idiot", "trash"})
	tr.Observe(now, []string{"Idiot "})
	tr.Observe(now, []string{"idiot", ""})

	top := tr.Top(now)
	if len(top) != 2 {
		t.Fatalf("expected 2 phrases, got %+v", top)
	}
	if top[0].Phrase != "idiot" || top[0].Count != 3 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].Phrase != "trash" || top[1].Count != 1 {
		t.Fatalf("unexpected runner-up: %+v", top[1])
	}
}

func TestSignalTracker_Reset(t *testing.T) {
	tr := NewSignalTracker(DefaultSignalConfig())
	now := time.Now()
	tr.Observe(now, []string{"moron"})
	tr.Reset()
	if top := tr.Top(now); len(top) != 0 {
		t.Fatalf("expected empty after reset, got %+v", top)
	}
}

func TestNewSignalTracker_Defaults(t *testing.T) {
	tr := NewSignalTracker(SignalConfig{})
	def := DefaultSignalConfig()
	if tr.cfg.K != def.K || tr.cfg.TickSize != def.TickSize || tr.cfg.WindowSize != def.WindowSize {
		t.Fatalf("unexpected config: %+v", tr.cfg)
	}
}
