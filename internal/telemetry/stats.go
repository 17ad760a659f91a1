package telemetry

import (
	"sort"
)

// Band is the three-level severity bucket of a risk score.
type Band int

const (
	BandSafe    Band = iota // score <= 30
	BandSuspect             // 30 < score <= 70
	BandToxic               // score > 70
)

func (b Band) String() string {
	switch b {
	case BandSuspect:
		return "suspect"
	case BandToxic:
		return "toxic"
	default:
		return "safe"
	}
}

// BandOf buckets a risk score in [0,100].
func BandOf(score float64) Band {
	switch {
	case score > 70:
		return BandToxic
	case score > 30:
		return BandSuspect
	default:
		return BandSafe
	}
}

// Distribution counts history points per Band.
type Distribution struct {
	Safe    int
	Suspect int
	Toxic   int
}

// Stats are derived from ring contents on demand and never stored.
type Stats struct {
	MeanLatency  float64
	MinLatency   float64
	MaxLatency   float64
	MeanRisk     float64
	Distribution Distribution

	TotalAnalyzed int
	ToxicCount    int
	SafeCount     int
	ToxicRate     float64 // percent of TotalAnalyzed
}

// Stats computes the derived statistics of the snapshot.
func (s Snapshot) Stats() Stats {
	st := Stats{
		TotalAnalyzed: s.Counters.TotalAnalyzed,
		ToxicCount:    s.Counters.ToxicCount,
		SafeCount:     s.Counters.TotalAnalyzed - s.Counters.ToxicCount,
	}
	if st.TotalAnalyzed > 0 {
		st.ToxicRate = float64(st.ToxicCount) / float64(st.TotalAnalyzed) * 100
	}

	if len(s.Latencies) > 0 {
		st.MinLatency = s.Latencies[0]
		st.MaxLatency = s.Latencies[0]
		var sum float64
		for _, l := range s.Latencies {
			sum += l
			st.MinLatency = min(st.MinLatency, l)
			st.MaxLatency = max(st.MaxLatency, l)
		}
		st.MeanLatency = sum / float64(len(s.Latencies))
	}

	if len(s.History) > 0 {
		var sum float64
		for _, p := range s.History {
			sum += p.Score
			switch BandOf(p.Score) {
			case BandToxic:
				st.Distribution.Toxic++
			case BandSuspect:
				st.Distribution.Suspect++
			default:
				st.Distribution.Safe++
			}
		}
		st.MeanRisk = sum / float64(len(s.History))
	}
	return st
}

// Signal is the dominant label of a result.
type Signal struct {
	Label       string
	Probability float64
	Safe        bool
}

// TopSignal returns the highest-probability label. Results with a risk
// score under 10 are reported as safe regardless of their labels.
func TopSignal(riskScore float64, labels map[string]float64) Signal {
	if riskScore < 10 || len(labels) == 0 {
		return Signal{Safe: true}
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := labels[names[i]], labels[names[j]]
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return Signal{Label: names[0], Probability: labels[names[0]]}
}
