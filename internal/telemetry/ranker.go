package telemetry

import (
	"sort"
	"time"

	"github.com/keilerkonzept/topk/heap"
)

// incrementalRanker keeps a cached top-K view and only rebuilds it from the
// sketch every fullRefresh; in between it re-counts and re-sorts the cached items.
type incrementalRanker struct {
	k           int
	fullRefresh time.Duration

	lastFullRefresh time.Time
	items           []heap.Item
}

func newIncrementalRanker(k int, fullRefresh time.Duration) *incrementalRanker {
	if k < 1 {
		k = 1
	}
	if fullRefresh < 0 {
		fullRefresh = 2 * time.Second
	}
	return &incrementalRanker{k: k, fullRefresh: fullRefresh}
}

// refresh returns the current ranking. sortedFn yields a full top-K view;
// recountFn updates Count for the first limit items in place.
func (r *incrementalRanker) refresh(now time.Time, sortedFn func() []heap.Item, recountFn func(items []heap.Item, limit int)) []heap.Item {
	needFull := len(r.items) == 0 || r.lastFullRefresh.IsZero() || r.fullRefresh == 0 ||
		now.Sub(r.lastFullRefresh) >= r.fullRefresh
	if needFull {
		r.items = sortedFn()
		if len(r.items) > r.k {
			r.items = r.items[:r.k]
		}
		r.lastFullRefresh = now
		return cloneItems(r.items)
	}

	recountFn(r.items, len(r.items))
	sort.SliceStable(r.items, func(i, j int) bool {
		li, lj := r.items[i], r.items[j]
		if li.Count != lj.Count {
			return li.Count > lj.Count
		}
		return li.Item < lj.Item
	})
	return cloneItems(r.items)
}

func cloneItems(in []heap.Item) []heap.Item {
	out := make([]heap.Item, len(in))
	copy(out, in)
	return out
}
