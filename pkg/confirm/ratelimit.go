package confirm

import "time"

// slidingWindow counts transaction creations per buyer within a moving
// window. It is owned by the Registry and accessed only under the
// registry lock, so it carries no lock of its own.
type slidingWindow struct {
	max    int
	window time.Duration
	hits   map[string][]time.Time
}

func newSlidingWindow(max int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// allow records a creation attempt for id at time now, and reports
// whether it stays within the limit. Rejected attempts are not
// recorded.
func (w *slidingWindow) allow(id string, now time.Time) bool {
	cutoff := now.Add(-w.window)
	kept := w.hits[id][:0]
	for _, at := range w.hits[id] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) >= w.max {
		w.hits[id] = kept
		return false
	}
	w.hits[id] = append(kept, now)
	return true
}

// gc drops buyers whose recorded attempts have all left the window.
func (w *slidingWindow) gc(now time.Time) {
	cutoff := now.Add(-w.window)
	for id, hits := range w.hits {
		live := false
		for _, at := range hits {
			if at.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(w.hits, id)
		}
	}
}
