package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindow limits each source key to a request budget per time frame.
// Counters for idle keys are swept every window to keep the map bounded.
type FixedWindow struct {
	mu      sync.Mutex
	counts  map[string]*window
	limit   int
	frame   time.Duration
	sweeper *time.Ticker
	done    chan struct{}
}

type window struct {
	count   int
	resetAt time.Time
}

func NewFixedWindow(limit int, frame time.Duration) *FixedWindow {
	rl := &FixedWindow{
		counts:  make(map[string]*window),
		limit:   limit,
		frame:   frame,
		sweeper: time.NewTicker(frame),
		done:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow reports whether the key has budget left in the current window and
// how long until the window resets when it does not.
func (rl *FixedWindow) Allow(key string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.counts[key]
	if !ok || !now.Before(w.resetAt) {
		rl.counts[key] = &window{count: 1, resetAt: now.Add(rl.frame)}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, time.Until(w.resetAt)
	}

	w.count++
	return true, 0
}

func (rl *FixedWindow) sweepLoop() {
	for {
		select {
		case <-rl.sweeper.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindow) sweep() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.counts {
		if now.After(w.resetAt) {
			delete(rl.counts, key)
		}
	}
}

func (rl *FixedWindow) Close() {
	rl.sweeper.Stop()
	close(rl.done)
}
