package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultMutationsPerMinute = 60
	limitWindow               = time.Minute
	idleClientTTL             = 10 * time.Minute
	sweepInterval             = 5 * time.Minute
)

// mutationLimiter caps how many writes a client IP may make per fixed
// one-minute window. Reads are never counted.
type mutationLimiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow
	limit   int

	done     chan struct{}
	stopOnce sync.Once
}

type clientWindow struct {
	start time.Time
	count int
	seen  time.Time
}

func newMutationLimiter() *mutationLimiter {
	ml := &mutationLimiter{
		windows: make(map[string]*clientWindow),
		limit:   defaultMutationsPerMinute,
		done:    make(chan struct{}),
	}
	go ml.sweepLoop()
	return ml
}

func (ml *mutationLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			ml.sweep(now)
		case <-ml.done:
			return
		}
	}
}

// sweep forgets clients idle for longer than idleClientTTL and reports how
// many were dropped.
func (ml *mutationLimiter) sweep(now time.Time) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	dropped := 0
	for ip, w := range ml.windows {
		if now.Sub(w.seen) > idleClientTTL {
			delete(ml.windows, ip)
			dropped++
		}
	}
	return dropped
}

func (ml *mutationLimiter) stop() {
	ml.stopOnce.Do(func() { close(ml.done) })
}

// allow records one write from clientIP at now. When the client is over its
// budget it returns false and how long until its window resets.
func (ml *mutationLimiter) allow(clientIP string, now time.Time, metrics *securityMetrics) (bool, time.Duration) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	w, ok := ml.windows[clientIP]
	if !ok || now.Sub(w.start) >= limitWindow {
		w = &clientWindow{start: now}
		ml.windows[clientIP] = w
	}
	w.seen = now
	w.count++

	if w.count <= ml.limit {
		return true, 0
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false, w.start.Add(limitWindow).Sub(now)
}
