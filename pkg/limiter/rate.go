package limiter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/movie-info-server/pkg/timeutil"
)

// RateLimiter
// Keeps outbound calls to a movie API polite.
// Responsibilities:
// - Hand out call slots per upstream host, spaced by the resolved delay
// - Back off after the upstream signals throttling (429)
//
// Reserve books the slot and returns how long to wait for it in one step,
// so concurrent callers for the same host queue up behind each other.
type RateLimiter interface {
	Backoff(host string)
	ResetBackoff(host string)
	Reserve(host string) time.Duration
}

type ConcurrentRateLimiter struct {
	mu           sync.RWMutex
	rngMu        sync.Mutex
	baseDelay    time.Duration
	jitter       time.Duration
	backoffParam timeutil.BackoffParam
	hostTimings  map[string]HostTiming
	rng          *rand.Rand
}

func NewConcurrentRateLimiter() *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		hostTimings:  make(map[string]HostTiming),
		backoffParam: timeutil.DefaultBackoffParam(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ConcurrentRateLimiter) SetBaseDelay(baseDelay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseDelay = baseDelay
}

func (r *ConcurrentRateLimiter) SetJitter(jitter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jitter = jitter
}

func (r *ConcurrentRateLimiter) SetBackoffParam(param timeutil.BackoffParam) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backoffParam = param
}

func (r *ConcurrentRateLimiter) SetRandomSeed(randomSeed int64) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	r.rng = rand.New(rand.NewSource(randomSeed))
}

// Backoff increments the backoff counter for the given host and
// recomputes its backoff delay.
func (r *ConcurrentRateLimiter) Backoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.backoffCount++
	timing.backoffDelay = timeutil.BackoffDelay(timing.backoffCount, r.backoffParam)
	r.hostTimings[host] = timing
}

// ResetBackoff clears backoff state after a successful call.
func (r *ConcurrentRateLimiter) ResetBackoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing, exists := r.hostTimings[host]
	if exists {
		timing.backoffCount = 0
		timing.backoffDelay = 0
		r.hostTimings[host] = timing
	}
}

// Returns a pseudo-random duration in [0, max)
func (r *ConcurrentRateLimiter) computeJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	return time.Duration(r.rng.Int63n(int64(max)))
}

// Reserve books the next call slot for host and returns how long the
// caller must wait before using it. The slot is
// max(now, lastSlot + max(BaseDelay, BackoffDelay) + Jitter).
// The first call to a host is never delayed.
func (r *ConcurrentRateLimiter) Reserve(host string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	timing, exists := r.hostTimings[host]
	slot := now
	if exists && !timing.lastFetchAt.IsZero() {
		spacing := timeutil.MaxDuration([]time.Duration{r.baseDelay, timing.backoffDelay})
		if spacing > 0 {
			spacing += r.computeJitter(r.jitter)
		}
		if next := timing.lastFetchAt.Add(spacing); next.After(slot) {
			slot = next
		}
	}

	timing.lastFetchAt = slot
	r.hostTimings[host] = timing
	return slot.Sub(now)
}

func (r *ConcurrentRateLimiter) BaseDelay() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseDelay
}

func (r *ConcurrentRateLimiter) Jitter() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jitter
}

// HostTimings returns a copy of the per-host bookkeeping.
func (r *ConcurrentRateLimiter) HostTimings() map[string]HostTiming {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copyMap := make(map[string]HostTiming, len(r.hostTimings))
	for k, v := range r.hostTimings {
		copyMap[k] = v
	}
	return copyMap
}
