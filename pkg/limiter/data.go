package limiter

import "time"

// HostTiming is the per-host bookkeeping used to space out calls.
// LastFetchAt is the most recently reserved slot, which may lie in the future.
type HostTiming struct {
	lastFetchAt  time.Time
	backoffDelay time.Duration
	backoffCount int
}

func (h HostTiming) BackoffDelay() time.Duration {
	return h.backoffDelay
}

func (h HostTiming) LastFetchAt() time.Time {
	return h.lastFetchAt
}

func (h HostTiming) BackoffCount() int {
	return h.backoffCount
}
