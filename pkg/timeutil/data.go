package timeutil

import "time"

// BackoffParam describes an exponential backoff curve: the first delay,
// the factor applied per further step and the cap.
type BackoffParam struct {
	initialDuration time.Duration
	multiplier      float64
	maxDuration     time.Duration
}

func NewBackoffParam(
	initialDuration time.Duration,
	multiplier float64,
	maxDuration time.Duration,
) BackoffParam {
	return BackoffParam{
		initialDuration: initialDuration,
		multiplier:      multiplier,
		maxDuration:     maxDuration,
	}
}

func (b BackoffParam) InitialDuration() time.Duration {
	return b.initialDuration
}

func (b BackoffParam) Multiplier() float64 {
	return b.multiplier
}

func (b BackoffParam) MaxDuration() time.Duration {
	return b.maxDuration
}

// DefaultBackoffParam starts at 1s, doubles per step and caps at 30s,
// which keeps a throttled OMDb key quiet without stalling requests for long.
func DefaultBackoffParam() BackoffParam {
	return NewBackoffParam(time.Second, 2.0, 30*time.Second)
}
