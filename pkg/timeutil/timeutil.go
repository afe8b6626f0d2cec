package timeutil

import (
	"math"
	"time"
)

// MaxDuration returns the largest duration in the slice, or zero when empty.
func MaxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	max := durations[0]
	for _, d := range durations[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// BackoffDelay computes initial * multiplier^(count-1), capped at the
// param's max duration. A count below 1 yields zero.
func BackoffDelay(count int, param BackoffParam) time.Duration {
	if count < 1 {
		return 0
	}
	exponent := float64(count - 1)
	delay := float64(param.InitialDuration()) * math.Pow(param.Multiplier(), exponent)
	if param.MaxDuration() > 0 && delay > float64(param.MaxDuration()) {
		delay = float64(param.MaxDuration())
	}
	return time.Duration(delay)
}
