package timeutil

import (
	"testing"
	"time"
)

func TestMaxDuration(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
		want      time.Duration
	}{
		{
			name:      "multiple values returns maximum",
			durations: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 200 * time.Millisecond},
			want:      500 * time.Millisecond,
		},
		{
			name:      "single value returns that value",
			durations: []time.Duration{300 * time.Millisecond},
			want:      300 * time.Millisecond,
		},
		{
			name:      "empty slice returns zero",
			durations: []time.Duration{},
			want:      0,
		},
		{
			name:      "negative durations handled correctly",
			durations: []time.Duration{-100 * time.Millisecond, 50 * time.Millisecond, -200 * time.Millisecond},
			want:      50 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxDuration(tt.durations); got != tt.want {
				t.Errorf("MaxDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	param := NewBackoffParam(time.Second, 2.0, 5*time.Second)

	tests := []struct {
		count int
		want  time.Duration
	}{
		{count: 0, want: 0},
		{count: 1, want: time.Second},
		{count: 2, want: 2 * time.Second},
		{count: 3, want: 4 * time.Second},
		{count: 4, want: 5 * time.Second},
		{count: 10, want: 5 * time.Second},
	}

	for _, tt := range tests {
		if got := BackoffDelay(tt.count, param); got != tt.want {
			t.Errorf("BackoffDelay(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}
