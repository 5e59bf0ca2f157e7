package util

import "time"

// Modified from https://blog.gopheracademy.com/advent-2014/backoff/

type BackoffPolicy struct {
	Seconds []time.Duration
}

var DefaultRetryPolicy = BackoffPolicy{
	[]time.Duration{
		1 * time.Second,
		3 * time.Second,
		10 * time.Second,
		30 * time.Second,
		60 * time.Second,
	},
}

// Duration returns the wait before retry n (0 based). Retries past the end
// of the policy reuse its last entry.
func (b BackoffPolicy) Duration(n int) time.Duration {
	if len(b.Seconds) == 0 {
		return 0
	}

	if n < 0 {
		n = 0
	}

	if n >= len(b.Seconds) {
		n = len(b.Seconds) - 1
	}

	return b.Seconds[n]
}
