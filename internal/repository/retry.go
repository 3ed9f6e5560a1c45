package repository

import "time"

// RetryPolicy spaces out probes of a failed primary store.
type RetryPolicy struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy probes after 5s, doubling up to a minute.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{InitialDelay: 5 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
}

// NextDelay is the wait before the next probe after the given number of
// consecutive failures.
func (r RetryPolicy) NextDelay(failures int) time.Duration {
	base := r.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	delay := float64(base)
	for i := 1; i < failures; i++ {
		delay *= factor
		if r.MaxDelay > 0 && delay >= float64(r.MaxDelay) {
			return r.MaxDelay
		}
		// past ~292 years a Duration overflows
		if delay >= float64(1<<62) {
			break
		}
	}

	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	return d
}
