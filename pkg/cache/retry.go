package cache

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// RetryableError marks an error as transient. After, when set, is the
// minimum wait the remote asked for before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryAfter marks err as transient and records a Retry-After header value,
// given either in seconds or as an HTTP date. Unparseable values are
// ignored.
func RetryAfter(err error, header string) error {
	if err == nil {
		return nil
	}
	re := &RetryableError{Err: err}
	if secs, perr := strconv.Atoi(header); perr == nil && secs > 0 {
		re.After = time.Duration(secs) * time.Second
	} else if t, perr := http.ParseTime(header); perr == nil {
		re.After = max(time.Until(t), 0)
	}
	return re
}

// IsRetryable reports whether err's chain contains a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy retries transient failures with exponential backoff.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int

	// Delay is the wait before the first retry. It doubles after every
	// retry.
	Delay time.Duration

	// MaxDelay caps a single wait, including one requested by the remote.
	// Zero means no cap.
	MaxDelay time.Duration
}

// DefaultRetryPolicy makes three attempts starting at one second and never
// waits longer than thirty seconds at once.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Do calls fn until it succeeds, fails with an error that is not
// retryable, or the attempts are used up. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(p.wait(delay, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}

func (p RetryPolicy) wait(delay time.Duration, err error) time.Duration {
	var re *RetryableError
	if errors.As(err, &re) && re.After > delay {
		delay = re.After
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}
