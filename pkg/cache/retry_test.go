package cache

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil || RetryAfter(nil, "1") != nil {
		t.Error("nil errors must stay nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) || !errors.Is(err, errTransient) {
		t.Errorf("Retryable(%v) lost its chain", err)
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryAfterHeader(t *testing.T) {
	tests := []struct {
		header string
		min    time.Duration
		max    time.Duration
	}{
		{"120", 120 * time.Second, 120 * time.Second},
		{"0", 0, 0},
		{"soon", 0, 0},
		{"", 0, 0},
		{time.Now().Add(time.Hour).UTC().Format(http.TimeFormat), 58 * time.Minute, time.Hour},
		{time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			var re *RetryableError
			if !errors.As(RetryAfter(errTransient, tt.header), &re) {
				t.Fatal("not a RetryableError")
			}
			if re.After < tt.min || re.After > tt.max {
				t.Errorf("After = %v, want in [%v, %v]", re.After, tt.min, tt.max)
			}
		})
	}
}

func TestRetryPolicyDo(t *testing.T) {
	errPermanent := errors.New("permanent")
	policy := RetryPolicy{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		fail      int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"succeeds first time", 0, nil, 1, nil},
		{"permanent error stops", 5, errPermanent, 1, errPermanent},
		{"recovers after retry", 1, Retryable(errTransient), 2, nil},
		{"attempts are bounded", 5, Retryable(errTransient), 3, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := policy.Do(context.Background(), func() error {
				calls++
				if calls <= tt.fail {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryPolicyWait(t *testing.T) {
	p := RetryPolicy{Delay: time.Second, MaxDelay: 10 * time.Second}
	tests := []struct {
		name  string
		delay time.Duration
		err   error
		want  time.Duration
	}{
		{"backoff", 2 * time.Second, Retryable(errTransient), 2 * time.Second},
		{"server asks for longer", time.Second, RetryAfter(errTransient, "5"), 5 * time.Second},
		{"server asks for less", 4 * time.Second, RetryAfter(errTransient, "1"), 4 * time.Second},
		{"capped", 40 * time.Second, Retryable(errTransient), 10 * time.Second},
		{"server wait capped", time.Second, RetryAfter(errTransient, "3600"), 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.wait(tt.delay, tt.err); got != tt.want {
				t.Errorf("wait = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryPolicyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := DefaultRetryPolicy.Do(ctx, func() error {
		calls++
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
