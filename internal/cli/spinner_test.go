package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerAnimates(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Measuring...", true)
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Measuring...") {
		t.Errorf("output %q should contain the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by clearing the line", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Measuring...", false)
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if got := out.String(); got != "" {
		t.Errorf("output = %q, want nothing", got)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "Loading...", true)
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its context")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Rendering...", true)
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing...", true)
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	var status bytes.Buffer
	restore := statusOut
	statusOut = &status
	defer func() { statusOut = restore }()

	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing...", false)
	s.Start()
	s.StopWithError("Layout failed")

	if !strings.Contains(status.String(), "Layout failed") {
		t.Errorf("status = %q", status.String())
	}
}
