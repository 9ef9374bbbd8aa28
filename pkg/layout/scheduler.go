package layout

import (
	"sync"
	"time"
)

// Scheduler runs deferred work.
type Scheduler interface {
	// AfterFunc runs fn once, after d has elapsed.
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules work with time.AfterFunc. The zero value is ready
// to use.
type TimerScheduler struct {
	wg sync.WaitGroup
}

// AfterFunc implements Scheduler.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	s.wg.Add(1)
	time.AfterFunc(d, func() {
		defer s.wg.Done()
		fn()
	})
}

// Wait blocks until every task scheduled so far has run.
func (s *TimerScheduler) Wait() { s.wg.Wait() }

// ManualScheduler queues work until Run is called. Time never passes on its
// own, which makes debounce behaviour deterministic in tests and batch
// tools.
type ManualScheduler struct {
	mu     sync.Mutex
	queue  []func()
	delays []time.Duration
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
	s.delays = append(s.delays, d)
}

// Pending returns the number of queued tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Delays returns the delay requested by every task scheduled so far.
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Run executes queued tasks, including tasks they schedule, until the queue
// is empty. It returns the number of tasks run.
func (s *ManualScheduler) Run() int {
	n := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return n
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		fn()
		n++
	}
}
