package layout

import "sync"

type listener struct {
	fn   func()
	once bool
}

// Listeners is a per-event callback registry. It backs the On, Once and
// Subscribe methods of Document and Image implementations. The zero value is
// ready to use and safe for concurrent use.
type Listeners struct {
	mu  sync.Mutex
	reg map[string][]listener
}

// On registers fn for every occurrence of event.
func (l *Listeners) On(event string, fn func()) { l.add(event, fn, false) }

// Once registers fn for the next occurrence of event. It is removed before
// it runs.
func (l *Listeners) Once(event string, fn func()) { l.add(event, fn, true) }

func (l *Listeners) add(event string, fn func(), once bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reg == nil {
		l.reg = make(map[string][]listener)
	}
	l.reg[event] = append(l.reg[event], listener{fn: fn, once: once})
}

// Fire runs the callbacks registered for event in registration order and
// reports how many ran. Callbacks registered while firing run on the next
// Fire.
func (l *Listeners) Fire(event string) int {
	l.mu.Lock()
	current := l.reg[event]
	kept := current[:0:0]
	for _, ln := range current {
		if !ln.once {
			kept = append(kept, ln)
		}
	}
	if len(kept) == 0 {
		delete(l.reg, event)
	} else {
		l.reg[event] = kept
	}
	l.mu.Unlock()

	for _, ln := range current {
		ln.fn()
	}
	return len(current)
}

// Len returns the number of callbacks registered for event.
func (l *Listeners) Len(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reg[event])
}
