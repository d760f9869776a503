package watch

import (
	"sync"
	"time"
)

// Debouncer collects rapid events and calls back only after a quiet period.
// Events are tracked per key so edits of different files do not swallow each
// other.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
	}
}

// Trigger (re)starts quiet period for the key, callback replaces any pending
// one.
func (d *Debouncer) Trigger(key string, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.stopped || d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		callback()
	})
	d.timers[key] = t
}

// Pending returns number of keys waiting for quiet period to end.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels pending callbacks, later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
