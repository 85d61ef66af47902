package registry

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// debouncer runs fn once wait has elapsed since the last Trigger.
type debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	wait  time.Duration
	timer *clock.Timer
	gen   uint64
	fn    func()
}

func newDebouncer(c clock.Clock, wait time.Duration, fn func()) *debouncer {
	return &debouncer{clock: c, wait: wait, fn: fn}
}

// Trigger restarts the window.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Stop cancels a pending run and reports whether one was pending.
func (d *debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.gen++
	pending := d.timer.Stop()
	d.timer = nil
	return pending
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
