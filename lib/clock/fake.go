// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests. Time starts at the value
// passed to NewFake and only moves when Advance is called. Timers and
// sleepers scheduled before or at the new time fire during Advance, in
// deadline order, on the calling goroutine for AfterFunc callbacks.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time // nil for AfterFunc waiters
	fn       func()         // nil for channel waiters
	stopped  bool
	fired    bool
}

// NewFake returns a Fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After returns a channel that receives when Advance moves the clock
// past d. If d <= 0, the channel receives immediately.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- f.now
		return ch
	}
	f.waiters = append(f.waiters, &fakeWaiter{deadline: f.now.Add(d), ch: ch})
	return ch
}

// AfterFunc schedules f to run when Advance moves the clock past d.
// If d <= 0, fn runs synchronously before AfterFunc returns.
func (f *Fake) AfterFunc(d time.Duration, fn func()) *Timer {
	f.mu.Lock()
	if d <= 0 {
		f.mu.Unlock()
		fn()
		return &Timer{stopFunc: func() bool { return false }}
	}
	waiter := &fakeWaiter{deadline: f.now.Add(d), fn: fn}
	f.waiters = append(f.waiters, waiter)
	f.mu.Unlock()

	return &Timer{stopFunc: func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if waiter.fired || waiter.stopped {
			return false
		}
		waiter.stopped = true
		return true
	}}
}

// Sleep returns immediately when d <= 0 and otherwise blocks until
// another goroutine calls Advance far enough. Tests that exercise code
// paths containing Sleep should either pass zero durations or advance
// from a separate goroutine.
func (f *Fake) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-f.After(d)
}

// Advance moves the clock forward by d, firing every timer whose
// deadline has been reached in deadline order. AfterFunc callbacks run
// on the calling goroutine with the clock unlocked.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now

	var due []*fakeWaiter
	var remaining []*fakeWaiter
	for _, waiter := range f.waiters {
		if waiter.stopped {
			continue
		}
		if !waiter.deadline.After(now) {
			waiter.fired = true
			due = append(due, waiter)
		} else {
			remaining = append(remaining, waiter)
		}
	}
	f.waiters = remaining
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	f.mu.Unlock()

	for _, waiter := range due {
		if waiter.ch != nil {
			waiter.ch <- now
		}
		if waiter.fn != nil {
			waiter.fn()
		}
	}
}
