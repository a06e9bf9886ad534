/*
Copyright 2026 The Mysqlpool Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pools

import (
	"context"
	"sync"
	"time"
)

// waiter represents a client blocked waiting for an entry to be returned.
type waiter struct {
	// ch receives exactly one token if this waiter is picked by a
	// notify. It is buffered so the notifier never blocks.
	ch chan struct{}
}

// waitlist is the pool's condition variable: returners notify one waiter,
// waiters block with a bounded timeout so a missed notification can never
// strand them. Waiters are served oldest first.
type waitlist struct {
	mu   sync.Mutex
	list []*waiter
}

// waitFor blocks until one of: a notification (notified=true), the timeout
// (notified=false, err=nil), or context cancellation (err != nil). The
// timeout is a liveness measure, not an error: callers are expected to
// re-scan the pool and wait again.
func (wl *waitlist) waitFor(ctx context.Context, timeout time.Duration) (notified bool, err error) {
	w := &waiter{ch: make(chan struct{}, 1)}
	wl.mu.Lock()
	wl.list = append(wl.list, w)
	wl.mu.Unlock()

	tmr := time.NewTimer(timeout)
	defer tmr.Stop()

	select {
	case <-w.ch:
		return true, nil
	case <-tmr.C:
		wl.abandon(w)
		return false, nil
	case <-ctx.Done():
		wl.abandon(w)
		return false, ctx.Err()
	}
}

// abandon removes w from the list after a timeout or cancellation. If a
// notify raced with the abandonment and already picked w, the token is
// collected and re-dispatched so no wakeup is ever lost.
func (wl *waitlist) abandon(w *waiter) {
	wl.mu.Lock()
	for i, o := range wl.list {
		if o == w {
			wl.list = append(wl.list[:i], wl.list[i+1:]...)
			wl.mu.Unlock()
			return
		}
	}
	wl.mu.Unlock()

	// Not in the list: a notifier popped us and will send exactly one
	// token. Wait for it and pass it on.
	<-w.ch
	wl.notifyOne()
}

// notifyOne wakes the oldest waiter, if any.
func (wl *waitlist) notifyOne() {
	wl.mu.Lock()
	var w *waiter
	if len(wl.list) > 0 {
		w = wl.list[0]
		wl.list = wl.list[1:]
	}
	wl.mu.Unlock()
	if w != nil {
		w.ch <- struct{}{}
	}
}

// notifyAll wakes every waiter. Used on pool close.
func (wl *waitlist) notifyAll() {
	wl.mu.Lock()
	woken := wl.list
	wl.list = nil
	wl.mu.Unlock()
	for _, w := range woken {
		w.ch <- struct{}{}
	}
}

// waiting returns the number of blocked waiters.
func (wl *waitlist) waiting() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return len(wl.list)
}
