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

/*
Package pools multiplexes a bounded set of MySQL protocol sessions across
concurrent borrowers.

The pool owns a fixed number of entries, each wrapping one session. Get
hands out an entry after driving it through the setup state machine
(resolve, connect, health-check, reset as needed, with retries); Recycle
returns it. The pool mutex only guards the short bookkeeping sections:
while a session is being set up or used, the entry is protected by its
locked flag instead, so no lock is ever held across network I/O.
*/
package pools

import (
	"errors"
	"sync"
	"time"

	"context"

	"mysqlpool.io/mysqlpool/go/mysql"
	"mysqlpool.io/mysqlpool/go/stats"
)

var (
	// ErrPoolClosed is returned if the pool is used when it's closed.
	ErrPoolClosed = errors.New("connection pool is closed")

	// ErrRetriesExhausted is returned when an entry could not be brought
	// up within the pool's retry budget.
	ErrRetriesExhausted = errors.New("connection setup retries exhausted")
)

// Pool is a fixed-capacity pool of MySQL sessions.
type Pool struct {
	name    string
	connect SessionConnector
	cfg     Config

	// mu guards entries' bookkeeping fields, closed, and the
	// locked-flag transitions. It is never held while talking to the
	// network.
	mu      sync.Mutex
	entries []*pooledEntry
	closed  bool

	wait waitlist

	waitCount    *stats.Counter
	waitTimeouts *stats.Counter
	waitTime     *stats.CounterDuration
	exhausted    *stats.Counter
	setupTries   *stats.Counter
	recreated    *stats.Counter
}

// NewPool creates a pool of cfg.Capacity entries whose sessions are
// produced by connect. The name is used to publish stats only; a pool with
// an empty name publishes nothing.
func NewPool(name string, connect SessionConnector, cfg Config) *Pool {
	cfg.withDefaults()
	if cfg.Capacity <= 0 {
		panic(errors.New("invalid/out of range capacity"))
	}

	p := &Pool{
		name:    name,
		connect: connect,
		cfg:     cfg,
	}
	p.entries = make([]*pooledEntry, cfg.Capacity)
	for i := range p.entries {
		p.entries[i] = &pooledEntry{pool: p, conn: connect(), state: NotConnected}
	}

	p.waitCount = stats.NewCounter(statName(name, "WaitCount"), "number of times Get had to wait for an entry")
	p.waitTimeouts = stats.NewCounter(statName(name, "WaitTimeouts"), "number of bounded waits that timed out and rescanned")
	p.waitTime = stats.NewCounterDuration(statName(name, "WaitTime"), "total time Get callers spent waiting")
	p.exhausted = stats.NewCounter(statName(name, "Exhausted"), "number of times no entry was available")
	p.setupTries = stats.NewCounter(statName(name, "SetupTries"), "total setup attempts, including retries")
	p.recreated = stats.NewCounter(statName(name, "SessionsRecreated"), "sessions discarded and recreated after a failed probe")
	if name != "" {
		stats.Publish(name+"Capacity", stats.IntFunc(p.Capacity))
		stats.Publish(name+"Available", stats.IntFunc(p.Available))
		stats.Publish(name+"InUse", stats.IntFunc(p.InUse))
		stats.Publish(name+"Waiting", stats.IntFunc(p.Waiting))
	}
	return p
}

func statName(pool, stat string) string {
	if pool == "" {
		return ""
	}
	return pool + stat
}

// Get returns a ready-to-use borrowed connection, waiting if every entry
// is taken. On failure no entry stays locked on the caller's behalf.
//
// The wait is bounded by cfg.WaitTimeout per iteration: a timed-out wait
// is not an error, the pool simply rescans and waits again until the
// context is cancelled.
func (p *Pool) Get(ctx context.Context, diag *mysql.Diagnostics) (*PooledConn, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		e := p.findConnection()
		if e != nil {
			e.locked = true
			// The mutex must not be held during setup, which can
			// block on the network for a long time. The locked
			// flag keeps the entry ours.
			p.mu.Unlock()

			conn := &PooledConn{entry: e}
			if err := e.setup(ctx, diag); err != nil {
				// A failed setup releases the entry: the next
				// taker will heal it through the state machine.
				conn.Recycle()
				return nil, err
			}
			return conn, nil
		}
		p.exhausted.Add(1)
		p.mu.Unlock()

		start := time.Now()
		p.waitCount.Add(1)
		notified, err := p.wait.waitFor(ctx, p.cfg.WaitTimeout)
		p.waitTime.Add(time.Since(start))
		if err != nil {
			return nil, err
		}
		if !notified {
			p.waitTimeouts.Add(1)
		}
	}
}

// findConnection scans the entries in insertion order and returns the
// first one that is neither locked nor in use, or nil. Callers must hold
// the pool mutex.
func (p *Pool) findConnection() *pooledEntry {
	for _, e := range p.entries {
		if !e.locked && e.state != InUse {
			return e
		}
	}
	return nil
}

// returnConn is the release path run when a borrow is dropped. A session
// that served a user is marked for reset before its next use; an entry
// whose setup never completed keeps its state so the next setup pass can
// pick up from whatever was observed. Exactly one waiter is notified.
func (p *Pool) returnConn(e *pooledEntry) {
	p.mu.Lock()
	if e.state == InUse {
		e.state = PendingReset
	}
	if p.closed {
		e.conn.Close()
		e.state = NotConnected
	}
	e.locked = false
	p.mu.Unlock()

	p.wait.notifyOne()
}

// park transitions a locked, set-up entry back to Idle without a user
// having touched it. Used by Warm.
func (p *Pool) park(e *pooledEntry) {
	p.mu.Lock()
	if e.state == InUse {
		e.state = Idle
	}
	if p.closed {
		e.conn.Close()
		e.state = NotConnected
	}
	e.locked = false
	p.mu.Unlock()

	p.wait.notifyOne()
}

// Warm establishes up to n sessions ahead of demand and parks them Idle.
// It stops at the first setup failure and returns its error; already
// warmed entries stay warmed.
func (p *Pool) Warm(ctx context.Context, n int) error {
	if n > len(p.entries) {
		n = len(p.entries)
	}
	var diag mysql.Diagnostics
	for i := 0; i < n; i++ {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrPoolClosed
		}
		e := p.findNotConnected()
		if e == nil {
			p.mu.Unlock()
			return nil
		}
		e.locked = true
		p.mu.Unlock()

		if err := e.setup(ctx, &diag); err != nil {
			e.release()
			return err
		}
		p.park(e)
	}
	return nil
}

func (p *Pool) findNotConnected() *pooledEntry {
	for _, e := range p.entries {
		if !e.locked && e.state == NotConnected {
			return e
		}
	}
	return nil
}

// Close closes every idle session and marks the pool closed. Borrowed
// entries are closed as they are returned. Waiters are woken and observe
// ErrPoolClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, e := range p.entries {
		if !e.locked {
			e.conn.Close()
			e.state = NotConnected
		}
	}
	p.mu.Unlock()

	p.wait.notifyAll()
}

// IsClosed returns true if the pool is closed.
func (p *Pool) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Capacity returns the fixed number of entries.
func (p *Pool) Capacity() int64 {
	return int64(len(p.entries))
}

// Available returns the number of entries that a Get could take right now.
func (p *Pool) Available() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, e := range p.entries {
		if !e.locked && e.state != InUse {
			n++
		}
	}
	return n
}

// InUse returns the number of currently borrowed entries.
func (p *Pool) InUse() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, e := range p.entries {
		if e.locked {
			n++
		}
	}
	return n
}

// Waiting returns the number of Get callers blocked on the waitlist.
func (p *Pool) Waiting() int64 {
	return int64(p.wait.waiting())
}

// WaitCount returns the total number of waits.
func (p *Pool) WaitCount() int64 {
	return p.waitCount.Get()
}

// WaitTime returns the total wait time.
func (p *Pool) WaitTime() time.Duration {
	return p.waitTime.Get()
}

// SessionsRecreated returns how many sessions were discarded and rebuilt
// after a failed probe.
func (p *Pool) SessionsRecreated() int64 {
	return p.recreated.Get()
}

// Name returns the pool's stats name.
func (p *Pool) Name() string {
	return p.name
}
