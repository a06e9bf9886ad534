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
	"fmt"

	"context"

	"mysqlpool.io/mysqlpool/go/log"
	"mysqlpool.io/mysqlpool/go/mysql"
	"mysqlpool.io/mysqlpool/go/timer"
)

// setup drives a locked entry from whatever state it is in to InUse,
// retrying transient failures with a fixed delay between attempts, up to
// the pool's retry budget. It is the only mutator of the entry's state
// while the entry is locked; the pool promises not to touch a locked entry.
//
// Transient resolve/connect/ping/reset failures are retried. Cancellation
// always propagates immediately, whichever operation it interrupts. When
// the budget runs out, ErrRetriesExhausted is returned wrapping the last
// transient error.
func (e *pooledEntry) setup(ctx context.Context, diag *mysql.Diagnostics) error {
	cfg := &e.pool.cfg
	var lastErr error

	for tries := 0; tries < cfg.MaxTries; tries++ {
		e.pool.setupTries.Add(1)

		switch e.state {
		case NotConnected:
			endpoints, err := e.conn.Resolve(ctx)
			if err == nil && len(endpoints) == 0 {
				err = mysql.NewClientError(mysql.CRUnknownHost, "resolver returned no endpoints")
			}
			if err != nil {
				lastErr = err
				if err := e.backoff(ctx); err != nil {
					return err
				}
				continue
			}
			// Multiple-address failover is a non-goal: only the
			// first endpoint is tried.
			if err := e.conn.Connect(ctx, endpoints[0], diag); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				lastErr = err
				if err := e.backoff(ctx); err != nil {
					return err
				}
				continue
			}

		case PendingReset:
			if err := e.conn.Reset(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.WarnS("session reset failed, discarding session", "err", err)
				lastErr = err
				e.discardSession()
				if err := e.backoff(ctx); err != nil {
					return err
				}
				continue
			}

		case Idle:
			// The peer may have dropped the session while it sat in
			// the pool. Ping before handing it out; a dead session
			// is discarded and rebuilt from scratch.
			if err := e.conn.Ping(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.InfoS("idle session failed ping, discarding session", "err", err)
				lastErr = err
				e.discardSession()
				if err := e.backoff(ctx); err != nil {
					return err
				}
				continue
			}

		case InUse:
			// The pool hands entries to setup locked and not InUse.
			panic("setup called on an in-use entry")
		}

		e.state = InUse
		diag.Clear()
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, cfg.MaxTries, lastErr)
	}
	return fmt.Errorf("%w (%d attempts)", ErrRetriesExhausted, cfg.MaxTries)
}

// backoff sleeps between setup attempts. The only possible failure is
// cancellation, which the caller propagates.
func (e *pooledEntry) backoff(ctx context.Context) error {
	return timer.SleepContext(ctx, e.pool.cfg.RetryDelay)
}
