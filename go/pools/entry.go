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

	"mysqlpool.io/mysqlpool/go/mysql"
)

// Session is the contract the pool requires from a MySQL protocol session.
// *mysql.Conn is the production implementation; tests substitute fakes.
type Session interface {
	// Resolve looks up the configured hostname and returns candidate
	// host:port endpoints.
	Resolve(ctx context.Context) ([]string, error)
	// Connect establishes the session against one endpoint. Server
	// handshake errors populate diag and are forwarded verbatim.
	Connect(ctx context.Context, addr string, diag *mysql.Diagnostics) error
	// Ping checks that the server still replies on this session.
	Ping(ctx context.Context) error
	// Reset performs a logical session reset.
	Reset(ctx context.Context) error
	// Close tears the session down. Errors are swallowed.
	Close()
}

var _ Session = (*mysql.Conn)(nil)

// SessionConnector creates a fresh, unconnected Session. The pool calls it
// once per entry at construction time, and again whenever a dead session
// has to be replaced: TLS streams are single-use, so reconnection always
// means recreation.
type SessionConnector func() Session

// SessionState is the lifecycle state of a pool entry.
type SessionState int

const (
	// NotConnected means the entry has no established transport: either
	// it was never connected, or its previous session was discarded.
	NotConnected SessionState = iota
	// Idle means the entry holds an established, authenticated session
	// with no current user. The peer may have silently closed it; the
	// next setup pass pings before handing it out.
	Idle
	// PendingReset means the session was just returned by a user and
	// must be reset before the next use.
	PendingReset
	// InUse means the entry is currently borrowed.
	InUse
)

func (s SessionState) String() string {
	switch s {
	case NotConnected:
		return "NotConnected"
	case Idle:
		return "Idle"
	case PendingReset:
		return "PendingReset"
	case InUse:
		return "InUse"
	}
	return "Unknown"
}

// pooledEntry is one pool slot: a session plus its bookkeeping. Entries are
// created at pool construction and live as long as the pool; only the
// session inside may be replaced.
//
// locked and state are guarded by the pool mutex, with one exception: the
// borrower that flipped locked to true owns the entry exclusively and may
// mutate state (and replace conn) without the mutex until it releases the
// entry.
type pooledEntry struct {
	pool *Pool

	conn   Session
	state  SessionState
	locked bool
}

// release returns the entry to the pool. It never fails and never touches
// state directly; the pool's return path decides the next state.
func (e *pooledEntry) release() {
	e.pool.returnConn(e)
}

// discardSession closes the current session, replaces it with a fresh one
// and marks the entry NotConnected. Only the setup state machine calls
// this, while holding the entry lock.
func (e *pooledEntry) discardSession() {
	e.conn.Close()
	e.conn = e.pool.connect()
	e.state = NotConnected
	e.pool.recreated.Add(1)
}
