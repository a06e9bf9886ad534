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
	"sync"
	"sync/atomic"
	"time"

	"context"

	"mysqlpool.io/mysqlpool/go/mysql"
)

// fakeSession is a scripted Session for pool tests. The behavior funcs
// default to success; tests override them to inject failures. Counters
// are atomic so concurrent tests can assert on them.
type fakeSession struct {
	id int

	resolve func(ctx context.Context) ([]string, error)
	connect func(ctx context.Context, addr string, diag *mysql.Diagnostics) error
	ping    func(ctx context.Context) error
	reset   func(ctx context.Context) error

	resolves atomic.Int64
	connects atomic.Int64
	pings    atomic.Int64
	resets   atomic.Int64
	closes   atomic.Int64
}

func (fs *fakeSession) Resolve(ctx context.Context) ([]string, error) {
	fs.resolves.Add(1)
	if fs.resolve != nil {
		return fs.resolve(ctx)
	}
	return []string{"127.0.0.1:3306"}, nil
}

func (fs *fakeSession) Connect(ctx context.Context, addr string, diag *mysql.Diagnostics) error {
	fs.connects.Add(1)
	if fs.connect != nil {
		return fs.connect(ctx, addr, diag)
	}
	return nil
}

func (fs *fakeSession) Ping(ctx context.Context) error {
	fs.pings.Add(1)
	if fs.ping != nil {
		return fs.ping(ctx)
	}
	return nil
}

func (fs *fakeSession) Reset(ctx context.Context) error {
	fs.resets.Add(1)
	if fs.reset != nil {
		return fs.reset(ctx)
	}
	return nil
}

func (fs *fakeSession) Close() {
	fs.closes.Add(1)
}

var _ Session = (*fakeSession)(nil)

// fakeConnector hands out fakeSessions and remembers every session it
// created, so tests can assert on session identity and per-session
// counters.
type fakeConnector struct {
	mu      sync.Mutex
	created []*fakeSession

	// onNew, if set, scripts each new session before it is handed out.
	onNew func(*fakeSession)
}

func (fc *fakeConnector) connect() Session {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fs := &fakeSession{id: len(fc.created)}
	if fc.onNew != nil {
		fc.onNew(fs)
	}
	fc.created = append(fc.created, fs)
	return fs
}

func (fc *fakeConnector) session(i int) *fakeSession {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.created[i]
}

func (fc *fakeConnector) numCreated() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.created)
}

// newTestPool builds a pool with fast retries suitable for tests.
func newTestPool(capacity int) (*Pool, *fakeConnector) {
	return newTestPoolConfig(Config{
		Capacity:    capacity,
		RetryDelay:  time.Millisecond,
		WaitTimeout: 100 * time.Millisecond,
	})
}

func newTestPoolConfig(cfg Config) (*Pool, *fakeConnector) {
	fc := &fakeConnector{}
	p := NewPool("", fc.connect, cfg)
	return p, fc
}
