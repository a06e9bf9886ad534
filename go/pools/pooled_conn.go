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

// PooledConn is a borrowed pool entry: the scoped right to use its session.
// The borrower must call Recycle exactly once when done; Recycle is
// idempotent, so calling it again (or on the error path of a helper) is
// harmless. A PooledConn is not safe for concurrent use.
type PooledConn struct {
	entry *pooledEntry
}

// Conn returns the borrowed session. It returns nil after Recycle.
func (pc *PooledConn) Conn() Session {
	if pc.entry == nil {
		return nil
	}
	return pc.entry.conn
}

// Recycle returns the entry to the pool and wakes one waiter. While the
// pool is open the session is not torn down: whether it can be reused is
// decided by the next borrower's setup pass. Once the pool is closed, the
// returned session is closed.
func (pc *PooledConn) Recycle() {
	if pc.entry == nil {
		return
	}
	e := pc.entry
	pc.entry = nil
	e.release()
}
