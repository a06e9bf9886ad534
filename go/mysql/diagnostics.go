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

package mysql

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// Diagnostics carries additional information about server-reported errors.
// It is populated by Connect when the server itself rejects the session
// (authentication failure, unknown database, ...) and left untouched for
// client-side failures. A successful operation clears it.
type Diagnostics struct {
	serverErrno uint16
	sqlState    string
	message     string
}

// Clear resets the diagnostics to its empty state.
func (d *Diagnostics) Clear() {
	if d == nil {
		return
	}
	*d = Diagnostics{}
}

// ServerErrno returns the server error number, or 0 if no server error was
// recorded.
func (d *Diagnostics) ServerErrno() uint16 {
	return d.serverErrno
}

// SQLState returns the recorded SQLSTATE, or the empty string.
func (d *Diagnostics) SQLState() string {
	return d.sqlState
}

// ServerMessage returns the recorded server error message.
func (d *Diagnostics) ServerMessage() string {
	return d.message
}

// String implements fmt.Stringer.
func (d *Diagnostics) String() string {
	if d == nil || d.serverErrno == 0 {
		return ""
	}
	return fmt.Sprintf("%s (errno %d) (sqlstate %s)", d.message, d.serverErrno, d.sqlState)
}

// record captures a server error into the diagnostics. It reports whether
// err carried server-origin detail.
func (d *Diagnostics) record(err error) bool {
	var serr *mysqldriver.MySQLError
	if !errors.As(err, &serr) {
		return false
	}
	if d != nil {
		d.serverErrno = serr.Number
		d.sqlState = string(serr.SQLState[:])
		d.message = serr.Message
	}
	return true
}
