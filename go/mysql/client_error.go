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
	"bytes"
	"errors"
	"fmt"
)

// Client-side error numbers, matching the CR_* constants of the MySQL
// client library. Only the ones produced by this package are listed.
const (
	// CRUnknownError is CR_UNKNOWN_ERROR.
	CRUnknownError = 2000

	// CRConnHostError is CR_CONN_HOST_ERROR. Returned when the TCP
	// connection or the handshake to the server fails for a reason other
	// than a server-reported error.
	CRConnHostError = 2003

	// CRUnknownHost is CR_UNKNOWN_HOST. Returned when hostname
	// resolution fails.
	CRUnknownHost = 2005

	// CRServerLost is CR_SERVER_LOST. Returned when an established
	// session stops responding (failed ping or reset).
	CRServerLost = 2013
)

// ClientError is the error type for failures originating on the client
// side of the protocol: resolution, transport, and liveness probing.
// Server-reported errors are forwarded verbatim and never wrapped in a
// ClientError.
type ClientError struct {
	Num     int
	Message string
	err     error
}

// NewClientError creates a new ClientError.
func NewClientError(number int, format string, args ...interface{}) *ClientError {
	return &ClientError{
		Num:     number,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapClientError creates a ClientError that wraps an underlying cause.
func WrapClientError(number int, err error, format string, args ...interface{}) *ClientError {
	return &ClientError{
		Num:     number,
		Message: fmt.Sprintf(format, args...),
		err:     err,
	}
}

// Error implements the error interface.
func (ce *ClientError) Error() string {
	buf := &bytes.Buffer{}
	buf.WriteString(ce.Message)

	// Add the client errno in a format that matches how server errors are
	// printed, so both kinds can be grepped the same way.
	fmt.Fprintf(buf, " (errno %v)", ce.Num)

	if ce.err != nil {
		fmt.Fprintf(buf, ": %v", ce.err)
	}
	return buf.String()
}

// Number returns the client error code.
func (ce *ClientError) Number() int {
	return ce.Num
}

// Unwrap returns the underlying cause, if any.
func (ce *ClientError) Unwrap() error {
	return ce.err
}

// IsClientErrno returns whether the first ClientError found in err's chain
// has the given number. ClientErrors further down the chain are not
// examined.
func IsClientErrno(err error, number int) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Num == number
	}
	return false
}
