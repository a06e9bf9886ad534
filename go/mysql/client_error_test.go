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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientErrorFormat(t *testing.T) {
	err := NewClientError(CRServerLost, "server did not reply to %v", "ping")
	assert.Equal(t, "server did not reply to ping (errno 2013)", err.Error())
	assert.Equal(t, CRServerLost, err.Number())
}

func TestClientErrorWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapClientError(CRConnHostError, cause, "can't connect to %v", "127.0.0.1:3306")
	assert.Equal(t, "can't connect to 127.0.0.1:3306 (errno 2003): connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsClientErrno(t *testing.T) {
	err := NewClientError(CRUnknownHost, "can't resolve")
	assert.True(t, IsClientErrno(err, CRUnknownHost))
	assert.False(t, IsClientErrno(err, CRServerLost))
	assert.False(t, IsClientErrno(errors.New("other"), CRUnknownHost))
	assert.False(t, IsClientErrno(nil, CRUnknownHost))

	// The number is found through wrapping.
	wrapped := fmt.Errorf("setup failed: %w", err)
	assert.True(t, IsClientErrno(wrapped, CRUnknownHost))
}

func TestDiagnosticsEmpty(t *testing.T) {
	var d Diagnostics
	assert.EqualValues(t, 0, d.ServerErrno())
	assert.Equal(t, "", d.String())
	d.Clear()

	// record only captures server-origin errors.
	require.False(t, d.record(errors.New("dial tcp: connection refused")))
	assert.EqualValues(t, 0, d.ServerErrno())
}
