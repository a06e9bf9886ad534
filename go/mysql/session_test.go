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
	"testing"

	"context"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConnector(t *testing.T) *Connector {
	t.Helper()
	c, err := NewConnector(&ConnParams{
		Host:    "127.0.0.1",
		Port:    "3306",
		Uname:   "app",
		Pass:    "secret",
		DbName:  "test",
		Charset: "utf8mb4",
	})
	require.NoError(t, err)
	return c
}

func TestNewConnectorConfig(t *testing.T) {
	c := testConnector(t)
	assert.Equal(t, "app", c.cfg.User)
	assert.Equal(t, "secret", c.cfg.Passwd)
	assert.Equal(t, "test", c.cfg.DBName)
	assert.Equal(t, "tcp", c.cfg.Net)
	assert.Equal(t, "utf8mb4", c.cfg.Params["charset"])
	assert.Nil(t, c.cfg.TLS)
}

func TestSessionResolveLiteralIP(t *testing.T) {
	conn := testConnector(t).NewSession()
	endpoints, err := conn.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:3306"}, endpoints)
}

func TestSessionResolveBadPort(t *testing.T) {
	c, err := NewConnector(&ConnParams{Host: "127.0.0.1", Port: "no-such-service"})
	require.NoError(t, err)
	_, err = c.NewSession().Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, IsClientErrno(err, CRUnknownHost))
}

func TestSessionNotConnected(t *testing.T) {
	conn := testConnector(t).NewSession()
	assert.False(t, conn.Connected())

	err := conn.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsClientErrno(err, CRServerLost))

	err = conn.Reset(context.Background())
	require.Error(t, err)
	assert.True(t, IsClientErrno(err, CRServerLost))

	// Closing an unconnected session is a no-op.
	conn.Close()
}

func TestSessionConnectRefused(t *testing.T) {
	conn := testConnector(t).NewSession()
	var diag Diagnostics

	// Port 1 on loopback has nothing listening; the failure is a
	// transport error, not a server-reported one.
	err := conn.Connect(context.Background(), "127.0.0.1:1", &diag)
	require.Error(t, err)
	assert.True(t, IsClientErrno(err, CRConnHostError))
	assert.EqualValues(t, 0, diag.ServerErrno())
	assert.False(t, conn.Connected())
}

func TestDiagnosticsRecordServerError(t *testing.T) {
	var d Diagnostics
	serr := &mysqldriver.MySQLError{
		Number:   1045,
		SQLState: [5]byte{'2', '8', '0', '0', '0'},
		Message:  "Access denied",
	}
	require.True(t, d.record(serr))
	assert.EqualValues(t, 1045, d.ServerErrno())
	assert.Equal(t, "28000", d.SQLState())
	assert.Equal(t, "Access denied", d.ServerMessage())
	assert.Equal(t, "Access denied (errno 1045) (sqlstate 28000)", d.String())

	d.Clear()
	assert.EqualValues(t, 0, d.ServerErrno())
}
