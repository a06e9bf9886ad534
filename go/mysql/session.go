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
	"context"
	"database/sql/driver"

	mysqldriver "github.com/go-sql-driver/mysql"

	"mysqlpool.io/mysqlpool/go/netutil"
)

// Connector creates sessions for a fixed set of connection parameters.
// The TLS configuration is built once and shared by every session; the
// parameters are immutable after construction.
type Connector struct {
	params *ConnParams
	cfg    *mysqldriver.Config
}

// NewConnector validates the parameters and returns a Connector for them.
func NewConnector(params *ConnParams) (*Connector, error) {
	cfg := mysqldriver.NewConfig()
	cfg.User = params.Uname
	cfg.Passwd = params.Pass
	cfg.DBName = params.DbName
	cfg.Net = "tcp"
	if params.Charset != "" {
		cfg.Params = map[string]string{"charset": params.Charset}
	}

	tcfg, err := tlsConfig(params)
	if err != nil {
		return nil, err
	}
	cfg.TLS = tcfg

	return &Connector{params: params, cfg: cfg}, nil
}

// Params returns the connection parameters.
func (c *Connector) Params() *ConnParams {
	return c.params
}

// NewSession returns a new, unconnected session. Sessions are not
// reconnectable: once the transport (in particular a TLS stream) has died,
// the owner discards the session and asks the Connector for a fresh one.
func (c *Connector) NewSession() *Conn {
	return &Conn{connector: c}
}

// Conn is a single MySQL protocol session. All methods must be called from
// a single goroutine at a time; the pool guarantees this by handing each
// session to at most one borrower.
type Conn struct {
	connector *Connector
	dc        driver.Conn
}

// Resolve looks up the configured hostname and returns the candidate
// endpoints in resolver order.
func (c *Conn) Resolve(ctx context.Context) ([]string, error) {
	params := c.connector.params
	endpoints, err := netutil.ResolveEndpoints(ctx, params.Host, params.Port)
	if err != nil {
		return nil, WrapClientError(CRUnknownHost, err, "can't resolve %v", params.Host)
	}
	return endpoints, nil
}

// Connect establishes the session against the given endpoint: TCP connect,
// protocol handshake, authentication and the optional TLS upgrade, all
// performed by the driver. Server-reported handshake errors populate diag
// and are returned verbatim; transport failures are returned as
// CRConnHostError.
func (c *Conn) Connect(ctx context.Context, addr string, diag *Diagnostics) error {
	cfg := c.cfg().Clone()
	cfg.Addr = addr

	connector, err := mysqldriver.NewConnector(cfg)
	if err != nil {
		return WrapClientError(CRConnHostError, err, "invalid connection config for %v", addr)
	}
	dc, err := connector.Connect(ctx)
	if err != nil {
		if diag.record(err) {
			return err
		}
		return WrapClientError(CRConnHostError, err, "can't connect to %v", addr)
	}
	c.dc = dc
	diag.Clear()
	return nil
}

// Ping sends a COM_PING and waits for the server's OK.
func (c *Conn) Ping(ctx context.Context) error {
	if c.dc == nil {
		return NewClientError(CRServerLost, "session is not connected")
	}
	pinger, ok := c.dc.(driver.Pinger)
	if !ok {
		return NewClientError(CRUnknownError, "driver connection does not support ping")
	}
	if err := pinger.Ping(ctx); err != nil {
		return WrapClientError(CRServerLost, err, "server did not reply to ping")
	}
	return nil
}

// Reset performs a logical session reset (COM_RESET_CONNECTION), dropping
// session state left behind by the previous user.
func (c *Conn) Reset(ctx context.Context) error {
	if c.dc == nil {
		return NewClientError(CRServerLost, "session is not connected")
	}
	resetter, ok := c.dc.(driver.SessionResetter)
	if !ok {
		return NewClientError(CRUnknownError, "driver connection does not support reset")
	}
	if err := resetter.ResetSession(ctx); err != nil {
		return WrapClientError(CRServerLost, err, "can't reset session")
	}
	return nil
}

// Close closes the session as gracefully as possible. Errors are ignored:
// the session is unusable afterwards either way.
func (c *Conn) Close() {
	if c.dc != nil {
		_ = c.dc.Close()
		c.dc = nil
	}
}

// Connected reports whether the session has an established transport.
func (c *Conn) Connected() bool {
	return c.dc != nil
}

func (c *Conn) cfg() *mysqldriver.Config {
	return c.connector.cfg
}
