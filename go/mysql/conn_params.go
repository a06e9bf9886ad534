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

// Package mysql provides the per-session half of the connection pool: the
// connection parameters, the session primitives (resolve, connect, ping,
// reset, close) built on top of the go-sql-driver wire implementation, and
// the error types surfaced by them.
package mysql

import (
	"github.com/spf13/pflag"
)

// SslMode indicates if, and how, to use TLS when connecting.
type SslMode string

const (
	// Disabled disables TLS.
	Disabled SslMode = "disabled"
	// Required requires TLS but does not verify the server certificate.
	Required SslMode = "required"
	// VerifyCA requires TLS and verifies the server certificate against
	// the configured CA.
	VerifyCA SslMode = "verify_ca"
	// VerifyIdentity requires TLS and verifies both the server
	// certificate and the server hostname.
	VerifyIdentity SslMode = "verify_identity"
)

// ConnParams contains all the parameters to use to connect to mysql.
// The fields are immutable once the pool that holds them is constructed.
type ConnParams struct {
	Host    string `json:"host"`
	Port    string `json:"port"` // service name or numeric string
	Uname   string `json:"uname"`
	Pass    string `json:"pass"`
	DbName  string `json:"dbname"`
	Charset string `json:"charset"`

	SslMode    SslMode `json:"ssl_mode"`
	SslCa      string  `json:"ssl_ca"`
	SslCert    string  `json:"ssl_cert"`
	SslKey     string  `json:"ssl_key"`
	ServerName string  `json:"server_name"`
}

// EnableSSL enables TLS with the strictest verification mode.
func (cp *ConnParams) EnableSSL() {
	cp.SslMode = VerifyIdentity
}

// SslEnabled returns if SSL is enabled.
func (cp *ConnParams) SslEnabled() bool {
	return cp.SslMode != "" && cp.SslMode != Disabled
}

// EffectiveSslMode returns the SslMode to use, defaulting to Disabled when
// unset.
func (cp *ConnParams) EffectiveSslMode() SslMode {
	if cp.SslMode == "" {
		return Disabled
	}
	return cp.SslMode
}

// RegisterFlags installs the connection parameter flags on the given
// FlagSet, prefixed with the given prefix.
func (cp *ConnParams) RegisterFlags(fs *pflag.FlagSet, prefix string) {
	fs.StringVar(&cp.Host, prefix+"host", cp.Host, "server hostname to connect to")
	fs.StringVar(&cp.Port, prefix+"port", cp.Port, "server port, as a number or service name")
	fs.StringVar(&cp.Uname, prefix+"user", cp.Uname, "username to authenticate as")
	fs.StringVar(&cp.Pass, prefix+"password", cp.Pass, "password to authenticate with")
	fs.StringVar(&cp.DbName, prefix+"dbname", cp.DbName, "database name to use")
	fs.StringVar(&cp.Charset, prefix+"charset", cp.Charset, "connection charset")
	fs.StringVar((*string)(&cp.SslMode), prefix+"ssl-mode", string(cp.SslMode), "ssl mode: disabled, required, verify_ca or verify_identity")
	fs.StringVar(&cp.SslCa, prefix+"ssl-ca", cp.SslCa, "path to the CA certificate bundle")
	fs.StringVar(&cp.SslCert, prefix+"ssl-cert", cp.SslCert, "path to the client certificate")
	fs.StringVar(&cp.SslKey, prefix+"ssl-key", cp.SslKey, "path to the client private key")
	fs.StringVar(&cp.ServerName, prefix+"ssl-server-name", cp.ServerName, "server name to verify the certificate against")
}
