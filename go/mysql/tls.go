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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// tlsConfig builds the shared TLS client configuration for the given
// parameters, or nil if TLS is disabled. The config is built once per
// Connector and shared by every session it creates.
func tlsConfig(cp *ConnParams) (*tls.Config, error) {
	if !cp.SslEnabled() {
		return nil, nil
	}

	cfg := &tls.Config{}

	switch cp.EffectiveSslMode() {
	case Required:
		cfg.InsecureSkipVerify = true
	case VerifyCA:
		// InsecureSkipVerify turns off crypto/tls's own chain and
		// hostname checks; VerifyPeerCertificate then verifies the
		// chain against the configured CA without the hostname.
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = verifyPeerCertificateAgainstRoots(cp)
	case VerifyIdentity:
		cfg.ServerName = cp.ServerName
		if cfg.ServerName == "" {
			cfg.ServerName = cp.Host
		}
	default:
		return nil, fmt.Errorf("invalid ssl mode %q", cp.SslMode)
	}

	if cp.SslCa != "" {
		roots, err := loadRoots(cp.SslCa)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = roots
	}

	if cp.SslCert != "" || cp.SslKey != "" {
		cert, err := tls.LoadX509KeyPair(cp.SslCert, cp.SslKey)
		if err != nil {
			return nil, fmt.Errorf("can't load client cert: %v", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func loadRoots(caPath string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("can't read ca file: %v", err)
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %v", caPath)
	}
	return roots, nil
}

// verifyPeerCertificateAgainstRoots checks the certificate chain against
// the configured roots without checking the server hostname.
func verifyPeerCertificateAgainstRoots(cp *ConnParams) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		roots, err := loadRoots(cp.SslCa)
		if err != nil {
			return err
		}
		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return err
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return fmt.Errorf("no server certificate presented")
		}
		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range certs[1:] {
			opts.Intermediates.AddCert(cert)
		}
		_, err = certs[0].Verify(opts)
		return err
	}
}
