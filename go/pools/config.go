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
	"time"

	"github.com/spf13/pflag"
)

const (
	defaultMaxTries    = 10
	defaultRetryDelay  = 1 * time.Second
	defaultWaitTimeout = 10 * time.Second
)

// Config holds the pool's tuning knobs. Capacity is mandatory; the other
// fields fall back to their defaults when zero.
type Config struct {
	// Capacity is the fixed number of entries. It is set at
	// construction and never changes.
	Capacity int

	// MaxTries is the setup state machine's retry budget per borrow.
	MaxTries int

	// RetryDelay is the sleep between setup attempts.
	RetryDelay time.Duration

	// WaitTimeout bounds each individual wait for a returned entry.
	// Expiry is transparent to the borrower: the pool rescans and waits
	// again.
	WaitTimeout time.Duration
}

func (cfg *Config) withDefaults() {
	if cfg.MaxTries == 0 {
		cfg.MaxTries = defaultMaxTries
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.WaitTimeout == 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
}

// RegisterFlags installs the pool flags on the given FlagSet, prefixed
// with the given prefix.
func (cfg *Config) RegisterFlags(fs *pflag.FlagSet, prefix string) {
	fs.IntVar(&cfg.Capacity, prefix+"capacity", cfg.Capacity, "number of pooled connections")
	fs.IntVar(&cfg.MaxTries, prefix+"max-tries", defaultMaxTries, "connection setup attempts before giving up")
	fs.DurationVar(&cfg.RetryDelay, prefix+"retry-delay", defaultRetryDelay, "delay between connection setup attempts")
	fs.DurationVar(&cfg.WaitTimeout, prefix+"wait-timeout", defaultWaitTimeout, "bound on each wait for a pooled connection to free up")
}
