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

// Package stats is a wrapper for expvar. It additionally exports new types
// that are self-publishing by name and carry a help string, so external
// backends (see promstats) can scrape them.
package stats

import (
	"expvar"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// publishMu serializes publishing. Tests create pool objects multiple
	// times under the same name; the second publish of a name is skipped
	// instead of letting expvar panic.
	publishMu      sync.Mutex
	publishedNames = make(map[string]bool)
)

func publish(name string, v expvar.Var) {
	publishMu.Lock()
	defer publishMu.Unlock()
	if publishedNames[name] {
		return
	}
	publishedNames[name] = true
	expvar.Publish(name, v)
}

// Publish is the exported version of publish.
func Publish(name string, v expvar.Var) {
	publish(name, v)
}

// Counter tracks a cumulative count. It is expvar.Int plus Get and a help
// string.
type Counter struct {
	i    atomic.Int64
	help string
}

// NewCounter returns a new Counter, published under name if name is not
// empty.
func NewCounter(name, help string) *Counter {
	v := &Counter{help: help}
	if name != "" {
		publish(name, v)
	}
	return v
}

// Add adds the provided value to the Counter.
func (v *Counter) Add(delta int64) {
	v.i.Add(delta)
}

// Reset resets the counter value to 0.
func (v *Counter) Reset() {
	v.i.Store(0)
}

// Get returns the value.
func (v *Counter) Get() int64 {
	return v.i.Load()
}

// String is the implementation of expvar.Var.
func (v *Counter) String() string {
	return strconv.FormatInt(v.i.Load(), 10)
}

// Help returns the help string.
func (v *Counter) Help() string {
	return v.help
}

// Gauge is an unlabeled metric whose values can go up/down.
type Gauge struct {
	Counter
}

// NewGauge creates a new Gauge and publishes it if name is set.
func NewGauge(name, help string) *Gauge {
	v := &Gauge{Counter: Counter{help: help}}
	if name != "" {
		publish(name, v)
	}
	return v
}

// Set sets the value.
func (v *Gauge) Set(value int64) {
	v.Counter.i.Store(value)
}

// IntFunc converts a function that returns an int64 into an expvar.Var.
type IntFunc func() int64

// String is the implementation of expvar.Var.
func (f IntFunc) String() string {
	return strconv.FormatInt(f(), 10)
}

// CounterDuration tracks a cumulative duration as nanoseconds.
type CounterDuration struct {
	i    atomic.Int64
	help string
}

// NewCounterDuration returns a new CounterDuration.
func NewCounterDuration(name, help string) *CounterDuration {
	v := &CounterDuration{help: help}
	if name != "" {
		publish(name, v)
	}
	return v
}

// Add adds the provided duration.
func (v *CounterDuration) Add(d time.Duration) {
	v.i.Add(int64(d))
}

// Get returns the tracked duration.
func (v *CounterDuration) Get() time.Duration {
	return time.Duration(v.i.Load())
}

// String is the implementation of expvar.Var.
func (v *CounterDuration) String() string {
	return strconv.FormatInt(v.i.Load(), 10)
}

// Help returns the help string.
func (v *CounterDuration) Help() string {
	return v.help
}

// DurationFunc converts a function that returns a duration into an
// expvar.Var that prints nanoseconds.
type DurationFunc func() time.Duration

// String is the implementation of expvar.Var.
func (f DurationFunc) String() string {
	return strconv.FormatInt(int64(f()), 10)
}
