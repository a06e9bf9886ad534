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

// Package promstats contains adapters to publish stats variables to
// prometheus (http://prometheus.io).
package promstats

import (
	"expvar"

	"github.com/prometheus/client_golang/prometheus"

	"mysqlpool.io/mysqlpool/go/log"
	"mysqlpool.io/mysqlpool/go/stats"
)

// NewCollector returns a prometheus.Collector for a given stats var.
// The returned collector still needs to be registered with a prometheus
// registry. Unsupported var types return nil.
func NewCollector(opts prometheus.Opts, v expvar.Var) prometheus.Collector {
	switch st := v.(type) {
	case *stats.Counter:
		return prometheus.NewCounterFunc(prometheus.CounterOpts(opts), func() float64 {
			return float64(st.Get())
		})
	case *stats.Gauge:
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts), func() float64 {
			return float64(st.Get())
		})
	case stats.IntFunc:
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts), func() float64 {
			return float64(st())
		})
	case *stats.CounterDuration:
		return prometheus.NewCounterFunc(prometheus.CounterOpts(opts), func() float64 {
			return st.Get().Seconds()
		})
	case stats.DurationFunc:
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts), func() float64 {
			return st().Seconds()
		})
	default:
		log.Warningf("Unsupported type for %s: %T", opts.Name, v)
		return nil
	}
}
