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

// poolprobe opens a connection pool against a live MySQL server and
// hammers it with concurrent borrow/ping/recycle cycles. It is both a
// smoke test for a server endpoint and a demo of the pool's behavior
// under contention.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"mysqlpool.io/mysqlpool/go/log"
	"mysqlpool.io/mysqlpool/go/mysql"
	"mysqlpool.io/mysqlpool/go/pools"
	"mysqlpool.io/mysqlpool/go/stats"
	"mysqlpool.io/mysqlpool/go/stats/promstats"
)

var (
	params  = mysql.ConnParams{Host: "localhost", Port: "3306"}
	poolCfg = pools.Config{Capacity: 4}

	configFile string
	workers    int
	iterations int
	warm       int
	httpAddr   string

	root = &cobra.Command{
		Use:   "poolprobe",
		Short: "poolprobe exercises a connection pool against a live MySQL server.",
		Long: "poolprobe opens a fixed-capacity connection pool against the given MySQL endpoint\n" +
			"and runs concurrent workers that borrow a session, ping it, and return it.\n" +
			"It prints the pool's counters when done and can expose them on an HTTP port\n" +
			"(/metrics for prometheus, /debug/vars for expvar) while running.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(cmd.Flags()); err != nil {
				return err
			}
			return log.Init(cmd.Flags())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
		RunE: run,
	}
)

func init() {
	fs := root.Flags()
	log.RegisterFlags(fs)
	params.RegisterFlags(fs, "mysql-")
	poolCfg.RegisterFlags(fs, "pool-")
	fs.StringVar(&configFile, "config", "", "optional config file; flag values not set on the command line are read from it")
	fs.IntVar(&workers, "workers", 8, "number of concurrent workers")
	fs.IntVar(&iterations, "iterations", 100, "borrow/ping/recycle cycles per worker")
	fs.IntVar(&warm, "warm", 0, "number of sessions to establish before starting the workers")
	fs.StringVar(&httpAddr, "http-addr", "", "if set, serve /metrics and /debug/vars on this address while running")
}

// readConfig layers viper underneath the flags: environment variables and
// the optional config file provide values for any flag not set explicitly.
func readConfig(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix("poolprobe")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("can't read config file %v: %v", configFile, err)
		}
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if serr := fs.Set(f.Name, v.GetString(f.Name)); serr != nil && err == nil {
			err = fmt.Errorf("invalid config value for %v: %v", f.Name, serr)
		}
	})
	return err
}

func serveDebug(pool *pools.Pool) {
	registry := prometheus.NewRegistry()
	gauges := map[string]stats.IntFunc{
		"pool_capacity":   pool.Capacity,
		"pool_available":  pool.Available,
		"pool_in_use":     pool.InUse,
		"pool_waiting":    pool.Waiting,
		"pool_wait_count": pool.WaitCount,
	}
	for name, fn := range gauges {
		if c := promstats.NewCollector(prometheus.Opts{Name: name}, fn); c != nil {
			registry.MustRegister(c)
		}
	}
	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		// expvar registers /debug/vars on the default mux.
		if err := http.ListenAndServe(httpAddr, nil); err != nil {
			log.ErrorS("debug http server failed", "addr", httpAddr, "err", err)
		}
	}()
}

func run(cmd *cobra.Command, args []string) error {
	connector, err := mysql.NewConnector(&params)
	if err != nil {
		return err
	}
	pool := pools.NewPool("Probe", func() pools.Session { return connector.NewSession() }, poolCfg)
	defer pool.Close()

	if httpAddr != "" {
		serveDebug(pool)
	}

	ctx := context.Background()
	if warm > 0 {
		if err := pool.Warm(ctx, warm); err != nil {
			return fmt.Errorf("warmup: %w", err)
		}
		log.InfoS("pool warmed", "sessions", warm)
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				var diag mysql.Diagnostics
				conn, err := pool.Get(ctx, &diag)
				if err != nil {
					if diag.ServerErrno() != 0 {
						return fmt.Errorf("server rejected connection: %v", diag.String())
					}
					return err
				}
				err = conn.Conn().Ping(ctx)
				conn.Recycle()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("%d pings over %d workers in %v (%.0f/s)\n",
		workers*iterations, workers, elapsed.Round(time.Millisecond),
		float64(workers*iterations)/elapsed.Seconds())
	fmt.Printf("waits: %d (total %v), sessions recreated: %d\n",
		pool.WaitCount(), pool.WaitTime().Round(time.Millisecond), pool.SessionsRecreated())
	return nil
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
