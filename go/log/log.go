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

// Package log provides a thin adapter around glog with optional structured
// logging via slog.
//
// By default, every call is forwarded to glog and its flags apply.
// Structured logging is enabled only when the --log-fmt flag is explicitly
// set; once enabled, all calls — the printf-style ones included — are
// emitted through the configured slog handler instead.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

// Level is the glog verbosity level.
type Level = glog.Level

// Flush ensures any pending I/O is written.
var Flush = glog.Flush

var (
	// V quickly checks if the logging verbosity meets a threshold.
	V = glog.V

	// Exit formats arguments like fmt.Print and terminates the process.
	Exit = glog.Exit
	// Exitf formats arguments like fmt.Printf and terminates the process.
	Exitf = glog.Exitf

	// Fatal formats arguments like fmt.Print and terminates the process.
	Fatal = glog.Fatal
	// Fatalf formats arguments like fmt.Printf and terminates the process.
	Fatalf = glog.Fatalf
)

// Info formats arguments like fmt.Print.
func Info(args ...interface{}) {
	emit(slog.LevelInfo, 0, fmt.Sprint(args...))
}

// Infof formats arguments like fmt.Printf.
func Infof(format string, args ...interface{}) {
	emit(slog.LevelInfo, 0, fmt.Sprintf(format, args...))
}

// Warning formats arguments like fmt.Print.
func Warning(args ...interface{}) {
	emit(slog.LevelWarn, 0, fmt.Sprint(args...))
}

// Warningf formats arguments like fmt.Printf.
func Warningf(format string, args ...interface{}) {
	emit(slog.LevelWarn, 0, fmt.Sprintf(format, args...))
}

// Error formats arguments like fmt.Print.
func Error(args ...interface{}) {
	emit(slog.LevelError, 0, fmt.Sprint(args...))
}

// Errorf formats arguments like fmt.Printf.
func Errorf(format string, args ...interface{}) {
	emit(slog.LevelError, 0, fmt.Sprintf(format, args...))
}

// RegisterFlags installs log flags on the given FlagSet.
func RegisterFlags(fs *pflag.FlagSet) {
	flagVal := logRotateMaxSize{
		val: strconv.FormatUint(atomic.LoadUint64(&glog.MaxSize), 10),
	}
	fs.Var(&flagVal, "log-rotate-max-size", "size in bytes at which logs are rotated (glog.MaxSize)")

	// Structured logging flags.
	fs.StringVar(&logFormat, "log-fmt", "json", "format for structured logging output: json or logfmt")
	fs.StringVar(&logLevel, "log-level", "info", "minimum structured logging level: info, warn, debug, or error")
}

// logRotateMaxSize implements pflag.Value and is used to
// try and provide thread-safe access to glog.MaxSize.
type logRotateMaxSize struct {
	val string
}

func (lrms *logRotateMaxSize) Set(s string) error {
	maxSize, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	atomic.StoreUint64(&glog.MaxSize, maxSize)
	lrms.val = s
	return nil
}

func (lrms *logRotateMaxSize) String() string {
	return lrms.val
}

func (lrms *logRotateMaxSize) Type() string {
	return "uint64"
}

// Listener receives a copy of every context-aware log call.
type Listener interface {
	Listen(ctx context.Context, level, format string, args ...interface{})
}

var (
	listenersMu sync.Mutex
	listeners   []Listener
)

// Subscribe registers a listener for context-aware log calls.
func Subscribe(l Listener) {
	listenersMu.Lock()
	defer listenersMu.Unlock()
	listeners = append(listeners, l)
}

func notify(ctx context.Context, level, format string, args ...interface{}) {
	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, l := range listeners {
		l.Listen(ctx, level, format, args...)
	}
}

// InfofC is Infof with a context forwarded to subscribed listeners.
func InfofC(ctx context.Context, format string, args ...interface{}) {
	notify(ctx, "INFO", format, args...)
	emit(slog.LevelInfo, 0, fmt.Sprintf(format, args...))
}

// WarningfC is Warningf with a context forwarded to subscribed listeners.
func WarningfC(ctx context.Context, format string, args ...interface{}) {
	notify(ctx, "WARNING", format, args...)
	emit(slog.LevelWarn, 0, fmt.Sprintf(format, args...))
}

// ErrorfC is Errorf with a context forwarded to subscribed listeners.
func ErrorfC(ctx context.Context, format string, args ...interface{}) {
	notify(ctx, "ERROR", format, args...)
	emit(slog.LevelError, 0, fmt.Sprintf(format, args...))
}
