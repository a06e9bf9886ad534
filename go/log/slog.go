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

package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

var (
	// logFormat and logLevel hold the --log-fmt / --log-level flag
	// values; see RegisterFlags.
	logFormat string
	logLevel  string

	// structuredLoggingEnabled flips every emit from glog to slog. It is
	// set by Init when --log-fmt was given, and by SetLogger in tests.
	structuredLoggingEnabled atomic.Bool
)

// Init configures logging based on the parsed flags. Structured logging
// stays off unless --log-fmt was set explicitly.
func Init(fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	formatFlag := fs.Lookup("log-fmt")
	if formatFlag == nil || !formatFlag.Changed {
		return nil
	}

	level, err := slogLevel(logLevel)
	if err != nil {
		return err
	}
	handler, err := slogHandler(logFormat, &slog.HandlerOptions{AddSource: true, Level: level})
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	structuredLoggingEnabled.Store(true)
	return nil
}

// slogLevel maps the log-level flag value to a slog.Level.
func slogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log-level %q: expected debug, info, warn, or error", level)
}

// slogHandler maps the log-fmt flag value to a handler writing to stderr.
func slogHandler(format string, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(os.Stderr, opts), nil
	case "logfmt":
		return slog.NewTextHandler(os.Stderr, opts), nil
	}
	return nil, fmt.Errorf("invalid log-fmt %q: expected json or logfmt", format)
}

// emit is the single sink behind every log call in this package. With
// structured logging off it forwards to glog at the matching severity;
// with it on, it builds a slog record carrying the caller's source
// position and the given key-value attrs.
//
// depth is the number of wrapper frames between the original call site
// and the exported helper that invoked emit (0 for direct wrappers).
func emit(level slog.Level, depth int, msg string, attrs ...any) {
	if !structuredLoggingEnabled.Load() {
		if level < slog.LevelInfo && !glog.V(glog.Level(1)) {
			return
		}
		// Skip over emit and the exported wrapper to report the
		// caller's position.
		glogDepth := depth + 2
		if len(attrs) > 0 {
			var b strings.Builder
			b.WriteString(msg)
			for i := 0; i+1 < len(attrs); i += 2 {
				fmt.Fprintf(&b, " %v=%v", attrs[i], attrs[i+1])
			}
			msg = b.String()
		}
		switch level {
		case slog.LevelWarn:
			glog.WarningDepth(glogDepth, msg)
		case slog.LevelError:
			glog.ErrorDepth(glogDepth, msg)
		default:
			glog.InfoDepth(glogDepth, msg)
		}
		return
	}

	logger := slog.Default()
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}

	// Skip runtime.Callers, emit and the exported wrapper.
	var pcs [1]uintptr
	runtime.Callers(depth+3, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(attrs...)
	_ = logger.Handler().Handle(ctx, record)
}

// Enabled reports whether a log call at the provided level would be
// emitted. With structured logging off, debug is gated on glog verbosity
// and everything else is emitted.
func Enabled(level slog.Level) bool {
	if structuredLoggingEnabled.Load() {
		return slog.Default().Enabled(context.Background(), level)
	}
	if level < slog.LevelInfo {
		return bool(glog.V(glog.Level(1)))
	}
	return true
}

// DebugS logs at the Debug level with slog-style key-value attrs.
func DebugS(msg string, attrs ...any) {
	emit(slog.LevelDebug, 0, msg, attrs...)
}

// InfoS logs at the Info level with slog-style key-value attrs.
func InfoS(msg string, attrs ...any) {
	emit(slog.LevelInfo, 0, msg, attrs...)
}

// WarnS logs at the Warn level with slog-style key-value attrs.
func WarnS(msg string, attrs ...any) {
	emit(slog.LevelWarn, 0, msg, attrs...)
}

// ErrorS logs at the Error level with slog-style key-value attrs.
func ErrorS(msg string, attrs ...any) {
	emit(slog.LevelError, 0, msg, attrs...)
}

// SetLogger replaces the structured logger used by the log package. The
// returned function restores the previous logger. Used for testing.
func SetLogger(logger *slog.Logger) func() {
	if logger == nil {
		return func() {}
	}

	previousEnabled := structuredLoggingEnabled.Load()
	previousDefault := slog.Default()

	slog.SetDefault(logger)
	structuredLoggingEnabled.Store(true)

	return func() {
		slog.SetDefault(previousDefault)
		structuredLoggingEnabled.Store(previousEnabled)
	}
}
