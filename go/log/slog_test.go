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
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"info":   slog.LevelInfo,
		" Warn ": slog.LevelWarn,
		"ERROR":  slog.LevelError,
	} {
		level, err := slogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, level, in)
	}

	_, err := slogLevel("verbose")
	require.Error(t, err)
}

func TestSlogHandler(t *testing.T) {
	h, err := slogHandler("json", nil)
	require.NoError(t, err)
	require.NotNil(t, h)

	h, err = slogHandler(" Logfmt ", nil)
	require.NoError(t, err)
	require.NotNil(t, h)

	_, err = slogHandler("xml", nil)
	require.Error(t, err)
}

func TestInitRequiresExplicitFormat(t *testing.T) {
	prevEnabled := structuredLoggingEnabled.Load()
	defer structuredLoggingEnabled.Store(prevEnabled)
	structuredLoggingEnabled.Store(false)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.NoError(t, Init(fs))
	assert.False(t, structuredLoggingEnabled.Load(), "structured logging must stay off unless --log-fmt was given")

	require.NoError(t, Init(nil))
}

func TestInitEnablesStructured(t *testing.T) {
	prevEnabled := structuredLoggingEnabled.Load()
	prevDefault := slog.Default()
	defer func() {
		slog.SetDefault(prevDefault)
		structuredLoggingEnabled.Store(prevEnabled)
	}()
	structuredLoggingEnabled.Store(false)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-fmt=logfmt", "--log-level=warn"}))

	require.NoError(t, Init(fs))
	assert.True(t, structuredLoggingEnabled.Load())
	assert.True(t, Enabled(slog.LevelError))
	assert.False(t, Enabled(slog.LevelInfo), "configured level is warn")
}

func TestInitRejectsBadFlags(t *testing.T) {
	prevEnabled := structuredLoggingEnabled.Load()
	defer structuredLoggingEnabled.Store(prevEnabled)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-fmt=xml"}))
	require.Error(t, Init(fs))

	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-fmt=json", "--log-level=verbose"}))
	require.Error(t, Init(fs))
}

func TestStructuredEmit(t *testing.T) {
	var buf bytes.Buffer
	restore := SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer restore()

	// The printf-style calls go through the structured handler too.
	Infof("connected to %v", "db1")
	assert.Contains(t, buf.String(), `msg="connected to db1"`)

	buf.Reset()
	WarnS("session reset failed, discarding session", "err", errors.New("server has gone away"))
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "session reset failed")
	assert.Contains(t, out, `err="server has gone away"`)

	// Below the handler's minimum level nothing is written.
	buf.Reset()
	DebugS("noisy detail")
	assert.Empty(t, buf.String())
}
