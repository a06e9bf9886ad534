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

package stats

import (
	"expvar"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	v := NewCounter("", "help")
	v.Add(1)
	v.Add(2)
	assert.EqualValues(t, 3, v.Get())
	assert.Equal(t, "3", v.String())
	assert.Equal(t, "help", v.Help())
	v.Reset()
	assert.EqualValues(t, 0, v.Get())
}

func TestGauge(t *testing.T) {
	v := NewGauge("", "help")
	v.Set(42)
	assert.EqualValues(t, 42, v.Get())
	v.Add(-2)
	assert.EqualValues(t, 40, v.Get())
}

func TestCounterDuration(t *testing.T) {
	v := NewCounterDuration("", "help")
	v.Add(time.Second)
	v.Add(500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, v.Get())
	assert.Equal(t, "1500000000", v.String())
}

func TestFuncVars(t *testing.T) {
	assert.Equal(t, "7", IntFunc(func() int64 { return 7 }).String())
	assert.Equal(t, "1000000000", DurationFunc(func() time.Duration { return time.Second }).String())
}

func TestPublish(t *testing.T) {
	v := NewCounter("TestPublishCounter", "help")
	v.Add(5)
	found := expvar.Get("TestPublishCounter")
	require.NotNil(t, found)
	assert.Equal(t, "5", found.String())

	// Publishing the same name again must not panic; the first
	// publication wins. Tests create pool objects multiple times.
	other := NewCounter("TestPublishCounter", "help")
	other.Add(100)
	assert.Equal(t, "5", expvar.Get("TestPublishCounter").String())
}
