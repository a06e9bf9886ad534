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

// Package timer contains time-related utilities.
package timer

import (
	"context"
	"time"
)

// SleepContext sleeps for the given duration, or until the context is
// canceled, whichever happens first. It returns the context's error if it
// was canceled, nil otherwise.
func SleepContext(ctx context.Context, duration time.Duration) error {
	tmr := time.NewTimer(duration)
	defer tmr.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tmr.C:
		return nil
	}
}
