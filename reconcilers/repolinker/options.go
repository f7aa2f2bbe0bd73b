/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repolinker

import (
	"time"

	"chainguard.dev/codestandard/retry"
)

// DefaultBatchSize is the number of repositories linked per call.
const DefaultBatchSize = 75

// DefaultPause is the wait after every batch.
const DefaultPause = time.Second

// Option configures the Linker.
type Option func(*Linker)

// WithBatchSize sets how many repositories are linked per call. Values below 1
// are ignored.
func WithBatchSize(n int) Option {
	return func(l *Linker) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithRetryConfig replaces the retry policy for link calls.
func WithRetryConfig(cfg retry.RetryConfig) Option {
	return func(l *Linker) {
		l.retry = cfg
	}
}

// WithPause sets the wait after every batch.
func WithPause(d time.Duration) Option {
	return func(l *Linker) {
		l.pause = d
	}
}

// WithSleep replaces the function used for both backoff and pauses.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(l *Linker) {
		l.sleep = sleep
	}
}
