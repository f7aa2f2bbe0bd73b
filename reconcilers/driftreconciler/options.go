/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package driftreconciler

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithDryRun reports deviations without sending corrections.
func WithDryRun() Option {
	return func(r *Reconciler) {
		r.dryRun = true
	}
}
