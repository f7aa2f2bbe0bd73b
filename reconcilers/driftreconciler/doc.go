/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package driftreconciler compares a live coding standard against a saved
// baseline and pushes corrections for the tools that drifted.
//
// Only what the baseline names is checked: a tool or pattern present live but
// absent from the baseline is not drift. For every baseline tool the
// reconciler records
//
//   - tool-missing when the live standard has no tool with that uuid. Nothing
//     is sent for it, since a tool cannot be created.
//   - tool-enabled-mismatch when the enabled states differ.
//   - pattern-missing when a baseline pattern is absent from the live tool.
//   - pattern-enabled-mismatch when a pattern's enabled states differ.
//
// A tool with at least one deviation of its own is re-pushed with the
// baseline's enabled state and full pattern list. Tools without deviations
// are never touched.
//
//	r := driftreconciler.New(client)
//	deviations, err := r.Reconcile(ctx, "my-org", live, baseline)
package driftreconciler
