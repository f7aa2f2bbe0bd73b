/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders command output: deviation trees, standard trees, and
// tables for builds and bulk applications.
package report
