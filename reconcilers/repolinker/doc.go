/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package repolinker applies a coding standard to every repository of an
// organization.
//
// The repository listing is drained page by page, then split into contiguous
// batches (75 repositories by default) that are linked one batch at a time.
// A batch that fails with 400 Bad Request is not retried and the response body
// is kept as the failure detail. Other failures are retried up to three
// attempts in total, waiting 1s and then 2s. Every batch is followed by a
// 1-second pause.
//
// ApplyToAll never returns an error: the Summary says which repositories were
// linked, which failed and why, and whether the listing itself failed.
package repolinker
