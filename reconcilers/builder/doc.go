/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package builder creates a coding standard from a baseline.
//
// A build runs in four steps:
//
//  1. Create a draft standard for the baseline's languages.
//  2. Disable every tool the service put in the draft, along with every one of
//     its patterns, so the starting state does not depend on service defaults.
//  3. Apply each baseline tool: its enabled state and its enabled patterns,
//     parameters included.
//  4. Promote the draft to the active standard.
//
// Failures in steps 1 and 2 abort the build. A tool that cannot be configured
// in step 3 is logged and recorded in the Result, and the build moves on to the
// next tool. A failed promotion is recorded as well and leaves the standard as
// a draft.
//
//	b := builder.New(client)
//	res, err := b.Build(ctx, "my-org", "Security Baseline", baseline)
//	if err != nil {
//		return err
//	}
//	for _, f := range res.ToolFailures {
//		log.Printf("tool %s: %v", f.ToolUUID, f.Err)
//	}
package builder
