/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"strconv"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/reconcilers/builder"
	"chainguard.dev/codestandard/reconcilers/repolinker"
)

// Build writes the outcome of a build: one row per failed tool, followed by
// the promotion state.
func Build(w io.Writer, res *builder.Result) error {
	fmt.Fprintf(w, "Coding standard %q (ID %d)\n", res.Standard.Name, res.Standard.ID)
	if len(res.ToolFailures) > 0 {
		rows := make([][]string, 0, len(res.ToolFailures))
		for _, f := range res.ToolFailures {
			rows = append(rows, []string{f.ToolUUID, status(codacy.StatusCode(f.Err)), f.Err.Error()})
		}
		if err := render(newTable([]string{"Tool", "Status", "Error"}, w), rows); err != nil {
			return err
		}
	}
	switch {
	case res.Promoted:
		fmt.Fprintln(w, "Promoted to active.")
	case res.PromotionErr != nil:
		fmt.Fprintf(w, "Promotion failed, the standard remains a draft: %v\n", res.PromotionErr)
	default:
		fmt.Fprintln(w, "Left as a draft.")
	}
	return nil
}

// Apply writes the outcome of a bulk application: totals, then one row per
// failed repository.
func Apply(w io.Writer, s *repolinker.Summary) error {
	if s.ListErr != nil {
		fmt.Fprintf(w, "Could not list repositories, nothing was linked: %v\n", s.ListErr)
		return nil
	}
	fmt.Fprintf(w, "Linked %d of %d repositories.\n", len(s.Successful), len(s.Results))
	if len(s.Failed) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(s.Failed))
	for _, f := range s.Failed {
		rows = append(rows, []string{f.Repository, status(f.StatusCode), f.Detail})
	}
	return render(newTable([]string{"Repository", "Status", "Detail"}, w), rows)
}

func status(code int) string {
	if code == 0 {
		return "-"
	}
	return strconv.Itoa(code)
}
