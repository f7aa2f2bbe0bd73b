/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strings"

	"chainguard.dev/codestandard/reconcilers/driftreconciler"
	"chainguard.dev/codestandard/standard"
	"chainguard.dev/sdk/pathtree"
)

// segment makes an identifier safe to use as one path element.
func segment(id string) string {
	return strings.ReplaceAll(id, "/", "%2F")
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// Deviations renders deviations as a tree keyed by tool, then pattern.
func Deviations(devs []driftreconciler.Deviation) string {
	tree := pathtree.New()
	tree.PrintOption = pathtree.KeyValueLabel

	for _, d := range devs {
		path := segment(d.ToolUUID)
		if d.PatternID != "" {
			path += "/" + segment(d.PatternID)
		}
		label := ""
		if d.Kind == driftreconciler.ToolEnabledMismatch || d.Kind == driftreconciler.PatternEnabledMismatch {
			label = fmt.Sprintf("(want %s, got %s)", enabled(d.Want), enabled(d.Got))
		}
		if err := tree.Add(path, string(d.Kind), label); err != nil {
			// A tool can carry its own deviation and pattern children.
			_ = tree.Update(path, string(d.Kind), label)
		}
	}
	return tree.String()
}

// Standard renders the tools of s and their patterns as a tree.
func Standard(s *standard.Standard) string {
	tree := pathtree.New()
	tree.PrintOption = pathtree.KeyValueLabel

	for _, t := range s.Tools {
		tpath := segment(t.UUID)
		_ = tree.Add(tpath, enabled(t.IsEnabled), fmt.Sprintf("(%d/%d patterns)", len(t.EnabledPatterns()), len(t.Patterns)))
		for _, p := range t.Patterns {
			label := ""
			if len(p.Parameters) > 0 {
				pairs := make([]string, 0, len(p.Parameters))
				for _, param := range standard.ParameterList(p.Parameters) {
					pairs = append(pairs, fmt.Sprintf("%s=%v", param.Name, param.Value))
				}
				label = "(" + strings.Join(pairs, ", ") + ")"
			}
			_ = tree.Add(tpath+"/"+segment(p.ID), enabled(p.Enabled), label)
		}
	}
	return tree.String()
}
