/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package driftreconciler

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/metrics"
	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
)

// Client is the subset of the remote client corrections need.
type Client interface {
	UpdateTool(ctx context.Context, org string, id int64, toolUUID string, enabled bool, patterns []codacy.PatternUpdate) error
}

// Reconciler corrects drift between a live standard and a baseline.
type Reconciler struct {
	client Client
	dryRun bool
}

// New constructs a Reconciler with the provided options.
func New(client Client, opts ...Option) *Reconciler {
	r := &Reconciler{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compare returns the deviations of live from baseline, grouped by baseline
// tool in baseline order. Neither tree is modified.
func Compare(live, baseline *standard.Standard) []Deviation {
	var out []Deviation
	liveTools := live.ToolIndex()
	for _, want := range baseline.Tools {
		got, ok := liveTools[want.UUID]
		if !ok {
			out = append(out, Deviation{Kind: ToolMissing, ToolUUID: want.UUID, Want: want.IsEnabled})
			continue
		}
		out = append(out, compareTool(got, want)...)
	}
	return out
}

func compareTool(got, want standard.Tool) []Deviation {
	var out []Deviation
	if got.IsEnabled != want.IsEnabled {
		out = append(out, Deviation{Kind: ToolEnabledMismatch, ToolUUID: want.UUID, Want: want.IsEnabled, Got: got.IsEnabled})
	}
	livePatterns := got.PatternIndex()
	for _, p := range want.Patterns {
		lp, ok := livePatterns[p.ID]
		switch {
		case !ok:
			out = append(out, Deviation{Kind: PatternMissing, ToolUUID: want.UUID, PatternID: p.ID, Want: p.Enabled})
		case lp.Enabled != p.Enabled:
			out = append(out, Deviation{Kind: PatternEnabledMismatch, ToolUUID: want.UUID, PatternID: p.ID, Want: p.Enabled, Got: lp.Enabled})
		}
	}
	return out
}

// Reconcile compares live against baseline and re-pushes every tool that has
// deviations of its own. It returns all deviations found, empty when the
// standard is in sync. Failed corrections do not stop the remaining tools;
// they are returned joined once every tool was processed.
func (r *Reconciler) Reconcile(ctx context.Context, org string, live, baseline *standard.Standard) ([]Deviation, error) {
	if live == nil || baseline == nil {
		return nil, errors.New("both the live standard and the baseline are required")
	}
	log := clog.FromContext(ctx).With("organization", org).With("standard_id", live.ID)

	liveTools := live.ToolIndex()
	var deviations []Deviation
	var errs []error
	for _, want := range baseline.Tools {
		got, ok := liveTools[want.UUID]
		if !ok {
			d := Deviation{Kind: ToolMissing, ToolUUID: want.UUID, Want: want.IsEnabled}
			metrics.DeviationsTotal.WithLabelValues(string(d.Kind)).Inc()
			log.With("tool", want.UUID).Warn("Tool is missing from the live standard, skipping")
			deviations = append(deviations, d)
			continue
		}

		found := compareTool(got, want)
		for _, d := range found {
			metrics.DeviationsTotal.WithLabelValues(string(d.Kind)).Inc()
		}
		deviations = append(deviations, found...)
		if len(found) == 0 {
			continue
		}

		tlog := log.With("tool", want.UUID).With("deviations", len(found))
		if r.dryRun {
			tlog.Info("Dry run, not correcting tool")
			continue
		}
		tlog.Info("Correcting tool")
		err := r.client.UpdateTool(ctx, org, live.ID, want.UUID, want.IsEnabled, codacy.ToPatternUpdates(want.Patterns))
		metrics.ToolUpdatesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			tlog.With("error", err.Error()).Warn("Failed to correct tool, continuing")
			errs = append(errs, fmt.Errorf("correcting tool %s: %w", want.UUID, err))
		}
	}

	if len(deviations) == 0 {
		log.Info("No deviations found")
	}
	return deviations, errors.Join(errs...)
}
