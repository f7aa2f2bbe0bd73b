/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package builder

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/metrics"
	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
)

// Client is the subset of the remote client a build needs.
type Client interface {
	CreateStandard(ctx context.Context, org, name string, languages []string) (*standard.Standard, error)
	ListTools(ctx context.Context, org string, id int64) ([]standard.Tool, error)
	ListPatterns(ctx context.Context, org string, id int64, toolUUID string) ([]standard.Pattern, error)
	UpdateTool(ctx context.Context, org string, id int64, toolUUID string, enabled bool, patterns []codacy.PatternUpdate) error
	PromoteStandard(ctx context.Context, org string, id int64) (*standard.Standard, error)
}

// Builder creates standards from baselines.
type Builder struct {
	client  Client
	promote bool
}

// New constructs a Builder with the provided options.
func New(client Client, opts ...Option) *Builder {
	b := &Builder{client: client, promote: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ToolFailure records a baseline tool that could not be configured.
type ToolFailure struct {
	ToolUUID string
	Err      error
}

// Result describes a completed build.
type Result struct {
	// Standard is the created standard, updated with the promotion outcome.
	Standard *standard.Standard
	// ToolFailures lists the baseline tools that could not be configured.
	ToolFailures []ToolFailure
	// Promoted reports whether the standard is now active.
	Promoted bool
	// PromotionErr is set when promotion was attempted and failed.
	PromotionErr error
}

// Err joins every contained failure, or returns nil for a clean build.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.ToolFailures)+1)
	for _, f := range r.ToolFailures {
		errs = append(errs, fmt.Errorf("tool %s: %w", f.ToolUUID, f.Err))
	}
	if r.PromotionErr != nil {
		errs = append(errs, r.PromotionErr)
	}
	return errors.Join(errs...)
}

// Build creates a standard named name in org and configures it from cfg.
// The returned error is set only when the build could not reach a
// deterministic state; contained failures are reported in the Result.
func (b *Builder) Build(ctx context.Context, org, name string, cfg *standard.Standard) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("no baseline configured")
	}
	log := clog.FromContext(ctx).With("organization", org).With("standard", name)

	created, err := b.client.CreateStandard(ctx, org, name, cfg.Languages)
	if err != nil {
		return nil, err
	}
	id := created.ID
	log = log.With("standard_id", id)
	log.Info("Created coding standard")

	if err := b.disableAll(ctx, org, id); err != nil {
		return nil, err
	}

	res := &Result{Standard: created}
	for _, tool := range cfg.Tools {
		err := b.client.UpdateTool(ctx, org, id, tool.UUID, tool.IsEnabled, codacy.ToPatternUpdates(tool.EnabledPatterns()))
		metrics.ToolUpdatesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			log.With("tool", tool.UUID).With("error", err.Error()).Warn("Failed to configure tool, continuing")
			res.ToolFailures = append(res.ToolFailures, ToolFailure{ToolUUID: tool.UUID, Err: err})
			continue
		}
		log.With("tool", tool.UUID).With("enabled", tool.IsEnabled).Debug("Configured tool")
	}

	if !b.promote {
		log.Info("Leaving coding standard as a draft")
		return res, nil
	}

	promoted, err := b.client.PromoteStandard(ctx, org, id)
	if err != nil {
		log.With("error", err.Error()).Warn("Failed to promote coding standard, it remains a draft")
		res.PromotionErr = err
		return res, nil
	}
	res.Promoted = true
	res.Standard.IsDraft = false
	res.Standard.IsDefault = promoted.IsDefault
	if promoted.Meta != nil {
		res.Standard.Meta = promoted.Meta
	}
	log.Info("Promoted coding standard")
	return res, nil
}

// disableAll turns off every tool of the new standard and every pattern of
// each tool. It never enables anything.
func (b *Builder) disableAll(ctx context.Context, org string, id int64) error {
	tools, err := b.client.ListTools(ctx, org, id)
	if err != nil {
		return err
	}
	for _, tool := range tools {
		patterns, err := b.client.ListPatterns(ctx, org, id, tool.UUID)
		if err != nil {
			return err
		}
		off := make([]codacy.PatternUpdate, 0, len(patterns))
		for _, p := range patterns {
			off = append(off, codacy.PatternUpdate{ID: p.ID, Enabled: false})
		}
		err = b.client.UpdateTool(ctx, org, id, tool.UUID, false, off)
		metrics.ToolUpdatesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			return fmt.Errorf("disabling tool %s: %w", tool.UUID, err)
		}
	}
	clog.FromContext(ctx).With("standard_id", id).With("tools", len(tools)).Info("Disabled all tools and patterns")
	return nil
}
