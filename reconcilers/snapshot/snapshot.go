/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package snapshot reads the live tree of a coding standard: the standard, its
// tools, and every pattern of each tool.
package snapshot

import (
	"context"

	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
)

// Client is the subset of the remote client a snapshot needs.
type Client interface {
	GetStandard(ctx context.Context, org string, id int64) (*standard.Standard, error)
	ListTools(ctx context.Context, org string, id int64) ([]standard.Tool, error)
	ListPatterns(ctx context.Context, org string, id int64, toolUUID string) ([]standard.Pattern, error)
}

// Snapshotter fetches live standards.
type Snapshotter struct {
	client Client
}

// New constructs a Snapshotter.
func New(client Client) *Snapshotter {
	return &Snapshotter{client: client}
}

// Fetch returns the complete live tree of standard id.
func (s *Snapshotter) Fetch(ctx context.Context, org string, id int64) (*standard.Standard, error) {
	return s.fetch(ctx, org, id, false)
}

// Extract returns the portable form of standard id: only enabled tools, and
// within them only enabled patterns. Patterns of disabled tools are not fetched.
func (s *Snapshotter) Extract(ctx context.Context, org string, id int64) (*standard.Standard, error) {
	st, err := s.fetch(ctx, org, id, true)
	if err != nil {
		return nil, err
	}
	return st.EnabledSubset(), nil
}

func (s *Snapshotter) fetch(ctx context.Context, org string, id int64, enabledOnly bool) (*standard.Standard, error) {
	st, err := s.client.GetStandard(ctx, org, id)
	if err != nil {
		return nil, err
	}
	tools, err := s.client.ListTools(ctx, org, id)
	if err != nil {
		return nil, err
	}

	patterns := 0
	for i := range tools {
		if enabledOnly && !tools[i].IsEnabled {
			continue
		}
		ps, err := s.client.ListPatterns(ctx, org, id, tools[i].UUID)
		if err != nil {
			return nil, err
		}
		tools[i].Patterns = ps
		patterns += len(ps)
	}
	st.Tools = tools

	clog.FromContext(ctx).With("standard_id", id).
		With("tools", len(tools)).
		With("patterns", patterns).
		Info("Fetched coding standard")
	return st, nil
}
