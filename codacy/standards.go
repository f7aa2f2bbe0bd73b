/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codacy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"chainguard.dev/codestandard/standard"
)

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// CreateStandard creates a draft coding standard covering languages.
func (c *Client) CreateStandard(ctx context.Context, org, name string, languages []string) (*standard.Standard, error) {
	if languages == nil {
		languages = []string{}
	}
	var resp envelope[wireStandard]
	target := c.orgURL(org, nil, "coding-standards")
	if err := c.do(ctx, http.MethodPost, target, createStandardRequest{Name: name, Languages: languages}, &resp); err != nil {
		return nil, fmt.Errorf("creating coding standard %q: %w", name, err)
	}
	if resp.Data.ID == 0 {
		return nil, errors.New("creating coding standard: response carried no id")
	}
	return resp.Data.toStandard(), nil
}

// ListStandards returns every coding standard of org, drafts included.
func (c *Client) ListStandards(ctx context.Context, org string) ([]standard.Standard, error) {
	var resp envelope[[]wireStandard]
	if err := c.do(ctx, http.MethodGet, c.orgURL(org, nil, "coding-standards"), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing coding standards: %w", err)
	}
	out := make([]standard.Standard, 0, len(resp.Data))
	for _, w := range resp.Data {
		out = append(out, *w.toStandard())
	}
	return out, nil
}

// GetStandard fetches one coding standard without its tools.
func (c *Client) GetStandard(ctx context.Context, org string, id int64) (*standard.Standard, error) {
	var resp envelope[wireStandard]
	if err := c.do(ctx, http.MethodGet, c.orgURL(org, nil, "coding-standards", idString(id)), nil, &resp); err != nil {
		return nil, fmt.Errorf("getting coding standard %d: %w", id, err)
	}
	return resp.Data.toStandard(), nil
}

// PromoteStandard turns a draft standard into the active one. It cannot be undone.
// An empty response body is tolerated.
func (c *Client) PromoteStandard(ctx context.Context, org string, id int64) (*standard.Standard, error) {
	var resp envelope[*wireStandard]
	if err := c.do(ctx, http.MethodPost, c.orgURL(org, nil, "coding-standards", idString(id), "promote"), nil, &resp); err != nil {
		return nil, fmt.Errorf("promoting coding standard %d: %w", id, err)
	}
	if resp.Data == nil {
		return &standard.Standard{ID: id}, nil
	}
	return resp.Data.toStandard(), nil
}
