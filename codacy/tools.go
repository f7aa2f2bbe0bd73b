/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codacy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
)

// pageLimit is the page size requested from paginated endpoints.
const pageLimit = 100

// ListTools returns the tools of a standard. Patterns are not included.
func (c *Client) ListTools(ctx context.Context, org string, id int64) ([]standard.Tool, error) {
	var resp envelope[[]wireTool]
	if err := c.do(ctx, http.MethodGet, c.orgURL(org, nil, "coding-standards", idString(id), "tools"), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing tools of coding standard %d: %w", id, err)
	}
	out := make([]standard.Tool, 0, len(resp.Data))
	for _, w := range resp.Data {
		out = append(out, standard.Tool{UUID: w.UUID, IsEnabled: w.IsEnabled})
	}
	return out, nil
}

// ListPatterns returns every pattern of a tool, following pagination until the
// service reports no further page. A cursor seen twice ends the walk.
func (c *Client) ListPatterns(ctx context.Context, org string, id int64, toolUUID string) ([]standard.Pattern, error) {
	log := clog.FromContext(ctx).With("tool", toolUUID)

	query := url.Values{"limit": {strconv.Itoa(pageLimit)}}
	target := c.orgURL(org, query, "coding-standards", idString(id), "tools", toolUUID, "patterns")
	seen := map[string]struct{}{}

	var out []standard.Pattern
	for page := 1; target != ""; page++ {
		var resp envelope[[]wirePattern]
		if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
			return nil, fmt.Errorf("listing patterns of tool %s (page %d): %w", toolUUID, page, err)
		}
		for _, w := range resp.Data {
			if w.PatternDefinition.ID == "" {
				continue
			}
			out = append(out, w.toPattern())
		}

		next, err := nextPage(target, resp.Pagination, seen)
		if err != nil {
			return nil, fmt.Errorf("listing patterns of tool %s: %w", toolUUID, err)
		}
		target = next
	}
	log.With("count", len(out)).Debug("Listed patterns")
	return out, nil
}

// nextPage computes the URL of the page following current, or "" when done.
// A next link takes precedence over a cursor.
func nextPage(current string, p *pagination, seen map[string]struct{}) (string, error) {
	if p == nil {
		return "", nil
	}
	if p.Next != "" {
		if _, dup := seen["next:"+p.Next]; dup {
			return "", nil
		}
		seen["next:"+p.Next] = struct{}{}
		base, err := url.Parse(current)
		if err != nil {
			return "", err
		}
		ref, err := url.Parse(p.Next)
		if err != nil {
			return "", fmt.Errorf("parsing next link %q: %w", p.Next, err)
		}
		return base.ResolveReference(ref).String(), nil
	}
	if p.Cursor == "" {
		return "", nil
	}
	if _, dup := seen["cursor:"+p.Cursor]; dup {
		return "", nil
	}
	seen["cursor:"+p.Cursor] = struct{}{}

	u, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("cursor", p.Cursor)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// UpdateTool sets the enabled state of a tool and the given patterns. Patterns
// not listed are left as they are. An empty response body is success.
func (c *Client) UpdateTool(ctx context.Context, org string, id int64, toolUUID string, enabled bool, patterns []PatternUpdate) error {
	if patterns == nil {
		patterns = []PatternUpdate{}
	}
	target := c.orgURL(org, nil, "coding-standards", idString(id), "tools", toolUUID)
	if err := c.do(ctx, http.MethodPatch, target, toolUpdateRequest{Enabled: enabled, Patterns: patterns}, nil); err != nil {
		return fmt.Errorf("updating tool %s: %w", toolUUID, err)
	}
	return nil
}
