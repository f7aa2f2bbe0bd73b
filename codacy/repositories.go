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
)

// RepositoryPage is one page of an organization's repositories.
type RepositoryPage struct {
	Names []string
	// NextCursor is empty on the final page.
	NextCursor string
}

// ListRepositories returns the page of repositories starting at cursor. An empty
// cursor requests the first page.
func (c *Client) ListRepositories(ctx context.Context, org, cursor string) (*RepositoryPage, error) {
	query := url.Values{"limit": {strconv.Itoa(pageLimit)}}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var resp envelope[[]wireRepository]
	if err := c.do(ctx, http.MethodGet, c.orgURL(org, query, "repositories"), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	page := &RepositoryPage{Names: make([]string, 0, len(resp.Data))}
	for _, r := range resp.Data {
		page.Names = append(page.Names, r.Name)
	}
	if resp.Pagination != nil && resp.Pagination.Cursor != cursor {
		page.NextCursor = resp.Pagination.Cursor
	}
	return page, nil
}

// LinkRepositories applies standard id to the named repositories. Nothing is unlinked.
func (c *Client) LinkRepositories(ctx context.Context, org string, id int64, names []string) error {
	target := c.orgURL(org, nil, "coding-standards", idString(id), "repositories")
	if err := c.do(ctx, http.MethodPatch, target, linkRequest{Link: names, Unlink: []string{}}, nil); err != nil {
		return fmt.Errorf("linking %d repositories: %w", len(names), err)
	}
	return nil
}
