/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codacy

import (
	"chainguard.dev/codestandard/standard"
)

// The service wraps every payload in {"data": ..., "pagination": ...}.
type envelope[T any] struct {
	Data       T           `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Total  int    `json:"total,omitempty"`
	// Next is a ready-made link to the following page, when the endpoint provides one.
	Next string `json:"next,omitempty"`
}

type wireStandard struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	IsDraft   bool           `json:"isDraft"`
	IsDefault bool           `json:"isDefault"`
	Languages []string       `json:"languages"`
	Meta      *standard.Meta `json:"meta,omitempty"`
}

func (w wireStandard) toStandard() *standard.Standard {
	return &standard.Standard{
		ID:        w.ID,
		Name:      w.Name,
		IsDraft:   w.IsDraft,
		IsDefault: w.IsDefault,
		Languages: w.Languages,
		Meta:      w.Meta,
	}
}

type wireTool struct {
	UUID             string `json:"uuid"`
	IsEnabled        bool   `json:"isEnabled"`
	CodingStandardID int64  `json:"codingStandardId,omitempty"`
}

type patternDefinition struct {
	ID string `json:"id"`
}

type wirePattern struct {
	PatternDefinition patternDefinition    `json:"patternDefinition"`
	Enabled           bool                 `json:"enabled"`
	Parameters        []standard.Parameter `json:"parameters,omitempty"`
}

func (w wirePattern) toPattern() standard.Pattern {
	return standard.Pattern{
		ID:         w.PatternDefinition.ID,
		Enabled:    w.Enabled,
		Parameters: standard.ParameterMap(w.Parameters),
	}
}

type createStandardRequest struct {
	Name      string   `json:"name"`
	Languages []string `json:"languages"`
}

// PatternUpdate is one entry of a tool update. Parameters are omitted when empty.
type PatternUpdate struct {
	ID         string               `json:"id"`
	Enabled    bool                 `json:"enabled"`
	Parameters []standard.Parameter `json:"parameters,omitempty"`
}

// ToPatternUpdates converts patterns into update entries, preserving order.
func ToPatternUpdates(patterns []standard.Pattern) []PatternUpdate {
	out := make([]PatternUpdate, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, PatternUpdate{
			ID:         p.ID,
			Enabled:    p.Enabled,
			Parameters: standard.ParameterList(p.Parameters),
		})
	}
	return out
}

type toolUpdateRequest struct {
	Enabled  bool            `json:"enabled"`
	Patterns []PatternUpdate `json:"patterns"`
}

type linkRequest struct {
	Link   []string `json:"link"`
	Unlink []string `json:"unlink"`
}

type wireRepository struct {
	Name string `json:"name"`
}
