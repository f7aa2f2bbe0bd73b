/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"errors"
	"fmt"
)

// Standard is a coding standard and the tools configured within it.
type Standard struct {
	ID        int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	IsDraft   bool     `json:"isDraft" yaml:"isDraft"`
	IsDefault bool     `json:"isDefault" yaml:"isDefault"`
	Languages []string `json:"languages" yaml:"languages" jsonschema:"required"`
	Meta      *Meta    `json:"meta,omitempty" yaml:"meta,omitempty"`
	Tools     []Tool   `json:"tools" yaml:"tools"`
}

// Meta carries the counters the service reports alongside a standard.
type Meta struct {
	EnabledToolsCount       int `json:"enabledToolsCount" yaml:"enabledToolsCount"`
	EnabledPatternsCount    int `json:"enabledPatternsCount" yaml:"enabledPatternsCount"`
	LinkedRepositoriesCount int `json:"linkedRepositoriesCount" yaml:"linkedRepositoriesCount"`
}

// Tool is one analysis engine within a Standard, toggled as a unit.
type Tool struct {
	UUID      string    `json:"uuid" yaml:"uuid" jsonschema:"required"`
	IsEnabled bool      `json:"isEnabled" yaml:"isEnabled"`
	Patterns  []Pattern `json:"patterns" yaml:"patterns"`
}

// Pattern is one rule within a Tool.
type Pattern struct {
	ID         string         `json:"id" yaml:"id" jsonschema:"required"`
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Tool returns the tool with the given uuid, or nil.
func (s *Standard) Tool(uuid string) *Tool {
	for i := range s.Tools {
		if s.Tools[i].UUID == uuid {
			return &s.Tools[i]
		}
	}
	return nil
}

// Pattern returns the pattern with the given id, or nil.
func (t *Tool) Pattern(id string) *Pattern {
	for i := range t.Patterns {
		if t.Patterns[i].ID == id {
			return &t.Patterns[i]
		}
	}
	return nil
}

// EnabledPatterns returns the patterns whose Enabled flag is set, in order.
func (t *Tool) EnabledPatterns() []Pattern {
	out := make([]Pattern, 0, len(t.Patterns))
	for _, p := range t.Patterns {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// PatternIndex maps pattern ids to patterns.
func (t *Tool) PatternIndex() map[string]Pattern {
	idx := make(map[string]Pattern, len(t.Patterns))
	for _, p := range t.Patterns {
		idx[p.ID] = p
	}
	return idx
}

// ToolIndex maps tool uuids to tools.
func (s *Standard) ToolIndex() map[string]Tool {
	idx := make(map[string]Tool, len(s.Tools))
	for _, t := range s.Tools {
		idx[t.UUID] = t
	}
	return idx
}

// Validate checks the identity invariants of the tree: tool uuids are unique within
// the standard and pattern ids are unique within each tool.
func (s *Standard) Validate() error {
	var errs []error
	tools := make(map[string]struct{}, len(s.Tools))
	for i, t := range s.Tools {
		if t.UUID == "" {
			errs = append(errs, fmt.Errorf("tools[%d]: uuid is required", i))
			continue
		}
		if _, dup := tools[t.UUID]; dup {
			errs = append(errs, fmt.Errorf("tools[%d]: duplicate tool uuid %q", i, t.UUID))
		}
		tools[t.UUID] = struct{}{}

		patterns := make(map[string]struct{}, len(t.Patterns))
		for j, p := range t.Patterns {
			if p.ID == "" {
				errs = append(errs, fmt.Errorf("tools[%d].patterns[%d]: id is required", i, j))
				continue
			}
			if _, dup := patterns[p.ID]; dup {
				errs = append(errs, fmt.Errorf("tool %q: duplicate pattern id %q", t.UUID, p.ID))
			}
			patterns[p.ID] = struct{}{}
		}
	}
	return errors.Join(errs...)
}

// EnabledSubset returns a copy holding only enabled tools and, within them, only
// enabled patterns. This is the portable form written by extraction.
func (s *Standard) EnabledSubset() *Standard {
	out := *s
	out.Languages = append([]string(nil), s.Languages...)
	out.Tools = make([]Tool, 0, len(s.Tools))
	for _, t := range s.Tools {
		if !t.IsEnabled {
			continue
		}
		out.Tools = append(out.Tools, Tool{
			UUID:      t.UUID,
			IsEnabled: true,
			Patterns:  t.EnabledPatterns(),
		})
	}
	return &out
}
