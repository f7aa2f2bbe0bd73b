/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Parameter is the name/value form of a pattern parameter used on the wire.
type Parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ParameterList flattens a parameter map into name/value pairs sorted by name.
func ParameterList(params map[string]any) []Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]Parameter, 0, len(params))
	for name, value := range params {
		out = append(out, Parameter{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParameterMap folds name/value pairs into a map. Later duplicates win.
func ParameterMap(params []Parameter) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for _, p := range params {
		out[p.Name] = p.Value
	}
	return out
}

// UnmarshalJSON accepts both the native pattern shape and the legacy extractor
// shape ({"patternDefinition": {"id": ...}, "parameters": [{"name", "value"}]}).
func (p *Pattern) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID                string          `json:"id"`
		Enabled           bool            `json:"enabled"`
		Parameters        json.RawMessage `json:"parameters"`
		PatternDefinition *struct {
			ID string `json:"id"`
		} `json:"patternDefinition"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id == "" && raw.PatternDefinition != nil {
		id = raw.PatternDefinition.ID
	}
	params, err := decodeParameters(raw.Parameters)
	if err != nil {
		return fmt.Errorf("pattern %q: %w", id, err)
	}

	*p = Pattern{ID: id, Enabled: raw.Enabled, Parameters: params}
	return nil
}

func decodeParameters(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '{':
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decoding parameters: %w", err)
		}
		if len(m) == 0 {
			return nil, nil
		}
		return m, nil
	case '[':
		var list []Parameter
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding parameter list: %w", err)
		}
		return ParameterMap(list), nil
	default:
		return nil, fmt.Errorf("parameters must be an object or a list, got %s", raw)
	}
}
