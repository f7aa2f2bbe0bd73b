/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigurationError reports a problem with local configuration: a missing
// credential or a baseline file that cannot be read or parsed. It is always fatal.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and validates a baseline from path.
func Load(path string) (*Standard, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	s, err := Decode(b, isYAML(path))
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return s, nil
}

// Decode parses a baseline document and validates its identity invariants.
func Decode(b []byte, asYAML bool) (*Standard, error) {
	var s Standard
	if asYAML {
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(b))
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode renders s as two-space indented JSON (or YAML), terminated by a newline.
func Encode(s *Standard, asYAML bool) ([]byte, error) {
	if asYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(b, '\n'), nil
}

// Save writes s to path, choosing the format from the file extension.
func Save(path string, s *Standard) error {
	b, err := Encode(s, isYAML(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FileName derives the conventional output file name for a standard, e.g.
// "Security Baseline" with suffix "standard" becomes "security_baseline_standard.json".
func FileName(name, suffix string) string {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	if base == "" {
		base = "coding_standard"
	}
	return base + "_" + suffix + ".json"
}
