/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Standard {
	return &Standard{
		ID:        42,
		Name:      "Security Baseline",
		Languages: []string{"Go", "Python"},
		Tools: []Tool{{
			UUID:      "t1",
			IsEnabled: true,
			Patterns: []Pattern{
				{ID: "p1", Enabled: true, Parameters: map[string]any{"max": "80"}},
				{ID: "p2", Enabled: false},
			},
		}, {
			UUID:      "t2",
			IsEnabled: false,
			Patterns:  []Pattern{{ID: "p3", Enabled: true}},
		}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Standard
		wantErr string
	}{{
		name: "valid",
		s:    *sample(),
	}, {
		name:    "duplicate tool",
		s:       Standard{Tools: []Tool{{UUID: "a"}, {UUID: "a"}}},
		wantErr: `duplicate tool uuid "a"`,
	}, {
		name:    "duplicate pattern",
		s:       Standard{Tools: []Tool{{UUID: "a", Patterns: []Pattern{{ID: "x"}, {ID: "x"}}}}},
		wantErr: `duplicate pattern id "x"`,
	}, {
		name:    "missing uuid",
		s:       Standard{Tools: []Tool{{}}},
		wantErr: "uuid is required",
	}, {
		name:    "missing pattern id",
		s:       Standard{Tools: []Tool{{UUID: "a", Patterns: []Pattern{{}}}}},
		wantErr: "id is required",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: got = %v, wanted = nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate: got = %v, wanted error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnabledSubset(t *testing.T) {
	s := sample()
	got := s.EnabledSubset()

	want := &Standard{
		ID:        42,
		Name:      "Security Baseline",
		Languages: []string{"Go", "Python"},
		Tools: []Tool{{
			UUID:      "t1",
			IsEnabled: true,
			Patterns:  []Pattern{{ID: "p1", Enabled: true, Parameters: map[string]any{"max": "80"}}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EnabledSubset (-want +got):\n%s", diff)
	}

	// The source tree is left untouched.
	if diff := cmp.Diff(sample(), s); diff != "" {
		t.Errorf("source mutated (-want +got):\n%s", diff)
	}
}

func TestLookups(t *testing.T) {
	s := sample()
	if got := s.Tool("t2"); got == nil || got.UUID != "t2" {
		t.Errorf("Tool(t2): got = %v, wanted t2", got)
	}
	if got := s.Tool("nope"); got != nil {
		t.Errorf("Tool(nope): got = %v, wanted nil", got)
	}
	if got := s.Tools[0].Pattern("p2"); got == nil || got.Enabled {
		t.Errorf("Pattern(p2): got = %v, wanted disabled p2", got)
	}
	if got, want := len(s.Tools[0].EnabledPatterns()), 1; got != want {
		t.Errorf("EnabledPatterns: got = %d, wanted = %d", got, want)
	}
}

func TestPatternLegacyShape(t *testing.T) {
	in := `{
	  "patternDefinition": {"id": "Go_Lint", "title": "lint"},
	  "enabled": true,
	  "isRecommended": false,
	  "parameters": [{"name": "max", "value": "120"}, {"name": "style", "value": "strict"}]
	}`
	var got Pattern
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Pattern{ID: "Go_Lint", Enabled: true, Parameters: map[string]any{"max": "120", "style": "strict"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("legacy pattern (-want +got):\n%s", diff)
	}
}

func TestPatternNativeShape(t *testing.T) {
	var got Pattern
	if err := json.Unmarshal([]byte(`{"id":"a","enabled":false,"parameters":{"n":3}}`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Pattern{ID: "a", Parameters: map[string]any{"n": float64(3)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("native pattern (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"id":"a","parameters":"nope"}`), &got); err == nil {
		t.Error("scalar parameters: got = nil, wanted = error")
	}
}

func TestParameterList(t *testing.T) {
	got := ParameterList(map[string]any{"b": 2, "a": 1})
	want := []Parameter{{Name: "a", Value: 1}, {Name: "b", Value: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParameterList (-want +got):\n%s", diff)
	}
	if got := ParameterList(nil); got != nil {
		t.Errorf("ParameterList(nil): got = %v, wanted nil", got)
	}
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := Save(path, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"name\": \"Security Baseline\"") {
		t.Errorf("expected two-space indentation, got:\n%s", raw)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.yaml")
	if err := Save(path, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	var cfgErr *ConfigurationError
	if !asConfigurationError(err, &cfgErr) {
		t.Fatalf("missing file: got = %v, wanted *ConfigurationError", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !asConfigurationError(err, &cfgErr) {
		t.Errorf("bad json: got = %v, wanted *ConfigurationError", err)
	}

	dup := filepath.Join(dir, "dup.json")
	if err := os.WriteFile(dup, []byte(`{"languages":[],"tools":[{"uuid":"a"},{"uuid":"a"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dup); !asConfigurationError(err, &cfgErr) {
		t.Errorf("duplicate tools: got = %v, wanted *ConfigurationError", err)
	}
}

func asConfigurationError(err error, target **ConfigurationError) bool {
	ce, ok := err.(*ConfigurationError)
	if ok {
		*target = ce
	}
	return ok
}

func TestFileName(t *testing.T) {
	if got, want := FileName("Security Baseline", "standard"), "security_baseline_standard.json"; got != want {
		t.Errorf("FileName: got = %q, wanted = %q", got, want)
	}
	if got, want := FileName("  ", "result"), "coding_standard_result.json"; got != want {
		t.Errorf("FileName: got = %q, wanted = %q", got, want)
	}
}

func TestSchema(t *testing.T) {
	b, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	for _, want := range []string{`"$id": "` + SchemaID + `"`, `"uuid"`, `"isEnabled"`, `"patterns"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("schema missing %s", want)
		}
	}
}
